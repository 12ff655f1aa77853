package output

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/CodMac/go-treesitter-gii/errx"
)

// 差异上下文行数
const diffContext = 3

// UnifiedDiff 渲染文件修改前后的统一差异，没有变化时为空串
func UnifiedDiff(id, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + id,
		ToFile:   "b/" + id,
		Context:  diffContext,
	})
	if err != nil {
		return "", errx.ErrInternal.WithMsg("生成差异失败").WithCause(err)
	}
	return text, nil
}

// splitLines 按行切分并保留换行符，末行缺少换行时补上
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += "\n"
	return lines
}
