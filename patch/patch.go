package patch

import (
	"sort"
	"strings"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
)

// Apply 按起始位置升序一次性应用所有片段。
// 片段坐标都基于 code 的原始版本，区间不能重叠。
func Apply(code string, fragments []model.Fragment) (string, error) {
	if len(fragments) == 0 {
		return code, nil
	}

	sorted := make([]model.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var b strings.Builder
	b.Grow(len(code) + sizeDelta(sorted))

	prevEnd := 0
	for i, f := range sorted {
		if f.Start < 0 || f.End > len(code) || f.Start > f.End {
			return "", errx.ErrFragmentRange.WithDataMap(map[string]any{
				"start": f.Start, "end": f.End, "size": len(code),
			})
		}
		if i > 0 && f.Start < prevEnd {
			return "", errx.ErrFragmentOverlap.WithDataMap(map[string]any{
				"start": f.Start, "prevEnd": prevEnd,
			})
		}

		b.WriteString(code[prevEnd:f.Start])
		b.WriteString(f.Replacement)
		prevEnd = f.End
	}
	b.WriteString(code[prevEnd:])

	return b.String(), nil
}

// MustApply 用于片段来自同一视图、不可能非法的场景
func MustApply(code string, fragments []model.Fragment) string {
	out, err := Apply(code, fragments)
	if err != nil {
		panic(err)
	}
	return out
}

func sizeDelta(fragments []model.Fragment) int {
	delta := 0
	for _, f := range fragments {
		delta += len(f.Replacement) - (f.End - f.Start)
	}
	if delta < 0 {
		return 0
	}
	return delta
}
