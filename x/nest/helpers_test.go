package nest_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/parser"
	"github.com/CodMac/go-treesitter-gii/store"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

// getTestProject 扫描 testdata/nestproject，得到带结构树的项目
func getTestProject(t *testing.T) *core.ProjectContext {
	root, err := filepath.Abs(filepath.Join("testdata", "nestproject"))
	require.NoError(t, err)

	st := store.NewDiskStore()
	project, err := core.ScanProject(root, st)
	require.NoError(t, err)
	return core.NewProjectContext(project, st)
}

// openFile 打开项目文件，文件不存在时得到空文档
func openFile(t *testing.T, pc *core.ProjectContext, id string) (*core.FileContext, *parser.Document) {
	fc, doc, err := typescript.Open(pc, id)
	require.NoError(t, err)
	t.Cleanup(doc.Close)
	return fc, doc
}

// view 返回准备好符号解析的视图
func view(t *testing.T, fc *core.FileContext, doc *parser.Document) *parser.View {
	v, err := doc.View()
	require.NoError(t, err)
	typescript.Prepare(fc, v)
	return v
}
