package typescript_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
	"github.com/CodMac/go-treesitter-gii/store"
	"github.com/CodMac/go-treesitter-gii/x/typescript" // 触发 init() 注册
)

const memRoot = "/project"

// getTestProject 以 testdata 为项目根目录
func getTestProject(t *testing.T) *core.ProjectContext {
	root, err := filepath.Abs("testdata")
	require.NoError(t, err)
	return core.NewProjectContext(&model.Project{Name: "test", Path: root}, store.NewDiskStore())
}

// openFile 读取项目文件并准备解析上下文
func openFile(t *testing.T, pc *core.ProjectContext, id string) (*core.FileContext, *parser.Document) {
	file, err := pc.Load(id)
	require.NoError(t, err)

	fc, err := core.NewFileContext(pc, file)
	require.NoError(t, err)

	doc, err := typescript.OpenDocument(file)
	require.NoError(t, err)
	t.Cleanup(doc.Close)
	return fc, doc
}

// memFile 在内存项目中打开 id，others 为项目中存在的其他文件
func memFile(t *testing.T, id, code string, others ...string) (*core.FileContext, *parser.Document) {
	st := store.NewMemStore()
	st.Put(memRoot, id, code)
	for _, other := range others {
		st.Put(memRoot, other, "")
	}
	pc := core.NewProjectContext(&model.Project{Name: "test", Path: memRoot}, st)
	return openFile(t, pc, id)
}

func view(t *testing.T, fc *core.FileContext, doc *parser.Document) *parser.View {
	v, err := doc.View()
	require.NoError(t, err)
	typescript.Prepare(fc, v)
	return v
}
