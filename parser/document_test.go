package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
)

func init() {
	model.RegisterLanguage(model.LangTypeScript, sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()))
}

func TestParserParse(t *testing.T) {
	p, err := NewParser(model.LangTypeScript)
	require.NoError(t, err)
	defer p.Close()

	tree, err := p.Parse([]byte("export class A {}\n"))
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.Equal(t, "export_statement", root.NamedChild(0).Kind())
}

func TestNewParserUnknownLanguage(t *testing.T) {
	_, err := NewParser(model.Language("cobol"))
	assert.Error(t, err)
}

func TestDocumentVersions(t *testing.T) {
	doc, err := NewDocument(model.LangTypeScript, "const a = 1;\n")
	require.NoError(t, err)
	defer doc.Close()

	v1, err := doc.View()
	require.NoError(t, err)

	same, err := doc.View()
	require.NoError(t, err)
	assert.Same(t, v1, same, "同一版本复用视图")

	decl := v1.Root().NamedChild(0)
	assert.Equal(t, "const a = 1;", v1.Text(decl))

	t.Run("空片段不推进版本", func(t *testing.T) {
		require.NoError(t, doc.Apply(v1, nil))
		assert.False(t, v1.Stale())
	})

	require.NoError(t, doc.Apply(v1, []model.Fragment{{Start: 10, End: 11, Replacement: "2"}}))
	assert.Equal(t, "const a = 2;\n", doc.Code())
	assert.Equal(t, 1, doc.Version())
	assert.True(t, v1.Stale())

	t.Run("过期视图不能再应用", func(t *testing.T) {
		err := doc.Apply(v1, []model.Fragment{model.Insert(0, "x")})
		assert.True(t, errors.Is(err, errx.ErrStaleView))
		assert.Equal(t, "const a = 2;\n", doc.Code())
	})

	t.Run("过期视图不能再读取", func(t *testing.T) {
		assert.Panics(t, func() { v1.Root() })
	})

	v2, err := doc.View()
	require.NoError(t, err)
	assert.Equal(t, "const a = 2;", v2.Text(v2.Root().NamedChild(0)))

	doc.Replace("let b;\n")
	assert.True(t, v2.Stale())
	assert.Equal(t, 2, doc.Version())
}

func TestDocumentApplyForeignView(t *testing.T) {
	a, err := NewDocument(model.LangTypeScript, "a;")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewDocument(model.LangTypeScript, "b;")
	require.NoError(t, err)
	defer b.Close()

	vb, err := b.View()
	require.NoError(t, err)
	assert.True(t, errors.Is(a.Apply(vb, []model.Fragment{model.Insert(0, "x")}), errx.ErrStaleView))
}
