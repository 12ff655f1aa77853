package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/patch"
)

// Document 持有一份可变源码及其版本号。
// 任何修改都会产生新版本，旧版本上得到的 View 随之失效。
type Document struct {
	parser  *TreeSitterParser
	code    string
	version int
	view    *View
}

// View 是某一版本源码的语法树，只在该版本内可读
type View struct {
	doc     *Document
	version int
	code    []byte
	tree    *sitter.Tree
}

// NewDocument 创建文档，文档独占一个解析器
func NewDocument(lang model.Language, code string) (*Document, error) {
	p, err := NewParser(lang)
	if err != nil {
		return nil, err
	}
	return &Document{parser: p, code: code}, nil
}

func (d *Document) Code() string { return d.code }

func (d *Document) Version() int { return d.version }

// View 返回当前版本的语法视图，同一版本重复调用返回同一个视图
func (d *Document) View() (*View, error) {
	if d.view != nil && d.view.version == d.version {
		return d.view, nil
	}

	code := []byte(d.code)
	tree, err := d.parser.Parse(code)
	if err != nil {
		return nil, errx.ErrParse.WithCause(err)
	}

	d.view = &View{doc: d, version: d.version, code: code, tree: tree}
	return d.view, nil
}

// Apply 把基于视图 v 计算的片段应用到文档。v 必须是当前版本。
func (d *Document) Apply(v *View, fragments []model.Fragment) error {
	if v == nil || v.doc != d || v.Stale() {
		return errx.ErrStaleView
	}
	if len(fragments) == 0 {
		return nil
	}

	code, err := patch.Apply(d.code, fragments)
	if err != nil {
		return err
	}
	d.advance(code)
	return nil
}

// Replace 整体替换文本
func (d *Document) Replace(code string) {
	if code == d.code {
		return
	}
	d.advance(code)
}

func (d *Document) advance(code string) {
	d.code = code
	d.version++
	if d.view != nil {
		d.view.tree.Close()
		d.view = nil
	}
}

// Close 释放语法树与解析器
func (d *Document) Close() {
	if d.view != nil {
		d.view.tree.Close()
		d.view = nil
	}
	d.parser.Close()
}

// Stale 文档已前进到新版本
func (v *View) Stale() bool {
	return v.version != v.doc.version
}

// Root 返回语法树根节点。过期视图的树已经释放，读取属于调用方逻辑错误。
func (v *View) Root() *sitter.Node {
	if v.Stale() {
		panic(errx.ErrStaleView)
	}
	return v.tree.RootNode()
}

// Source 返回该版本的源码字节
func (v *View) Source() []byte { return v.code }

// Code 返回该版本的源码
func (v *View) Code() string { return string(v.code) }

// Text 返回节点对应的源码
func (v *View) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(v.code[n.StartByte():n.EndByte()])
}
