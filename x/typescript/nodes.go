package typescript

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/parser"
)

func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	result := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		result = append(result, n.Child(uint(i)))
	}
	return result
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	result := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		result = append(result, n.NamedChild(uint(i)))
	}
	return result
}

func findChildOfKind(n *sitter.Node, kinds ...string) *sitter.Node {
	for _, child := range children(n) {
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

func hasChildKind(n *sitter.Node, kind string) bool {
	return findChildOfKind(n, kind) != nil
}

func isComment(n *sitter.Node) bool {
	return n != nil && n.Kind() == "comment"
}

func start(n *sitter.Node) int { return int(n.StartByte()) }

func end(n *sitter.Node) int { return int(n.EndByte()) }

// lineStart 返回 pos 所在行的行首
func lineStart(code []byte, pos int) int {
	for pos > 0 && code[pos-1] != '\n' {
		pos--
	}
	return pos
}

// onlySpaceBefore 判断 pos 之前到行首只有空白
func onlySpaceBefore(code []byte, pos int) bool {
	for i := pos - 1; i >= 0 && code[i] != '\n'; i-- {
		if code[i] != ' ' && code[i] != '\t' {
			return false
		}
	}
	return true
}

// lineEndAfter pos 之后到行尾只有空白时返回换行符之后的位置，否则返回 pos
func lineEndAfter(code []byte, pos int) int {
	for i := pos; i < len(code); i++ {
		switch code[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return i + 1
		default:
			return pos
		}
	}
	return len(code)
}

// newlinesBetween 统计 [from, to) 中的换行数
func newlinesBetween(code []byte, from, to int) int {
	return strings.Count(string(code[from:to]), "\n")
}

// leadingComments 返回紧贴在节点之上、独占一行的注释的起点；没有时返回节点起点
func leadingComments(v *parser.View, n *sitter.Node, from int) int {
	code := v.Source()
	pos := from
	for prev := n.PrevSibling(); isComment(prev); prev = prev.PrevSibling() {
		if end(prev) > pos || newlinesBetween(code, end(prev), pos) > 1 || !onlySpaceBefore(code, start(prev)) {
			break
		}
		pos = start(prev)
	}
	return pos
}

// skipSpace 返回 pos 之后第一个非空白字符的位置
func skipSpace(code []byte, pos int) int {
	for pos < len(code) && strings.ContainsRune(" \t\r\n", rune(code[pos])) {
		pos++
	}
	return pos
}

func trimIndent(s string) string {
	return strings.TrimLeft(s, " \t")
}
