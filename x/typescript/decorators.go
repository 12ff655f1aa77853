package typescript

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// ParseDecorator 解析 @Name 或 @Name(args)
func ParseDecorator(fc *core.FileContext, v *parser.View, n *sitter.Node) (model.Decorator, error) {
	expr := n.NamedChild(0)
	for expr != nil && isComment(expr) {
		expr = expr.NextNamedSibling()
	}
	if expr == nil {
		return model.Decorator{}, unsupported(fc, v, n)
	}

	var args *sitter.Node
	if expr.Kind() == "call_expression" {
		args = expr.ChildByFieldName("arguments")
		expr = expr.ChildByFieldName("function")
	}

	d := model.Decorator{Name: v.Text(expr)}
	d.OldName = d.Name
	for _, arg := range namedChildren(args) {
		if isComment(arg) {
			continue
		}
		val, err := ParseValue(fc, v, arg)
		if err != nil {
			return model.Decorator{}, err
		}
		d.Arguments = append(d.Arguments, val)
	}
	return d, nil
}

// ParseDecorators 按源码顺序解析一组装饰器节点
func ParseDecorators(fc *core.FileContext, v *parser.View, nodes []*sitter.Node) ([]model.Decorator, error) {
	result := make([]model.Decorator, 0, len(nodes))
	for _, n := range nodes {
		d, err := ParseDecorator(fc, v, n)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// DecoratorsEqual 比较名称与参数，OldName 不参与比较
func DecoratorsEqual(a, b []model.Decorator) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !model.ValuesEqual(a[i].Arguments, b[i].Arguments) {
			return false
		}
	}
	return true
}

// RenderDecorator 渲染单个装饰器，不含首行缩进
func RenderDecorator(d model.Decorator, indent int) string {
	args := make([]string, 0, len(d.Arguments))
	for _, arg := range d.Arguments {
		args = append(args, model.GenerateValue(arg, indent))
	}
	return "@" + d.Name + "(" + strings.Join(args, ", ") + ")"
}

// RenderDecorators 每个装饰器独占一行；inline 时以空格连接
func RenderDecorators(list []model.Decorator, indent int, inline bool) string {
	if len(list) == 0 {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, d := range list {
		parts = append(parts, RenderDecorator(d, indent))
	}
	if inline {
		return strings.Join(parts, " ") + " "
	}
	tab := model.Indent(indent)
	return tab + strings.Join(parts, "\n"+tab) + "\n"
}

// decoratorImports 为引用项目实体的参数收集导入
func decoratorImports(fc *core.FileContext, list []model.Decorator) []model.Import {
	var result []model.Import
	for _, d := range list {
		for _, arg := range d.Arguments {
			result = append(result, valueImports(fc, arg)...)
		}
	}
	return result
}

// valueImports 收集值中引用的项目类
func valueImports(fc *core.FileContext, val model.Value) []model.Import {
	switch val.Kind {
	case model.KindReference:
		if fc == nil || !fc.IsProjectID(val.Ref) || val.Ref == fc.File.ID {
			return nil
		}
		name := referencedName(val.Text)
		if name == "" {
			return nil
		}
		return []model.Import{ImportWithName(val.Ref, name)}
	case model.KindObject:
		var result []model.Import
		for _, e := range val.Entries {
			result = append(result, valueImports(fc, e.Value)...)
		}
		return result
	}
	return nil
}

// referencedName 从 X 或 () => X 中取出类名
func referencedName(code string) string {
	code = strings.TrimSpace(code)
	if rest, ok := strings.CutPrefix(code, "()"); ok {
		rest = strings.TrimSpace(rest)
		if rest, ok = strings.CutPrefix(rest, "=>"); !ok {
			return ""
		}
		code = strings.TrimSpace(rest)
	}
	if !model.IsIdentifier(code) {
		return ""
	}
	return code
}
