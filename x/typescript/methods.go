package typescript

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// ParseMethod 解析类方法。方法体只有一条 return 且值可识别时得到 BodyReturn，否则保留原文。
func ParseMethod(fc *core.FileContext, v *parser.View, n *sitter.Node, decorators []*sitter.Node) (model.Method, error) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return model.Method{}, unsupported(fc, v, n)
	}

	m := model.Method{
		Name:     v.Text(nameNode),
		IsAsync:  hasChildKind(n, "async"),
		IsStatic: hasChildKind(n, "static"),
	}
	m.OldName = m.Name

	if len(decorators) == 0 {
		decorators = childrenOfKind(n, "decorator")
	}
	list, err := ParseDecorators(fc, v, decorators)
	if err != nil {
		return model.Method{}, err
	}
	m.Decorators = list

	for _, param := range namedChildren(n.ChildByFieldName("parameters")) {
		if param.Kind() != "required_parameter" && param.Kind() != "optional_parameter" {
			continue
		}
		arg, err := ParseProperty(fc, v, param, nil)
		if err != nil {
			return model.Method{}, err
		}
		m.Arguments = append(m.Arguments, arg)
	}

	if rt := n.ChildByFieldName("return_type"); rt != nil {
		if t := rt.NamedChild(0); t != nil && rt.Kind() == "type_annotation" {
			m.ReturnType = v.Text(t)
		} else {
			m.ReturnType = strings.TrimSpace(strings.TrimPrefix(v.Text(rt), ":"))
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return m, nil
	}
	if ret := singleReturn(body); ret != nil {
		if val, err := ParseValue(fc, v, ret); err == nil {
			m.BodyReturn = &model.MethodReturn{Value: val}
			return m, nil
		}
	}
	code := v.Source()
	m.RawBody = string(code[start(body)+1 : end(body)-1])
	return m, nil
}

// singleReturn 方法体只含一条带值的 return 时返回其表达式
func singleReturn(body *sitter.Node) *sitter.Node {
	var ret *sitter.Node
	for _, stmt := range namedChildren(body) {
		if isComment(stmt) {
			continue
		}
		if ret != nil || stmt.Kind() != "return_statement" {
			return nil
		}
		ret = stmt
	}
	if ret == nil {
		return nil
	}
	for _, child := range namedChildren(ret) {
		if !isComment(child) {
			return child
		}
	}
	return nil
}

// MethodEqual 比较两个方法的生成结果是否一致
func MethodEqual(a, b model.Method) bool {
	if a.Name != b.Name || a.IsAsync != b.IsAsync || a.IsStatic != b.IsStatic || a.ReturnType != b.ReturnType {
		return false
	}
	if !DecoratorsEqual(a.Decorators, b.Decorators) || len(a.Arguments) != len(b.Arguments) {
		return false
	}
	for i := range a.Arguments {
		if !PropertyEqual(a.Arguments[i], b.Arguments[i]) {
			return false
		}
	}
	if (a.BodyReturn == nil) != (b.BodyReturn == nil) {
		return false
	}
	if a.BodyReturn != nil && !a.BodyReturn.Value.Equal(b.BodyReturn.Value) {
		return false
	}
	return strings.TrimSpace(a.RawBody) == strings.TrimSpace(b.RawBody)
}

// RenderMethod 渲染方法。多于一个参数时每个参数独占一行。
func RenderMethod(fc *core.FileContext, m model.Method, indent int) (string, []model.Import) {
	imports := decoratorImports(fc, m.Decorators)
	tab := model.Indent(indent)

	var b strings.Builder
	b.WriteString(RenderDecorators(m.Decorators, indent, false))
	b.WriteString(tab)
	if m.IsStatic {
		b.WriteString("static ")
	}
	if m.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString(m.Name + "(")

	switch len(m.Arguments) {
	case 0:
	case 1:
		arg, argImports := RenderProperty(fc, m.Arguments[0], 0, true, "")
		imports = append(imports, argImports...)
		b.WriteString(arg)
	default:
		b.WriteString("\n")
		for _, a := range m.Arguments {
			arg, argImports := RenderProperty(fc, a, indent+1, true, ",")
			imports = append(imports, argImports...)
			b.WriteString(model.Indent(indent+1) + arg + "\n")
		}
		b.WriteString(tab)
	}
	b.WriteString(")")

	if m.ReturnType != "" {
		b.WriteString(": " + m.ReturnType)
	}

	switch {
	case m.BodyReturn != nil:
		b.WriteString(" {\n")
		b.WriteString(model.Indent(indent+1) + "return " + model.GenerateValue(m.BodyReturn.Value, indent+1) + ";\n")
		b.WriteString(tab + "}")
		imports = append(imports, valueImports(fc, m.BodyReturn.Value)...)
	case m.RawBody != "":
		b.WriteString(" {" + m.RawBody + "}")
	default:
		b.WriteString(" {\n" + tab + "}")
	}
	return b.String(), imports
}

// GenerateMethods 生成类方法的差异片段
func GenerateMethods(fc *core.FileContext, v *parser.View, cls *ClassNode, methods []model.Method, indent int) ([]model.Fragment, []model.Import, error) {
	return generateItems(v, itemsConfig[model.Method]{
		Kind:      memberMethod,
		Members:   classMembers(v, cls.Body),
		Indent:    indent,
		Separator: "\n\n",
		Key:       func(m model.Method) string { return keyOf(m.Name, m.OldName) },
		Parse: func(m member) (model.Method, error) {
			return ParseMethod(fc, v, m.Node, m.Decorators)
		},
		Equal: MethodEqual,
		Render: func(m model.Method, indent int) (string, []model.Import, error) {
			code, imports := RenderMethod(fc, m, indent)
			return code, imports, nil
		},
		Empty: cls.emptyBody(v),
	}, methods)
}
