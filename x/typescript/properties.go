package typescript

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// ParseProperty 解析类字段或方法参数；decorators 为作为兄弟节点出现的装饰器
func ParseProperty(fc *core.FileContext, v *parser.View, n *sitter.Node, decorators []*sitter.Node) (model.Property, error) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = n.ChildByFieldName("pattern")
	}
	if nameNode == nil {
		return model.Property{}, unsupported(fc, v, n)
	}

	p := model.Property{
		Name:     v.Text(nameNode),
		IsStatic: hasChildKind(n, "static"),
	}
	p.OldName = p.Name
	p.JsType, p.IsArray = parseType(fc, v, n.ChildByFieldName("type"))

	if len(decorators) == 0 {
		decorators = childrenOfKind(n, "decorator")
	}
	list, err := ParseDecorators(fc, v, decorators)
	if err != nil {
		return model.Property{}, err
	}
	p.Decorators = list

	if value := n.ChildByFieldName("value"); value != nil {
		val, err := ParseValue(fc, v, value)
		if err != nil {
			return model.Property{}, err
		}
		p.DefaultValue = &val
	}
	return p, nil
}

// parseType 解析类型标注：X[] 与 Array<X> 视为数组，项目类名解析为实体 ID，其他类型保留原文
func parseType(fc *core.FileContext, v *parser.View, annotation *sitter.Node) (string, bool) {
	if annotation == nil {
		return "", false
	}
	t := annotation
	if t.Kind() == "type_annotation" {
		t = t.NamedChild(0)
	}
	if t == nil {
		return "", false
	}

	isArray := false
	switch t.Kind() {
	case "array_type":
		isArray = true
		t = t.NamedChild(0)
	case "generic_type":
		if name := t.ChildByFieldName("name"); name != nil && v.Text(name) == "Array" {
			if args := t.ChildByFieldName("type_arguments"); args != nil && args.NamedChildCount() == 1 {
				isArray = true
				t = args.NamedChild(0)
			}
		}
	}

	text := v.Text(t)
	if t.Kind() == "type_identifier" && fc != nil {
		if id, ok := fc.ResolveSymbol(text); ok {
			return id, isArray
		}
	}
	return text, isArray
}

// PropertyEqual 比较两个属性的生成结果是否一致
func PropertyEqual(a, b model.Property) bool {
	return a.Name == b.Name &&
		a.JsType == b.JsType &&
		a.IsArray == b.IsArray &&
		a.IsStatic == b.IsStatic &&
		DecoratorsEqual(a.Decorators, b.Decorators) &&
		model.ValuePtrEqual(a.DefaultValue, b.DefaultValue)
}

// RenderProperty 渲染属性。inline 时装饰器与名字同行，用于方法参数。
func RenderProperty(fc *core.FileContext, p model.Property, indent int, inline bool, terminator string) (string, []model.Import) {
	imports := decoratorImports(fc, p.Decorators)

	code := RenderDecorators(p.Decorators, indent, inline)
	if !inline {
		code += model.Indent(indent)
	}
	if p.IsStatic {
		code += "static "
	}
	code += p.Name

	if p.JsType != "" {
		typeName, typeImports := typeReference(fc, p.JsType)
		imports = append(imports, typeImports...)
		code += ": " + typeName
		if p.IsArray {
			code += "[]"
		}
	}
	if p.DefaultValue != nil && !p.DefaultValue.IsUndefined() {
		code += " = " + model.GenerateValue(*p.DefaultValue, indent)
		imports = append(imports, valueImports(fc, *p.DefaultValue)...)
	}
	return code + terminator, imports
}

// typeReference 实体 ID 渲染为类名并导入
func typeReference(fc *core.FileContext, jsType string) (string, []model.Import) {
	if fc == nil || !fc.IsProjectID(jsType) {
		return jsType, nil
	}
	name := core.BaseName(jsType)
	if jsType == fc.File.ID {
		return name, nil
	}
	return name, []model.Import{ImportWithName(jsType, name)}
}

// GenerateProperties 生成类字段的差异片段
func GenerateProperties(fc *core.FileContext, v *parser.View, cls *ClassNode, properties []model.Property, indent int) ([]model.Fragment, []model.Import, error) {
	return generateItems(v, itemsConfig[model.Property]{
		Kind:      memberProperty,
		Members:   classMembers(v, cls.Body),
		Indent:    indent,
		Separator: "\n\n",
		Key:       func(p model.Property) string { return keyOf(p.Name, p.OldName) },
		Parse: func(m member) (model.Property, error) {
			return ParseProperty(fc, v, m.Node, m.Decorators)
		},
		Equal: PropertyEqual,
		Render: func(p model.Property, indent int) (string, []model.Import, error) {
			code, imports := RenderProperty(fc, p, indent, false, ";")
			return code, imports, nil
		},
		Empty: cls.emptyBody(v),
	}, properties)
}

// keyOf 用旧名匹配已有成员，没有旧名时用新名
func keyOf(name, oldName string) string {
	if oldName != "" {
		return oldName
	}
	return name
}
