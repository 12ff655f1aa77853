package typescript

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// constantMembers 收集顶层变量声明，每条语句取第一个声明
func constantMembers(v *parser.View) []member {
	var result []member
	for _, stmt := range namedChildren(v.Root()) {
		decl := variableDeclaration(stmt)
		if decl == nil {
			continue
		}
		declarator := findChildOfKind(decl, "variable_declarator")
		if declarator == nil {
			continue
		}
		name := declarator.ChildByFieldName("name")
		if name == nil || name.Kind() != "identifier" {
			continue
		}
		result = append(result, member{
			Kind:  memberConstant,
			Name:  v.Text(name),
			Node:  stmt,
			Lead:  leadingComments(v, stmt, start(stmt)),
			Start: start(stmt),
			End:   end(stmt),
		})
	}
	return result
}

func variableDeclaration(stmt *sitter.Node) *sitter.Node {
	if stmt.Kind() == "export_statement" {
		stmt = stmt.ChildByFieldName("declaration")
	}
	if stmt == nil || (stmt.Kind() != "lexical_declaration" && stmt.Kind() != "variable_declaration") {
		return nil
	}
	return stmt
}

// ParseConstant 解析一条顶层声明
func ParseConstant(fc *core.FileContext, v *parser.View, stmt *sitter.Node) (model.Constant, error) {
	decl := variableDeclaration(stmt)
	if decl == nil {
		return model.Constant{}, unsupported(fc, v, stmt)
	}
	declarator := findChildOfKind(decl, "variable_declarator")
	if declarator == nil {
		return model.Constant{}, unsupported(fc, v, stmt)
	}

	c := model.Constant{
		Name:     v.Text(declarator.ChildByFieldName("name")),
		Kind:     "var",
		IsExport: stmt.Kind() == "export_statement",
	}
	c.OldName = c.Name
	if kind := decl.ChildByFieldName("kind"); kind != nil {
		c.Kind = v.Text(kind)
	}

	val, err := ParseValue(fc, v, declarator.ChildByFieldName("value"))
	if err != nil {
		return model.Constant{}, err
	}
	c.Value = val
	return c, nil
}

// ParseConstants 解析全部顶层声明
func ParseConstants(fc *core.FileContext, v *parser.View) ([]model.Constant, error) {
	var result []model.Constant
	for _, m := range constantMembers(v) {
		c, err := ParseConstant(fc, v, m.Node)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

func ConstantEqual(a, b model.Constant) bool {
	return a.Name == b.Name && a.IsExport == b.IsExport && constantKind(a) == constantKind(b) && a.Value.Equal(b.Value)
}

func constantKind(c model.Constant) string {
	if c.Kind == "" {
		return "const"
	}
	return c.Kind
}

// RenderConstant 渲染 [export ]const NAME = value;
func RenderConstant(fc *core.FileContext, c model.Constant, indent int) (string, []model.Import) {
	code := model.Indent(indent)
	if c.IsExport {
		code += "export "
	}
	code += constantKind(c) + " " + c.Name
	if !c.Value.IsUndefined() {
		code += " = " + model.GenerateValue(c.Value, indent)
	}
	return code + ";", valueImports(fc, c.Value)
}

// GenerateConstants 生成顶层声明的差异片段。
// 没有保留的声明时插入到最后一个 import 之后，没有 import 时插入到文件开头。
func GenerateConstants(fc *core.FileContext, v *parser.View, constants []model.Constant) ([]model.Fragment, []model.Import, error) {
	return generateItems(v, itemsConfig[model.Constant]{
		Kind:      memberConstant,
		Members:   constantMembers(v),
		Separator: "\n",
		Key:       func(c model.Constant) string { return keyOf(c.Name, c.OldName) },
		Parse: func(m member) (model.Constant, error) {
			return ParseConstant(fc, v, m.Node)
		},
		Equal: ConstantEqual,
		Render: func(c model.Constant, indent int) (string, []model.Import, error) {
			code, imports := RenderConstant(fc, c, indent)
			return code, imports, nil
		},
		Empty: func(rendered string) model.Fragment {
			if nodes := importNodes(v); len(nodes) > 0 {
				return model.Insert(end(nodes[len(nodes)-1]), "\n\n"+rendered)
			}
			return model.Insert(0, rendered+"\n\n")
		},
	}, constants)
}
