package typescript

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// ClassNode 是文件主类在语法树中的位置
type ClassNode struct {
	Statement   *sitter.Node // export_statement 或 class_declaration
	Declaration *sitter.Node
	Name        *sitter.Node
	Body        *sitter.Node
	Decorators  []*sitter.Node
}

// FindClass 返回文件中第一个类声明，没有时返回 nil
func FindClass(v *parser.View) *ClassNode {
	for _, stmt := range namedChildren(v.Root()) {
		decl := stmt
		if stmt.Kind() == "export_statement" {
			decl = stmt.ChildByFieldName("declaration")
		}
		if decl == nil || (decl.Kind() != "class_declaration" && decl.Kind() != "abstract_class_declaration") {
			continue
		}

		cls := &ClassNode{
			Statement:   stmt,
			Declaration: decl,
			Name:        decl.ChildByFieldName("name"),
			Body:        decl.ChildByFieldName("body"),
		}
		if stmt != decl {
			cls.Decorators = childrenOfKind(stmt, "decorator")
		}
		cls.Decorators = append(cls.Decorators, childrenOfKind(decl, "decorator")...)
		if cls.Name == nil || cls.Body == nil {
			return nil
		}
		return cls
	}
	return nil
}

// emptyBody 在类体为空时紧跟 { 插入
func (c *ClassNode) emptyBody(v *parser.View) func(rendered string) model.Fragment {
	return func(rendered string) model.Fragment {
		pos := start(c.Body) + 1
		text := "\n" + rendered
		if code := v.Source(); pos >= len(code) || code[pos] != '\n' {
			text += "\n"
		}
		return model.Insert(pos, text)
	}
}

// Prepare 读取导入与主类名，供符号解析使用
func Prepare(fc *core.FileContext, v *parser.View) {
	if fc == nil {
		return
	}
	fc.Imports = ParseImports(fc, v)
	if cls := FindClass(v); cls != nil {
		fc.ClassName = v.Text(cls.Name)
	}
}

// ParseClass 解析文件主类
func ParseClass(fc *core.FileContext, v *parser.View) (*model.ClassDescriptor, error) {
	cls := FindClass(v)
	if cls == nil {
		return nil, noClass(fc)
	}

	desc := &model.ClassDescriptor{Name: v.Text(cls.Name)}
	desc.OldName = desc.Name
	if comment := findJsdoc(v, cls.Statement); comment != nil {
		doc := ParseJsdoc(v.Text(comment))
		desc.Description = doc.Description
		desc.DescriptionTags = doc.Tags
	}

	decorators, err := ParseDecorators(fc, v, cls.Decorators)
	if err != nil {
		return nil, err
	}
	desc.Decorators = decorators

	for _, m := range classMembers(v, cls.Body) {
		switch m.Kind {
		case memberProperty:
			p, err := ParseProperty(fc, v, m.Node, m.Decorators)
			if err != nil {
				return nil, err
			}
			desc.Properties = append(desc.Properties, p)
		case memberMethod:
			method, err := ParseMethod(fc, v, m.Node, m.Decorators)
			if err != nil {
				return nil, err
			}
			desc.Methods = append(desc.Methods, method)
		}
	}
	return desc, nil
}

func noClass(fc *core.FileContext) error {
	if fc == nil {
		return errx.ErrNoClass
	}
	return errx.ErrNoClass.WithData("file", fc.File.ID)
}

// ClassSkeleton 是空文件中新建类的初始代码
func ClassSkeleton(name, heritage string) string {
	if heritage != "" {
		heritage = " " + heritage
	}
	return "\n\nexport class " + name + heritage + " {\n}\n"
}

// GenerateClass 依次更新类名、JSDoc、装饰器、字段与方法，每一步之后重新解析。
// 列表为 nil 表示不管理该部分，空列表表示全部删除。返回生成代码需要的导入。
func GenerateClass(fc *core.FileContext, doc *parser.Document, data *model.ClassDescriptor) ([]model.Import, error) {
	if strings.TrimSpace(doc.Code()) == "" {
		if data.Name == "" {
			return nil, errx.ErrInvalidArgument.WithMsg("类名不能为空")
		}
		doc.Replace(ClassSkeleton(data.Name, ""))
	}

	var imports []model.Import
	steps := []func(v *parser.View, cls *ClassNode) ([]model.Fragment, error){
		// 1. 类名
		func(v *parser.View, cls *ClassNode) ([]model.Fragment, error) {
			if data.Name == "" || v.Text(cls.Name) == data.Name {
				return nil, nil
			}
			return []model.Fragment{{Start: start(cls.Name), End: end(cls.Name), Replacement: data.Name}}, nil
		},
		// 2. JSDoc
		func(v *parser.View, cls *ClassNode) ([]model.Fragment, error) {
			if data.Description == "" && len(data.DescriptionTags) == 0 {
				return nil, nil
			}
			return GenerateJsdoc(v, cls.Statement, Jsdoc{Description: data.Description, Tags: data.DescriptionTags}), nil
		},
		// 3. 类装饰器
		func(v *parser.View, cls *ClassNode) ([]model.Fragment, error) {
			if data.Decorators == nil {
				return nil, nil
			}
			imports = append(imports, decoratorImports(fc, data.Decorators)...)
			return generateClassDecorators(fc, v, cls, data.Decorators), nil
		},
		// 4. 字段
		func(v *parser.View, cls *ClassNode) ([]model.Fragment, error) {
			if data.Properties == nil {
				return nil, nil
			}
			fragments, propImports, err := GenerateProperties(fc, v, cls, data.Properties, 1)
			imports = append(imports, propImports...)
			return fragments, err
		},
		// 5. 方法
		func(v *parser.View, cls *ClassNode) ([]model.Fragment, error) {
			if data.Methods == nil {
				return nil, nil
			}
			fragments, methodImports, err := GenerateMethods(fc, v, cls, data.Methods, 1)
			imports = append(imports, methodImports...)
			return fragments, err
		},
	}

	for _, step := range steps {
		v, err := doc.View()
		if err != nil {
			return nil, err
		}
		cls := FindClass(v)
		if cls == nil {
			return nil, noClass(fc)
		}
		if fc != nil {
			fc.ClassName = v.Text(cls.Name)
		}

		fragments, err := step(v, cls)
		if err != nil {
			return nil, err
		}
		if err := doc.Apply(v, fragments); err != nil {
			return nil, err
		}
	}
	return imports, nil
}

// generateClassDecorators 装饰器整体替换，没有变化时不产生片段
func generateClassDecorators(fc *core.FileContext, v *parser.View, cls *ClassNode, list []model.Decorator) []model.Fragment {
	parsed, err := ParseDecorators(fc, v, cls.Decorators)
	if err == nil && DecoratorsEqual(parsed, list) {
		return nil
	}

	rendered := RenderDecorators(list, 0, false)
	if len(cls.Decorators) == 0 {
		return []model.Fragment{model.Insert(start(cls.Statement), rendered)}
	}
	last := cls.Decorators[len(cls.Decorators)-1]
	return []model.Fragment{{
		Start:       start(cls.Decorators[0]),
		End:         skipSpace(v.Source(), end(last)),
		Replacement: rendered,
	}}
}

// UpdateClass 生成类并合并导入。skeleton 用于空文件，为空时使用默认骨架。
func UpdateClass(fc *core.FileContext, doc *parser.Document, data *model.ClassDescriptor, skeleton string, extra ...model.Import) error {
	created := strings.TrimSpace(doc.Code()) == ""
	if created && skeleton != "" {
		doc.Replace(skeleton)
	}

	v, err := doc.View()
	if err != nil {
		return err
	}
	Prepare(fc, v)

	imports, err := GenerateClass(fc, doc, data)
	if err != nil {
		return err
	}
	if err := ReplaceImports(fc, doc, append(extra, imports...)); err != nil {
		return err
	}

	if created {
		doc.Replace(strings.TrimLeft(doc.Code(), "\n"))
	}
	return nil
}
