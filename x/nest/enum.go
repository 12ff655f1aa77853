package nest

import (
	"regexp"
	"strings"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

// 返回 {[this.X]: 'Label'} 的静态方法
const labelsMethod = "getLabels"

var constantName = regexp.MustCompile(`^[A-Z][A-Z0-9_]+$`)

func labelKey(name string) string {
	return "[this." + name + "]"
}

// ParseEnum 常量名的属性是枚举成员，标签取自 getLabels 的返回值
func ParseEnum(fc *core.FileContext, v *parser.View) (*model.Enum, error) {
	cls, err := typescript.ParseClass(fc, v)
	if err != nil {
		return nil, err
	}

	var labels model.Value
	if m, ok := cls.FindMethod(labelsMethod); ok && m.BodyReturn != nil {
		labels = m.BodyReturn.Value
	}

	e := &model.Enum{
		ID:          fc.File.ID,
		Name:        cls.Name,
		OldName:     cls.OldName,
		Description: cls.Description,
		Fields:      []model.EnumField{},
	}
	for _, p := range cls.Properties {
		if !constantName.MatchString(p.Name) {
			continue
		}
		field := model.EnumField{Name: p.Name, OldName: p.OldName}
		if p.DefaultValue != nil {
			field.Value = p.DefaultValue.Literal()
		}
		if label, ok := labels.Get(labelKey(p.Name)); ok {
			field.Label = label.Literal()
		}
		e.Fields = append(e.Fields, field)
	}
	return e, nil
}

// EnumSkeleton 新建枚举文件的初始代码
func EnumSkeleton(name string) string {
	return typescript.ClassSkeleton(name, "extends BaseEnum")
}

// GenerateEnum 同步枚举成员与 getLabels，其他属性和方法保持不变
func GenerateEnum(fc *core.FileContext, doc *parser.Document, e *model.Enum) error {
	skeleton := ""
	if strings.TrimSpace(doc.Code()) == "" {
		if e.Name == "" {
			return errNoName(fc)
		}
		skeleton = EnumSkeleton(e.Name)
	}

	prev, err := previousClass(fc, doc)
	if err != nil {
		return err
	}

	properties := make([]model.Property, 0, len(prev.Properties)+len(e.Fields))
	for _, p := range prev.Properties {
		if !constantName.MatchString(p.Name) {
			properties = append(properties, p)
		}
	}
	labels := model.ObjectValue()
	for _, f := range e.Fields {
		name := strings.ToUpper(f.Name)
		value := model.StringValue(f.Value)
		p := model.Property{OldName: f.OldName}
		if prevProp, ok := prev.FindProperty(f.OldName); ok {
			p = *prevProp
		}
		p.Name = name
		p.IsStatic = true
		p.DefaultValue = &value
		properties = append(properties, p)
		labels.Entries = append(labels.Entries, model.Entry{Key: labelKey(name), Value: model.StringValue(f.Label)})
	}

	getLabels := model.Method{Name: labelsMethod, OldName: labelsMethod, IsStatic: true}
	methods := make([]model.Method, 0, len(prev.Methods)+1)
	for _, m := range prev.Methods {
		if m.Name == labelsMethod {
			getLabels = m
			continue
		}
		methods = append(methods, m)
	}
	getLabels.RawBody = ""
	getLabels.BodyReturn = &model.MethodReturn{Value: labels}
	methods = append(methods, getLabels)

	data := &model.ClassDescriptor{
		Name:        e.Name,
		OldName:     e.OldName,
		Description: e.Description,
		Properties:  properties,
		Methods:     methods,
	}
	return typescript.UpdateClass(fc, doc, data, skeleton, typescript.ImportDefault(BaseEnumModule, "BaseEnum"))
}

func errNoName(fc *core.FileContext) error {
	return errx.ErrInvalidArgument.WithMsg("类名不能为空").WithData("file", fc.File.ID)
}
