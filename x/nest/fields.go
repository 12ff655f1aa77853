package nest

import (
	"slices"
	"strings"

	"github.com/CodMac/go-treesitter-gii/model"
)

const (
	// FieldsModule 字段装饰器所在的包
	FieldsModule = "@steroidsjs/nest/infrastructure/decorators/fields"
	// BaseEnumModule 枚举基类
	BaseEnumModule = "@steroidsjs/nest/domain/base/BaseEnum"
)

// fieldKinds 全部已知字段装饰器
var fieldKinds = []model.FieldKind{
	model.FieldBoolean,
	model.FieldComputable,
	model.FieldCoordinate,
	model.FieldCreateTime,
	model.FieldDate,
	model.FieldDateTime,
	model.FieldDecimal,
	model.FieldEmail,
	model.FieldEnum,
	model.FieldExtend,
	model.FieldFile,
	model.FieldHtml,
	model.FieldImage,
	model.FieldInteger,
	model.FieldPassword,
	model.FieldPhone,
	model.FieldPrimaryKey,
	model.FieldRelation,
	model.FieldRelationID,
	model.FieldString,
	model.FieldText,
	model.FieldTime,
	model.FieldUid,
	model.FieldUpdateTime,
}

// FieldKinds 返回字段类型列表
func FieldKinds() []model.FieldKind {
	return slices.Clone(fieldKinds)
}

// IsFieldKind 判断装饰器名是否为已知字段类型
func IsFieldKind(name string) bool {
	return slices.Contains(fieldKinds, model.FieldKind(name))
}

// isFieldDecorator 以 Field 结尾的装饰器都视为字段装饰器
func isFieldDecorator(name string) bool {
	return strings.HasSuffix(name, "Field")
}

// 选项值的类型，决定解析时能否把源码中的值映射到字段属性
type optionType uint8

const (
	optString optionType = iota
	optBool
	optNumber
	optAny
	optRef
)

var baseKeys = []string{
	"label",
	"hint",
	"example",
	"defaultValue",
	"nullable",
	"noColumn",
	"required",
	"unique",
	"isArray",
	"relationName",
}

var optionTypes = map[string]optionType{
	"label":        optString,
	"hint":         optString,
	"example":      optString,
	"defaultValue": optAny,
	"nullable":     optBool,
	"noColumn":     optBool,
	"required":     optBool,
	"unique":       optBool,
	"isArray":      optBool,
	"relationName": optString,
	"min":          optNumber,
	"max":          optNumber,

	// RelationField
	"type":          optString,
	"relationClass": optRef,
	"isOwningSide":  optBool,
	"tableName":     optString,

	// EnumField
	"enum": optRef,
}

// SingleKeys 与字段属性一一对应的选项
func SingleKeys(kind model.FieldKind) []string {
	keys := slices.Clone(baseKeys)
	if kind == model.FieldInteger {
		keys = append(keys, "min", "max")
	}
	return keys
}

// customKeys 由字段类型专门处理的选项
func customKeys(kind model.FieldKind) []string {
	switch kind {
	case model.FieldRelation:
		return []string{"type", "relationClass", "tableName", "isOwningSide"}
	case model.FieldEnum:
		return []string{"enum"}
	}
	return nil
}

// managedKeys 生成时由字段描述决定的选项
func managedKeys(kind model.FieldKind) []string {
	return append(SingleKeys(kind), customKeys(kind)...)
}

// representable 源码中的值能否无损地存入字段描述
func representable(key string, val model.Value) bool {
	t, ok := optionTypes[key]
	if !ok {
		return false
	}
	switch t {
	case optString:
		return val.Kind == model.KindString
	case optBool:
		return val.Kind == model.KindBool
	case optNumber:
		return val.Kind == model.KindNumber
	case optRef:
		return val.Kind == model.KindReference
	}
	return true
}

// ScalarType 字段对应的 TypeScript 类型；关联与继承字段需要另外计算
func ScalarType(kind model.FieldKind) string {
	switch kind {
	case model.FieldInteger, model.FieldDecimal, model.FieldCoordinate, model.FieldPrimaryKey, model.FieldRelationID:
		return "number"
	case model.FieldBoolean:
		return "boolean"
	case model.FieldComputable:
		return "any"
	}
	return "string"
}

// IsToMany 一对多与多对多生成数组类型
func IsToMany(kind model.RelationKind) bool {
	return kind == model.OneToMany || kind == model.ManyToMany
}

// HasCompanion 一对一与多对一需要 <name>Id 字段
func HasCompanion(kind model.RelationKind) bool {
	return kind == model.OneToOne || kind == model.ManyToOne
}

func hasOwningSide(kind model.RelationKind) bool {
	return kind == model.OneToOne || kind == model.ManyToMany
}

// singleOption 读取字段属性，未设置时返回 false
func singleOption(f *model.DtoField, key string) (model.Value, bool) {
	str := func(s string) (model.Value, bool) { return model.StringValue(s), s != "" }
	boolean := func(b *bool) (model.Value, bool) {
		if b == nil {
			return model.Value{}, false
		}
		return model.BoolValue(*b), true
	}
	number := func(n *float64) (model.Value, bool) {
		if n == nil {
			return model.Value{}, false
		}
		return model.NumberValue(*n), true
	}

	switch key {
	case "label":
		return str(f.Label)
	case "hint":
		return str(f.Hint)
	case "example":
		return str(f.Example)
	case "relationName":
		return str(f.RelationName)
	case "defaultValue":
		if f.DefaultValue == nil || f.DefaultValue.IsUndefined() {
			return model.Value{}, false
		}
		return *f.DefaultValue, true
	case "nullable":
		return boolean(f.IsNullable)
	case "noColumn":
		return boolean(f.IsNoColumn)
	case "required":
		return boolean(f.IsRequired)
	case "unique":
		return boolean(f.IsUnique)
	case "isArray":
		return boolean(f.IsArray)
	case "min":
		return number(f.Min)
	case "max":
		return number(f.Max)
	}
	return model.Value{}, false
}

// setSingleOption 把选项写入字段，类型不符时返回 false
func setSingleOption(f *model.DtoField, key string, val model.Value) bool {
	if !representable(key, val) {
		return false
	}
	switch key {
	case "label":
		f.Label = val.Text
	case "hint":
		f.Hint = val.Text
	case "example":
		f.Example = val.Text
	case "relationName":
		f.RelationName = val.Text
	case "defaultValue":
		v := val
		f.DefaultValue = &v
	case "nullable":
		f.IsNullable = model.BoolPtr(val.Bool)
	case "noColumn":
		f.IsNoColumn = model.BoolPtr(val.Bool)
	case "required":
		f.IsRequired = model.BoolPtr(val.Bool)
	case "unique":
		f.IsUnique = model.BoolPtr(val.Bool)
	case "isArray":
		f.IsArray = model.BoolPtr(val.Bool)
	case "min":
		n := val.Number
		f.Min = &n
	case "max":
		n := val.Number
		f.Max = &n
	default:
		return false
	}
	return true
}
