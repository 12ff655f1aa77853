package model

// FieldKind 是字段装饰器的封闭枚举，取值即装饰器名
type FieldKind string

const (
	FieldBoolean    FieldKind = "BooleanField"
	FieldComputable FieldKind = "ComputableField"
	FieldCoordinate FieldKind = "CoordinateField"
	FieldCreateTime FieldKind = "CreateTimeField"
	FieldDate       FieldKind = "DateField"
	FieldDateTime   FieldKind = "DateTimeField"
	FieldDecimal    FieldKind = "DecimalField"
	FieldEmail      FieldKind = "EmailField"
	FieldEnum       FieldKind = "EnumField"
	FieldExtend     FieldKind = "ExtendField"
	FieldFile       FieldKind = "FileField"
	FieldHtml       FieldKind = "HtmlField"
	FieldImage      FieldKind = "ImageField"
	FieldInteger    FieldKind = "IntegerField"
	FieldPassword   FieldKind = "PasswordField"
	FieldPhone      FieldKind = "PhoneField"
	FieldPrimaryKey FieldKind = "PrimaryKeyField"
	FieldRelation   FieldKind = "RelationField"
	FieldRelationID FieldKind = "RelationIdField"
	FieldString     FieldKind = "StringField"
	FieldText       FieldKind = "TextField"
	FieldTime       FieldKind = "TimeField"
	FieldUid        FieldKind = "UidField"
	FieldUpdateTime FieldKind = "UpdateTimeField"
)

// RelationKind 是 RelationField 的关系类型
type RelationKind string

const (
	ManyToOne  RelationKind = "ManyToOne"
	OneToMany  RelationKind = "OneToMany"
	ManyToMany RelationKind = "ManyToMany"
	OneToOne   RelationKind = "OneToOne"
)

// RelationOptions 描述关联字段的目标。RelationClass 为目标实体 ID。
type RelationOptions struct {
	Type          RelationKind `json:"type"`
	RelationClass string       `json:"relationClass"`
	IsOwningSide  *bool        `json:"isOwningSide,omitempty"`
	TableName     string       `json:"tableName,omitempty"`
}

// DtoField 是带语义标签的字段描述。
// 布尔和数值选项用指针区分“未设置”与零值，保证解析后再生成不改变源码。
type DtoField struct {
	Name         string           `json:"name"`
	OldName      string           `json:"oldName,omitempty"`
	Type         FieldKind        `json:"type"`
	JsType       string           `json:"jsType,omitempty"`
	Label        string           `json:"label,omitempty"`
	Hint         string           `json:"hint,omitempty"`
	Example      string           `json:"example,omitempty"`
	DefaultValue *Value           `json:"defaultValue,omitempty"`
	IsNullable   *bool            `json:"isNullable,omitempty"`
	IsNoColumn   *bool            `json:"isNoColumn,omitempty"`
	IsRequired   *bool            `json:"isRequired,omitempty"`
	IsUnique     *bool            `json:"isUnique,omitempty"`
	IsArray      *bool            `json:"isArray,omitempty"`
	Min          *float64         `json:"min,omitempty"`
	Max          *float64         `json:"max,omitempty"`
	Enum         string           `json:"enum,omitempty"`
	Extend       string           `json:"extend,omitempty"`
	Relation     *RelationOptions `json:"relation,omitempty"`
	RelationName string           `json:"relationName,omitempty"`
}

// ModelField 额外记录哪些 DTO 选中了该字段（DTO 名 → true）
type ModelField struct {
	DtoField
	Dtos map[string]bool `json:"dtos,omitempty"`
}

// Dto 是数据传输对象
type Dto struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	OldName      string     `json:"oldName,omitempty"`
	Description  string     `json:"description,omitempty"`
	Fields       []DtoField `json:"fields"`
	FieldsExtend string     `json:"fieldsExtend,omitempty"`
}

// Model 是持久化模型
type Model struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	OldName           string       `json:"oldName,omitempty"`
	Description       string       `json:"description,omitempty"`
	Fields            []ModelField `json:"fields"`
	FieldsExtend      string       `json:"fieldsExtend,omitempty"`
	DtoNames          []string     `json:"dtoNames"`
	ModulePermissions *Permissions `json:"modulePermissions,omitempty"`
}

// AsDto 去掉模型特有的信息
func (m *Model) AsDto() *Dto {
	fields := make([]DtoField, 0, len(m.Fields))
	for _, f := range m.Fields {
		fields = append(fields, f.DtoField)
	}
	return &Dto{
		ID:           m.ID,
		Name:         m.Name,
		OldName:      m.OldName,
		Description:  m.Description,
		Fields:       fields,
		FieldsExtend: m.FieldsExtend,
	}
}

// EnumField 是枚举的一个成员
type EnumField struct {
	Name    string `json:"name"`
	OldName string `json:"oldName,omitempty"`
	Value   string `json:"value"`
	Label   string `json:"label"`
}

// Enum 是 BaseEnum 子类
type Enum struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	OldName     string      `json:"oldName,omitempty"`
	Description string      `json:"description,omitempty"`
	Fields      []EnumField `json:"fields"`
}

// Permission 是权限树的节点
type Permission struct {
	ID    string       `json:"id"`
	Label string       `json:"label"`
	Items []Permission `json:"items,omitempty"`
}

// Permissions 是模块 permissions.ts 的内容
type Permissions struct {
	ID          string       `json:"id"`
	Permissions []Permission `json:"permissions"`
}

// BoolPtr 返回 b 的指针
func BoolPtr(b bool) *bool { return &b }

// IsTrue nil 视为 false
func IsTrue(b *bool) bool { return b != nil && *b }
