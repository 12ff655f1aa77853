package model

import "strings"

// JsdocTag 是 JSDoc 中的一行 @tag
type JsdocTag struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Decorator 描述一个 @Name(args) 装饰器
type Decorator struct {
	Name      string  `json:"name"`
	OldName   string  `json:"oldName,omitempty"`
	Arguments []Value `json:"arguments,omitempty"`
}

// Property 描述类字段或方法参数
type Property struct {
	Name         string      `json:"name"`
	OldName      string      `json:"oldName,omitempty"`
	JsType       string      `json:"jsType,omitempty"`
	IsArray      bool        `json:"isArray,omitempty"`
	IsStatic     bool        `json:"isStatic,omitempty"`
	Decorators   []Decorator `json:"decorators,omitempty"`
	DefaultValue *Value      `json:"defaultValue,omitempty"`
}

// MethodReturn 是方法体中 return 的值
type MethodReturn struct {
	Value Value `json:"value"`
}

// Method 描述类方法
type Method struct {
	Name       string        `json:"name"`
	OldName    string        `json:"oldName,omitempty"`
	IsAsync    bool          `json:"isAsync,omitempty"`
	IsStatic   bool          `json:"isStatic,omitempty"`
	Decorators []Decorator   `json:"decorators,omitempty"`
	Arguments  []Property    `json:"arguments,omitempty"`
	ReturnType string        `json:"returnType,omitempty"`
	BodyReturn *MethodReturn `json:"bodyReturn,omitempty"`
	// RawBody 为无法结构化的方法体原文（不含花括号）
	RawBody string `json:"rawBody,omitempty"`
}

// ClassDescriptor 是一个带装饰器的类的完整结构描述
type ClassDescriptor struct {
	Name            string      `json:"name"`
	OldName         string      `json:"oldName,omitempty"`
	Description     string      `json:"description,omitempty"`
	DescriptionTags []JsdocTag  `json:"descriptionTags,omitempty"`
	Decorators      []Decorator `json:"decorators,omitempty"`
	Properties      []Property  `json:"properties,omitempty"`
	Methods         []Method    `json:"methods,omitempty"`
}

// Constant 描述顶层 const/let/var 声明
type Constant struct {
	Name     string `json:"name"`
	OldName  string `json:"oldName,omitempty"`
	Value    Value  `json:"value"`
	Kind     string `json:"kind,omitempty"`
	IsExport bool   `json:"isExport,omitempty"`
}

// Import 是一条规范化的导入：GiiID 为项目文件 ID（含扩展名）或外部模块名
type Import struct {
	GiiID     string   `json:"giiId"`
	Names     []string `json:"names,omitempty"`
	Default   string   `json:"default,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
}

// LocalName 返回导入名在当前文件中的名字，"A as B" 得到 B
func LocalName(name string) string {
	if _, alias, ok := strings.Cut(name, " as "); ok {
		return strings.TrimSpace(alias)
	}
	return name
}

// TsFile 是单个源文件的解析结果
type TsFile struct {
	FileID    string           `json:"fileId"`
	Imports   []Import         `json:"imports,omitempty"`
	Constants []Constant       `json:"constants,omitempty"`
	MainClass *ClassDescriptor `json:"mainClass,omitempty"`
}

// FindDecorator 按名称查找装饰器
func FindDecorator(list []Decorator, name string) (Decorator, bool) {
	for _, d := range list {
		if d.Name == name {
			return d, true
		}
	}
	return Decorator{}, false
}

// FindProperty 按名称查找属性
func (c *ClassDescriptor) FindProperty(name string) (*Property, bool) {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i], true
		}
	}
	return nil, false
}

// FindMethod 按名称查找方法
func (c *ClassDescriptor) FindMethod(name string) (*Method, bool) {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i], true
		}
	}
	return nil, false
}
