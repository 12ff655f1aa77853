package nest

import (
	"strings"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

// JSDoc 中声明字段来源模型的标签
const extendModelTag = "extend-model"

// ParseDto 解析 DTO 类。fieldsExtend 优先取 @extend-model 标签，其次取第一个继承字段的来源。
func ParseDto(fc *core.FileContext, v *parser.View) (*model.Dto, error) {
	cls, err := typescript.ParseClass(fc, v)
	if err != nil {
		return nil, err
	}

	dto := &model.Dto{
		ID:          fc.File.ID,
		Name:        cls.Name,
		OldName:     cls.OldName,
		Description: cls.Description,
		Fields:      ParseDtoFields(cls.Properties),
	}
	for _, tag := range cls.DescriptionTags {
		if tag.Name == extendModelTag && tag.Value != "" {
			dto.FieldsExtend = resolveEntity(fc, strings.TrimSpace(tag.Value))
			break
		}
	}
	if dto.FieldsExtend == "" {
		dto.FieldsExtend = inferredExtend(dto.Fields)
	}
	return dto, nil
}

// resolveEntity 类名先按导入解析，再到项目结构中按名称查找
func resolveEntity(fc *core.FileContext, name string) string {
	if id, ok := fc.ResolveSymbol(name); ok {
		return id
	}
	if item := fc.Project.Index.FindByName(name, model.EntityModel, model.EntityDto); item != nil {
		return item.ID
	}
	return ""
}

func inferredExtend(fields []model.DtoField) string {
	for _, f := range fields {
		if f.Type == model.FieldExtend && f.Extend != "" {
			return f.Extend
		}
	}
	return ""
}

// GenerateDto 按 DTO 描述更新文档：字段整体同步，普通属性、方法与类装饰器保持不变
func GenerateDto(fc *core.FileContext, doc *parser.Document, dto *model.Dto) error {
	return generateDto(fc, doc, dto, nil)
}

func generateDto(fc *core.FileContext, doc *parser.Document, dto *model.Dto, known []*model.Dto) error {
	prev, err := previousClass(fc, doc)
	if err != nil {
		return err
	}

	properties, imports := newFieldsGenerator(fc, known).generate(dto.Fields, prev.Properties)
	for _, p := range prev.Properties {
		if _, ok := fieldDecorator(p.Decorators); !ok {
			properties = append(properties, p)
		}
	}

	data := &model.ClassDescriptor{
		Name:            dto.Name,
		OldName:         dto.OldName,
		Description:     dto.Description,
		DescriptionTags: dtoTags(prev.DescriptionTags, dto),
		Properties:      properties,
	}
	return typescript.UpdateClass(fc, doc, data, "", imports...)
}

// previousClass 解析文档中已有的类，空文档得到空描述
func previousClass(fc *core.FileContext, doc *parser.Document) (*model.ClassDescriptor, error) {
	if strings.TrimSpace(doc.Code()) == "" {
		return &model.ClassDescriptor{}, nil
	}
	v, err := doc.View()
	if err != nil {
		return nil, err
	}
	typescript.Prepare(fc, v)
	return typescript.ParseClass(fc, v)
}

// dtoTags 就地更新 @extend-model，能从继承字段推断出来源时不新增标签
func dtoTags(prev []model.JsdocTag, dto *model.Dto) []model.JsdocTag {
	want := dto.FieldsExtend != ""
	tag := model.JsdocTag{Name: extendModelTag, Value: core.BaseName(dto.FieldsExtend)}

	tags := make([]model.JsdocTag, 0, len(prev)+1)
	placed := false
	for _, t := range prev {
		if t.Name != extendModelTag {
			tags = append(tags, t)
			continue
		}
		if want && !placed {
			tags = append(tags, tag)
			placed = true
		}
	}
	if want && !placed && dto.FieldsExtend != inferredExtend(dto.Fields) {
		tags = append(tags, tag)
	}
	return tags
}

// LoadDto 读取并解析项目中的 DTO 或模型文件，文件不存在时返回 nil
func LoadDto(pc *core.ProjectContext, id string) (*model.Dto, error) {
	fc, doc, err := typescript.Open(pc, id)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	if !fc.File.Exists {
		return nil, nil
	}

	v, err := doc.View()
	if err != nil {
		return nil, err
	}
	typescript.Prepare(fc, v)
	return ParseDto(fc, v)
}
