package nest

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/logs"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

// 继承字段的类型解析最多追溯的层数
const maxExtendDepth = 8

// fieldDecorator 返回属性上的字段装饰器
func fieldDecorator(list []model.Decorator) (*model.Decorator, bool) {
	for i := range list {
		if isFieldDecorator(list[i].Name) {
			return &list[i], true
		}
	}
	return nil, false
}

// ParseDtoFields 把带字段装饰器的属性转换为字段描述，普通属性跳过
func ParseDtoFields(properties []model.Property) []model.DtoField {
	result := make([]model.DtoField, 0, len(properties))
	for _, p := range properties {
		dec, ok := fieldDecorator(p.Decorators)
		if !ok {
			continue
		}

		f := model.DtoField{
			Name:    p.Name,
			OldName: p.Name,
			Type:    model.FieldKind(dec.Name),
			JsType:  p.JsType,
		}
		var params model.Value
		if len(dec.Arguments) > 0 && dec.Arguments[0].Kind == model.KindObject {
			params = dec.Arguments[0]
		}
		for _, key := range SingleKeys(f.Type) {
			if val, ok := params.Get(key); ok {
				setSingleOption(&f, key, val)
			}
		}

		switch f.Type {
		case model.FieldRelation:
			f.Relation = parseRelation(params)
		case model.FieldEnum:
			if val, ok := params.Get("enum"); ok && val.Kind == model.KindReference {
				f.Enum = val.Ref
			}
		case model.FieldExtend:
			if len(dec.Arguments) > 0 && dec.Arguments[0].Kind == model.KindReference {
				f.Extend = dec.Arguments[0].Ref
			}
			if len(dec.Arguments) > 1 {
				if val, ok := dec.Arguments[1].Get("relationClass"); ok && val.Kind == model.KindReference {
					f.Relation = &model.RelationOptions{RelationClass: val.Ref}
				}
			}
		}
		result = append(result, f)
	}
	return result
}

func parseRelation(params model.Value) *model.RelationOptions {
	rel := &model.RelationOptions{}
	if val, ok := params.Get("type"); ok && val.Kind == model.KindString {
		rel.Type = model.RelationKind(val.Text)
	}
	if val, ok := params.Get("relationClass"); ok && val.Kind == model.KindReference {
		rel.RelationClass = val.Ref
	}
	if val, ok := params.Get("isOwningSide"); ok && val.Kind == model.KindBool && hasOwningSide(rel.Type) {
		rel.IsOwningSide = model.BoolPtr(val.Bool)
	}
	if val, ok := params.Get("tableName"); ok && val.Kind == model.KindString && rel.Type == model.ManyToMany {
		rel.TableName = val.Text
	}
	return rel
}

// GenerateDtoFields 由字段描述生成属性。prev 为文件中已有的属性，
// 其中的其他装饰器与字段描述无法表达的选项会被保留。
// 返回的导入只包含字段装饰器本身，属性类型与参数的导入在渲染时收集。
func GenerateDtoFields(fc *core.FileContext, fields []model.DtoField, prev []model.Property) ([]model.Property, []model.Import) {
	return newFieldsGenerator(fc, nil).generate(fields, prev)
}

// newFieldsGenerator known 中的实体优先于磁盘上的版本，用于尚未保存的模型
func newFieldsGenerator(fc *core.FileContext, known []*model.Dto) *fieldsGenerator {
	g := &fieldsGenerator{fc: fc, dtos: make(map[string]*model.Dto)}
	for _, dto := range known {
		g.dtos[dto.ID] = dto
	}
	return g
}

// fieldsGenerator 在一次生成中缓存跨文件解析的结果
type fieldsGenerator struct {
	fc    *core.FileContext
	dtos  map[string]*model.Dto
	depth int
}

func (g *fieldsGenerator) generate(fields []model.DtoField, prev []model.Property) ([]model.Property, []model.Import) {
	properties := make([]model.Property, 0, len(fields))
	var imports []model.Import

	add := func(p model.Property) {
		properties = append(properties, p)
		imports = append(imports, typescript.ImportWithName(FieldsModule, p.Decorators[0].Name))
	}

	for i := range fields {
		field := &fields[i]
		if field.Name == "" {
			continue
		}
		add(g.property(field, prev))

		// 一对一、多对一补充 <name>Id 字段
		if field.Type != model.FieldRelation || field.Relation == nil || !HasCompanion(field.Relation.Type) {
			continue
		}
		idField := model.DtoField{
			Name:         field.Name + "Id",
			OldName:      keyOf(field) + "Id",
			Type:         model.FieldRelationID,
			Label:        field.Label,
			RelationName: field.Name,
		}
		if !slices.ContainsFunc(fields, func(f model.DtoField) bool { return f.Name == idField.Name }) {
			add(g.property(&idField, prev))
		}
	}
	return properties, imports
}

// property 生成单个字段的属性，字段装饰器总是第一个
func (g *fieldsGenerator) property(field *model.DtoField, prev []model.Property) model.Property {
	prevProp := findProperty(prev, keyOf(field))

	p := model.Property{}
	var prevDec *model.Decorator
	if prevProp != nil {
		p = *prevProp
		p.Decorators = nil
		for i, d := range prevProp.Decorators {
			if prevDec == nil && isFieldDecorator(d.Name) {
				prevDec = &prevProp.Decorators[i]
				continue
			}
			p.Decorators = append(p.Decorators, d)
		}
	}
	p.Name = field.Name
	p.OldName = keyOf(field)
	p.JsType = ScalarType(field.Type)
	p.IsArray = model.IsTrue(field.IsArray)

	var dec model.Decorator
	switch field.Type {
	case model.FieldRelation:
		dec = g.relationDecorator(field, prevProp, prevDec, &p)
	case model.FieldEnum:
		var custom []model.Entry
		if field.Enum != "" {
			custom = append(custom, model.Entry{Key: "enum", Value: model.ReferenceValue(field.Enum, core.BaseName(field.Enum))})
		}
		dec = buildDecorator(field, prevDec, custom...)
	case model.FieldExtend:
		dec = g.extendDecorator(field, prevProp, prevDec, &p)
	default:
		dec = buildDecorator(field, prevDec)
	}

	p.Decorators = append([]model.Decorator{dec}, p.Decorators...)
	return p
}

func (g *fieldsGenerator) relationDecorator(field *model.DtoField, prevProp *model.Property, prevDec *model.Decorator, p *model.Property) model.Decorator {
	rel := field.Relation
	if rel == nil {
		rel = &model.RelationOptions{}
	}

	var custom []model.Entry
	if rel.Type != "" {
		custom = append(custom, model.Entry{Key: "type", Value: model.StringValue(string(rel.Type))})
	}
	if rel.RelationClass != "" {
		p.JsType = rel.RelationClass
		custom = append(custom, model.Entry{Key: "relationClass", Value: classThunk(rel.RelationClass)})
	} else if prevProp != nil {
		p.JsType = prevProp.JsType
	}
	p.IsArray = IsToMany(rel.Type)
	if rel.Type == model.ManyToMany && rel.TableName != "" {
		custom = append(custom, model.Entry{Key: "tableName", Value: model.StringValue(rel.TableName)})
	}
	if hasOwningSide(rel.Type) && rel.IsOwningSide != nil {
		custom = append(custom, model.Entry{Key: "isOwningSide", Value: model.BoolValue(*rel.IsOwningSide)})
	}
	return buildDecorator(field, prevDec, custom...)
}

// extendDecorator 生成 @ExtendField(Model[, {relationClass}])，类型取自被继承的字段
func (g *fieldsGenerator) extendDecorator(field *model.DtoField, prevProp *model.Property, prevDec *model.Decorator, p *model.Property) model.Decorator {
	dec := model.Decorator{Name: string(model.FieldExtend), OldName: string(model.FieldExtend)}
	if prevDec != nil {
		dec.OldName = prevDec.Name
	}

	// 找不到来源时沿用原来的类型
	p.JsType, p.IsArray = "", false
	if prevProp != nil {
		p.JsType, p.IsArray = prevProp.JsType, prevProp.IsArray
	}

	if field.Extend == "" {
		if prevDec != nil && prevDec.Name == string(model.FieldExtend) {
			dec.Arguments = prevDec.Arguments
		}
		return dec
	}
	dec.Arguments = []model.Value{model.ReferenceValue(field.Extend, core.BaseName(field.Extend))}

	source := g.extendSource(field)
	if source == nil {
		return dec
	}
	child := &fieldsGenerator{fc: g.fc, dtos: g.dtos, depth: g.depth + 1}
	if resolved, _ := child.generate([]model.DtoField{*source}, nil); len(resolved) > 0 {
		p.JsType, p.IsArray = resolved[0].JsType, resolved[0].IsArray
	}

	if source.Type != model.FieldRelation || source.Relation == nil || source.Relation.RelationClass == "" {
		return dec
	}
	relationClass := ""
	if field.Relation != nil {
		relationClass = field.Relation.RelationClass
	}
	if relationClass == "" {
		related := g.relatedDto(core.BaseName(g.fc.File.ID), core.BaseName(field.Extend), core.BaseName(source.Relation.RelationClass))
		if related != nil {
			relationClass = related.ID
		}
	}
	if relationClass != "" {
		p.JsType = relationClass
		dec.Arguments = append(dec.Arguments, model.ObjectValue(model.Entry{Key: "relationClass", Value: classThunk(relationClass)}))
	}
	return dec
}

// extendSource 读取被继承实体中的同名字段
func (g *fieldsGenerator) extendSource(field *model.DtoField) *model.DtoField {
	if g.depth >= maxExtendDepth {
		logs.Warn("继承字段层级过深", zap.String("file", g.fc.File.ID), zap.String("field", field.Name))
		return nil
	}
	dto := g.loadDto(field.Extend)
	if dto == nil {
		return nil
	}
	for i := range dto.Fields {
		if dto.Fields[i].Name == field.Name {
			return &dto.Fields[i]
		}
	}
	logs.Debug("被继承的字段不存在", zap.String("extend", field.Extend), zap.String("field", field.Name))
	return nil
}

// relatedDto 为关联字段挑选关联实体的 DTO：
// 1. 当前 DTO 相对模型名的后缀；2. 常用后缀；3. 任意一个继承该模型的 DTO。
func (g *fieldsGenerator) relatedDto(dtoName, modelName, relatedModelName string) *model.Dto {
	suffixes := []string{"SaveDto", "Dto"}
	if strings.HasSuffix(dtoName, "Schema") {
		suffixes = []string{"Schema", "DetailSchema", "EnumSchema"}
	}
	if base := strings.TrimSuffix(modelName, "Model"); strings.HasPrefix(dtoName, base) {
		suffixes = append([]string{strings.TrimPrefix(dtoName, base)}, suffixes...)
	}

	var candidates []*model.Dto
	for _, item := range g.fc.Project.Index.FindMany(core.OfType(model.EntityDto)) {
		if core.BaseName(item.Name) == dtoName {
			continue
		}
		dto := g.loadDto(item.ID)
		if dto == nil || dto.FieldsExtend == "" || core.BaseName(dto.FieldsExtend) != relatedModelName {
			continue
		}
		candidates = append(candidates, dto)
	}

	for _, suffix := range suffixes {
		for _, dto := range candidates {
			if strings.HasSuffix(core.BaseName(dto.ID), suffix) {
				return dto
			}
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

// loadDto 解析项目中的另一个 DTO 或模型，失败时记录日志并返回 nil
func (g *fieldsGenerator) loadDto(id string) *model.Dto {
	if dto, ok := g.dtos[id]; ok {
		return dto
	}
	dto, err := LoadDto(g.fc.Project, id)
	if err != nil {
		logs.Warn("解析关联实体失败", zap.String("file", g.fc.File.ID), zap.String("target", id), zap.Error(err))
	}
	g.dtos[id] = dto
	return dto
}

// buildDecorator 生成字段装饰器：单值选项在前，custom 在后；
// 上一版中字段描述无法表达的选项原样保留，已有选项保持原来的顺序。
func buildDecorator(field *model.DtoField, prev *model.Decorator, custom ...model.Entry) model.Decorator {
	next := model.ObjectValue()
	for _, key := range SingleKeys(field.Type) {
		if val, ok := singleOption(field, key); ok {
			next.Set(key, val)
		}
	}
	for _, e := range custom {
		next.Set(e.Key, e.Value)
	}

	dec := model.Decorator{Name: string(field.Type), OldName: string(field.Type)}
	var prevParams model.Value
	var rest []model.Value
	if prev != nil {
		dec.OldName = prev.Name
		if len(prev.Arguments) > 0 && prev.Arguments[0].Kind == model.KindObject {
			prevParams, rest = prev.Arguments[0], prev.Arguments[1:]
		}
	}

	params := mergeOptions(prevParams, managedKeys(field.Type), next)
	if len(params.Entries) > 0 || len(rest) > 0 {
		dec.Arguments = append([]model.Value{params}, rest...)
	}
	return dec
}

func mergeOptions(prev model.Value, managed []string, next model.Value) model.Value {
	result := model.ObjectValue()
	for _, e := range prev.Entries {
		if val, ok := next.Get(e.Key); ok {
			result.Entries = append(result.Entries, model.Entry{Key: e.Key, Value: val})
			continue
		}
		if slices.Contains(managed, e.Key) && representable(e.Key, e.Value) {
			continue
		}
		result.Entries = append(result.Entries, e)
	}
	for _, e := range next.Entries {
		if _, ok := result.Get(e.Key); !ok {
			result.Entries = append(result.Entries, e)
		}
	}
	return result
}

// classThunk 渲染为 () => ClassName
func classThunk(id string) model.Value {
	return model.ReferenceValue(id, "() => "+core.BaseName(id))
}

func findProperty(list []model.Property, name string) *model.Property {
	for i := range list {
		if list[i].Name == name {
			return &list[i]
		}
	}
	return nil
}

func keyOf(f *model.DtoField) string {
	if f.OldName != "" {
		return f.OldName
	}
	return f.Name
}
