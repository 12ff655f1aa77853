package nest

import (
	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/extractor"
	"github.com/CodMac/go-treesitter-gii/logs"
	"github.com/CodMac/go-treesitter-gii/model"
)

// ExtractDto 提取 DTO 字段上的继承、关联与枚举引用
func ExtractDto(id string, entity any, gc *extractor.GlobalContext) ([]*model.EntityRelation, error) {
	dto, ok := entity.(*model.Dto)
	if !ok {
		return nil, errx.ErrInvalidArgument.WithMsg("实体数据类型不匹配").WithData("id", id)
	}
	return fieldRelations(id, dto.Fields, gc), nil
}

// ExtractModel 与 DTO 相同，模型特有的 DTO 选择不构成关系
func ExtractModel(id string, entity any, gc *extractor.GlobalContext) ([]*model.EntityRelation, error) {
	m, ok := entity.(*model.Model)
	if !ok {
		return nil, errx.ErrInvalidArgument.WithMsg("实体数据类型不匹配").WithData("id", id)
	}
	return fieldRelations(id, m.AsDto().Fields, gc), nil
}

func fieldRelations(id string, fields []model.DtoField, gc *extractor.GlobalContext) []*model.EntityRelation {
	var result []*model.EntityRelation
	add := func(t model.RelationType, target, field string) {
		if target == "" {
			return
		}
		if _, ok := gc.Lookup(target); !ok {
			logs.Debug("关系目标未解析", zap.String("source", id), zap.String("target", target))
		}
		result = append(result, &model.EntityRelation{Type: t, Source: id, Target: target, Field: field})
	}

	for _, f := range fields {
		switch f.Type {
		case model.FieldExtend:
			add(model.Extend, f.Extend, f.Name)
			if f.Relation != nil {
				add(model.UseDto, f.Relation.RelationClass, f.Name)
			}
		case model.FieldRelation:
			if f.Relation != nil {
				add(model.Relation, f.Relation.RelationClass, f.Name)
			}
		case model.FieldEnum:
			add(model.UseEnum, f.Enum, f.Name)
		}
	}
	return result
}
