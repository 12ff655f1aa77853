package extractor

import (
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
)

// Extractor 在所有实体解析完成后，从单个实体描述中提取它指向其他实体的关系。
type Extractor interface {
	// Extract 接收实体 ID、实体描述和全局上下文，返回实体关系。
	Extract(id string, entity any, gc *GlobalContext) ([]*model.EntityRelation, error)
}

// ExtractorFactory 用于创建特定实体类型的 Extractor 实例。
type ExtractorFactory func() Extractor

var extractorFactories = make(map[model.EntityType]ExtractorFactory)

// RegisterExtractor 注册一个实体类型与其对应的 Extractor 工厂函数。
func RegisterExtractor(t model.EntityType, factory ExtractorFactory) {
	extractorFactories[t] = factory
}

// GetExtractor 根据实体类型获取对应的 Extractor 实例。
func GetExtractor(t model.EntityType) (Extractor, error) {
	factory, ok := extractorFactories[t]
	if !ok {
		return nil, errx.ErrNotFound.WithMsg("没有对应的关系提取器").WithData("type", string(t))
	}
	return factory(), nil
}

// Func 把普通函数适配为 Extractor
type Func func(id string, entity any, gc *GlobalContext) ([]*model.EntityRelation, error)

func (f Func) Extract(id string, entity any, gc *GlobalContext) ([]*model.EntityRelation, error) {
	return f(id, entity, gc)
}
