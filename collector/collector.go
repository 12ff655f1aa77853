package collector

import (
	"encoding/json"
	"slices"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// Collector 负责一种实体的解析与生成。
type Collector interface {
	// Parse 把文件解析为实体描述。
	Parse(fc *core.FileContext, v *parser.View) (any, error)
	// Decode 把客户端提交的 JSON 解码为实体描述。
	Decode(data []byte) (any, error)
	// Generate 按实体描述修改文档，返回一并修改的其他文件。
	Generate(fc *core.FileContext, doc *parser.Document, data any) ([]*model.SourceFile, error)
}

var collectorMap = make(map[model.EntityType]Collector)

// RegisterCollector 注册一个实体类型与其对应的 Collector
func RegisterCollector(t model.EntityType, collector Collector) {
	collectorMap[t] = collector
}

// GetCollector 根据实体类型获取对应的 Collector 实例。
func GetCollector(t model.EntityType) (Collector, error) {
	collector, ok := collectorMap[t]
	if !ok {
		return nil, errx.ErrInvalidArgument.WithMsg("没有对应的解析器").WithData("type", string(t))
	}
	return collector, nil
}

// Types 已注册的实体类型
func Types() []model.EntityType {
	types := make([]model.EntityType, 0, len(collectorMap))
	for t := range collectorMap {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Funcs 用一对解析/生成函数实现 Collector，T 为实体描述的类型。
type Funcs[T any] struct {
	ParseFunc    func(fc *core.FileContext, v *parser.View) (*T, error)
	GenerateFunc func(fc *core.FileContext, doc *parser.Document, data *T) ([]*model.SourceFile, error)
}

func (f Funcs[T]) Parse(fc *core.FileContext, v *parser.View) (any, error) {
	data, err := f.ParseFunc(fc, v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f Funcs[T]) Decode(raw []byte) (any, error) {
	data := new(T)
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, errx.ErrInvalidArgument.WithMsg("实体数据格式错误").WithCause(err)
	}
	return data, nil
}

func (f Funcs[T]) Generate(fc *core.FileContext, doc *parser.Document, data any) ([]*model.SourceFile, error) {
	typed, ok := data.(*T)
	if !ok || typed == nil {
		return nil, errx.ErrInvalidArgument.WithMsg("实体数据类型不匹配")
	}
	return f.GenerateFunc(fc, doc, typed)
}

// Only 把只修改当前文档的生成函数适配为 GenerateFunc
func Only[T any](fn func(fc *core.FileContext, doc *parser.Document, data *T) error) func(*core.FileContext, *parser.Document, *T) ([]*model.SourceFile, error) {
	return func(fc *core.FileContext, doc *parser.Document, data *T) ([]*model.SourceFile, error) {
		return nil, fn(fc, doc, data)
	}
}
