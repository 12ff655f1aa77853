package nest

import (
	"github.com/CodMac/go-treesitter-gii/collector"
	"github.com/CodMac/go-treesitter-gii/extractor"
	"github.com/CodMac/go-treesitter-gii/model"
)

func init() {
	// 注册实体解析器
	collector.RegisterCollector(model.EntityDto, collector.Funcs[model.Dto]{
		ParseFunc:    ParseDto,
		GenerateFunc: collector.Only(GenerateDto),
	})
	collector.RegisterCollector(model.EntityModel, collector.Funcs[model.Model]{
		ParseFunc:    ParseModel,
		GenerateFunc: GenerateModel,
	})
	collector.RegisterCollector(model.EntityEnum, collector.Funcs[model.Enum]{
		ParseFunc:    ParseEnum,
		GenerateFunc: collector.Only(GenerateEnum),
	})
	collector.RegisterCollector(model.EntityPermissions, collector.Funcs[model.Permissions]{
		ParseFunc:    ParsePermissions,
		GenerateFunc: collector.Only(GeneratePermissions),
	})

	// 注册关系提取器
	extractor.RegisterExtractor(model.EntityDto, func() extractor.Extractor { return extractor.Func(ExtractDto) })
	extractor.RegisterExtractor(model.EntityModel, func() extractor.Extractor { return extractor.Func(ExtractModel) })
}
