package typescript

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/CodMac/go-treesitter-gii/collector"
	"github.com/CodMac/go-treesitter-gii/context"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/noisefilter"
)

func init() {
	// 注册 Tree-sitter TypeScript / TSX 语言对象
	model.RegisterLanguage(model.LangTypeScript, sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()))
	model.RegisterLanguage(model.LangTSX, sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()))
	// 注册 ModuleResolver(模块解析)
	resolver := NewModuleResolver()
	context.RegisterModuleResolver(model.LangTypeScript, resolver)
	context.RegisterModuleResolver(model.LangTSX, resolver)
	// 注册 NoiseFilter(噪音过滤)
	noisefilter.RegisterNoiseFilter(model.LangTypeScript, NewTsNoiseFilter())
	noisefilter.RegisterNoiseFilter(model.LangTSX, NewTsNoiseFilter())
	// 注册 Collector(没有专门解析器的源文件)
	collector.RegisterCollector(model.EntityFile, collector.Funcs[model.TsFile]{
		ParseFunc:    ParseTs,
		GenerateFunc: collector.Only(GenerateTs),
	})
}
