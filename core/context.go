package core

import (
	"slices"

	"github.com/CodMac/go-treesitter-gii/context"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/store"
)

// ProjectContext 是一次请求内对某个项目的全部依赖
type ProjectContext struct {
	Project *model.Project
	Index   *EntityIndex
	Store   store.FileStore
}

func NewProjectContext(project *model.Project, st store.FileStore) *ProjectContext {
	return &ProjectContext{
		Project: project,
		Index:   NewEntityIndex(project.Structure),
		Store:   st,
	}
}

// Load 读取项目文件
func (pc *ProjectContext) Load(id string) (*model.SourceFile, error) {
	return pc.Store.Load(pc.Project.Path, id)
}

// Exists 判断项目文件是否存在
func (pc *ProjectContext) Exists(id string) bool {
	return pc.Store.Exists(pc.Project.Path, id)
}

// FileContext 是单个文件的解析上下文：当前文件、它的导入与主类名，
// 用于把源码中的标识符解析为实体 ID。
type FileContext struct {
	Project   *ProjectContext
	File      *model.SourceFile
	Imports   []model.Import
	ClassName string
	resolver  context.ModuleResolver
}

func NewFileContext(pc *ProjectContext, file *model.SourceFile) (*FileContext, error) {
	resolver, err := context.GetModuleResolver(model.LanguageOf(file.ID))
	if err != nil {
		return nil, err
	}
	return &FileContext{
		Project:  pc,
		File:     file,
		resolver: resolver,
	}, nil
}

// ResolveModule 把模块说明符解析为 giiId
func (fc *FileContext) ResolveModule(specifier string) string {
	return fc.resolver.Resolve(fc.File.ID, specifier, fc.Project.Exists)
}

// ModuleSpecifier 生成当前文件引用 giiID 的写法
func (fc *FileContext) ModuleSpecifier(giiID string) string {
	return fc.resolver.Specifier(fc.File.ID, giiID)
}

// IsProjectID 判断 giiId 是否指向项目文件
func (fc *FileContext) IsProjectID(giiID string) bool {
	return fc.resolver.IsProjectID(giiID)
}

// ResolveSymbol 把类名解析为实体 ID：
// 1. 当前文件声明的类；2. 从项目文件导入的名字。外部包的名字不解析。
func (fc *FileContext) ResolveSymbol(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	// 1. 自身
	if name == fc.ClassName || (fc.ClassName == "" && name == fc.File.Name) {
		return fc.File.ID, true
	}

	// 2. 导入
	for _, imp := range fc.Imports {
		if imp.Default != name && !slices.ContainsFunc(imp.Names, func(n string) bool { return model.LocalName(n) == name }) {
			continue
		}
		if fc.resolver.IsProjectID(imp.GiiID) {
			return imp.GiiID, true
		}
		return "", false
	}

	return "", false
}

// Sibling 为同一项目的另一个文件创建上下文
func (fc *FileContext) Sibling(file *model.SourceFile) (*FileContext, error) {
	return NewFileContext(fc.Project, file)
}
