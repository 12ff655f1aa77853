package context

import (
	"fmt"

	"github.com/CodMac/go-treesitter-gii/model"
)

// --- 语言特有的模块解析接口 ---

// ExistsFunc 判断项目内某个文件 ID 是否存在
type ExistsFunc func(id string) bool

type ModuleResolver interface {
	// Resolve 把 import 语句中的模块说明符解析为 giiId：
	// 项目文件为带扩展名的项目相对路径，外部包为去掉 node_modules、扩展名与 /index 的包路径
	Resolve(fileID, specifier string, exists ExistsFunc) string

	// Specifier 是 Resolve 的逆过程，生成 fromID 文件中引用 giiID 的写法
	Specifier(fromID, giiID string) string

	// IsProjectID 判断 giiId 是否指向项目内文件
	IsProjectID(giiID string) bool
}

var moduleResolverMap = make(map[model.Language]ModuleResolver)

// RegisterModuleResolver 注册一个语言与其对应的 ModuleResolver
func RegisterModuleResolver(lang model.Language, resolver ModuleResolver) {
	moduleResolverMap[lang] = resolver
}

// GetModuleResolver 根据语言类型获取对应的 ModuleResolver 实例。
func GetModuleResolver(lang model.Language) (ModuleResolver, error) {
	resolver, ok := moduleResolverMap[lang]
	if !ok {
		return nil, fmt.Errorf("no ModuleResolver for language: %s", lang)
	}

	return resolver, nil
}
