package core

import (
	"path"
	"strings"

	"github.com/CodMac/go-treesitter-gii/model"
)

// EntityIndex 在项目结构树上按 ID 或条件查找实体
type EntityIndex struct {
	items []*model.StructureItem
}

func NewEntityIndex(items []*model.StructureItem) *EntityIndex {
	return &EntityIndex{items: items}
}

// Walk 先序遍历，fn 返回 false 时停止
func (ix *EntityIndex) Walk(fn func(item *model.StructureItem) bool) {
	walkItems(ix.items, fn)
}

func walkItems(items []*model.StructureItem, fn func(item *model.StructureItem) bool) bool {
	for _, item := range items {
		if !fn(item) {
			return false
		}
		if !walkItems(item.Items, fn) {
			return false
		}
	}
	return true
}

// FindOne 按 ID 查找
func (ix *EntityIndex) FindOne(id string) *model.StructureItem {
	return ix.FindOneBy(func(item *model.StructureItem) bool { return item.ID == id })
}

// FindOneBy 返回第一个满足条件的节点
func (ix *EntityIndex) FindOneBy(pred func(item *model.StructureItem) bool) *model.StructureItem {
	var found *model.StructureItem
	ix.Walk(func(item *model.StructureItem) bool {
		if pred(item) {
			found = item
			return false
		}
		return true
	})
	return found
}

// FindMany 返回所有满足条件的节点
func (ix *EntityIndex) FindMany(pred func(item *model.StructureItem) bool) []*model.StructureItem {
	var result []*model.StructureItem
	ix.Walk(func(item *model.StructureItem) bool {
		if pred(item) {
			result = append(result, item)
		}
		return true
	})
	return result
}

// FindModule 返回包含 id 的模块节点
func (ix *EntityIndex) FindModule(id string) *model.StructureItem {
	for _, module := range ix.FindMany(OfType(model.EntityModule)) {
		if NewEntityIndex(module.Items).FindOne(id) != nil {
			return module
		}
	}
	return nil
}

// FindByName 按类名（文件名去掉扩展名）查找指定类型的实体
func (ix *EntityIndex) FindByName(name string, types ...model.EntityType) *model.StructureItem {
	return ix.FindOneBy(func(item *model.StructureItem) bool {
		if item.Type == "" || BaseName(item.Name) != name {
			return false
		}
		if len(types) == 0 {
			return true
		}
		for _, t := range types {
			if item.Type == t {
				return true
			}
		}
		return false
	})
}

// OfType 按类型过滤
func OfType(t model.EntityType) func(item *model.StructureItem) bool {
	return func(item *model.StructureItem) bool { return item.Type == t }
}

// BaseName 去掉目录与扩展名：src/a/UserModel.ts -> UserModel
func BaseName(id string) string {
	base := path.Base(id)
	return strings.TrimSuffix(base, path.Ext(base))
}
