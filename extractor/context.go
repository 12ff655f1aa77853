package extractor

import (
	"sort"
	"sync"

	"github.com/CodMac/go-treesitter-gii/model"
)

// GlobalContext 存储了项目中所有实体的解析结果，用于跨文件确认关系的目标。
type GlobalContext struct {
	Entities map[string]*EntityEntry // ID -> *EntityEntry
	mu       sync.RWMutex
}

// EntityEntry 代表一个已解析的实体
type EntityEntry struct {
	ID     string
	Type   model.EntityType
	Entity any
}

// NewGlobalContext 初始化全局上下文
func NewGlobalContext() *GlobalContext {
	return &GlobalContext{Entities: make(map[string]*EntityEntry)}
}

// Register 将单个实体添加到全局上下文（并发安全）。
func (gc *GlobalContext) Register(entry *EntityEntry) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	gc.Entities[entry.ID] = entry
}

// Lookup 按 ID 查找实体
func (gc *GlobalContext) Lookup(id string) (*EntityEntry, bool) {
	gc.mu.RLock()
	defer gc.mu.RUnlock()

	entry, ok := gc.Entities[id]
	return entry, ok
}

// Entries 按 ID 排序返回全部实体
func (gc *GlobalContext) Entries() []*EntityEntry {
	gc.mu.RLock()
	defer gc.mu.RUnlock()

	result := make([]*EntityEntry, 0, len(gc.Entities))
	for _, entry := range gc.Entities {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
