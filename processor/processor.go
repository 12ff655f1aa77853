package processor

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/collector"
	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/extractor"
	"github.com/CodMac/go-treesitter-gii/logs"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

// EntityProcessor 并发解析项目中的实体文件，并聚合实体之间的关系。
type EntityProcessor struct {
	Workers int // 并发协程数量
}

// NewEntityProcessor 创建 EntityProcessor 实例
func NewEntityProcessor(workers int) *EntityProcessor {
	if workers <= 0 {
		workers = 4 // 默认并发数
	}
	return &EntityProcessor{Workers: workers}
}

// Result 是一次处理的产物
type Result struct {
	Context   *extractor.GlobalContext
	Relations []*model.EntityRelation
}

// ProcessProject 实现了两阶段处理逻辑：先解析全部实体，再提取关系。
// 单个文件失败只记录日志，不影响其他文件。
func (p *EntityProcessor) ProcessProject(ctx context.Context, pc *core.ProjectContext) (*Result, error) {
	items := pc.Index.FindMany(func(item *model.StructureItem) bool {
		return item.Type != "" && item.Type != model.EntityModule
	})

	gc := extractor.NewGlobalContext()

	// --- 阶段 1: 解析实体 ---
	logs.Info("解析实体", zap.String("project", pc.Project.Name), zap.Int("files", len(items)))
	if err := p.runPhase(ctx, items, func(item *model.StructureItem) {
		p.parseEntity(pc, gc, item)
	}); err != nil {
		return nil, err
	}

	// --- 阶段 2: 提取关系 ---
	entries := gc.Entries()
	var mu sync.Mutex
	var relations []*model.EntityRelation
	byID := make(map[string]*extractor.EntityEntry, len(entries))
	phase2 := make([]*model.StructureItem, 0, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
		phase2 = append(phase2, &model.StructureItem{ID: entry.ID, Type: entry.Type})
	}
	if err := p.runPhase(ctx, phase2, func(item *model.StructureItem) {
		rels := p.extractRelations(gc, byID[item.ID])
		mu.Lock()
		relations = append(relations, rels...)
		mu.Unlock()
	}); err != nil {
		return nil, err
	}

	sort.SliceStable(relations, func(i, j int) bool {
		a, b := relations[i], relations[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Type < b.Type
	})
	logs.Info("实体关系提取完成", zap.Int("entities", len(entries)), zap.Int("relations", len(relations)))
	return &Result{Context: gc, Relations: relations}, nil
}

// runPhase 运行一个并发阶段，ctx 取消时停止派发并返回 ctx.Err()
func (p *EntityProcessor) runPhase(ctx context.Context, items []*model.StructureItem, fn func(item *model.StructureItem)) error {
	itemsChan := make(chan *model.StructureItem)
	var wg sync.WaitGroup

	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemsChan {
				fn(item)
			}
		}()
	}

	var err error
dispatch:
	for _, item := range items {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case itemsChan <- item:
		}
	}
	close(itemsChan)
	wg.Wait()
	return err
}

// parseEntity 负责第一阶段：文件解析并注册到全局上下文。
func (p *EntityProcessor) parseEntity(pc *core.ProjectContext, gc *extractor.GlobalContext, item *model.StructureItem) {
	c, err := collector.GetCollector(item.Type)
	if err != nil {
		logs.Debug("跳过没有解析器的实体", zap.String("file", item.ID), zap.String("type", string(item.Type)))
		return
	}
	_, entity, err := typescript.ParseFile(pc, item.ID, c)
	if err != nil {
		logs.Warn("解析实体失败", zap.String("file", item.ID), zap.Error(err))
		return
	}
	gc.Register(&extractor.EntityEntry{ID: item.ID, Type: item.Type, Entity: entity})
}

// extractRelations 负责第二阶段：依赖关系提取。
func (p *EntityProcessor) extractRelations(gc *extractor.GlobalContext, entry *extractor.EntityEntry) []*model.EntityRelation {
	ext, err := extractor.GetExtractor(entry.Type)
	if err != nil {
		return nil
	}
	relations, err := ext.Extract(entry.ID, entry.Entity, gc)
	if err != nil {
		logs.Warn("提取实体关系失败", zap.String("file", entry.ID), zap.Error(err))
		return nil
	}
	return relations
}
