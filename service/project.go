package service

import (
	"context"
	"encoding/json"
	"path"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/collector"
	"github.com/CodMac/go-treesitter-gii/config"
	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/logs"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/output"
	"github.com/CodMac/go-treesitter-gii/processor"
	"github.com/CodMac/go-treesitter-gii/store"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

// 新建实体文件的扩展名
const entityExt = ".ts"

// Item 是一个已解析的项目文件
type Item struct {
	ID   string           `json:"id"`
	Type model.EntityType `json:"type"`
	Data any              `json:"data"`
}

// FileChange 是一次生成对单个文件的修改
type FileChange struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Diff    string `json:"diff"`
	Created bool   `json:"created"`
}

// Graph 是项目实体关系图
type Graph struct {
	Project *core.ProjectContext
	*processor.Result
}

type projectEntry struct {
	name string
	path string
	mu   sync.RWMutex // 同一项目的保存串行执行
}

// ProjectService 管理配置中的项目：扫描结构、解析实体、预览与保存生成结果。
type ProjectService struct {
	store   store.FileStore
	workers int

	mu       sync.RWMutex
	projects map[string]*projectEntry
	order    []string
}

func NewProjectService(projects []config.ProjectConfig, st store.FileStore, workers int) *ProjectService {
	s := &ProjectService{store: st, workers: workers}
	s.SetProjects(projects)
	return s
}

// SetProjects 替换项目列表，同名项目沿用原来的锁
func (s *ProjectService) SetProjects(projects []config.ProjectConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.projects
	s.projects = make(map[string]*projectEntry, len(projects))
	s.order = s.order[:0]
	for _, p := range projects {
		if p.Path == "" {
			continue
		}
		name := p.Name
		if name == "" {
			name = filepath.Base(p.Path)
		}
		if _, dup := s.projects[name]; dup {
			logs.Warn("项目名称重复，忽略", zap.String("project", name), zap.String("path", p.Path))
			continue
		}
		entry, ok := prev[name]
		if !ok || entry.path != p.Path {
			entry = &projectEntry{name: name, path: p.Path}
		}
		s.projects[name] = entry
		s.order = append(s.order, name)
	}
}

func (s *ProjectService) entry(name string) (*projectEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.projects[name]
	if !ok {
		return nil, errx.ErrNotFound.WithMsg("项目不存在").WithData("project", name)
	}
	return entry, nil
}

func (s *ProjectService) scan(entry *projectEntry) (*core.ProjectContext, error) {
	project, err := core.ScanProject(entry.path, s.store)
	if err != nil {
		return nil, err
	}
	project.Name = entry.name
	return core.NewProjectContext(project, s.store), nil
}

// List 列出能识别结构的项目，失败的项目记录日志后跳过
func (s *ProjectService) List() []*model.Project {
	s.mu.RLock()
	entries := make([]*projectEntry, 0, len(s.order))
	for _, name := range s.order {
		entries = append(entries, s.projects[name])
	}
	s.mu.RUnlock()

	result := make([]*model.Project, 0, len(entries))
	for _, entry := range entries {
		if _, err := s.scan(entry); err != nil {
			logs.Warn("项目扫描失败", zap.String("project", entry.name), zap.String("path", entry.path), zap.Error(err))
			continue
		}
		result = append(result, &model.Project{Name: entry.name, Path: entry.path})
	}
	return result
}

// Structure 返回项目结构树
func (s *ProjectService) Structure(name string) (*model.Project, error) {
	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	pc, err := s.scan(entry)
	if err != nil {
		return nil, err
	}
	return pc.Project, nil
}

// Parse 按结构树中的类型解析文件，没有类型的文件按整个文件的结构解析
func (s *ProjectService) Parse(name, id string) (*Item, error) {
	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()

	pc, err := s.scan(entry)
	if err != nil {
		return nil, err
	}
	id, t, err := resolveTarget(pc, id, nil)
	if err != nil {
		return nil, err
	}
	if !pc.Exists(id) {
		return nil, errx.ErrNotFound.WithMsg("文件不存在").WithData("id", id)
	}
	c, err := collector.GetCollector(t)
	if err != nil {
		return nil, err
	}

	file, data, err := typescript.ParseFile(pc, id, c)
	if err != nil {
		return nil, err
	}
	return &Item{ID: file.ID, Type: t, Data: data}, nil
}

// Preview 按提交的实体描述生成代码，不写回磁盘
func (s *ProjectService) Preview(name, id string, data []byte) ([]*FileChange, error) {
	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()

	pc, err := s.scan(entry)
	if err != nil {
		return nil, err
	}
	return generate(pc, id, data)
}

// Save 生成代码并写回所有修改的文件
func (s *ProjectService) Save(name, id string, data []byte) ([]*FileChange, error) {
	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	pc, err := s.scan(entry)
	if err != nil {
		return nil, err
	}
	changes, err := generate(pc, id, data)
	if err != nil {
		return nil, err
	}

	for _, change := range changes {
		file, err := store.NewSourceFile(pc.Project.Path, change.ID)
		if err != nil {
			return nil, err
		}
		file.Code = change.Code
		if err := pc.Store.Save(file); err != nil {
			return nil, err
		}
		logs.Info("保存文件", zap.String("project", name), zap.String("file", change.ID), zap.Bool("created", change.Created))
	}
	return changes, nil
}

// Graph 解析项目全部实体并提取实体关系
func (s *ProjectService) Graph(ctx context.Context, name string) (*Graph, error) {
	entry, err := s.entry(name)
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()

	pc, err := s.scan(entry)
	if err != nil {
		return nil, err
	}
	result, err := processor.NewEntityProcessor(s.workers).ProcessProject(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &Graph{Project: pc, Result: result}, nil
}

func generate(pc *core.ProjectContext, id string, data []byte) ([]*FileChange, error) {
	id, t, err := resolveTarget(pc, id, data)
	if err != nil {
		return nil, err
	}
	c, err := collector.GetCollector(t)
	if err != nil {
		return nil, err
	}
	entity, err := c.Decode(data)
	if err != nil {
		return nil, err
	}

	fc, doc, err := typescript.Open(pc, id)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	others, err := c.Generate(fc, doc, entity)
	if err != nil {
		return nil, err
	}

	var changes []*FileChange
	if doc.Code() != fc.File.Code || !fc.File.Exists {
		change, err := newChange(fc.File, doc.Code())
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	for _, file := range others {
		prev, err := pc.Load(file.ID)
		if err != nil {
			return nil, err
		}
		change, err := newChange(prev, file.Code)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func newChange(prev *model.SourceFile, code string) (*FileChange, error) {
	diff, err := output.UnifiedDiff(prev.ID, prev.Code, code)
	if err != nil {
		return nil, err
	}
	return &FileChange{ID: prev.ID, Code: code, Diff: diff, Created: !prev.Exists}, nil
}

// resolveTarget 确定 id 对应的文件与实体类型。
// id 为带 createType 的目录时，在其中新建 <Name>.ts；
// 不在结构树中的文件取所在目录的 createType，都没有时按整个文件处理。
func resolveTarget(pc *core.ProjectContext, id string, data []byte) (string, model.EntityType, error) {
	id, err := store.CleanID(id)
	if err != nil {
		return "", "", err
	}

	item := pc.Index.FindOne(id)
	switch {
	case item == nil:
		if parent := pc.Index.FindOne(path.Dir(id)); parent != nil && creatable(parent) {
			return id, parent.CreateType, nil
		}
		return id, model.EntityFile, nil
	case item.Items == nil:
		if item.Type == "" {
			return id, model.EntityFile, nil
		}
		return id, item.Type, nil
	case !creatable(item) || data == nil:
		return "", "", errx.ErrInvalidArgument.WithMsg("目录不能作为实体").WithData("id", id)
	}

	var named struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &named); err != nil {
		return "", "", errx.ErrInvalidArgument.WithMsg("实体数据格式错误").WithCause(err)
	}
	if named.Name == "" {
		return "", "", errx.ErrInvalidArgument.WithMsg("类名不能为空").WithData("id", id)
	}
	if !model.IsIdentifier(named.Name) {
		return "", "", errx.ErrInvalidArgument.WithMsg("类名不合法").WithData("name", named.Name)
	}
	return path.Join(item.ID, named.Name+entityExt), item.CreateType, nil
}

// creatable 目录中可以新建文件实体，模块目录只能手工创建
func creatable(item *model.StructureItem) bool {
	return item.CreateType != "" && item.CreateType != model.EntityModule
}
