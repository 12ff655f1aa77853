package store

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
)

// FileStore 整读整写项目文件，文件一律以项目相对 ID 寻址
type FileStore interface {
	// Load 读取文件，文件不存在时返回 Exists=false 的空文件
	Load(root, id string) (*model.SourceFile, error)
	// Save 写回整个文件，按需创建父目录
	Save(file *model.SourceFile) error
	// Exists 用于模块解析时的探测
	Exists(root, id string) bool
	// List 返回目录下的直接子项名称（已排序），目录不存在时返回空
	List(root, dir string) ([]string, error)
}

// NewSourceFile 根据项目根目录与 ID 构造空文件
func NewSourceFile(root, id string) (*model.SourceFile, error) {
	clean, err := CleanID(id)
	if err != nil {
		return nil, err
	}
	ext := path.Ext(clean)
	return &model.SourceFile{
		ID:   clean,
		Path: filepath.Join(root, filepath.FromSlash(clean)),
		Name: strings.TrimSuffix(path.Base(clean), ext),
		Ext:  strings.TrimPrefix(ext, "."),
	}, nil
}

// CleanID 规范化 ID，拒绝逃出项目根目录的路径
func CleanID(id string) (string, error) {
	id = filepath.ToSlash(strings.TrimSpace(id))
	if id == "" {
		return "", errx.ErrInvalidArgument.WithData("id", id)
	}
	clean := path.Clean(strings.TrimPrefix(id, "./"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errx.ErrInvalidArgument.WithData("id", id)
	}
	return clean, nil
}

// DiskStore 基于本地文件系统
type DiskStore struct{}

func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

func (s *DiskStore) Load(root, id string) (*model.SourceFile, error) {
	file, err := NewSourceFile(root, id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return nil, errx.ErrIO.WithCause(err).WithData("path", file.Path)
	}

	file.Code = string(data)
	file.Exists = true
	return file, nil
}

func (s *DiskStore) Save(file *model.SourceFile) error {
	if err := os.MkdirAll(filepath.Dir(file.Path), 0o755); err != nil {
		return errx.ErrIO.WithCause(err).WithData("path", file.Path)
	}
	if err := os.WriteFile(file.Path, []byte(file.Code), 0o644); err != nil {
		return errx.ErrIO.WithCause(err).WithData("path", file.Path)
	}
	file.Exists = true
	return nil
}

func (s *DiskStore) Exists(root, id string) bool {
	clean, err := CleanID(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(clean)))
	return err == nil && !info.IsDir()
}

func (s *DiskStore) List(root, dir string) ([]string, error) {
	full := root
	if dir != "" && dir != "." {
		clean, err := CleanID(dir)
		if err != nil {
			return nil, err
		}
		full = filepath.Join(root, filepath.FromSlash(clean))
	}

	entries, err := os.ReadDir(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errx.ErrIO.WithCause(err).WithData("path", full)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// MemStore 内存实现，键为 Path
type MemStore struct {
	mu    sync.RWMutex
	files map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string]string)}
}

// Put 预置文件内容
func (s *MemStore) Put(root, id, code string) {
	file, err := NewSourceFile(root, id)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.Path] = code
}

func (s *MemStore) Load(root, id string) (*model.SourceFile, error) {
	file, err := NewSourceFile(root, id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if code, ok := s.files[file.Path]; ok {
		file.Code = code
		file.Exists = true
	}
	return file, nil
}

func (s *MemStore) Save(file *model.SourceFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.Path] = file.Code
	file.Exists = true
	return nil
}

func (s *MemStore) Exists(root, id string) bool {
	file, err := NewSourceFile(root, id)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[file.Path]
	return ok
}

func (s *MemStore) List(root, dir string) ([]string, error) {
	prefix := filepath.Clean(root)
	if dir != "" && dir != "." {
		clean, err := CleanID(dir)
		if err != nil {
			return nil, err
		}
		prefix = filepath.Join(prefix, filepath.FromSlash(clean))
	}
	prefix += string(filepath.Separator)

	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var names []string
	for p := range s.files {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, string(filepath.Separator))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
