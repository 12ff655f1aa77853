package typescript

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/CodMac/go-treesitter-gii/context"
)

const nodeModulesPrefix = "node_modules/"

var (
	sourceExts  = []string{".ts", ".tsx", ".js", ".jsx"}
	probeSuffix = []string{"", ".ts", ".tsx", ".js", "/index.ts", "/index.tsx", "/index.js"}
)

// ModuleResolver 按 Node 的模块解析规则探测项目文件
type ModuleResolver struct{}

func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{}
}

func (r *ModuleResolver) Resolve(fileID, specifier string, exists context.ExistsFunc) string {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		return ""
	}

	relative := strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/")
	var bases []string
	if relative {
		// 1. 相对当前文件；2. 相对项目根目录
		bases = append(bases,
			path.Join(path.Dir(fileID), specifier),
			path.Clean(strings.TrimLeft(specifier, "/")),
		)
	} else if !strings.HasPrefix(specifier, nodeModulesPrefix) {
		// baseUrl 风格的 src/... 导入
		bases = append(bases, path.Clean(specifier))
	}

	if exists != nil {
		for _, base := range bases {
			if strings.HasPrefix(base, "..") {
				continue
			}
			for _, suffix := range probeSuffix {
				candidate := base + suffix
				if r.IsProjectID(candidate) && exists(candidate) {
					return candidate
				}
			}
		}
	}

	if relative && len(bases) > 0 && !strings.HasPrefix(bases[0], "..") {
		if r.IsProjectID(bases[0]) {
			return bases[0]
		}
		return bases[0] + ".ts"
	}
	return packageID(specifier)
}

func (r *ModuleResolver) Specifier(fromID, giiID string) string {
	if !r.IsProjectID(giiID) {
		return packageID(giiID)
	}

	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(fromID)), filepath.FromSlash(giiID))
	if err != nil {
		return giiID
	}
	rel = stripModuleSuffix(filepath.ToSlash(rel))
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func (r *ModuleResolver) IsProjectID(giiID string) bool {
	if strings.HasPrefix(giiID, nodeModulesPrefix) {
		return false
	}
	ext := path.Ext(giiID)
	for _, e := range sourceExts {
		if ext == e {
			return true
		}
	}
	return false
}

// packageID node_modules/@a/b/index.js -> @a/b
func packageID(specifier string) string {
	return stripModuleSuffix(strings.TrimPrefix(specifier, nodeModulesPrefix))
}

func stripModuleSuffix(id string) string {
	id = strings.TrimSuffix(id, ".d.ts")
	for _, e := range sourceExts {
		id = strings.TrimSuffix(id, e)
	}
	if id == "index" {
		return "."
	}
	return strings.TrimSuffix(id, "/index")
}
