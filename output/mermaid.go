package output

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/extractor"
	"github.com/CodMac/go-treesitter-gii/model"
)

// ExportMermaidHTML 生成包含 Mermaid.js 渲染逻辑的静态网页，实体按模块分组
func ExportMermaidHTML(w io.Writer, pc *core.ProjectContext, gc *extractor.GlobalContext, rels []*model.EntityRelation) error {
	var b strings.Builder

	// 1. 写入 HTML 模板头部
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Entity Map</title>
    <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
    <style>
        body { font-family: -apple-system, sans-serif; background: #f0f2f5; margin: 20px; }
        .mermaid { background: white; padding: 20px; border-radius: 12px; box-shadow: 0 4px 15px rgba(0,0,0,0.1); }
        h1 { color: #1a1a1a; text-align: center; }
    </style>
</head>
<body>
`)
	fmt.Fprintf(&b, "    <h1>%s</h1>\n", pc.Project.Name)
	b.WriteString("    <div class=\"mermaid\">\n")
	b.WriteString(MermaidGraph(pc, gc, rels))

	// 2. 写入脚本初始化和结尾
	b.WriteString(`    </div>
    <script>
        mermaid.initialize({
            startOnLoad: true,
            maxTextSize: 100000,
            theme: 'default',
            flowchart: { useMaxWidth: false, htmlLabels: true }
        });
    </script>
</body>
</html>
`)
	_, err := io.WriteString(w, b.String())
	return err
}

// MermaidGraph 生成 graph LR 定义：模块为 subgraph，关系为边
func MermaidGraph(pc *core.ProjectContext, gc *extractor.GlobalContext, rels []*model.EntityRelation) string {
	var b strings.Builder
	b.WriteString("    graph LR\n")

	// 按模块分组
	groups := make(map[string][]*extractor.EntityEntry)
	for _, entry := range gc.Entries() {
		module := ""
		if item := pc.Index.FindModule(entry.ID); item != nil {
			module = item.ID
		}
		groups[module] = append(groups[module], entry)
	}
	modules := make([]string, 0, len(groups))
	for module := range groups {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	for _, module := range modules {
		hasModule := module != ""
		if hasModule {
			fmt.Fprintf(&b, "    subgraph %s[\"%s\"]\n", safeID(module), path.Base(module))
		}
		for _, entry := range groups[module] {
			fmt.Fprintf(&b, "        %s[\"%s <small>(%s)</small>\"]\n", safeID(entry.ID), core.BaseName(entry.ID), entry.Type)
		}
		if hasModule {
			b.WriteString("    end\n")
		}
	}

	// 3. 生成实体关系
	for _, rel := range rels {
		arrow := "-->"
		switch rel.Type {
		case model.Extend:
			arrow = "==继承==>"
		case model.UseEnum:
			arrow = "-.枚举.->"
		case model.UseDto:
			arrow = "-.DTO.->"
		}
		fmt.Fprintf(&b, "    %s %s %s\n", safeID(rel.Source), arrow, safeID(rel.Target))
	}
	return b.String()
}

// safeID 确保实体 ID 符合 Mermaid 的 ID 命名规范
func safeID(id string) string {
	r := strings.NewReplacer(".", "_", "/", "_", "-", "_", "\\", "_", ":", "_", "@", "_")
	return "n_" + r.Replace(id)
}
