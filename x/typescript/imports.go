package typescript

import (
	"slices"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

func ImportWithName(giiID, name string) model.Import {
	return model.Import{GiiID: giiID, Names: []string{name}}
}

func ImportDefault(giiID, name string) model.Import {
	return model.Import{GiiID: giiID, Default: name}
}

func importNodes(v *parser.View) []*sitter.Node {
	var result []*sitter.Node
	for _, stmt := range namedChildren(v.Root()) {
		if stmt.Kind() == "import_statement" {
			result = append(result, stmt)
		}
	}
	return result
}

// ParseImports 解析顶层 import 语句，模块说明符解析为 giiId
func ParseImports(fc *core.FileContext, v *parser.View) []model.Import {
	var result []model.Import
	for _, stmt := range importNodes(v) {
		source := stmt.ChildByFieldName("source")
		if source == nil {
			continue
		}
		specifier, err := decodeString(v, source)
		if err != nil {
			continue
		}

		imp := model.Import{GiiID: specifier}
		if fc != nil {
			imp.GiiID = fc.ResolveModule(specifier)
		}

		clause := findChildOfKind(stmt, "import_clause")
		for _, child := range namedChildren(clause) {
			switch child.Kind() {
			case "identifier":
				imp.Default = v.Text(child)
			case "namespace_import":
				if id := findChildOfKind(child, "identifier"); id != nil {
					imp.Namespace = v.Text(id)
				}
			case "named_imports":
				for _, spec := range namedChildren(child) {
					if spec.Kind() != "import_specifier" {
						continue
					}
					name := v.Text(spec.ChildByFieldName("name"))
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						name += " as " + v.Text(alias)
					}
					imp.Names = append(imp.Names, name)
				}
			}
		}
		result = append(result, imp)
	}
	return result
}

// NormalizeImports 按 giiId 合并，名字去重并保留首次出现的顺序
func NormalizeImports(fc *core.FileContext, items []model.Import) []model.Import {
	var result []model.Import
	index := make(map[string]int)
	for _, item := range items {
		// 外部模块统一为包名，node_modules 路径与包名视为同一模块
		if fc != nil && !fc.IsProjectID(item.GiiID) {
			item.GiiID = fc.ModuleSpecifier(item.GiiID)
		}
		i, ok := index[item.GiiID]
		if !ok {
			index[item.GiiID] = len(result)
			result = append(result, model.Import{GiiID: item.GiiID})
			i = len(result) - 1
		}
		mergeInto(&result[i], item)
	}
	return SortImports(fc, result)
}

func mergeInto(dst *model.Import, src model.Import) {
	for _, name := range src.Names {
		if !slices.Contains(dst.Names, name) {
			dst.Names = append(dst.Names, name)
		}
	}
	if dst.Default == "" {
		dst.Default = src.Default
	}
	if dst.Namespace == "" {
		dst.Namespace = src.Namespace
	}
}

// MergeImports 把新导入合并进已有导入，已有的名字不会丢失
func MergeImports(fc *core.FileContext, prev, next []model.Import) []model.Import {
	return NormalizeImports(fc, append(slices.Clone(prev), next...))
}

// SortImports 外部模块在前、项目文件在后，组内保持原顺序
func SortImports(fc *core.FileContext, items []model.Import) []model.Import {
	sort.SliceStable(items, func(i, j int) bool {
		return !isProjectImport(fc, items[i]) && isProjectImport(fc, items[j])
	})
	return items
}

func isProjectImport(fc *core.FileContext, item model.Import) bool {
	if fc == nil {
		return strings.HasPrefix(item.GiiID, ".")
	}
	return fc.IsProjectID(item.GiiID)
}

// GenerateImports 渲染导入语句，每个模块一行
func GenerateImports(fc *core.FileContext, items []model.Import) string {
	lines := make([]string, 0, len(items))
	for _, item := range NormalizeImports(fc, items) {
		from := item.GiiID
		if fc != nil {
			from = fc.ModuleSpecifier(item.GiiID)
		}

		if item.Namespace != "" {
			clause := "* as " + item.Namespace
			if item.Default != "" && len(item.Names) == 0 {
				clause = item.Default + ", " + clause
				item.Default = ""
			}
			lines = append(lines, "import "+clause+" from "+model.QuoteString(from)+";")
			if item.Default == "" && len(item.Names) == 0 {
				continue
			}
		}

		var parts []string
		if item.Default != "" {
			parts = append(parts, item.Default)
		}
		switch len(item.Names) {
		case 0:
		case 1:
			parts = append(parts, "{"+item.Names[0]+"}")
		default:
			tab := model.Indent(1)
			parts = append(parts, "{\n"+tab+strings.Join(item.Names, ",\n"+tab)+",\n}")
		}
		if len(parts) == 0 {
			lines = append(lines, "import "+model.QuoteString(from)+";")
			continue
		}
		lines = append(lines, "import "+strings.Join(parts, ", ")+" from "+model.QuoteString(from)+";")
	}
	return strings.Join(lines, "\n")
}

// ReplaceImports 合并导入并重写导入区。没有新增内容时文件保持不变。
func ReplaceImports(fc *core.FileContext, doc *parser.Document, items []model.Import) error {
	v, err := doc.View()
	if err != nil {
		return err
	}
	prev := ParseImports(fc, v)
	current := NormalizeImports(fc, slices.Clone(prev))
	merged := MergeImports(fc, prev, items)
	if fc != nil {
		fc.Imports = merged
	}
	if importsEqual(current, merged) {
		return nil
	}

	rendered := GenerateImports(fc, merged)
	nodes := importNodes(v)
	if len(nodes) == 0 {
		code := doc.Code()
		switch {
		case strings.HasPrefix(code, "\n\n"):
		case strings.HasPrefix(code, "\n"):
			rendered += "\n"
		default:
			rendered += "\n\n"
		}
		return doc.Apply(v, []model.Fragment{model.Insert(0, rendered)})
	}

	return doc.Apply(v, []model.Fragment{{
		Start:       start(nodes[0]),
		End:         end(nodes[len(nodes)-1]),
		Replacement: rendered,
	}})
}

func importsEqual(a, b []model.Import) bool {
	return slices.EqualFunc(a, b, func(x, y model.Import) bool {
		return x.GiiID == y.GiiID &&
			x.Default == y.Default &&
			x.Namespace == y.Namespace &&
			slices.Equal(x.Names, y.Names)
	})
}
