package typescript

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

type memberKind string

const (
	memberProperty memberKind = "property"
	memberMethod   memberKind = "method"
	memberConstant memberKind = "constant"
)

// member 是容器（类体或文件）中的一个成员
type member struct {
	Kind       memberKind
	Name       string
	Node       *sitter.Node
	Decorators []*sitter.Node
	Lead       int // 含前导注释
	Start      int // 含装饰器
	End        int // 含分号
}

// classMembers 收集类体中的字段与方法，方法装饰器可能作为兄弟节点出现
func classMembers(v *parser.View, body *sitter.Node) []member {
	var result []member
	var pending []*sitter.Node
	for _, child := range children(body) {
		var kind memberKind
		switch child.Kind() {
		case "decorator":
			pending = append(pending, child)
			continue
		case "comment":
			continue
		case "public_field_definition":
			kind = memberProperty
		case "method_definition":
			kind = memberMethod
		default:
			pending = nil
			continue
		}

		name := child.ChildByFieldName("name")
		if name == nil {
			pending = nil
			continue
		}
		m := member{
			Kind:       kind,
			Name:       v.Text(name),
			Node:       child,
			Decorators: append(pending, childrenOfKind(child, "decorator")...),
			Start:      start(child),
			End:        end(child),
		}
		first := child
		if len(pending) > 0 {
			first = pending[0]
			m.Start = start(first)
		}
		if next := child.NextSibling(); next != nil && next.Kind() == ";" {
			m.End = end(next)
		}
		m.Lead = leadingComments(v, first, m.Start)
		result = append(result, m)
		pending = nil
	}
	return result
}

func childrenOfKind(n *sitter.Node, kind string) []*sitter.Node {
	var result []*sitter.Node
	for _, child := range children(n) {
		if child.Kind() == kind {
			result = append(result, child)
		}
	}
	return result
}

// itemsConfig 描述一类成员的解析、比较与渲染
type itemsConfig[T any] struct {
	Kind      memberKind
	Members   []member // 容器内全部成员，按源码顺序
	Indent    int
	Separator string

	Key    func(item T) string
	Parse  func(m member) (T, error)
	Equal  func(a, b T) bool
	Render func(item T, indent int) (string, []model.Import, error)

	// Empty 在容器内没有任何保留成员时给出插入片段
	Empty func(rendered string) model.Fragment
}

// generateItems 对比目标列表与已有成员，只为变化的部分生成片段：
// 未变化的成员不动，变化的整体替换，缺失的删除，新增的追加到同类成员之后。
func generateItems[T any](v *parser.View, cfg itemsConfig[T], items []T) ([]model.Fragment, []model.Import, error) {
	existing := make(map[string]int)
	for i, m := range cfg.Members {
		if m.Kind == cfg.Kind {
			if _, ok := existing[m.Name]; !ok {
				existing[m.Name] = i
			}
		}
	}

	var fragments []model.Fragment
	var imports []model.Import
	var added []string
	kept := make(map[int]bool)

	for _, item := range items {
		rendered, itemImports, err := cfg.Render(item, cfg.Indent)
		if err != nil {
			return nil, nil, err
		}
		imports = append(imports, itemImports...)

		idx, ok := existing[cfg.Key(item)]
		if !ok || kept[idx] {
			added = append(added, rendered)
			continue
		}
		kept[idx] = true

		m := cfg.Members[idx]
		parsed, err := cfg.Parse(m)
		if err == nil && cfg.Equal(parsed, item) {
			continue
		}
		fragments = append(fragments, replaceMember(v, m, rendered))
	}

	removed := make(map[int]bool)
	for i, m := range cfg.Members {
		if m.Kind == cfg.Kind && !kept[i] {
			removed[i] = true
		}
	}
	fragments = append(fragments, deleteMembers(v.Source(), cfg.Members, removed)...)

	if len(added) > 0 {
		fragments = append(fragments, insertMembers(cfg, removed, added))
	}

	// 同一位置的插入排在删除之前
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Start != fragments[j].Start {
			return fragments[i].Start < fragments[j].Start
		}
		return fragments[i].End == fragments[i].Start && fragments[j].End != fragments[j].Start
	})
	return fragments, imports, nil
}

// replaceMember 独占行的成员从行首替换，渲染结果自带缩进
func replaceMember(v *parser.View, m member, rendered string) model.Fragment {
	code := v.Source()
	if onlySpaceBefore(code, m.Start) {
		return model.Fragment{Start: lineStart(code, m.Start), End: m.End, Replacement: rendered}
	}
	return model.Fragment{Start: m.Start, End: m.End, Replacement: trimIndent(rendered)}
}

// deleteMembers 把连续删除的成员合并为一个区间
func deleteMembers(code []byte, all []member, removed map[int]bool) []model.Fragment {
	var fragments []model.Fragment
	for i := 0; i < len(all); i++ {
		if !removed[i] {
			continue
		}
		first := i
		for i+1 < len(all) && removed[i+1] {
			i++
		}
		last := i

		switch {
		case first > 0:
			// 连同与前一个成员之间的空白和注释一起删除
			fragments = append(fragments, model.Fragment{Start: all[first-1].End, End: all[last].End})
		case last+1 < len(all):
			from, to := all[first].Lead, all[last+1].Lead
			if onlySpaceBefore(code, from) {
				from = lineStart(code, from)
			}
			if onlySpaceBefore(code, to) {
				to = lineStart(code, to)
			}
			fragments = append(fragments, model.Fragment{Start: from, End: to})
		default:
			// 容器被清空时一并去掉前面的空行，前面没有空行时去掉后面的
			from := all[first].Lead
			trimmed := false
			if onlySpaceBefore(code, from) {
				from = lineStart(code, from)
				for from >= 2 && code[from-1] == '\n' && code[from-2] == '\n' {
					from--
					trimmed = true
				}
			}
			to := lineEndAfter(code, all[last].End)
			if !trimmed && to > all[last].End {
				for to < len(code) && code[to] == '\n' {
					to++
				}
			}
			fragments = append(fragments, model.Fragment{Start: from, End: to})
		}
	}
	return fragments
}

// insertMembers 锚点依次为：最后一个保留的同类成员、最后一个保留的成员、容器起点
func insertMembers[T any](cfg itemsConfig[T], removed map[int]bool, added []string) model.Fragment {
	anchor := -1
	for i, m := range cfg.Members {
		if !removed[i] && m.Kind == cfg.Kind {
			anchor = i
		}
	}
	if anchor < 0 {
		for i := range cfg.Members {
			if !removed[i] {
				anchor = i
			}
		}
	}

	if anchor >= 0 {
		return model.Insert(cfg.Members[anchor].End, cfg.Separator+strings.Join(added, cfg.Separator))
	}
	return cfg.Empty(strings.Join(added, cfg.Separator))
}
