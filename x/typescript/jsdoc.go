package typescript

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// Jsdoc 是 /** */ 注释的结构化内容
type Jsdoc struct {
	Description string
	Tags        []model.JsdocTag
}

// Equal 比较描述与标签
func (j Jsdoc) Equal(o Jsdoc) bool {
	if j.Description != o.Description || len(j.Tags) != len(o.Tags) {
		return false
	}
	for i := range j.Tags {
		if j.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return true
}

// findJsdoc 返回紧贴在语句之上的 /** */ 注释
func findJsdoc(v *parser.View, stmt *sitter.Node) *sitter.Node {
	prev := stmt.PrevSibling()
	if !isComment(prev) || !strings.HasPrefix(v.Text(prev), "/**") {
		return nil
	}
	if newlinesBetween(v.Source(), end(prev), start(stmt)) > 1 {
		return nil
	}
	return prev
}

// ParseJsdoc 解析注释文本
func ParseJsdoc(comment string) Jsdoc {
	body := strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")

	var doc Jsdoc
	var desc []string
	var tag *model.JsdocTag
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")
		line = strings.TrimRight(line, " \t\r")

		if strings.HasPrefix(line, "@") {
			name, value, _ := strings.Cut(line[1:], " ")
			doc.Tags = append(doc.Tags, model.JsdocTag{Name: name, Value: strings.TrimSpace(value)})
			tag = &doc.Tags[len(doc.Tags)-1]
			continue
		}
		if tag != nil {
			if line != "" {
				tag.Value = strings.TrimSpace(tag.Value + " " + line)
			}
			continue
		}
		desc = append(desc, line)
	}

	doc.Description = strings.Trim(strings.Join(desc, "\n"), "\n")
	return doc
}

// RenderJsdoc 渲染注释；没有任何内容时返回空串
func RenderJsdoc(doc Jsdoc, indent int) string {
	if doc.Description == "" && len(doc.Tags) == 0 {
		return ""
	}
	tab := model.Indent(indent)
	lines := []string{tab + "/**"}
	if doc.Description != "" {
		for _, line := range strings.Split(doc.Description, "\n") {
			lines = append(lines, strings.TrimRight(tab+" * "+line, " "))
		}
	}
	for _, tag := range doc.Tags {
		line := tab + " * @" + tag.Name
		if tag.Value != "" {
			line += " " + tag.Value
		}
		lines = append(lines, line)
	}
	lines = append(lines, tab+" */")
	return strings.Join(lines, "\n")
}

// GenerateJsdoc 更新语句上方的注释，内容相同时不产生片段
func GenerateJsdoc(v *parser.View, stmt *sitter.Node, doc Jsdoc) []model.Fragment {
	code := v.Source()
	rendered := RenderJsdoc(doc, 0)

	existing := findJsdoc(v, stmt)
	if existing == nil {
		if rendered == "" {
			return nil
		}
		return []model.Fragment{model.Insert(lineStart(code, start(stmt)), rendered+"\n")}
	}

	if ParseJsdoc(v.Text(existing)).Equal(doc) {
		return nil
	}
	if rendered == "" {
		return []model.Fragment{{
			Start: lineStart(code, start(existing)),
			End:   lineEndAfter(code, end(existing)),
		}}
	}
	return []model.Fragment{{Start: start(existing), End: end(existing), Replacement: rendered}}
}
