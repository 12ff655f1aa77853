package output

import (
	"encoding/json"
	"io"

	"github.com/CodMac/go-treesitter-gii/extractor"
	"github.com/CodMac/go-treesitter-gii/model"
)

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &JSONLWriter{encoder: encoder}
}

func (w *JSONLWriter) Write(v any) error {
	return w.encoder.Encode(v)
}

// entityLine 是实体的一行摘要，完整描述通过 items 接口获取
type entityLine struct {
	ID   string           `json:"id"`
	Type model.EntityType `json:"type"`
	Name string           `json:"name"`
}

// ExportEntities 每行输出一个已解析的实体
func ExportEntities(w io.Writer, gc *extractor.GlobalContext) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0
	for _, entry := range gc.Entries() {
		if err := writer.Write(entityLine{ID: entry.ID, Type: entry.Type, Name: entityName(entry)}); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ExportRelations 每行输出一条实体关系
func ExportRelations(w io.Writer, rels []*model.EntityRelation) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0
	for _, rel := range rels {
		if err := writer.Write(rel); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func entityName(entry *extractor.EntityEntry) string {
	switch e := entry.Entity.(type) {
	case *model.Dto:
		return e.Name
	case *model.Model:
		return e.Name
	case *model.Enum:
		return e.Name
	}
	return ""
}
