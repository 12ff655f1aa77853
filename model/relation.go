package model

// RelationType 描述实体之间的关系类型
type RelationType string

const (
	Extend   RelationType = "EXTEND"   // DTO 字段继承自模型
	Relation RelationType = "RELATION" // 模型字段关联到另一个模型
	UseEnum  RelationType = "ENUM"     // 字段取值来自枚举
	UseDto   RelationType = "DTO"      // 继承的关联字段落到了另一个 DTO
)

// EntityRelation 是实体关系图的一条边，Source/Target 都是实体 ID
type EntityRelation struct {
	Type   RelationType `json:"type"`
	Source string       `json:"source"`
	Target string       `json:"target"`
	Field  string       `json:"field,omitempty"`
}
