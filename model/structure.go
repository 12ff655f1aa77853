package model

// EntityType 是项目结构节点的解析器类型
type EntityType string

const (
	EntityModule      EntityType = "module"
	EntityModel       EntityType = "model"
	EntityDto         EntityType = "dto"
	EntityEnum        EntityType = "enum"
	EntityPermissions EntityType = "permissions"
	// EntityFile 没有专门解析器的源文件，按整个文件的结构处理
	EntityFile EntityType = "file"
)

// StructureItem 是项目结构树的一个节点（目录或文件）
type StructureItem struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Type       EntityType       `json:"type,omitempty"`
	CreateType EntityType       `json:"createType,omitempty"`
	Items      []*StructureItem `json:"items,omitempty"`
}

// Project 是一个被扫描的项目
type Project struct {
	Name      string           `json:"name"`
	Path      string           `json:"path"`
	Structure []*StructureItem `json:"structure,omitempty"`
}
