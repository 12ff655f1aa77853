package model

// SourceFile 是一次 load→edit→save 周期中的文件快照。
// ID 为项目相对路径（含扩展名），实体之间一律用 ID 互相引用。
type SourceFile struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Name   string `json:"name"`
	Ext    string `json:"ext"`
	Code   string `json:"code"`
	Exists bool   `json:"exists"`
}

// Fragment 是针对某一版本文本的替换指令，区间为 [Start, End) 字节偏移。
type Fragment struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
}

// Insert 构造一个零宽插入片段
func Insert(pos int, text string) Fragment {
	return Fragment{Start: pos, End: pos, Replacement: text}
}
