package nest

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

const permissionPrefix = "PERMISSION_"

// PermissionsSkeleton 新建权限文件的初始代码
const PermissionsSkeleton = "export default [\n];\n"

// exportDefault 返回 export default 语句及其导出的值
func exportDefault(v *parser.View) (stmt, value *sitter.Node) {
	root := v.Root()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child.Kind() != "export_statement" {
			continue
		}
		if value := child.ChildByFieldName("value"); value != nil {
			return child, value
		}
	}
	return nil, nil
}

// ParsePermissions 解析 export default [{id, label, items}] 权限树
func ParsePermissions(fc *core.FileContext, v *parser.View) (*model.Permissions, error) {
	result := &model.Permissions{ID: fc.File.ID, Permissions: []model.Permission{}}
	if _, value := exportDefault(v); value != nil && value.Kind() == "array" {
		items, err := parsePermissionItems(fc, v, value)
		if err != nil {
			return nil, err
		}
		result.Permissions = items
	}
	return result, nil
}

func parsePermissionItems(fc *core.FileContext, v *parser.View, array *sitter.Node) ([]model.Permission, error) {
	var result []model.Permission
	for i := uint(0); i < array.NamedChildCount(); i++ {
		obj := array.NamedChild(i)
		if obj.Kind() != "object" {
			continue
		}

		var item model.Permission
		for j := uint(0); j < obj.NamedChildCount(); j++ {
			pair := obj.NamedChild(j)
			if pair.Kind() != "pair" {
				continue
			}
			key, value := pair.ChildByFieldName("key"), pair.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}

			switch v.Text(key) {
			case "id":
				item.ID = permissionID(v.Text(value))
			case "label":
				label, err := typescript.ParseValue(fc, v, value)
				if err != nil {
					return nil, err
				}
				item.Label = label.Literal()
			case "items":
				if value.Kind() != "array" {
					continue
				}
				children, err := parsePermissionItems(fc, v, value)
				if err != nil {
					return nil, err
				}
				item.Items = children
			}
		}
		if item.ID != "" {
			result = append(result, item)
		}
	}
	return result, nil
}

// permissionID PERMISSION_PROJECT_VIEW -> project_view
func permissionID(constant string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(constant), permissionPrefix))
}

func permissionConstant(id string) string {
	return permissionPrefix + strings.ToUpper(id)
}

// PermissionsEqual 比较权限树，忽略空 items 与 nil 的区别
func PermissionsEqual(a, b []model.Permission) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Label != b[i].Label || !PermissionsEqual(a[i].Items, b[i].Items) {
			return false
		}
	}
	return true
}

// flattenPermissions 先序展开权限树
func flattenPermissions(items []model.Permission) []string {
	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
		ids = append(ids, flattenPermissions(item.Items)...)
	}
	return ids
}

// RenderPermissions 渲染 export default 数组中的元素
func RenderPermissions(items []model.Permission, level int) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		lines := []string{
			model.Indent(level+1) + "{",
			model.Indent(level+2) + "id: " + permissionConstant(item.ID) + ",",
			model.Indent(level+2) + "label: " + model.QuoteString(item.Label) + ",",
		}
		if len(item.Items) > 0 {
			lines = append(lines, model.Indent(level+2)+"items: [\n"+RenderPermissions(item.Items, level+2)+"\n"+model.Indent(level+2)+"],")
		}
		lines = append(lines, model.Indent(level+1)+"},")
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n")
}

// GeneratePermissions 有变化时重写权限常量与 export default 数组，其他常量保持不变
func GeneratePermissions(fc *core.FileContext, doc *parser.Document, data *model.Permissions) error {
	if strings.TrimSpace(doc.Code()) == "" {
		doc.Replace(PermissionsSkeleton)
	} else {
		v, err := doc.View()
		if err != nil {
			return err
		}
		prev, err := ParsePermissions(fc, v)
		if err != nil {
			return err
		}
		if PermissionsEqual(prev.Permissions, data.Permissions) {
			return nil
		}
	}

	// 1. 常量
	v, err := doc.View()
	if err != nil {
		return err
	}
	typescript.Prepare(fc, v)
	prevConstants, err := typescript.ParseConstants(fc, v)
	if err != nil {
		return err
	}
	var constants []model.Constant
	for _, c := range prevConstants {
		if !strings.HasPrefix(c.Name, permissionPrefix) {
			constants = append(constants, c)
		}
	}
	for _, id := range flattenPermissions(data.Permissions) {
		constants = append(constants, model.Constant{
			Name:     permissionConstant(id),
			Value:    model.StringValue(id),
			Kind:     "const",
			IsExport: true,
		})
	}
	fragments, _, err := typescript.GenerateConstants(fc, v, constants)
	if err != nil {
		return err
	}
	if err := doc.Apply(v, fragments); err != nil {
		return err
	}

	// 2. 导出的数组
	v, err = doc.View()
	if err != nil {
		return err
	}
	code := "export default [\n];"
	if len(data.Permissions) > 0 {
		code = "export default [\n" + RenderPermissions(data.Permissions, 0) + "\n];"
	}
	stmt, _ := exportDefault(v)
	if stmt == nil {
		text := strings.TrimRight(v.Code(), "\n")
		if text != "" {
			text += "\n\n"
		}
		doc.Replace(text + code + "\n")
		return nil
	}
	return doc.Apply(v, []model.Fragment{{Start: int(stmt.StartByte()), End: int(stmt.EndByte()), Replacement: code}})
}

// LoadPermissions 读取模块权限文件，文件不存在时得到空权限
func LoadPermissions(pc *core.ProjectContext, id string) (*model.Permissions, error) {
	fc, doc, err := typescript.Open(pc, id)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	v, err := doc.View()
	if err != nil {
		return nil, err
	}
	return ParsePermissions(fc, v)
}
