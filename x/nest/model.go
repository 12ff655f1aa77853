package nest

import (
	"path"

	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/logs"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

// 模块权限文件相对模块目录的位置
const permissionsFile = "infrastructure/permissions.ts"

// ParseModel 在 DTO 的基础上补充：同模块中继承该模型的 DTO、每个字段被哪些 DTO 选中、模块权限
func ParseModel(fc *core.FileContext, v *parser.View) (*model.Model, error) {
	dto, err := ParseDto(fc, v)
	if err != nil {
		return nil, err
	}

	m := &model.Model{
		ID:           dto.ID,
		Name:         dto.Name,
		OldName:      dto.OldName,
		Description:  dto.Description,
		FieldsExtend: dto.FieldsExtend,
		Fields:       make([]model.ModelField, 0, len(dto.Fields)),
		DtoNames:     []string{},
	}

	selected := make(map[string]map[string]bool)
	for _, related := range relativeDtos(fc.Project, fc.File.ID) {
		m.DtoNames = append(m.DtoNames, related.Name)
		for _, f := range related.Fields {
			if selected[f.Name] == nil {
				selected[f.Name] = make(map[string]bool)
			}
			selected[f.Name][related.Name] = true
		}
	}
	for _, f := range dto.Fields {
		dtos := selected[f.Name]
		if dtos == nil {
			dtos = map[string]bool{}
		}
		m.Fields = append(m.Fields, model.ModelField{DtoField: f, Dtos: dtos})
	}

	if module := fc.Project.Index.FindModule(fc.File.ID); module != nil {
		perms, err := LoadPermissions(fc.Project, path.Join(module.ID, permissionsFile))
		if err != nil {
			logs.Warn("解析模块权限失败", zap.String("module", module.ID), zap.Error(err))
		} else {
			m.ModulePermissions = perms
		}
	}
	return m, nil
}

// moduleDtos 与 id 同模块的 DTO 节点
func moduleDtos(pc *core.ProjectContext, id string) []*model.StructureItem {
	module := pc.Index.FindModule(id)
	if module == nil {
		return nil
	}
	return core.NewEntityIndex(module.Items).FindMany(core.OfType(model.EntityDto))
}

// relativeDtos 同模块中字段继承自 modelID 的 DTO，解析失败的跳过
func relativeDtos(pc *core.ProjectContext, modelID string) []*model.Dto {
	var result []*model.Dto
	for _, item := range moduleDtos(pc, modelID) {
		dto, err := LoadDto(pc, item.ID)
		if err != nil {
			logs.Warn("解析 DTO 失败", zap.String("file", item.ID), zap.Error(err))
			continue
		}
		if dto != nil && dto.FieldsExtend == modelID {
			result = append(result, dto)
		}
	}
	return result
}

// GenerateModel 先按字段的 DTO 选择同步继承该模型的 DTO，再更新模型文件本身。
// 模型文档就地修改，返回内容有变化的 DTO 文件。
func GenerateModel(fc *core.FileContext, doc *parser.Document, m *model.Model) ([]*model.SourceFile, error) {
	var changed []*model.SourceFile
	for _, item := range moduleDtos(fc.Project, fc.File.ID) {
		file, err := syncDto(fc.Project, item.ID, m)
		if err != nil {
			return nil, err
		}
		if file != nil {
			changed = append(changed, file)
		}
	}

	if err := GenerateDto(fc, doc, m.AsDto()); err != nil {
		return nil, err
	}
	return changed, nil
}

// syncDto 根据模型字段的选择增删改 DTO 中的继承字段，没有变化时返回 nil
func syncDto(pc *core.ProjectContext, id string, m *model.Model) (*model.SourceFile, error) {
	dtoFc, doc, err := typescript.Open(pc, id)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	if !dtoFc.File.Exists {
		return nil, nil
	}

	v, err := doc.View()
	if err != nil {
		return nil, err
	}
	typescript.Prepare(dtoFc, v)
	dto, err := ParseDto(dtoFc, v)
	if err != nil {
		logs.Warn("解析 DTO 失败", zap.String("file", id), zap.Error(err))
		return nil, nil
	}
	if dto.FieldsExtend != m.ID {
		return nil, nil
	}

	if !syncFields(dto, m) {
		return nil, nil
	}
	if err := generateDto(dtoFc, doc, dto, []*model.Dto{m.AsDto()}); err != nil {
		return nil, err
	}

	file := *dtoFc.File
	file.Code = doc.Code()
	return &file, nil
}

func syncFields(dto *model.Dto, m *model.Model) bool {
	changed := false
	for _, mf := range m.Fields {
		idx := -1
		for i, f := range dto.Fields {
			if f.Name == mf.OldName || (mf.OldName == "" && f.Name == mf.Name) {
				idx = i
				break
			}
		}
		isSelected := mf.Dtos[dto.Name]

		switch {
		case idx < 0 && isSelected:
			dto.Fields = append(dto.Fields, model.DtoField{
				Name:    mf.Name,
				OldName: mf.Name,
				Type:    model.FieldExtend,
				Extend:  m.ID,
			})
			changed = true
		case idx >= 0 && !isSelected:
			dto.Fields = append(dto.Fields[:idx], dto.Fields[idx+1:]...)
			changed = true
		case idx >= 0 && mf.Name != dto.Fields[idx].Name:
			dto.Fields[idx].Name = mf.Name
			changed = true
		}
	}
	return changed
}
