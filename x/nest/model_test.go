package nest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/collector"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/x/nest"
)

func TestParseModel(t *testing.T) {
	pc := getTestProject(t)
	fc, doc := openFile(t, pc, projectModelID)

	m, err := nest.ParseModel(fc, view(t, fc, doc))
	require.NoError(t, err)

	assert.Equal(t, "ProjectModel", m.Name)
	assert.Equal(t, []string{"ProjectDto", "ProjectSaveDto"}, m.DtoNames)

	require.Len(t, m.Fields, 3)
	assert.Equal(t, map[string]bool{"ProjectDto": true, "ProjectSaveDto": true}, m.Fields[0].Dtos)
	assert.Equal(t, map[string]bool{"ProjectSaveDto": true}, m.Fields[1].Dtos)
	assert.Empty(t, m.Fields[2].Dtos)

	require.NotNil(t, m.ModulePermissions)
	assert.Equal(t, "src/project/infrastructure/permissions.ts", m.ModulePermissions.ID)
	require.Len(t, m.ModulePermissions.Permissions, 1)
	assert.Equal(t, "project_project_view", m.ModulePermissions.Permissions[0].ID)
}

func TestGenerateModel_SyncDtos(t *testing.T) {
	pc := getTestProject(t)
	fc, doc := openFile(t, pc, projectModelID)

	m, err := nest.ParseModel(fc, view(t, fc, doc))
	require.NoError(t, err)

	// 1. createTime 不再出现在 ProjectSaveDto 中
	delete(m.Fields[1].Dtos, "ProjectSaveDto")

	// 2. 通过注册表生成，确认模型使用专门的生成器
	c, err := collector.GetCollector(model.EntityModel)
	require.NoError(t, err)
	changed, err := c.Generate(fc, doc, m)
	require.NoError(t, err)

	// 3. 模型本身不变，只有 ProjectSaveDto 被修改
	assert.Equal(t, fc.File.Code, doc.Code())
	require.Len(t, changed, 1)
	assert.Equal(t, projectSaveDtoID, changed[0].ID)

	original, err := pc.Load(projectSaveDtoID)
	require.NoError(t, err)
	want := strings.Replace(original.Code, "\n\n    @ExtendField(ProjectModel)\n    createTime: string;", "", 1)
	assert.Equal(t, want, changed[0].Code)
}

func TestGenerateModel_AddsSelectedField(t *testing.T) {
	pc := getTestProject(t)
	fc, doc := openFile(t, pc, projectModelID)

	m, err := nest.ParseModel(fc, view(t, fc, doc))
	require.NoError(t, err)
	m.Fields[2].Dtos["ProjectDto"] = true

	changed, err := nest.GenerateModel(fc, doc, m)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "src/project/domain/dtos/ProjectDto.ts", changed[0].ID)
	assert.Contains(t, changed[0].Code, "    id: number;\n\n    @ExtendField(ProjectModel)\n    updateTime: string;\n}\n")
}
