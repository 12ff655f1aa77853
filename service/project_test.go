package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/config"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/service"
	"github.com/CodMac/go-treesitter-gii/store"
	_ "github.com/CodMac/go-treesitter-gii/x/nest" // 注册实体解析器
)

// copyProject 复制测试项目到临时目录，保存操作不会修改 testdata
func copyProject(t *testing.T) string {
	dir := filepath.Join(t.TempDir(), "nestproject")
	src := filepath.Join("..", "x", "nest", "testdata", "nestproject")
	require.NoError(t, os.CopyFS(dir, os.DirFS(src)))
	return dir
}

func newService(t *testing.T) (*service.ProjectService, string) {
	dir := copyProject(t)
	svc := service.NewProjectService([]config.ProjectConfig{{Name: "demo", Path: dir}}, store.NewDiskStore(), 2)
	return svc, dir
}

func TestProjectService_List(t *testing.T) {
	dir := copyProject(t)
	svc := service.NewProjectService([]config.ProjectConfig{
		{Path: dir},
		{Name: "broken", Path: t.TempDir()},
	}, store.NewDiskStore(), 2)

	projects := svc.List()
	require.Len(t, projects, 1)
	assert.Equal(t, "nestproject", projects[0].Name)
	assert.Empty(t, projects[0].Structure)

	_, err := svc.Structure("broken")
	assert.ErrorIs(t, err, errx.ErrUnknownStructure)

	_, err = svc.Structure("missing")
	assert.ErrorIs(t, err, errx.ErrNotFound)
}

func TestProjectService_Parse(t *testing.T) {
	svc, _ := newService(t)

	item, err := svc.Parse("demo", "src/project/domain/models/ProjectModel.ts")
	require.NoError(t, err)
	assert.Equal(t, model.EntityModel, item.Type)
	m, ok := item.Data.(*model.Model)
	require.True(t, ok)
	assert.Equal(t, []string{"ProjectDto", "ProjectSaveDto"}, m.DtoNames)

	_, err = svc.Parse("demo", "src/project/domain/models")
	assert.ErrorIs(t, err, errx.ErrInvalidArgument)

	_, err = svc.Parse("demo", "src/project/domain/models/MissingModel.ts")
	assert.ErrorIs(t, err, errx.ErrNotFound)

	_, err = svc.Parse("demo", "../outside.ts")
	assert.ErrorIs(t, err, errx.ErrInvalidArgument)
}

func TestProjectService_PreviewCreate(t *testing.T) {
	svc, dir := newService(t)

	data := []byte(`{"name": "StatusEnum", "fields": [{"name": "active", "value": "active", "label": "Active"}]}`)
	changes, err := svc.Preview("demo", "src/project/domain/enums", data)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	change := changes[0]
	assert.Equal(t, "src/project/domain/enums/StatusEnum.ts", change.ID)
	assert.True(t, change.Created)
	assert.True(t, strings.HasPrefix(change.Code, "import BaseEnum from '@steroidsjs/nest/domain/base/BaseEnum';\n"))
	assert.Contains(t, change.Code, "export class StatusEnum extends BaseEnum {\n    static ACTIVE = 'active';\n")
	assert.Contains(t, change.Diff, "+++ b/src/project/domain/enums/StatusEnum.ts\n")

	// 预览不写盘
	_, err = os.Stat(filepath.Join(dir, "src", "project", "domain", "enums", "StatusEnum.ts"))
	assert.True(t, os.IsNotExist(err))
}

func TestProjectService_PreviewCreate_InvalidName(t *testing.T) {
	svc, dir := newService(t)

	for _, name := range []string{"", "../models/StatusEnum", "status/Enum", "1Enum", "Status Enum"} {
		t.Run(name, func(t *testing.T) {
			data := []byte(`{"name": "` + name + `", "fields": []}`)
			_, err := svc.Save("demo", "src/project/domain/enums", data)
			assert.ErrorIs(t, err, errx.ErrInvalidArgument)
		})
	}

	_, err := os.Stat(filepath.Join(dir, "src", "project", "domain", "models", "StatusEnum.ts"))
	assert.True(t, os.IsNotExist(err))
}

func TestProjectService_SaveModel(t *testing.T) {
	svc, dir := newService(t)

	// 1. 读取模型并取消 ProjectSaveDto 对 createTime 的选择
	item, err := svc.Parse("demo", "src/project/domain/models/ProjectModel.ts")
	require.NoError(t, err)
	m := item.Data.(*model.Model)
	m.Fields[1].Dtos = map[string]bool{}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	// 2. 保存，只有 DTO 文件发生变化
	changes, err := svc.Save("demo", m.ID, data)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "src/project/domain/dtos/ProjectSaveDto.ts", changes[0].ID)
	assert.False(t, changes[0].Created)
	assert.Contains(t, changes[0].Diff, "-    createTime: string;\n")

	// 3. 磁盘上的 DTO 已更新
	code, err := os.ReadFile(filepath.Join(dir, "src", "project", "domain", "dtos", "ProjectSaveDto.ts"))
	require.NoError(t, err)
	assert.Equal(t, changes[0].Code, string(code))

	saved, err := svc.Parse("demo", "src/project/domain/dtos/ProjectSaveDto.ts")
	require.NoError(t, err)
	assert.Len(t, saved.Data.(*model.Dto).Fields, 1)

	// 4. 再次保存没有变化
	changes, err = svc.Save("demo", m.ID, data)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestProjectService_Graph(t *testing.T) {
	svc, _ := newService(t)

	graph, err := svc.Graph(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", graph.Project.Project.Name)
	assert.Len(t, graph.Relations, 7)
}
