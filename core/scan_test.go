package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/store"
	_ "github.com/CodMac/go-treesitter-gii/x/typescript" // 注册噪音过滤
)

const root = "/projects/shop"

func newNestStore() *store.MemStore {
	st := store.NewMemStore()
	st.Put(root, "package.json", `{"name": "shop", "dependencies": {"@steroidsjs/nest": "^3.0.0"}}`)
	for _, id := range []string{
		"src/user/domain/models/UserModel.ts",
		"src/user/domain/models/helpers.ts",
		"src/user/domain/enums/RoleEnum.ts",
		"src/user/domain/dtos/UserSaveDto.ts",
		"src/user/domain/dtos/index.ts",
		"src/user/domain/dtos/UserDto.spec.ts",
		"src/user/usecases/dtos/UserSearchDto.ts",
		"src/user/infrastructure/controllers/UserController.ts",
		"src/user/infrastructure/permissions.ts",
		"src/main.ts",
	} {
		st.Put(root, id, "")
	}
	return st
}

func TestScanProject(t *testing.T) {
	project, err := core.ScanProject(root, newNestStore())
	require.NoError(t, err)

	assert.Equal(t, "shop", project.Name)
	require.Len(t, project.Structure, 1)

	src := project.Structure[0]
	assert.Equal(t, "src", src.ID)
	assert.Equal(t, model.EntityModule, src.CreateType)
	require.Len(t, src.Items, 1)

	user := src.Items[0]
	assert.Equal(t, "src/user", user.ID)
	assert.Equal(t, model.EntityModule, user.Type)

	index := core.NewEntityIndex(project.Structure)
	var ids []string
	index.Walk(func(item *model.StructureItem) bool {
		if item.Type != "" && item.Type != model.EntityModule {
			ids = append(ids, item.ID+"="+string(item.Type))
		}
		return true
	})
	assert.Equal(t, []string{
		"src/user/domain/models/UserModel.ts=model",
		"src/user/domain/enums/RoleEnum.ts=enum",
		"src/user/domain/dtos/UserSaveDto.ts=dto",
		"src/user/usecases/dtos/UserSearchDto.ts=dto",
		"src/user/infrastructure/permissions.ts=permissions",
	}, ids)

	// 控制器只列出，不指定解析器
	controller := index.FindOne("src/user/infrastructure/controllers/UserController.ts")
	require.NotNil(t, controller)
	assert.Empty(t, controller.Type)

	models := index.FindOne("src/user/domain/models")
	require.NotNil(t, models)
	assert.Equal(t, model.EntityModel, models.CreateType)
}

func TestScanProject_UnknownStructure(t *testing.T) {
	st := store.NewMemStore()
	st.Put(root, "package.json", `{"name": "web", "dependencies": {"react": "^18.0.0"}}`)
	_, err := core.ScanProject(root, st)
	assert.ErrorIs(t, err, errx.ErrUnknownStructure)

	_, err = core.ScanProject("/projects/empty", store.NewMemStore())
	assert.ErrorIs(t, err, errx.ErrUnknownStructure)

	st.Put(root, "package.json", `{"name": `)
	_, err = core.ScanProject(root, st)
	assert.ErrorIs(t, err, errx.ErrParse)
}

func TestEntityIndex(t *testing.T) {
	project, err := core.ScanProject(root, newNestStore())
	require.NoError(t, err)
	index := core.NewEntityIndex(project.Structure)

	module := index.FindModule("src/user/domain/models/UserModel.ts")
	require.NotNil(t, module)
	assert.Equal(t, "src/user", module.ID)
	assert.Nil(t, index.FindModule("src/other/domain/models/OtherModel.ts"))

	item := index.FindByName("RoleEnum", model.EntityEnum)
	require.NotNil(t, item)
	assert.Equal(t, "src/user/domain/enums/RoleEnum.ts", item.ID)
	assert.Nil(t, index.FindByName("RoleEnum", model.EntityModel))

	dtos := index.FindMany(core.OfType(model.EntityDto))
	assert.Len(t, dtos, 2)
	assert.Equal(t, "UserSaveDto", core.BaseName(dtos[0].ID))
}
