package nest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/x/nest"
)

const permissionsID = "src/project/infrastructure/permissions.ts"

func TestParsePermissions(t *testing.T) {
	pc := getTestProject(t)

	perms, err := nest.LoadPermissions(pc, permissionsID)
	require.NoError(t, err)
	assert.Equal(t, []model.Permission{{
		ID:    "project_project_view",
		Label: "Просмотр «ProjectModel»",
		Items: []model.Permission{{ID: "project_project_edit", Label: "Редактирование «ProjectModel»"}},
	}}, perms.Permissions)

	// 不存在的文件得到空列表
	missing, err := nest.LoadPermissions(pc, "src/user/infrastructure/permissions.ts")
	require.NoError(t, err)
	assert.NotNil(t, missing.Permissions)
	assert.Empty(t, missing.Permissions)
}

func TestGeneratePermissions(t *testing.T) {
	pc := getTestProject(t)
	fc, doc := openFile(t, pc, permissionsID)
	perms, err := nest.ParsePermissions(fc, view(t, fc, doc))
	require.NoError(t, err)

	t.Run("unchanged", func(t *testing.T) {
		require.NoError(t, nest.GeneratePermissions(fc, doc, perms))
		assert.Equal(t, fc.File.Code, doc.Code())
	})

	t.Run("new file", func(t *testing.T) {
		newFc, newDoc := openFile(t, pc, "src/user/infrastructure/permissions.ts")
		require.NoError(t, nest.GeneratePermissions(newFc, newDoc, perms))
		assert.Equal(t, fc.File.Code, newDoc.Code())
	})

	t.Run("empty", func(t *testing.T) {
		_, doc := openFile(t, pc, permissionsID)
		require.NoError(t, nest.GeneratePermissions(fc, doc, &model.Permissions{ID: permissionsID}))
		assert.Equal(t, "export default [\n];\n", doc.Code())
	})
}

func TestPermissionsEqual(t *testing.T) {
	a := []model.Permission{{ID: "a", Label: "A", Items: []model.Permission{}}}
	b := []model.Permission{{ID: "a", Label: "A"}}
	assert.True(t, nest.PermissionsEqual(a, b))

	b[0].Label = "B"
	assert.False(t, nest.PermissionsEqual(a, b))
}
