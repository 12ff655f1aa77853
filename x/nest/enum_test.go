package nest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/x/nest"
)

const providerEnumID = "src/project/domain/enums/ProviderEnum.ts"

func TestParseEnum(t *testing.T) {
	pc := getTestProject(t)
	fc, doc := openFile(t, pc, providerEnumID)

	e, err := nest.ParseEnum(fc, view(t, fc, doc))
	require.NoError(t, err)

	assert.Equal(t, "ProviderEnum", e.Name)
	assert.Equal(t, []model.EnumField{
		{Name: "GITLAB", OldName: "GITLAB", Value: "gitlab", Label: "GitLab"},
		{Name: "CLOCKIFY", OldName: "CLOCKIFY", Value: "clockify", Label: "Clockify"},
	}, e.Fields)
}

func TestGenerateEnum(t *testing.T) {
	pc := getTestProject(t)
	fc, doc := openFile(t, pc, providerEnumID)
	e, err := nest.ParseEnum(fc, view(t, fc, doc))
	require.NoError(t, err)

	t.Run("unchanged", func(t *testing.T) {
		require.NoError(t, nest.GenerateEnum(fc, doc, e))
		assert.Equal(t, fc.File.Code, doc.Code())
	})

	t.Run("new file", func(t *testing.T) {
		newFc, newDoc := openFile(t, pc, "src/project/domain/enums/CopyEnum.ts")
		require.NoError(t, nest.GenerateEnum(newFc, newDoc, e))
		assert.Equal(t, fc.File.Code, newDoc.Code())
	})

	t.Run("rename and add", func(t *testing.T) {
		_, doc := openFile(t, pc, providerEnumID)
		next := *e
		next.Fields = []model.EnumField{
			{Name: "gitlab_com", OldName: "GITLAB", Value: "gitlab", Label: "GitLab"},
			{Name: "JIRA", Value: "jira", Label: "Jira"},
		}
		require.NoError(t, nest.GenerateEnum(fc, doc, &next))

		code := doc.Code()
		assert.Contains(t, code, "    static GITLAB_COM = 'gitlab';\n")
		assert.Contains(t, code, "    static JIRA = 'jira';\n")
		assert.NotContains(t, code, "CLOCKIFY")
		assert.Contains(t, code, "[this.GITLAB_COM]: 'GitLab',\n            [this.JIRA]: 'Jira',\n")
	})

	t.Run("no name", func(t *testing.T) {
		newFc, newDoc := openFile(t, pc, "src/project/domain/enums/EmptyEnum.ts")
		err := nest.GenerateEnum(newFc, newDoc, &model.Enum{})
		assert.ErrorIs(t, err, errx.ErrInvalidArgument)
	})
}
