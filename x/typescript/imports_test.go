package typescript_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

const fieldsID = "@steroidsjs/nest/infrastructure/decorators/fields"

func TestParseImports(t *testing.T) {
	code := `import {StringField} from '@steroidsjs/nest/infrastructure/decorators/fields';
import BaseEnum from '@steroidsjs/nest/domain/base/BaseEnum';
import * as path from 'path';
import {ProjectModel as Project, UserModel} from '../models';
`
	fc, doc := memFile(t, "src/app/dtos/A.ts", code, "src/app/models/index.ts")
	v := view(t, fc, doc)

	assert.Equal(t, []model.Import{
		{GiiID: fieldsID, Names: []string{"StringField"}},
		{GiiID: "@steroidsjs/nest/domain/base/BaseEnum", Default: "BaseEnum"},
		{GiiID: "path", Namespace: "path"},
		{GiiID: "src/app/models/index.ts", Names: []string{"ProjectModel as Project", "UserModel"}},
	}, typescript.ParseImports(fc, v))

	id, ok := fc.ResolveSymbol("Project")
	assert.True(t, ok)
	assert.Equal(t, "src/app/models/index.ts", id)

	_, ok = fc.ResolveSymbol("StringField")
	assert.False(t, ok)
}

func TestGenerateImports(t *testing.T) {
	fc, _ := memFile(t, "src/app/dtos/A.ts", "")

	items := []model.Import{
		typescript.ImportWithName("src/app/models/UserModel.ts", "UserModel"),
		typescript.ImportWithName("node_modules/@steroidsjs/nest/infrastructure/decorators/fields/index.js", "StringField"),
		typescript.ImportWithName(fieldsID, "IntegerField"),
		typescript.ImportDefault("src/app/enums/RoleEnum.ts", "RoleEnum"),
		typescript.ImportWithName("src/app/models/UserModel.ts", "UserModel"),
	}
	assert.Equal(t, `import {
    StringField,
    IntegerField,
} from '@steroidsjs/nest/infrastructure/decorators/fields';
import {UserModel} from '../models/UserModel';
import RoleEnum from '../enums/RoleEnum';`, typescript.GenerateImports(fc, items))

	assert.Equal(t, `import {
    StringField,
    IntegerField,
} from '@steroidsjs/nest/infrastructure/decorators/fields';`, typescript.GenerateImports(fc, []model.Import{
		typescript.ImportWithName(fieldsID, "StringField"),
		typescript.ImportWithName(fieldsID, "IntegerField"),
		typescript.ImportWithName(fieldsID, "StringField"),
	}))
}

func TestReplaceImports(t *testing.T) {
	code := `import {StringField} from '@steroidsjs/nest/infrastructure/decorators/fields';
import {ProjectModel} from '../models/ProjectModel';

export class A {}
`
	fc, doc := memFile(t, "src/app/dtos/A.ts", code, "src/app/models/ProjectModel.ts")

	// 1. 已有的导入不产生改动
	require.NoError(t, typescript.ReplaceImports(fc, doc, []model.Import{
		typescript.ImportWithName(fieldsID, "StringField"),
	}))
	assert.Equal(t, code, doc.Code())

	// 2. 合并新名字，外部模块排在项目文件之前，已有名字保留
	require.NoError(t, typescript.ReplaceImports(fc, doc, []model.Import{
		typescript.ImportWithName("src/app/models/UserModel.ts", "UserModel"),
		typescript.ImportWithName(fieldsID, "IntegerField"),
	}))
	assert.Equal(t, `import {
    StringField,
    IntegerField,
} from '@steroidsjs/nest/infrastructure/decorators/fields';
import {ProjectModel} from '../models/ProjectModel';
import {UserModel} from '../models/UserModel';

export class A {}
`, doc.Code())
}

func TestReplaceImports_NoImports(t *testing.T) {
	fc, doc := memFile(t, "src/app/dtos/A.ts", "export class A {}\n")
	require.NoError(t, typescript.ReplaceImports(fc, doc, []model.Import{typescript.ImportWithName(fieldsID, "StringField")}))
	assert.Equal(t, "import {StringField} from '@steroidsjs/nest/infrastructure/decorators/fields';\n\nexport class A {}\n", doc.Code())
}

func TestMergeImports_Idempotent(t *testing.T) {
	fc, _ := memFile(t, "src/app/dtos/A.ts", "", "src/app/models/UserModel.ts")

	tests := []struct {
		name  string
		items []model.Import
	}{
		{
			name:  "empty",
			items: nil,
		},
		{
			name: "single module",
			items: []model.Import{
				typescript.ImportWithName(fieldsID, "StringField"),
				typescript.ImportWithName(fieldsID, "IntegerField"),
			},
		},
		{
			name: "mixed",
			items: []model.Import{
				typescript.ImportWithName("src/app/models/UserModel.ts", "UserModel"),
				typescript.ImportWithName(fieldsID, "StringField"),
				typescript.ImportDefault("@steroidsjs/nest/domain/base/BaseEnum", "BaseEnum"),
				typescript.ImportWithName("node_modules/@steroidsjs/nest/infrastructure/decorators/fields/index.js", "IntegerField"),
				typescript.ImportWithName(fieldsID, "StringField"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := typescript.MergeImports(fc, tt.items, tt.items)
			twice := typescript.MergeImports(fc, once, once)
			assert.Equal(t, once, twice)
			assert.Equal(t, typescript.GenerateImports(fc, once), typescript.GenerateImports(fc, twice))
			assert.Equal(t, typescript.GenerateImports(fc, tt.items), typescript.GenerateImports(fc, once))
		})
	}
}
