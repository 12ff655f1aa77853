package core

import (
	"encoding/json"
	"path"
	"path/filepath"
	"regexp"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/noisefilter"
	"github.com/CodMac/go-treesitter-gii/store"
)

// Schema 描述项目目录结构中的一层：固定目录名，或按名称匹配的子项
type Schema struct {
	Dir        string
	Pattern    string         // 文件名 glob
	Match      *regexp.Regexp // 目录名正则
	Type       model.EntityType
	CreateType model.EntityType
	Items      []Schema
}

// NestBackendSchema 是 @steroidsjs/nest 后端项目的目录约定
var NestBackendSchema = Schema{
	Dir:        "src",
	CreateType: model.EntityModule,
	Items: []Schema{{
		Match: regexp.MustCompile(`(?i)^[a-z0-9-_]+$`),
		Type:  model.EntityModule,
		Items: []Schema{
			{
				Dir: "domain",
				Items: []Schema{
					{Dir: "models", CreateType: model.EntityModel, Items: []Schema{{Pattern: "*Model.ts", Type: model.EntityModel}}},
					{Dir: "enums", CreateType: model.EntityEnum, Items: []Schema{{Pattern: "*Enum.ts", Type: model.EntityEnum}}},
					{Dir: "dtos", CreateType: model.EntityDto, Items: []Schema{{Pattern: "*.ts", Type: model.EntityDto}}},
				},
			},
			{
				Dir: "usecases",
				Items: []Schema{
					{Dir: "dtos", CreateType: model.EntityDto, Items: []Schema{{Pattern: "*.ts", Type: model.EntityDto}}},
				},
			},
			{
				Dir: "infrastructure",
				Items: []Schema{
					{Dir: "controllers", Items: []Schema{{Pattern: "*.ts"}}},
					{Pattern: "permissions.ts", Type: model.EntityPermissions},
				},
			},
		},
	}},
}

const nestDependency = "@steroidsjs/nest"

type packageJSON struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// resolveSchema 根据 package.json 的依赖识别项目结构
func resolveSchema(projectPath string, pkg packageJSON) (Schema, error) {
	if _, ok := pkg.Dependencies[nestDependency]; ok {
		return NestBackendSchema, nil
	}
	return Schema{}, errx.ErrUnknownStructure.WithData("path", projectPath)
}

// ScanProject 读取 package.json 并按目录约定扫描出结构树
func ScanProject(projectPath string, st store.FileStore) (*model.Project, error) {
	file, err := st.Load(projectPath, "package.json")
	if err != nil {
		return nil, err
	}
	if !file.Exists {
		return nil, errx.ErrUnknownStructure.WithMsg("缺少 package.json").WithData("path", projectPath)
	}

	var pkg packageJSON
	if err := json.Unmarshal([]byte(file.Code), &pkg); err != nil {
		return nil, errx.ErrParse.WithCause(err).WithData("path", file.Path)
	}

	schema, err := resolveSchema(projectPath, pkg)
	if err != nil {
		return nil, err
	}

	structure, err := scan(st, projectPath, schema, "")
	if err != nil {
		return nil, err
	}

	name := pkg.Name
	if name == "" {
		name = filepath.Base(projectPath)
	}
	return &model.Project{Name: name, Path: projectPath, Structure: structure}, nil
}

func scan(st store.FileStore, root string, schema Schema, rel string) ([]*model.StructureItem, error) {
	var names []string
	if schema.Pattern != "" || schema.Match != nil {
		entries, err := st.List(root, rel)
		if err != nil {
			return nil, err
		}
		for _, name := range entries {
			if schema.matches(name) && !isNoise(name) {
				names = append(names, name)
			}
		}
	} else if schema.Dir != "" {
		// 固定目录即使不存在也保留，用于在其中新建实体
		names = []string{schema.Dir}
	}

	result := make([]*model.StructureItem, 0, len(names))
	for _, name := range names {
		id := path.Join(rel, name)
		item := &model.StructureItem{
			ID:         id,
			Name:       name,
			Type:       schema.Type,
			CreateType: schema.CreateType,
		}
		if len(schema.Items) > 0 {
			item.Items = []*model.StructureItem{}
			for _, child := range schema.Items {
				items, err := scan(st, root, child, id)
				if err != nil {
					return nil, err
				}
				item.Items = append(item.Items, items...)
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s Schema) matches(name string) bool {
	if s.Match != nil {
		return s.Match.MatchString(name)
	}
	ok, err := path.Match(s.Pattern, name)
	return err == nil && ok
}

func isNoise(name string) bool {
	return noisefilter.GetNoiseFilter(model.LanguageOf(name)).IsNoise(name)
}
