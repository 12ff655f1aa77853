package typescript

import (
	"errors"

	"github.com/CodMac/go-treesitter-gii/collector"
	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// ParseTs 解析整个文件：导入、顶层声明和主类（没有类时为 nil）
func ParseTs(fc *core.FileContext, v *parser.View) (*model.TsFile, error) {
	Prepare(fc, v)

	result := &model.TsFile{}
	if fc != nil {
		result.FileID = fc.File.ID
		result.Imports = fc.Imports
	}

	constants, err := ParseConstants(fc, v)
	if err != nil {
		return nil, err
	}
	result.Constants = constants

	cls, err := ParseClass(fc, v)
	if err != nil && !errors.Is(err, errx.ErrNoClass) {
		return nil, err
	}
	result.MainClass = cls
	return result, nil
}

// OpenDocument 为源文件创建可编辑文档
func OpenDocument(file *model.SourceFile) (*parser.Document, error) {
	return parser.NewDocument(model.LanguageOf(file.ID), file.Code)
}

// Open 读取项目文件，返回解析上下文与文档，调用方负责关闭文档
func Open(pc *core.ProjectContext, id string) (*core.FileContext, *parser.Document, error) {
	file, err := pc.Load(id)
	if err != nil {
		return nil, nil, err
	}
	fc, err := core.NewFileContext(pc, file)
	if err != nil {
		return nil, nil, err
	}
	doc, err := OpenDocument(file)
	if err != nil {
		return nil, nil, err
	}
	return fc, doc, nil
}

// ParseFile 读取项目文件并用 c 解析，返回文件与实体描述
func ParseFile(pc *core.ProjectContext, id string, c collector.Collector) (*model.SourceFile, any, error) {
	fc, doc, err := Open(pc, id)
	if err != nil {
		return nil, nil, err
	}
	defer doc.Close()

	v, err := doc.View()
	if err != nil {
		return nil, nil, err
	}
	Prepare(fc, v)
	entity, err := c.Parse(fc, v)
	if err != nil {
		return nil, nil, err
	}
	return fc.File, entity, nil
}

// GenerateTs 按文件摘要更新文档：顶层常量与主类，为 nil 的部分不处理
func GenerateTs(fc *core.FileContext, doc *parser.Document, data *model.TsFile) error {
	if data.Constants != nil {
		v, err := doc.View()
		if err != nil {
			return err
		}
		Prepare(fc, v)
		fragments, imports, err := GenerateConstants(fc, v, data.Constants)
		if err != nil {
			return err
		}
		if err := doc.Apply(v, fragments); err != nil {
			return err
		}
		if err := ReplaceImports(fc, doc, append(data.Imports, imports...)); err != nil {
			return err
		}
	}

	if data.MainClass != nil {
		return UpdateClass(fc, doc, data.MainClass, "", data.Imports...)
	}
	return nil
}
