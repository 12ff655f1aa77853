package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/model"
)

// ParserInterface 定义了源码解析器的通用能力
type ParserInterface interface {
	// Parse 使用相应的 Tree-sitter 语言库解析源码，返回语法树。调用方负责 Close。
	Parse(content []byte) (*sitter.Tree, error)
}

// TreeSitterParser 是 ParserInterface 的具体实现，不能并发使用
type TreeSitterParser struct {
	Language model.Language // 当前解析器针对的语言
	tsParser *sitter.Parser
}

// NewParser 创建一个新的 TreeSitterParser 实例
func NewParser(lang model.Language) (*TreeSitterParser, error) {
	tsLang, err := model.GetLanguage(lang)
	if err != nil {
		return nil, err
	}

	tsParser := sitter.NewParser()
	if err := tsParser.SetLanguage(tsLang); err != nil {
		tsParser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	return &TreeSitterParser{
		Language: lang,
		tsParser: tsParser,
	}, nil
}

// Parse 实现了 ParserInterface 接口
func (p *TreeSitterParser) Parse(content []byte) (*sitter.Tree, error) {
	tree := p.tsParser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s source", p.Language)
	}

	return tree, nil
}

// Close 释放 Tree-sitter 内部资源
func (p *TreeSitterParser) Close() {
	if p.tsParser != nil {
		p.tsParser.Close()
	}
}
