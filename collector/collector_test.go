package collector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/collector"
	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

const testType model.EntityType = "test-note"

type note struct {
	Title string `json:"title"`
}

func init() {
	collector.RegisterCollector(testType, collector.Funcs[note]{
		ParseFunc: func(fc *core.FileContext, v *parser.View) (*note, error) {
			return &note{Title: "parsed"}, nil
		},
		GenerateFunc: collector.Only(func(fc *core.FileContext, doc *parser.Document, data *note) error {
			return nil
		}),
	})
}

func TestGetCollector(t *testing.T) {
	c, err := collector.GetCollector(testType)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Contains(t, collector.Types(), testType)

	_, err = collector.GetCollector("unknown")
	assert.ErrorIs(t, err, errx.ErrInvalidArgument)
}

func TestFuncs_Decode(t *testing.T) {
	c, err := collector.GetCollector(testType)
	require.NoError(t, err)

	data, err := c.Decode([]byte(`{"title": "hello"}`))
	require.NoError(t, err)
	assert.Equal(t, &note{Title: "hello"}, data)

	_, err = c.Decode([]byte(`{"title": 1}`))
	assert.ErrorIs(t, err, errx.ErrInvalidArgument)
}

func TestFuncs_Generate(t *testing.T) {
	c, err := collector.GetCollector(testType)
	require.NoError(t, err)

	others, err := c.Generate(nil, nil, &note{})
	require.NoError(t, err)
	assert.Empty(t, others)

	// 描述类型与解析器不符
	_, err = c.Generate(nil, nil, &model.Enum{})
	assert.ErrorIs(t, err, errx.ErrInvalidArgument)
}
