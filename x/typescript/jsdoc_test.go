package typescript_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/x/typescript"
)

func TestParseJsdoc(t *testing.T) {
	doc := typescript.ParseJsdoc(`/**
 * Вызов метода get
 * second line...
 * @param url URL для HTTP-запроса.
 * @param params Параметры для запроса.
 * @deprecated
 */`)

	assert.Equal(t, "Вызов метода get\nsecond line...", doc.Description)
	assert.Equal(t, []model.JsdocTag{
		{Name: "param", Value: "url URL для HTTP-запроса."},
		{Name: "param", Value: "params Параметры для запроса."},
		{Name: "deprecated"},
	}, doc.Tags)

	assert.Equal(t, `/**
 * Вызов метода get
 * second line...
 * @param url URL для HTTP-запроса.
 * @param params Параметры для запроса.
 * @deprecated
 */`, typescript.RenderJsdoc(doc, 0))
}

func TestRenderJsdoc_Empty(t *testing.T) {
	assert.Equal(t, "", typescript.RenderJsdoc(typescript.Jsdoc{}, 0))
	assert.Equal(t, "    /**\n     * @extend-model UserModel\n     */", typescript.RenderJsdoc(typescript.Jsdoc{
		Tags: []model.JsdocTag{{Name: "extend-model", Value: "UserModel"}},
	}, 1))
}
