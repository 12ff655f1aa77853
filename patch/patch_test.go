package patch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
)

func TestApply(t *testing.T) {
	code := "const a = 1;\nconst b = 2;\nconst c = 3;\n"

	tests := []struct {
		name      string
		fragments []model.Fragment
		want      string
	}{
		{
			name: "无片段",
			want: code,
		},
		{
			name:      "单个替换",
			fragments: []model.Fragment{{Start: 10, End: 11, Replacement: "100"}},
			want:      "const a = 100;\nconst b = 2;\nconst c = 3;\n",
		},
		{
			name: "乱序输入按原始坐标生效",
			fragments: []model.Fragment{
				{Start: 36, End: 37, Replacement: "30"},
				{Start: 10, End: 11, Replacement: "10"},
				{Start: 13, End: 26, Replacement: ""},
			},
			want: "const a = 10;\nconst c = 30;\n",
		},
		{
			name: "同一位置的插入保持输入顺序",
			fragments: []model.Fragment{
				model.Insert(0, "// x\n"),
				model.Insert(0, "// y\n"),
			},
			want: "// x\n// y\n" + code,
		},
		{
			name:      "末尾插入",
			fragments: []model.Fragment{model.Insert(len(code), "const d = 4;\n")},
			want:      code + "const d = 4;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(code, tt.fragments)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyInvalid(t *testing.T) {
	code := "abcdef"

	t.Run("重叠", func(t *testing.T) {
		_, err := Apply(code, []model.Fragment{
			{Start: 0, End: 3, Replacement: "x"},
			{Start: 2, End: 4, Replacement: "y"},
		})
		assert.True(t, errors.Is(err, errx.ErrFragmentOverlap))
	})

	t.Run("越界", func(t *testing.T) {
		_, err := Apply(code, []model.Fragment{{Start: 4, End: 10}})
		assert.True(t, errors.Is(err, errx.ErrFragmentRange))
	})

	t.Run("起点大于终点", func(t *testing.T) {
		_, err := Apply(code, []model.Fragment{{Start: 3, End: 2}})
		assert.True(t, errors.Is(err, errx.ErrFragmentRange))
	})

	t.Run("相邻片段不算重叠", func(t *testing.T) {
		got, err := Apply(code, []model.Fragment{
			{Start: 0, End: 3, Replacement: "1"},
			{Start: 3, End: 6, Replacement: "2"},
		})
		require.NoError(t, err)
		assert.Equal(t, "12", got)
	})
}
