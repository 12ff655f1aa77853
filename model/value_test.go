package model

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	a := ObjectValue(
		Entry{Key: "label", Value: StringValue("ID")},
		Entry{Key: "nullable", Value: BoolValue(false)},
	)
	b := ObjectValue(
		Entry{Key: "nullable", Value: BoolValue(false)},
		Entry{Key: "label", Value: StringValue("ID")},
		Entry{Key: "hint", Value: UndefinedValue()},
	)

	t.Run("对象比较忽略顺序与 undefined", func(t *testing.T) {
		assert.True(t, a.Equal(b))
	})

	t.Run("值不同", func(t *testing.T) {
		c := ObjectValue(Entry{Key: "label", Value: StringValue("Id")})
		assert.False(t, a.Equal(c))
	})

	t.Run("表达式与引用按源码比较", func(t *testing.T) {
		assert.True(t, ExpressionValue("() => UserModel").Equal(ReferenceValue("src/UserModel.ts", "() => UserModel")))
		assert.False(t, ExpressionValue("() => A").Equal(ExpressionValue("() => B")))
	})

	t.Run("nil 与 undefined 等价", func(t *testing.T) {
		u := UndefinedValue()
		assert.True(t, ValuePtrEqual(nil, &u))
		n := NumberValue(0)
		assert.False(t, ValuePtrEqual(nil, &n))
	})
}

func TestGenerateValue(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"布尔", BoolValue(false), "false"},
		{"整数", NumberValue(123), "123"},
		{"小数", NumberValue(-1.5), "-1.5"},
		{"字符串转义", StringValue(`it's \ ok`), `'it\'s \\ ok'`},
		{"null", NullValue(), "null"},
		{"undefined", UndefinedValue(), "undefined"},
		{"表达式原样输出", ExpressionValue("this.CONST"), "this.CONST"},
		{"空对象", ObjectValue(), "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateValue(tt.v, 0))
		})
	}

	t.Run("嵌套对象", func(t *testing.T) {
		v := ObjectValue(
			Entry{Key: "label", Value: StringValue("Статус")},
			Entry{Key: "[this.NEW]", Value: StringValue("Новый")},
			Entry{Key: "some-key", Value: NumberValue(1)},
			Entry{Key: "skip", Value: UndefinedValue()},
			Entry{Key: "inner", Value: ObjectValue(Entry{Key: "a", Value: BoolValue(true)})},
		)
		want := "{\n" +
			"        label: 'Статус',\n" +
			"        [this.NEW]: 'Новый',\n" +
			"        'some-key': 1,\n" +
			"        inner: {\n" +
			"            a: true,\n" +
			"        },\n" +
			"    }"
		assert.Equal(t, want, GenerateValue(v, 1))
	})
}

func TestValueJSON(t *testing.T) {
	raw := `{"label":"ID","min":1,"relationClass":{"$expression":"() => UserModel","$ref":"src/user/domain/models/UserModel.ts"},"tags":["a",2],"empty":null}`

	var v Value
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	require.Equal(t, KindObject, v.Kind)

	keys := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"label", "min", "relationClass", "tags", "empty"}, keys)

	rel, ok := v.Get("relationClass")
	require.True(t, ok)
	assert.Equal(t, KindReference, rel.Kind)
	assert.Equal(t, "src/user/domain/models/UserModel.ts", rel.Ref)

	tags, _ := v.Get("tags")
	assert.Equal(t, ExpressionValue("['a', 2]"), tags)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(v))
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	direct, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(out), string(direct))
	assert.Equal(t,
		`{"label":"ID","min":1,"relationClass":{"$expression":"() => UserModel","$ref":"src/user/domain/models/UserModel.ts"},"tags":{"$expression":"['a', 2]"},"empty":null}`,
		string(out))
}

func TestValueSet(t *testing.T) {
	var v Value
	v.Set("a", NumberValue(1))
	v.Set("b", NumberValue(2))
	v.Set("a", NumberValue(3))

	got, _ := v.Get("a")
	assert.Equal(t, NumberValue(3), got)
	assert.Len(t, v.Entries, 2)
	assert.Equal(t, "3", got.Literal())
}
