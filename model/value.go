package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind 是值表达式的标签
type ValueKind uint8

const (
	KindUndefined ValueKind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindObject
	KindExpression // 不解释的可执行代码，原样输出
	KindReference  // 指向类/成员的引用，Ref 为解析结果，Text 为原始代码
)

// Value 是装饰器参数、默认值、常量值的结构化表示。
// 除 Object 以外的字段只对对应的 Kind 有意义。
type Value struct {
	Kind    ValueKind
	Bool    bool
	Number  float64
	Text    string
	Ref     string
	Entries []Entry
}

// Entry 是对象字面量的一个键值对，保留源码中的顺序
type Entry struct {
	Key   string
	Value Value
}

func UndefinedValue() Value          { return Value{} }
func NullValue() Value               { return Value{Kind: KindNull} }
func BoolValue(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n float64) Value    { return Value{Kind: KindNumber, Number: n} }
func StringValue(s string) Value     { return Value{Kind: KindString, Text: s} }
func ExpressionValue(c string) Value { return Value{Kind: KindExpression, Text: c} }

func ReferenceValue(ref, code string) Value {
	return Value{Kind: KindReference, Ref: ref, Text: code}
}

func ObjectValue(entries ...Entry) Value {
	return Value{Kind: KindObject, Entries: entries}
}

func (v Value) IsUndefined() bool { return v.Kind == KindUndefined }

// IsCode 表达式与引用都按源码文本比较和输出
func (v Value) IsCode() bool { return v.Kind == KindExpression || v.Kind == KindReference }

// Get 按 key 读取对象字段
func (v Value) Get(key string) (Value, bool) {
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Set 覆盖已有字段或追加到末尾
func (v *Value) Set(key string, val Value) {
	if v.Kind != KindObject {
		*v = ObjectValue()
	}
	for i := range v.Entries {
		if v.Entries[i].Key == key {
			v.Entries[i].Value = val
			return
		}
	}
	v.Entries = append(v.Entries, Entry{Key: key, Value: val})
}

// Literal 返回标量的文本形式，用于枚举值等场景
func (v Value) Literal() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return formatNumber(v.Number)
	case KindString, KindExpression, KindReference:
		return v.Text
	case KindNull:
		return "null"
	default:
		return ""
	}
}

// Equal 深比较。对象忽略键顺序与 undefined 字段，表达式按源码比较。
func (v Value) Equal(o Value) bool {
	if v.IsCode() && o.IsCode() {
		return v.Text == o.Text
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	case KindString:
		return v.Text == o.Text
	case KindObject:
		a, b := v.defined(), o.defined()
		if len(a) != len(b) {
			return false
		}
		for _, e := range a {
			other, ok := o.Get(e.Key)
			if !ok || !e.Value.Equal(other) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) defined() []Entry {
	out := make([]Entry, 0, len(v.Entries))
	for _, e := range v.Entries {
		if !e.Value.IsUndefined() {
			out = append(out, e)
		}
	}
	return out
}

// ValuesEqual 按位置比较两组值
func ValuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ValuePtrEqual nil 与 undefined 视为相同
func ValuePtrEqual(a, b *Value) bool {
	av, bv := Value{}, Value{}
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av.Equal(bv)
}

// GenerateValue 把值渲染为源码，depth 是对象字面量所在的缩进层级
func GenerateValue(v Value, depth int) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return formatNumber(v.Number)
	case KindString:
		return QuoteString(v.Text)
	case KindExpression, KindReference:
		return v.Text
	case KindObject:
		entries := v.defined()
		if len(entries) == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteString("{\n")
		for _, e := range entries {
			b.WriteString(Indent(depth + 1))
			b.WriteString(ObjectKey(e.Key))
			b.WriteString(": ")
			b.WriteString(GenerateValue(e.Value, depth+1))
			b.WriteString(",\n")
		}
		b.WriteString(Indent(depth))
		b.WriteString("}")
		return b.String()
	default:
		return "undefined"
	}
}

// Indent 返回 level 级缩进（4 空格）
func Indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("    ", level)
}

// QuoteString 单引号字符串字面量
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// ObjectKey 计算属性名 [expr] 原样输出，非标识符的键加引号
func ObjectKey(key string) string {
	if strings.HasPrefix(key, "[") || IsIdentifier(key) || isDigits(key) {
		return key
	}
	return QuoteString(key)
}

// IsIdentifier 判断 s 是否为合法的 JS 标识符
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

const (
	markerExpression = "$expression"
	markerRef        = "$ref"
)

// MarshalJSON 标量输出原生 JSON，对象保持键顺序，表达式输出为 {"$expression": ...}。
// 字符串不做 HTML 转义，箭头函数等代码原样输出。
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindUndefined, KindNull:
		return []byte("null"), nil
	case KindBool:
		return marshalJSON(v.Bool)
	case KindString:
		return marshalJSON(v.Text)
	case KindNumber:
		return []byte(formatNumber(v.Number)), nil
	case KindExpression:
		return marshalJSON(map[string]string{markerExpression: v.Text})
	case KindReference:
		return marshalJSON(map[string]string{markerExpression: v.Text, markerRef: v.Ref})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, e := range v.Entries {
		if e.Value.IsUndefined() {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := marshalJSON(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalJSON(x any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	case json.Delim:
		switch t {
		case '{':
			obj := ObjectValue()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.Entries = append(obj.Entries, Entry{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			if code, ok := obj.Get(markerExpression); ok && code.Kind == KindString {
				if ref, ok := obj.Get(markerRef); ok && ref.Kind == KindString {
					return ReferenceValue(ref.Text, code.Text), nil
				}
				return ExpressionValue(code.Text), nil
			}
			return obj, nil
		case '[':
			var items []string
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, GenerateValue(item, 0))
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ExpressionValue("[" + strings.Join(items, ", ") + "]"), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected json token %v", tok)
}
