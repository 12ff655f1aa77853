package typescript

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-gii/core"
	"github.com/CodMac/go-treesitter-gii/errx"
	"github.com/CodMac/go-treesitter-gii/model"
	"github.com/CodMac/go-treesitter-gii/parser"
)

// 可以识别但不解释的表达式，原样保留源码
var expressionKinds = map[string]bool{
	"call_expression":                 true,
	"new_expression":                  true,
	"binary_expression":               true,
	"ternary_expression":              true,
	"template_string":                 true,
	"array":                           true,
	"parenthesized_expression":        true,
	"arrow_function":                  true,
	"function_expression":             true,
	"generator_function":              true,
	"await_expression":                true,
	"as_expression":                   true,
	"satisfies_expression":            true,
	"non_null_expression":             true,
	"subscript_expression":            true,
	"regex":                           true,
	"this":                            true,
	"super":                           true,
	"unary_expression":                true,
	"update_expression":               true,
	"type_assertion":                  true,
	"class":                           true,
	"assignment_expression":           true,
	"augmented_assignment_expression": true,
	"sequence_expression":             true,
	"instantiation_expression":        true,
	"undefined":                       true,
}

// ParseValue 把初始化表达式解析为值。fc 为 nil 时不做类名解析。
func ParseValue(fc *core.FileContext, v *parser.View, n *sitter.Node) (model.Value, error) {
	if n == nil {
		return model.UndefinedValue(), nil
	}
	if n.IsError() || n.IsMissing() {
		return model.Value{}, unsupported(fc, v, n)
	}

	text := v.Text(n)
	switch n.Kind() {
	case "true":
		return model.BoolValue(true), nil
	case "false":
		return model.BoolValue(false), nil
	case "null":
		return model.NullValue(), nil
	case "number":
		return parseNumber(text, text), nil
	case "string":
		s, err := decodeString(v, n)
		if err != nil {
			return model.Value{}, unsupported(fc, v, n)
		}
		return model.StringValue(s), nil
	case "unary_expression":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		if arg != nil && op != nil && v.Text(op) == "-" && arg.Kind() == "number" {
			return parseNumber("-"+v.Text(arg), text), nil
		}
		return model.ExpressionValue(text), nil
	case "member_expression":
		prop := n.ChildByFieldName("property")
		return model.ReferenceValue(v.Text(prop), text), nil
	case "object":
		return parseObject(fc, v, n)
	case "identifier":
		return resolveClass(fc, v.Text(n), text), nil
	case "arrow_function":
		body := n.ChildByFieldName("body")
		if body != nil && body.Kind() == "identifier" && arrowWithoutParams(n) {
			return resolveClass(fc, v.Text(body), text), nil
		}
		return model.ExpressionValue(text), nil
	}

	if expressionKinds[n.Kind()] {
		return model.ExpressionValue(text), nil
	}
	return model.Value{}, unsupported(fc, v, n)
}

func unsupported(fc *core.FileContext, v *parser.View, n *sitter.Node) error {
	data := map[string]any{
		"kind": n.Kind(),
		"code": v.Text(n),
		"pos":  start(n),
	}
	if fc != nil {
		data["file"] = fc.File.ID
	}
	return errx.ErrUnsupportedValue.WithDataMap(data)
}

// parseNumber 只有能原样输出的数字才转为数值，其余（十六进制、分隔符等）保留源码
func parseNumber(literal, source string) model.Value {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || model.GenerateValue(model.NumberValue(f), 0) != literal {
		return model.ExpressionValue(source)
	}
	return model.NumberValue(f)
}

func arrowWithoutParams(n *sitter.Node) bool {
	if n.ChildByFieldName("parameter") != nil {
		return false
	}
	params := n.ChildByFieldName("parameters")
	return params == nil || params.NamedChildCount() == 0
}

// resolveClass 类名能解析到项目实体时得到引用，否则作为表达式保留
func resolveClass(fc *core.FileContext, name, code string) model.Value {
	if fc != nil {
		if id, ok := fc.ResolveSymbol(name); ok {
			return model.ReferenceValue(id, code)
		}
	}
	return model.ExpressionValue(code)
}

func parseObject(fc *core.FileContext, v *parser.View, n *sitter.Node) (model.Value, error) {
	obj := model.ObjectValue()
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "comment":
			continue
		case "pair":
			key, err := objectKey(v, child.ChildByFieldName("key"))
			if err != nil {
				return model.Value{}, unsupported(fc, v, child)
			}
			val, err := ParseValue(fc, v, child.ChildByFieldName("value"))
			if err != nil {
				return model.Value{}, err
			}
			obj.Entries = append(obj.Entries, model.Entry{Key: key, Value: val})
		case "shorthand_property_identifier":
			name := v.Text(child)
			obj.Entries = append(obj.Entries, model.Entry{Key: name, Value: resolveClass(fc, name, name)})
		default:
			// spread、对象方法等无法按键值对还原
			return model.Value{}, unsupported(fc, v, child)
		}
	}
	return obj, nil
}

func objectKey(v *parser.View, n *sitter.Node) (string, error) {
	if n == nil {
		return "", errx.ErrUnsupportedValue
	}
	switch n.Kind() {
	case "string":
		return decodeString(v, n)
	case "property_identifier", "number", "computed_property_name", "private_property_identifier":
		return v.Text(n), nil
	}
	return "", errx.ErrUnsupportedValue
}

// decodeString 解码单/双引号字符串字面量
func decodeString(v *parser.View, n *sitter.Node) (string, error) {
	var b strings.Builder
	for _, child := range children(n) {
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(v.Text(child))
		case "escape_sequence":
			s, err := decodeEscape(v.Text(child))
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

func decodeEscape(seq string) (string, error) {
	if len(seq) < 2 {
		return seq, nil
	}
	switch seq[1] {
	case 'n':
		return "\n", nil
	case 'r':
		return "\r", nil
	case 't':
		return "\t", nil
	case 'b':
		return "\b", nil
	case 'f':
		return "\f", nil
	case 'v':
		return "\v", nil
	case '0':
		if len(seq) == 2 {
			return "\x00", nil
		}
	case '\n', '\r':
		// 续行
		return "", nil
	case 'x', 'u':
		hex := strings.Trim(seq[2:], "{}")
		r, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return "", err
		}
		if !utf8.ValidRune(rune(r)) {
			return "", strconv.ErrRange
		}
		return string(rune(r)), nil
	}
	return seq[1:], nil
}
