package interpreter

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
)

type nodeCategoryDecoder func(map[string]any, string) (ast.Node, bool, error)

var nodeDecoders []nodeCategoryDecoder

func init() {
	nodeDecoders = []nodeCategoryDecoder{
		decodeLiteralNodes,
		decodeOperatorNodes,
		decodeFunctionNodes,
	}
}

// DecodeExpression converts a generic node map (as produced by encoding/json
// or yaml.v3) into an expression tree.
func DecodeExpression(node map[string]any) (ast.Expression, error) {
	decoded, err := decodeNode(node)
	if err != nil {
		return nil, err
	}
	expr, ok := decoded.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("decode: %T is not an expression", decoded)
	}
	return expr, nil
}

// DecodeExpressionJSON decodes a JSON document holding a single expression.
func DecodeExpressionJSON(data []byte) (ast.Expression, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return DecodeExpression(raw)
}

// DecodeExpressionYAML decodes a YAML document holding a single expression.
func DecodeExpressionYAML(data []byte) (ast.Expression, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return DecodeExpression(raw)
}

func decodeNode(node map[string]any) (ast.Node, error) {
	if node == nil {
		return nil, fmt.Errorf("decode: missing node")
	}
	typ, _ := node["type"].(string)
	for _, decoder := range nodeDecoders {
		decoded, handled, err := decoder(node, typ)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		if handled {
			if span, ok := decodeSpan(node["span"]); ok {
				ast.SetSpan(decoded, span)
			}
			return decoded, nil
		}
	}
	return nil, fmt.Errorf("decode %q: %w", typ, fs.ErrInvalid)
}

func decodeChild(node map[string]any, key string) (ast.Expression, error) {
	raw, ok := node[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be a node, got %T", key, node[key])
	}
	return DecodeExpression(raw)
}

func decodeLiteralNodes(node map[string]any, typ string) (ast.Node, bool, error) {
	switch ast.NodeType(typ) {
	case ast.NodeNumberLiteral:
		value, err := parseNumber(node["value"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewNumberLiteral(value), true, nil
	case ast.NodeBooleanLiteral:
		value, ok := node["value"].(bool)
		if !ok {
			return nil, true, fmt.Errorf("value must be a boolean, got %T", node["value"])
		}
		return ast.NewBooleanLiteral(value), true, nil
	case ast.NodeIdentifier:
		name, ok := node["name"].(string)
		if !ok || name == "" {
			return nil, true, fmt.Errorf("identifier requires a name")
		}
		return ast.NewIdentifier(name), true, nil
	default:
		return nil, false, nil
	}
}

func decodeOperatorNodes(node map[string]any, typ string) (ast.Node, bool, error) {
	switch ast.NodeType(typ) {
	case ast.NodeBinaryExpression:
		op := ast.BinaryOperator(stringField(node, "operator"))
		if !op.Valid() {
			return nil, true, fmt.Errorf("unknown binary operator %q", op)
		}
		left, err := decodeChild(node, "left")
		if err != nil {
			return nil, true, err
		}
		right, err := decodeChild(node, "right")
		if err != nil {
			return nil, true, err
		}
		return ast.NewBinaryExpression(op, left, right), true, nil
	case ast.NodeUnaryExpression:
		op := ast.UnaryOperator(stringField(node, "operator"))
		if !op.Valid() {
			return nil, true, fmt.Errorf("unknown unary operator %q", op)
		}
		operand, err := decodeChild(node, "operand")
		if err != nil {
			return nil, true, err
		}
		return ast.NewUnaryExpression(op, operand), true, nil
	case ast.NodeConditionalExpression:
		cond, err := decodeChild(node, "condition")
		if err != nil {
			return nil, true, err
		}
		consequent, err := decodeChild(node, "consequent")
		if err != nil {
			return nil, true, err
		}
		alternate, err := decodeChild(node, "alternate")
		if err != nil {
			return nil, true, err
		}
		return ast.NewConditionalExpression(cond, consequent, alternate), true, nil
	default:
		return nil, false, nil
	}
}

func decodeFunctionNodes(node map[string]any, typ string) (ast.Node, bool, error) {
	switch ast.NodeType(typ) {
	case ast.NodeLambdaExpression:
		paramExpr, err := decodeChild(node, "param")
		if err != nil {
			return nil, true, err
		}
		param, ok := paramExpr.(*ast.Identifier)
		if !ok {
			return nil, true, fmt.Errorf("lambda param must be an Identifier, got %s", paramExpr.NodeType())
		}
		body, err := decodeChild(node, "body")
		if err != nil {
			return nil, true, err
		}
		return ast.NewLambdaExpression(param, body), true, nil
	case ast.NodeFunctionCall:
		callee, err := decodeChild(node, "callee")
		if err != nil {
			return nil, true, err
		}
		arg, err := decodeChild(node, "argument")
		if err != nil {
			return nil, true, err
		}
		return ast.NewFunctionCall(callee, arg), true, nil
	default:
		return nil, false, nil
	}
}

func stringField(node map[string]any, key string) string {
	s, _ := node[key].(string)
	return s
}

// parseNumber accepts the numeric shapes produced by encoding/json and yaml.v3,
// plus the strings NaN, Infinity and -Infinity which JSON cannot express.
func parseNumber(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		switch v {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value must be a number, got %T", value)
	}
}

func decodeSpan(raw any) (ast.Span, bool) {
	spanMap, ok := raw.(map[string]any)
	if !ok {
		return ast.Span{}, false
	}
	return ast.Span{
		Start: decodePosition(spanMap["start"]),
		End:   decodePosition(spanMap["end"]),
	}, true
}

func decodePosition(raw any) ast.Position {
	pos, ok := raw.(map[string]any)
	if !ok {
		return ast.Position{}
	}
	line, _ := parseNumber(pos["line"])
	column, _ := parseNumber(pos["column"])
	return ast.Position{Line: int(line), Column: int(column)}
}
