package interpreter

import (
	"errors"
	"io/fs"
	"math"
	"testing"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

const curriedConstJSON = `{
  "type": "FunctionCall",
  "span": {"start": {"line": 1, "column": 1}, "end": {"line": 1, "column": 20}},
  "callee": {
    "type": "FunctionCall",
    "callee": {
      "type": "LambdaExpression",
      "param": {"type": "Identifier", "name": "x"},
      "body": {
        "type": "LambdaExpression",
        "param": {"type": "Identifier", "name": "y"},
        "body": {"type": "Identifier", "name": "x"}
      }
    },
    "argument": {"type": "NumberLiteral", "value": 1}
  },
  "argument": {"type": "NumberLiteral", "value": 2}
}`

func TestDecodeExpressionJSON(t *testing.T) {
	expr, err := DecodeExpressionJSON([]byte(curriedConstJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected FunctionCall, got %T", expr)
	}
	if span := call.Span(); span.Start.Line != 1 || span.End.Column != 20 {
		t.Fatalf("span not decoded: %+v", span)
	}
	val, err := New().Evaluate(expr, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if val != (runtime.NumberValue{Val: 1}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestDecodeExpressionYAML(t *testing.T) {
	expr, err := DecodeExpressionYAML([]byte(`
type: ConditionalExpression
condition:
  type: UnaryExpression
  operator: "!"
  operand: {type: NumberLiteral, value: 0}
consequent:
  type: BinaryExpression
  operator: "||"
  left: {type: BooleanLiteral, value: false}
  right: {type: NumberLiteral, value: 2.5}
alternate: {type: Identifier, name: never}
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	val, err := New().Evaluate(expr, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if val != (runtime.NumberValue{Val: 2.5}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestDecodeSpecialNumbers(t *testing.T) {
	expr, err := DecodeExpressionJSON([]byte(`{"type": "NumberLiteral", "value": "NaN"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lit := expr.(*ast.NumberLiteral); !math.IsNaN(lit.Value) {
		t.Fatalf("expected NaN literal, got %v", lit.Value)
	}
	expr, err = DecodeExpressionYAML([]byte("{type: NumberLiteral, value: -.inf}"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lit := expr.(*ast.NumberLiteral); !math.IsInf(lit.Value, -1) {
		t.Fatalf("expected -Inf literal, got %v", lit.Value)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"unknown type":      `{"type": "WhileLoop"}`,
		"bad operator":      `{"type": "BinaryExpression", "operator": "*", "left": {"type": "NumberLiteral", "value": 1}, "right": {"type": "NumberLiteral", "value": 1}}`,
		"missing child":     `{"type": "UnaryExpression", "operator": "-"}`,
		"bad boolean":       `{"type": "BooleanLiteral", "value": "yes"}`,
		"empty identifier":  `{"type": "Identifier", "name": ""}`,
		"non-ident param":   `{"type": "LambdaExpression", "param": {"type": "NumberLiteral", "value": 1}, "body": {"type": "NumberLiteral", "value": 1}}`,
		"malformed json":    `{"type": `,
		"string for number": `{"type": "NumberLiteral", "value": "one"}`,
	}
	for name, src := range cases {
		if _, err := DecodeExpressionJSON([]byte(src)); err == nil {
			t.Fatalf("%s: expected decode error", name)
		}
	}
	_, err := DecodeExpressionJSON([]byte(`{"type": "WhileLoop"}`))
	if !errors.Is(err, fs.ErrInvalid) {
		t.Fatalf("unknown node types should wrap fs.ErrInvalid, got %v", err)
	}
}
