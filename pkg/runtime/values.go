package runtime

import (
	"fmt"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindClosure:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. The set of
// implementations is closed: NumberValue, BoolValue and *ClosureValue.
type Value interface {
	Kind() Kind
	isValue()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }
func (NumberValue) isValue()     {}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }
func (BoolValue) isValue()     {}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// ClosureValue pairs a lambda with the environment in effect where the
// lambda was evaluated. Body is the original node, never a copy.
type ClosureValue struct {
	Param string
	Body  ast.Expression
	Env   *Environment
}

func (v *ClosureValue) Kind() Kind { return KindClosure }
func (*ClosureValue) isValue()     {}

// NewClosure captures env for the given lambda.
func NewClosure(lambda *ast.LambdaExpression, env *Environment) *ClosureValue {
	return &ClosureValue{Param: lambda.ParamName(), Body: lambda.Body, Env: env}
}
