package interpreter

import (
	"errors"
	"fmt"

	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

var (
	// ErrEvaluation matches every error caused by the program itself.
	ErrEvaluation = errors.New("evaluation error")
	// ErrUnboundVariable matches references to names absent from the environment.
	ErrUnboundVariable = errors.New("unbound variable")
	// ErrTypeMismatch matches operands and callees of the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNotCallable matches calls whose callee is not a function.
	ErrNotCallable = errors.New("not callable")
	// ErrResourceExhausted matches evaluations stopped by a limit rather than by
	// the program. It never matches ErrEvaluation.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// UnboundVariableError reports a lookup of an unbound name.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'", e.Name)
}

func (e *UnboundVariableError) Is(target error) bool {
	return target == ErrEvaluation || target == ErrUnboundVariable
}

// TypeError reports an operator applied to an operand of the wrong kind.
type TypeError struct {
	Operator string
	Expected runtime.Kind
	Actual   runtime.Kind
}

func (e *TypeError) Error() string {
	switch e.Operator {
	case "+", "<":
		return fmt.Sprintf("%s expects two numbers", e.Operator)
	case "-":
		return "- expects a number"
	default:
		return fmt.Sprintf("%s expects a %s, got %s", e.Operator, e.Expected, e.Actual)
	}
}

func (e *TypeError) Is(target error) bool {
	return target == ErrEvaluation || target == ErrTypeMismatch
}

// NotCallableError reports a call whose callee evaluated to a non-function.
type NotCallableError struct {
	Actual runtime.Kind
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("%s is not a function", e.Actual)
}

func (e *NotCallableError) Is(target error) bool {
	return target == ErrEvaluation || target == ErrTypeMismatch || target == ErrNotCallable
}

const (
	ResourceCallDepth = "call depth"
	ResourceDeadline  = "deadline"
)

// ResourceExhaustedError reports an evaluation abandoned because a limit was
// reached. Err holds the context error for deadline exhaustion.
type ResourceExhaustedError struct {
	Resource string
	Limit    int
	Err      error
}

func (e *ResourceExhaustedError) Error() string {
	switch {
	case e.Resource == ResourceCallDepth:
		return fmt.Sprintf("maximum call depth of %d exceeded", e.Limit)
	case e.Err != nil:
		return fmt.Sprintf("%s exhausted: %v", e.Resource, e.Err)
	default:
		return fmt.Sprintf("%s exhausted", e.Resource)
	}
}

func (e *ResourceExhaustedError) Is(target error) bool {
	return target == ErrResourceExhausted
}

func (e *ResourceExhaustedError) Unwrap() error {
	return e.Err
}

// ErrorKind names the category of err: UnboundVariable, NotCallable,
// TypeError, ResourceExhausted, or the empty string for anything else.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnboundVariable):
		return "UnboundVariable"
	case errors.Is(err, ErrNotCallable):
		return "NotCallable"
	case errors.Is(err, ErrTypeMismatch):
		return "TypeError"
	case errors.Is(err, ErrResourceExhausted):
		return "ResourceExhausted"
	default:
		return ""
	}
}
