package interpreter

import (
	"fmt"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment, state *evalState) (result runtime.Value, err error) {
	defer func() {
		err = i.attachRuntimeContext(err, node, state)
	}()
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.Identifier:
		val, ok := env.Lookup(n.Name)
		if !ok {
			return nil, &UnboundVariableError{Name: n.Name}
		}
		return val, nil
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env, state)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env, state)
	case *ast.ConditionalExpression:
		return i.evaluateConditionalExpression(n, env, state)
	case *ast.LambdaExpression:
		return runtime.NewClosure(n, env), nil
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env, state)
	default:
		return nil, fmt.Errorf("expression type %T not supported", node)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment, state *evalState) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env, state)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.BinaryOperatorOr:
		if IsTruthy(left) {
			return left, nil
		}
		return i.evaluateExpression(expr.Right, env, state)
	case ast.BinaryOperatorAnd:
		if !IsTruthy(left) {
			return left, nil
		}
		return i.evaluateExpression(expr.Right, env, state)
	}

	right, err := i.evaluateExpression(expr.Right, env, state)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.BinaryOperatorAdd:
		l, r, err := numberOperands(string(expr.Operator), left, right)
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: l + r}, nil
	case ast.BinaryOperatorLess:
		l, r, err := numberOperands(string(expr.Operator), left, right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: l < r}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", expr.Operator)
	}
}

func numberOperands(op string, left, right runtime.Value) (float64, float64, error) {
	l, ok := left.(runtime.NumberValue)
	if !ok {
		return 0, 0, &TypeError{Operator: op, Expected: runtime.KindNumber, Actual: left.Kind()}
	}
	r, ok := right.(runtime.NumberValue)
	if !ok {
		return 0, 0, &TypeError{Operator: op, Expected: runtime.KindNumber, Actual: right.Kind()}
	}
	return l.Val, r.Val, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment, state *evalState) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env, state)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.UnaryOperatorNot:
		return runtime.BoolValue{Val: !IsTruthy(operand)}, nil
	case ast.UnaryOperatorNegate:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, &TypeError{Operator: string(expr.Operator), Expected: runtime.KindNumber, Actual: operand.Kind()}
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %q", expr.Operator)
	}
}

func (i *Interpreter) evaluateConditionalExpression(expr *ast.ConditionalExpression, env *runtime.Environment, state *evalState) (runtime.Value, error) {
	cond, err := i.evaluateExpression(expr.Condition, env, state)
	if err != nil {
		return nil, err
	}
	if IsTruthy(cond) {
		return i.evaluateExpression(expr.Consequent, env, state)
	}
	return i.evaluateExpression(expr.Alternate, env, state)
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment, state *evalState) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env, state)
	if err != nil {
		return nil, err
	}
	closure, ok := callee.(*runtime.ClosureValue)
	if !ok || closure == nil {
		return nil, &NotCallableError{Actual: callee.Kind()}
	}
	arg, err := i.evaluateExpression(call.Argument, env, state)
	if err != nil {
		return nil, err
	}
	if err := i.enterCall(call, closure, state); err != nil {
		return nil, err
	}
	defer state.popCallFrame()
	return i.evaluateExpression(closure.Body, closure.Env.Extend(closure.Param, arg), state)
}

func (i *Interpreter) enterCall(call *ast.FunctionCall, closure *runtime.ClosureValue, state *evalState) error {
	if err := state.ctx.Err(); err != nil {
		i.logger.Warn("evaluation cancelled", "depth", state.depth(), "err", err)
		return &ResourceExhaustedError{Resource: ResourceDeadline, Err: err}
	}
	if state.depth() >= i.maxCallDepth {
		i.logger.Warn("call depth limit reached", "limit", i.maxCallDepth)
		return &ResourceExhaustedError{Resource: ResourceCallDepth, Limit: i.maxCallDepth}
	}
	state.pushCallFrame(call)
	i.logger.Debug("call", "param", closure.Param, "depth", state.depth())
	return nil
}
