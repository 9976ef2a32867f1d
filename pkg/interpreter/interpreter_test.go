package interpreter

import (
	"errors"
	"math"
	"testing"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

func mustEvaluate(t *testing.T, expr ast.Expression, env *runtime.Environment) runtime.Value {
	t.Helper()
	val, err := New().Evaluate(expr, env)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return val
}

func expectNumber(t *testing.T, val runtime.Value, want float64) {
	t.Helper()
	num, ok := val.(runtime.NumberValue)
	if !ok {
		t.Fatalf("expected number %v, got %#v", want, val)
	}
	if num.Val != want && !(math.IsNaN(want) && math.IsNaN(num.Val)) {
		t.Fatalf("expected %v, got %v", want, num.Val)
	}
}

func expectBool(t *testing.T, val runtime.Value, want bool) {
	t.Helper()
	if val != (runtime.BoolValue{Val: want}) {
		t.Fatalf("expected %v, got %#v", want, val)
	}
}

func TestLiteralsEvaluateToThemselves(t *testing.T) {
	expectNumber(t, mustEvaluate(t, ast.Num(1.5), nil), 1.5)
	expectBool(t, mustEvaluate(t, ast.Bool(true), nil), true)
	expectBool(t, mustEvaluate(t, ast.Bool(false), nil), false)
}

func TestArithmeticAndComparison(t *testing.T) {
	expectNumber(t, mustEvaluate(t, ast.Add(ast.Num(1), ast.Num(2)), nil), 3)
	expectNumber(t, mustEvaluate(t, ast.Add(ast.Num(0.1), ast.Num(0.2)), nil), 0.30000000000000004)
	expectBool(t, mustEvaluate(t, ast.Less(ast.Num(1), ast.Num(2)), nil), true)
	expectBool(t, mustEvaluate(t, ast.Less(ast.Num(2), ast.Num(1)), nil), false)
	expectBool(t, mustEvaluate(t, ast.Less(ast.Num(2), ast.Num(2)), nil), false)
	expectNumber(t, mustEvaluate(t, ast.Neg(ast.Num(5)), nil), -5)
	expectNumber(t, mustEvaluate(t, ast.Neg(ast.Neg(ast.Num(5))), nil), 5)
}

func TestFloatingPointEdges(t *testing.T) {
	inf := math.Inf(1)
	expectNumber(t, mustEvaluate(t, ast.Add(ast.Num(inf), ast.Neg(ast.Num(inf))), nil), math.NaN())
	expectBool(t, mustEvaluate(t, ast.Less(ast.Num(math.NaN()), ast.Num(1)), nil), false)
	expectBool(t, mustEvaluate(t, ast.Less(ast.Num(1), ast.Num(math.NaN())), nil), false)
	negZero := mustEvaluate(t, ast.Neg(ast.Num(0)), nil).(runtime.NumberValue)
	if !math.Signbit(negZero.Val) {
		t.Fatalf("expected -0, got %v", negZero.Val)
	}
}

func TestTypeErrors(t *testing.T) {
	cases := []struct {
		name string
		expr ast.Expression
		msg  string
	}{
		{"add bool", ast.Add(ast.Num(1), ast.Bool(true)), "+ expects two numbers"},
		{"add bool left", ast.Add(ast.Bool(true), ast.Num(1)), "+ expects two numbers"},
		{"less bool", ast.Less(ast.Bool(false), ast.Num(1)), "< expects two numbers"},
		{"less closure", ast.Less(ast.Num(1), ast.Lambda("x", ast.ID("x"))), "< expects two numbers"},
		{"negate bool", ast.Neg(ast.Bool(true)), "- expects a number"},
		{"negate closure", ast.Neg(ast.Lambda("x", ast.ID("x"))), "- expects a number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().Evaluate(tc.expr, nil)
			var typeErr *TypeError
			if !errors.As(err, &typeErr) {
				t.Fatalf("expected TypeError, got %v", err)
			}
			if typeErr.Error() != tc.msg || err.Error() != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, err.Error())
			}
			if !errors.Is(err, ErrEvaluation) || !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("type error should match evaluation sentinels: %v", err)
			}
			if errors.Is(err, ErrNotCallable) {
				t.Fatalf("plain type error must not be NotCallable")
			}
		})
	}
}

func TestAdditionDoesNotCoerceBooleans(t *testing.T) {
	// JavaScript would give 2 for true + 1; this language rejects it.
	_, err := New().Evaluate(ast.Add(ast.Bool(true), ast.Num(1)), nil)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestOperandsEvaluateLeftToRight(t *testing.T) {
	// Both operands fail; the left failure must be the one reported.
	_, err := New().Evaluate(ast.Add(ast.ID("left"), ast.ID("right")), nil)
	var unbound *UnboundVariableError
	if !errors.As(err, &unbound) || unbound.Name != "left" {
		t.Fatalf("expected left operand error first, got %v", err)
	}
	_, err = New().Evaluate(ast.Less(ast.Num(1), ast.ID("right")), nil)
	if !errors.As(err, &unbound) || unbound.Name != "right" {
		t.Fatalf("expected right operand error, got %v", err)
	}
}

func TestShortCircuitAnd(t *testing.T) {
	expectBool(t, mustEvaluate(t, ast.And(ast.Bool(false), ast.ID("x")), nil), false)
	_, err := New().Evaluate(ast.And(ast.Bool(true), ast.ID("x")), nil)
	if !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected unbound variable, got %v", err)
	}
}

func TestShortCircuitOr(t *testing.T) {
	expectBool(t, mustEvaluate(t, ast.Or(ast.Bool(true), ast.ID("x")), nil), true)
	_, err := New().Evaluate(ast.Or(ast.Bool(false), ast.ID("x")), nil)
	if !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected unbound variable, got %v", err)
	}
}

func TestShortCircuitSkipsTypeErrors(t *testing.T) {
	expectNumber(t, mustEvaluate(t, ast.Or(ast.Num(1), ast.Add(ast.Bool(true), ast.Num(1))), nil), 1)
	expectNumber(t, mustEvaluate(t, ast.And(ast.Num(0), ast.Neg(ast.Bool(true))), nil), 0)
}

func TestLogicalOperatorsReturnOperands(t *testing.T) {
	expectNumber(t, mustEvaluate(t, ast.Or(ast.Num(0), ast.Num(1)), nil), 1)
	expectNumber(t, mustEvaluate(t, ast.Or(ast.Num(3), ast.Bool(true)), nil), 3)
	expectNumber(t, mustEvaluate(t, ast.And(ast.Num(0), ast.Num(1)), nil), 0)
	expectNumber(t, mustEvaluate(t, ast.And(ast.Num(1), ast.Num(2)), nil), 2)
	expectBool(t, mustEvaluate(t, ast.Or(ast.Bool(false), ast.Bool(false)), nil), false)

	fn := mustEvaluate(t, ast.Or(ast.Lambda("x", ast.ID("x")), ast.Num(1)), nil)
	if _, ok := fn.(*runtime.ClosureValue); !ok {
		t.Fatalf("expected closure to be returned as-is, got %#v", fn)
	}
}

func TestConditionalEvaluatesOneBranch(t *testing.T) {
	expectNumber(t, mustEvaluate(t, ast.Cond(ast.Bool(true), ast.Num(1), ast.ID("x")), nil), 1)
	expectNumber(t, mustEvaluate(t, ast.Cond(ast.Bool(false), ast.ID("x"), ast.Num(2)), nil), 2)
	expectNumber(t, mustEvaluate(t, ast.Cond(ast.Num(0), ast.ID("x"), ast.Num(3)), nil), 3)
	expectNumber(t, mustEvaluate(t, ast.Cond(ast.Lambda("y", ast.ID("y")), ast.Num(4), ast.ID("x")), nil), 4)
	_, err := New().Evaluate(ast.Cond(ast.Bool(true), ast.ID("x"), ast.Num(1)), nil)
	if !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected unbound variable from the taken branch, got %v", err)
	}
}

func TestConditionFailurePropagates(t *testing.T) {
	_, err := New().Evaluate(ast.Cond(ast.ID("c"), ast.Num(1), ast.Num(2)), nil)
	if !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected unbound condition error, got %v", err)
	}
}

func TestTruthiness(t *testing.T) {
	expectBool(t, mustEvaluate(t, ast.Not(ast.Num(1)), nil), false)
	expectBool(t, mustEvaluate(t, ast.Not(ast.Num(0)), nil), true)
	expectBool(t, mustEvaluate(t, ast.Not(ast.Neg(ast.Num(0))), nil), true)
	expectBool(t, mustEvaluate(t, ast.Not(ast.Bool(false)), nil), true)
	expectBool(t, mustEvaluate(t, ast.Not(ast.Lambda("x", ast.ID("x"))), nil), false)
	expectBool(t, mustEvaluate(t, ast.Not(ast.Not(ast.Num(7))), nil), true)

	truthy := []runtime.Value{
		runtime.NumberValue{Val: math.NaN()},
		runtime.NumberValue{Val: math.Inf(-1)},
		runtime.NumberValue{Val: -0.5},
		runtime.BoolValue{Val: true},
		&runtime.ClosureValue{Param: "x", Body: ast.ID("x")},
	}
	for _, v := range truthy {
		if !IsTruthy(v) {
			t.Fatalf("expected %#v to be truthy", v)
		}
	}
	falsy := []runtime.Value{
		runtime.NumberValue{Val: 0},
		runtime.NumberValue{Val: math.Copysign(0, -1)},
		runtime.BoolValue{Val: false},
	}
	for _, v := range falsy {
		if IsTruthy(v) {
			t.Fatalf("expected %#v to be falsy", v)
		}
	}
}

func TestLambdaCapturesEnvironmentWithoutEvaluatingBody(t *testing.T) {
	env := runtime.NewEnvironment().Extend("y", runtime.NumberValue{Val: 9})
	lambda := ast.Lambda("x", ast.ID("unbound"))
	val := mustEvaluate(t, lambda, env)
	closure, ok := val.(*runtime.ClosureValue)
	if !ok {
		t.Fatalf("expected closure, got %#v", val)
	}
	if closure.Param != "x" || closure.Body != ast.Expression(lambda.Body) {
		t.Fatalf("closure should reference the original parameter and body")
	}
	if closure.Env != env {
		t.Fatalf("closure should capture the defining environment")
	}
}

func TestCallBindsArgument(t *testing.T) {
	inc := ast.Lambda("x", ast.Add(ast.ID("x"), ast.Num(1)))
	expectNumber(t, mustEvaluate(t, ast.Call(inc, ast.Num(41)), nil), 42)
}

func TestLexicalCapture(t *testing.T) {
	k := ast.Lambda("x", ast.Lambda("y", ast.ID("x")))
	expectNumber(t, mustEvaluate(t, ast.CallN(k, ast.Num(1), ast.Num(2)), nil), 1)
}

func TestLexicalNotDynamicScope(t *testing.T) {
	// (x => (f => (x => f(0))(2))(y => x))(1) is 1 under lexical scope.
	inner := ast.Lambda("f", ast.Call(ast.Lambda("x", ast.Call(ast.ID("f"), ast.Num(0))), ast.Num(2)))
	program := ast.Call(ast.Lambda("x", ast.Call(inner, ast.Lambda("y", ast.ID("x")))), ast.Num(1))
	expectNumber(t, mustEvaluate(t, program, nil), 1)
}

func TestShadowing(t *testing.T) {
	k := ast.Lambda("x", ast.Lambda("x", ast.ID("x")))
	expectNumber(t, mustEvaluate(t, ast.CallN(k, ast.Num(1), ast.Num(2)), nil), 2)

	env := runtime.NewEnvironment().Extend("x", runtime.NumberValue{Val: 10})
	expectNumber(t, mustEvaluate(t, ast.Call(ast.Lambda("x", ast.ID("x")), ast.Num(3)), env), 3)
	if v, _ := env.Lookup("x"); v != (runtime.NumberValue{Val: 10}) {
		t.Fatalf("caller environment mutated: %#v", v)
	}
}

func TestClosureOutlivesCreatingCall(t *testing.T) {
	adder := ast.Lambda("a", ast.Lambda("b", ast.Add(ast.ID("a"), ast.ID("b"))))
	addFive := mustEvaluate(t, ast.Call(adder, ast.Num(5)), nil)
	env := runtime.NewEnvironment().Extend("addFive", addFive)
	expectNumber(t, mustEvaluate(t, ast.Call(ast.ID("addFive"), ast.Num(3)), env), 8)
	expectNumber(t, mustEvaluate(t, ast.Call(ast.ID("addFive"), ast.Num(10)), env), 15)
}

func TestNotCallable(t *testing.T) {
	for _, callee := range []ast.Expression{ast.Num(1), ast.Bool(true)} {
		_, err := New().Evaluate(ast.Call(callee, ast.Num(1)), nil)
		var notCallable *NotCallableError
		if !errors.As(err, &notCallable) {
			t.Fatalf("expected NotCallableError, got %v", err)
		}
		if !errors.Is(err, ErrNotCallable) || !errors.Is(err, ErrTypeMismatch) || !errors.Is(err, ErrEvaluation) {
			t.Fatalf("not callable should match its sentinels: %v", err)
		}
	}
}

func TestCalleeEvaluatedBeforeArgument(t *testing.T) {
	// The callee is not callable, so the unbound argument is never reached.
	_, err := New().Evaluate(ast.Call(ast.Num(1), ast.ID("missing")), nil)
	if !errors.Is(err, ErrNotCallable) {
		t.Fatalf("expected not callable before argument evaluation, got %v", err)
	}
	_, err = New().Evaluate(ast.Call(ast.ID("f"), ast.ID("missing")), nil)
	var unbound *UnboundVariableError
	if !errors.As(err, &unbound) || unbound.Name != "f" {
		t.Fatalf("expected callee lookup failure first, got %v", err)
	}
}

func TestUnboundVariable(t *testing.T) {
	_, err := New().Evaluate(ast.ID("x"), runtime.NewEnvironment())
	var unbound *UnboundVariableError
	if !errors.As(err, &unbound) || unbound.Name != "x" {
		t.Fatalf("expected UnboundVariable(x), got %v", err)
	}
	if err.Error() != "Undefined variable 'x'" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("unbound variable is not a resource error")
	}
}

func TestEvaluationIsIdempotent(t *testing.T) {
	env := runtime.NewEnvironment().Extend("n", runtime.NumberValue{Val: 4})
	program := ast.Call(ast.Lambda("x", ast.Add(ast.ID("x"), ast.ID("n"))), ast.Num(1))
	interp := New()
	first, err := interp.Evaluate(program, env)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	second, err := interp.Evaluate(program, env)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if first != second {
		t.Fatalf("results differ: %#v vs %#v", first, second)
	}

	failing := ast.Add(ast.ID("n"), ast.Bool(true))
	_, errA := interp.Evaluate(failing, env)
	_, errB := interp.Evaluate(failing, env)
	if ErrorKind(errA) != "TypeError" || ErrorKind(errA) != ErrorKind(errB) {
		t.Fatalf("errors differ: %v vs %v", errA, errB)
	}
}

func TestGlobalsFromEnvironment(t *testing.T) {
	env := runtime.EnvironmentFrom(map[string]runtime.Value{
		"answer": runtime.NumberValue{Val: 42},
		"flag":   runtime.BoolValue{Val: false},
	})
	expectNumber(t, mustEvaluate(t, ast.Cond(ast.ID("flag"), ast.Num(0), ast.ID("answer")), env), 42)
}

func TestPackageLevelEvaluate(t *testing.T) {
	val, err := Evaluate(ast.Add(ast.Num(2), ast.Num(2)), nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	expectNumber(t, val, 4)
}

func TestNilExpression(t *testing.T) {
	if _, err := New().Evaluate(nil, nil); err == nil {
		t.Fatalf("expected error for nil expression")
	}
}

// "costarring" and "liquid" hash to the same FNV-1a value.
func TestCollidingNamesStayBound(t *testing.T) {
	outerFirst := ast.CallN(ast.Lambda("costarring", ast.Lambda("liquid", ast.ID("costarring"))), ast.Num(1), ast.Num(2))
	expectNumber(t, mustEvaluate(t, outerFirst, nil), 1)

	innerFirst := ast.CallN(ast.Lambda("costarring", ast.Lambda("liquid", ast.ID("liquid"))), ast.Num(1), ast.Num(2))
	expectNumber(t, mustEvaluate(t, innerFirst, nil), 2)

	env := runtime.NewEnvironment().
		Extend("costarring", runtime.NumberValue{Val: 40}).
		Extend("liquid", runtime.NumberValue{Val: 2})
	expectNumber(t, mustEvaluate(t, ast.Add(ast.ID("costarring"), ast.ID("liquid")), env), 42)
}
