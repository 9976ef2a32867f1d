package interpreter

import "github.com/quasarbright/simple-interpreter-js/pkg/runtime"

// IsTruthy reports whether v counts as true in a condition. Only the number
// zero (either sign) and false are falsy; NaN and every closure are truthy.
func IsTruthy(v runtime.Value) bool {
	switch val := v.(type) {
	case runtime.NumberValue:
		return val.Val != 0
	case runtime.BoolValue:
		return val.Val
	case *runtime.ClosureValue:
		return true
	default:
		return v != nil
	}
}
