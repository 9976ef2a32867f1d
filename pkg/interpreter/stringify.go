package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

// ValueDescription is the serialisable form of a value used by fixtures and
// cmd/fixture output.
type ValueDescription struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// DescribeValue returns the kind name and display string of v.
func DescribeValue(v runtime.Value) ValueDescription {
	if v == nil {
		return ValueDescription{}
	}
	return ValueDescription{Kind: v.Kind().String(), Value: ValueToString(v)}
}

// ValueToString renders v the way JavaScript's String() would for numbers and
// booleans. Closures render as <function param>.
func ValueToString(v runtime.Value) string {
	switch val := v.(type) {
	case runtime.NumberValue:
		return formatNumber(val.Val)
	case runtime.BoolValue:
		return strconv.FormatBool(val.Val)
	case *runtime.ClosureValue:
		return "<function " + val.Param + ">"
	case nil:
		return "<nil>"
	default:
		return "<" + v.Kind().String() + ">"
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	// Exponent form: Go writes 1e-07 where JavaScript writes 1e-7.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
