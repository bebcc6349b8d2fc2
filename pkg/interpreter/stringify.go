package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"lox/interpreter-go/pkg/runtime"
)

// Stringify renders a value the way `print` shows it.
func Stringify(val runtime.Value) string {
	switch v := val.(type) {
	case nil, runtime.NilValue:
		return "nil"
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case runtime.StringValue:
		return v.Val
	case *runtime.FunctionValue:
		if name := v.Name(); name != "" {
			return "<fn " + name + ">"
		}
		return "<fn>"
	case runtime.NativeFunctionValue:
		return "<native fn>"
	case *runtime.ClassValue:
		return v.Name
	case *runtime.InstanceValue:
		return v.Class.Name + " instance"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

// formatNumber prints integral values without a fractional part and falls
// back to exponent notation for very large or very small magnitudes.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	abs := math.Abs(n)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
