package interpreter

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}

	op := expr.Operator
	switch op.Type {
	case scanner.EqualEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case scanner.BangEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case scanner.Plus:
		if l, ok := left.(runtime.NumberValue); ok {
			if r, ok := right.(runtime.NumberValue); ok {
				return runtime.NumberValue{Val: l.Val + r.Val}, nil
			}
		}
		if l, ok := left.(runtime.StringValue); ok {
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
		return nil, runtimeError(op, "Operands must be two numbers or two strings.")
	}

	l, r, err := numberOperands(op, left, right)
	if err != nil {
		return nil, err
	}
	switch op.Type {
	case scanner.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case scanner.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case scanner.Slash:
		if r == 0 {
			return nil, runtimeError(op, "Division by zero.")
		}
		return runtime.NumberValue{Val: l / r}, nil
	case scanner.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case scanner.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case scanner.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case scanner.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, runtimeError(op, "Unsupported binary operator %s.", op.Lexeme)
	}
}

func numberOperands(op scanner.Token, left, right runtime.Value) (float64, float64, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, runtimeError(op, "Operands must be numbers.")
	}
	return l.Val, r.Val, nil
}

// isTruthy treats nil and false as falsey and everything else as truthy.
func isTruthy(v runtime.Value) bool {
	switch val := v.(type) {
	case nil, runtime.NilValue:
		return false
	case runtime.BoolValue:
		return val.Val
	default:
		return true
	}
}

// valuesEqual never coerces: values of different kinds are unequal, and
// reference values compare by identity.
func valuesEqual(a, b runtime.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case runtime.NilValue:
		return true
	case runtime.BoolValue:
		return av.Val == b.(runtime.BoolValue).Val
	case runtime.NumberValue:
		return av.Val == b.(runtime.NumberValue).Val
	case runtime.StringValue:
		return av.Val == b.(runtime.StringValue).Val
	case runtime.NativeFunctionValue:
		// The struct holds a func, so it cannot be compared with ==.
		return av.Name == b.(runtime.NativeFunctionValue).Name
	default:
		return a == b
	}
}
