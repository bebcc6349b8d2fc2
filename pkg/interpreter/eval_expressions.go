package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func (i *Interpreter) evaluate(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.NilValue{}, nil
	case *ast.GroupingExpression:
		return i.evaluate(n.Expression, env)
	case *ast.Variable:
		return i.lookupVariable(n.Name, n, env)
	case *ast.AssignmentExpression:
		value, err := i.evaluate(n.Value, env)
		if err != nil {
			return nil, err
		}
		if err := i.assignVariable(n.Name, n, value, env); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.UnaryExpression:
		return i.evaluateUnary(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n, env)
	case *ast.LogicalExpression:
		return i.evaluateLogical(n, env)
	case *ast.SeriesExpression:
		var last runtime.Value = runtime.NilValue{}
		for _, expr := range n.Expressions {
			value, err := i.evaluate(expr, env)
			if err != nil {
				return nil, err
			}
			last = value
		}
		return last, nil
	case *ast.CallExpression:
		return i.evaluateCall(n, env)
	case *ast.GetExpression:
		return i.evaluateGet(n, env)
	case *ast.SetExpression:
		return i.evaluateSet(n, env)
	case *ast.ThisExpression:
		return i.lookupVariable(n.Keyword, n, env)
	case *ast.SuperExpression:
		return i.evaluateSuper(n, env)
	case *ast.LambdaExpression:
		return runtime.NewFunction(n.Function, env, false), nil
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Type {
	case scanner.Bang:
		return runtime.BoolValue{Val: !isTruthy(right)}, nil
	case scanner.Minus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, runtimeError(expr.Operator, "Unsupported unary operator %s.", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateLogical(expr *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Type == scanner.Or {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}
	return i.evaluate(expr.Right, env)
}

func (i *Interpreter) evaluateCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluate(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(expr.Arguments))
	for _, argExpr := range expr.Arguments {
		arg, err := i.evaluate(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	callable, ok := callee.(runtime.Callable)
	if !ok {
		return nil, runtimeError(expr.Paren, "Can only call functions and classes.")
	}
	if arity := callable.Arity(); len(args) != arity {
		return nil, runtimeError(expr.Paren, "Expected %d arguments but got %d.", arity, len(args))
	}
	return i.callValue(callable, args, expr.Paren)
}

// callValue invokes callable while tracking call depth. Errors raised by
// host functions are attached to the call site.
func (i *Interpreter) callValue(callable runtime.Callable, args []runtime.Value, paren scanner.Token) (runtime.Value, error) {
	if i.callDepth >= i.maxCallDepth {
		return nil, runtimeError(paren, "Stack overflow.")
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	result, err := callable.Call(i, args)
	if err != nil {
		if _, ok := err.(*RuntimeError); ok {
			return nil, err
		}
		return nil, &RuntimeError{Token: paren, Message: err.Error()}
	}
	return result, nil
}

func (i *Interpreter) evaluateGet(expr *ast.GetExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(expr.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Name, "Only instances have properties.")
	}
	value, err := instance.Get(expr.Name.Lexeme)
	if err != nil {
		return nil, &RuntimeError{Token: expr.Name, Message: err.Error()}
	}
	return value, nil
}

func (i *Interpreter) evaluateSet(expr *ast.SetExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(expr.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Name, "Only instances have fields.")
	}
	value, err := i.evaluate(expr.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(expr.Name.Lexeme, value)
	return value, nil
}

// evaluateSuper finds the method on the superclass captured when the
// enclosing class was declared and binds it to the current `this`, which
// lives one scope inside the "super" scope.
func (i *Interpreter) evaluateSuper(expr *ast.SuperExpression, env *runtime.Environment) (runtime.Value, error) {
	depth, ok := i.locals[expr]
	if !ok {
		return nil, runtimeError(expr.Keyword, "Can't use 'super' outside of a class.")
	}
	superValue, err := env.GetAt(depth, "super")
	if err != nil {
		return nil, &RuntimeError{Token: expr.Keyword, Message: err.Error()}
	}
	superclass, ok := superValue.(*runtime.ClassValue)
	if !ok {
		return nil, runtimeError(expr.Keyword, "Superclass must be a class.")
	}
	thisValue, err := env.GetAt(depth-1, "this")
	if err != nil {
		return nil, &RuntimeError{Token: expr.Keyword, Message: err.Error()}
	}
	instance, ok := thisValue.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Keyword, "Can't use 'super' outside of a class.")
	}
	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		return nil, runtimeError(expr.Method, "Undefined property '%s'.", expr.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
