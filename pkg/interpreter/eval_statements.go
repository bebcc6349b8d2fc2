package interpreter

import (
	"fmt"
	"io"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) execute(node ast.Statement, env *runtime.Environment) (runtime.Completion, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluate(n.Expression, env)
		return runtime.Normal(), err
	case *ast.PrintStatement:
		return i.executePrint(n, env)
	case *ast.VarDeclaration:
		return i.executeVarDeclaration(n, env)
	case *ast.BlockStatement:
		return i.ExecuteBlock(n.Statements, runtime.NewEnvironment(env))
	case *ast.IfStatement:
		return i.executeIf(n, env)
	case *ast.WhileLoop:
		return i.executeWhileLoop(n, env)
	case *ast.FunctionDefinition:
		env.Define(n.Name.Lexeme, runtime.NewFunction(n, env, false))
		return runtime.Normal(), nil
	case *ast.ClassDefinition:
		return i.executeClassDefinition(n, env)
	case *ast.ReturnStatement:
		return i.executeReturn(n, env)
	default:
		return runtime.Normal(), fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement, env *runtime.Environment) (runtime.Completion, error) {
	value, err := i.evaluate(stmt.Expression, env)
	if err != nil {
		return runtime.Normal(), err
	}
	if _, err := io.WriteString(i.out, Stringify(value)+"\n"); err != nil {
		return runtime.Normal(), fmt.Errorf("print: %w", err)
	}
	return runtime.Normal(), nil
}

func (i *Interpreter) executeVarDeclaration(stmt *ast.VarDeclaration, env *runtime.Environment) (runtime.Completion, error) {
	var value runtime.Value = runtime.NilValue{}
	if stmt.Initializer != nil {
		v, err := i.evaluate(stmt.Initializer, env)
		if err != nil {
			return runtime.Normal(), err
		}
		value = v
	}
	env.Define(stmt.Name.Lexeme, value)
	return runtime.Normal(), nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, env *runtime.Environment) (runtime.Completion, error) {
	cond, err := i.evaluate(stmt.Condition, env)
	if err != nil {
		return runtime.Normal(), err
	}
	if isTruthy(cond) {
		return i.execute(stmt.ThenBranch, env)
	}
	if stmt.ElseBranch != nil {
		return i.execute(stmt.ElseBranch, env)
	}
	return runtime.Normal(), nil
}

func (i *Interpreter) executeWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) (runtime.Completion, error) {
	for {
		cond, err := i.evaluate(loop.Condition, env)
		if err != nil {
			return runtime.Normal(), err
		}
		if !isTruthy(cond) {
			return runtime.Normal(), nil
		}
		completion, err := i.execute(loop.Body, env)
		if err != nil {
			return runtime.Normal(), err
		}
		if completion.IsReturn() {
			return completion, nil
		}
	}
}

func (i *Interpreter) executeReturn(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Completion, error) {
	var value runtime.Value = runtime.NilValue{}
	if stmt.Value != nil {
		v, err := i.evaluate(stmt.Value, env)
		if err != nil {
			return runtime.Normal(), err
		}
		value = v
	}
	return runtime.Returned(value), nil
}

func (i *Interpreter) executeClassDefinition(def *ast.ClassDefinition, env *runtime.Environment) (runtime.Completion, error) {
	var superclass *runtime.ClassValue
	if def.Superclass != nil {
		value, err := i.evaluate(def.Superclass, env)
		if err != nil {
			return runtime.Normal(), err
		}
		class, ok := value.(*runtime.ClassValue)
		if !ok {
			return runtime.Normal(), runtimeError(def.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	env.Define(def.Name.Lexeme, runtime.NilValue{})

	// Methods close over a scope holding "super" so dispatch stays relative
	// to the declaring class.
	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(def.Methods))
	for _, method := range def.Methods {
		methods[method.Name.Lexeme] = runtime.NewFunction(method, methodEnv, method.Name.Lexeme == "init")
	}

	class := runtime.NewClass(def.Name.Lexeme, superclass, methods)
	if err := env.Assign(def.Name.Lexeme, class); err != nil {
		return runtime.Normal(), runtimeError(def.Name, "%s", err.Error())
	}
	return runtime.Normal(), nil
}
