package resolver

import (
	"fmt"
	"strings"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/scanner"
)

// Locals maps each local variable reference to the number of scopes between
// the reference and its binding. References missing from the table are
// globals.
type Locals map[ast.Expression]int

// Error is a static scoping error attached to the offending token.
type Error struct {
	Token   scanner.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Token.Line, e.Where(), e.Message)
}

func (e *Error) Where() string {
	if e.Token.Lexeme == "" {
		return ""
	}
	return fmt.Sprintf(" at '%s'", e.Token.Lexeme)
}

// ErrorList aggregates every error found in one pass.
type ErrorList []*Error

func (l ErrorList) Error() string {
	parts := make([]string, len(l))
	for i, err := range l {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

type functionType int

const (
	functionNone functionType = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// Resolver walks a program once, before evaluation, binding every local
// reference to a scope depth and rejecting programs whose scoping is
// invalid.
type Resolver struct {
	scopes          []map[string]bool
	locals          Locals
	currentFunction functionType
	currentClass    classType
	errors          ErrorList
	// globals whose initializer is being resolved
	initializing map[string]bool
}

func New() *Resolver {
	return &Resolver{locals: make(Locals), initializing: make(map[string]bool)}
}

// Resolve is a convenience wrapper around New().ResolveProgram.
func Resolve(program *ast.Program) (Locals, error) {
	return New().ResolveProgram(program)
}

// ResolveProgram resolves every top-level statement. The error, when
// non-nil, is an ErrorList holding every problem found.
func (r *Resolver) ResolveProgram(program *ast.Program) (Locals, error) {
	if program == nil {
		return r.locals, nil
	}
	r.resolveStatements(program.Statements)
	if len(r.errors) > 0 {
		return nil, r.errors
	}
	return r.locals, nil
}

func (r *Resolver) report(tok scanner.Token, message string) {
	r.errors = append(r.errors, &Error{Token: tok, Message: message})
}

func (r *Resolver) resolveStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case nil:
		return
	case *ast.BlockStatement:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.VarDeclaration:
		r.declare(s.Name)
		if s.Initializer != nil {
			global := len(r.scopes) == 0
			if global {
				r.initializing[s.Name.Lexeme] = true
			}
			r.resolveExpression(s.Initializer)
			if global {
				delete(r.initializing, s.Name.Lexeme)
			}
		}
		r.define(s.Name)
	case *ast.FunctionDefinition:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionPlain)
	case *ast.ClassDefinition:
		r.resolveClass(s)
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.PrintStatement:
		r.resolveExpression(s.Expression)
	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStatement(s.ElseBranch)
		}
	case *ast.WhileLoop:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case *ast.ReturnStatement:
		if r.currentFunction == functionNone {
			r.report(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.report(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpression(s.Value)
		}
	default:
		r.errors = append(r.errors, &Error{Message: fmt.Sprintf("unsupported statement type: %s", stmt.NodeType())})
	}
}

func (r *Resolver) resolveClass(s *ast.ClassDefinition) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.report(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpression(s.Superclass)
		r.beginScope()
		r.peekScope()["super"] = true
	}

	r.beginScope()
	r.peekScope()["this"] = true
	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}
	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionDefinition, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
		return
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NilLiteral:
		return
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.peekScope()[e.Name.Lexeme]; ok && !defined {
				r.report(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		if !r.resolveLocal(e, e.Name.Lexeme) && r.currentFunction == functionNone && r.initializing[e.Name.Lexeme] {
			r.report(e.Name, "Can't read local variable in its own initializer.")
		}
	case *ast.AssignmentExpression:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.UnaryExpression:
		r.resolveExpression(e.Right)
	case *ast.BinaryExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.LogicalExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.GroupingExpression:
		r.resolveExpression(e.Expression)
	case *ast.SeriesExpression:
		for _, inner := range e.Expressions {
			r.resolveExpression(inner)
		}
	case *ast.CallExpression:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.GetExpression:
		r.resolveExpression(e.Object)
	case *ast.SetExpression:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
	case *ast.ThisExpression:
		if r.currentClass == classNone {
			r.report(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, "this")
	case *ast.SuperExpression:
		switch r.currentClass {
		case classNone:
			r.report(e.Keyword, "Can't use 'super' outside of a class.")
		case classPlain:
			r.report(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, "super")
	case *ast.LambdaExpression:
		r.resolveFunction(e.Function, functionPlain)
	default:
		r.errors = append(r.errors, &Error{Message: fmt.Sprintf("unsupported expression type: %s", expr.NodeType())})
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peekScope() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

// declare marks name as present but not yet usable in the innermost scope.
// Globals are not tracked.
func (r *Resolver) declare(name scanner.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peekScope()
	if _, exists := scope[name.Lexeme]; exists {
		r.report(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name scanner.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope()[name.Lexeme] = true
}

// resolveLocal records the scope distance for name and reports whether it
// was found in a local scope.
func (r *Resolver) resolveLocal(expr ast.Expression, name string) bool {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return true
		}
	}
	return false
}
