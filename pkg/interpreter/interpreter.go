package interpreter

import (
	"fmt"
	"io"
	"os"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// DefaultMaxCallDepth bounds nested calls before "Stack overflow." is raised.
const DefaultMaxCallDepth = 1024

// RuntimeError aborts execution. It carries the token whose evaluation
// failed so the report can name its line.
type RuntimeError struct {
	Token   scanner.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func (e *RuntimeError) Line() int {
	return e.Token.Line
}

func runtimeError(tok scanner.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Interpreter evaluates resolved Lox programs. Globals persist across calls
// to Interpret, which is what the REPL relies on.
type Interpreter struct {
	global       *runtime.Environment
	locals       resolver.Locals
	out          io.Writer
	maxCallDepth int
	callDepth    int
}

type Option func(*Interpreter)

// WithOutput redirects `print`. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.out = w
		}
	}
}

// WithMaxCallDepth overrides DefaultMaxCallDepth. Non-positive values are
// ignored.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

// New returns an interpreter with an empty global environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global:       runtime.NewEnvironment(nil),
		locals:       make(resolver.Locals),
		out:          os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// GlobalEnvironment returns the interpreter’s global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// DefineNative binds a host function in the global scope.
func (i *Interpreter) DefineNative(fn runtime.NativeFunctionValue) {
	i.global.Define(fn.Name, fn)
}

// Interpret executes program in the global environment using the scope
// depths computed by the resolver. Execution stops at the first runtime
// error, which is returned as a *RuntimeError.
func (i *Interpreter) Interpret(program *ast.Program, locals resolver.Locals) error {
	if program == nil {
		return nil
	}
	for expr, depth := range locals {
		i.locals[expr] = depth
	}
	i.callDepth = 0
	for _, stmt := range program.Statements {
		if _, err := i.execute(stmt, i.global); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single resolved expression against the globals. The
// REPL uses it to echo bare expressions.
func (i *Interpreter) Evaluate(expr ast.Expression, locals resolver.Locals) (runtime.Value, error) {
	for e, depth := range locals {
		i.locals[e] = depth
	}
	i.callDepth = 0
	return i.evaluate(expr, i.global)
}

// ExecuteBlock runs stmts in env, stopping early when one of them returns.
func (i *Interpreter) ExecuteBlock(stmts []ast.Statement, env *runtime.Environment) (runtime.Completion, error) {
	for _, stmt := range stmts {
		completion, err := i.execute(stmt, env)
		if err != nil {
			return runtime.Normal(), err
		}
		if completion.IsReturn() {
			return completion, nil
		}
	}
	return runtime.Normal(), nil
}

func (i *Interpreter) lookupVariable(name scanner.Token, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	var (
		value runtime.Value
		err   error
	)
	if depth, ok := i.locals[expr]; ok {
		value, err = env.GetAt(depth, name.Lexeme)
	} else {
		value, err = i.global.Get(name.Lexeme)
	}
	if err != nil {
		return nil, &RuntimeError{Token: name, Message: err.Error()}
	}
	return value, nil
}

func (i *Interpreter) assignVariable(name scanner.Token, expr ast.Expression, value runtime.Value, env *runtime.Environment) error {
	var err error
	if depth, ok := i.locals[expr]; ok {
		err = env.AssignAt(depth, name.Lexeme, value)
	} else {
		err = i.global.Assign(name.Lexeme, value)
	}
	if err != nil {
		return &RuntimeError{Token: name, Message: err.Error()}
	}
	return nil
}
