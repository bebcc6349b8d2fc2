package lox

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/runtime"
)

// Session keeps one global environment alive across runs. The REPL feeds
// each line to the same Session so earlier declarations stay visible.
type Session struct {
	cfg    config
	interp *interpreter.Interpreter
}

func NewSession(opts ...Option) *Session {
	cfg := newConfig(opts)
	interp := interpreter.New(
		interpreter.WithOutput(cfg.out),
		interpreter.WithMaxCallDepth(cfg.maxCallDepth),
	)
	for _, native := range defaultNatives(cfg) {
		interp.DefineNative(native)
	}
	for _, native := range cfg.builtins {
		interp.DefineNative(native)
	}
	return &Session{cfg: cfg, interp: interp}
}

// Run analyzes source and, if it is statically valid, executes it. Invalid
// input is rejected as a whole and leaves the globals untouched.
func (s *Session) Run(source string) Result {
	result, _ := s.run(source, false)
	return result
}

// Evaluate behaves like Run, except that input consisting of one bare
// expression statement is evaluated and its value returned.
func (s *Session) Evaluate(source string) (Result, runtime.Value) {
	return s.run(source, true)
}

func (s *Session) run(source string, echo bool) (Result, runtime.Value) {
	program, locals, result := analyze(source, s.cfg.path)
	if !result.OK() {
		return result, nil
	}
	if echo && len(program.Statements) == 1 {
		if stmt, ok := program.Statements[0].(*ast.ExpressionStatement); ok {
			value, err := s.interp.Evaluate(stmt.Expression, locals)
			if err != nil {
				return s.runtimeFailure(err), nil
			}
			return result, value
		}
	}
	if err := s.interp.Interpret(program, locals); err != nil {
		return s.runtimeFailure(err), nil
	}
	return result, nil
}

func (s *Session) runtimeFailure(err error) Result {
	return Result{
		Status:      StatusRuntimeError,
		Diagnostics: []driver.Diagnostic{runtimeDiagnostic(err, s.cfg.path)},
	}
}

// Globals lists the names bound in the global scope.
func (s *Session) Globals() []string {
	return s.interp.GlobalEnvironment().Keys()
}

// Stringify renders a value the way `print` shows it.
func Stringify(value runtime.Value) string {
	return interpreter.Stringify(value)
}
