// Package lox wires the scanner, parser, resolver and interpreter into a
// single entry point that turns source text into a Result.
package lox

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// Status is the overall outcome of a run.
type Status int

const (
	StatusOK Status = iota
	StatusStaticError
	StatusResolveError
	StatusRuntimeError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStaticError:
		return "static_error"
	case StatusResolveError:
		return "resolve_error"
	case StatusRuntimeError:
		return "runtime_error"
	default:
		return "unknown"
	}
}

// ExitCode maps the status onto the sysexits codes jlox uses.
func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return 0
	case StatusStaticError, StatusResolveError:
		return 65
	case StatusRuntimeError:
		return 70
	default:
		return 1
	}
}

// Result reports what happened. Diagnostics are in the order they were
// found; a runtime failure contributes exactly one.
type Result struct {
	Status      Status
	Diagnostics []driver.Diagnostic
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

type config struct {
	path         string
	out          io.Writer
	clock        func() time.Time
	maxCallDepth int
	builtins     []runtime.NativeFunctionValue
}

type Option func(*config)

// WithBuiltin registers a host function in the global scope. It replaces a
// default native of the same name.
func WithBuiltin(fn runtime.NativeFunctionValue) Option {
	return func(c *config) {
		c.builtins = append(c.builtins, fn)
	}
}

// WithOutput redirects `print`.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithClock replaces the time source behind clock().
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithMaxCallDepth(depth int) Option {
	return func(c *config) { c.maxCallDepth = depth }
}

// WithPath records the source path on every diagnostic.
func WithPath(path string) Option {
	return func(c *config) { c.path = path }
}

func newConfig(opts []Option) config {
	cfg := config{
		out:          os.Stdout,
		clock:        time.Now,
		maxCallDepth: interpreter.DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Run executes source against fresh globals.
func Run(source string, opts ...Option) Result {
	return NewSession(opts...).Run(source)
}

// Check runs every static stage without evaluating anything.
func Check(source string, opts ...Option) Result {
	cfg := newConfig(opts)
	_, _, result := analyze(source, cfg.path)
	return result
}

// Tokens scans source. Scan errors are returned as diagnostics alongside the
// tokens produced around them.
func Tokens(source string, opts ...Option) ([]scanner.Token, []driver.Diagnostic) {
	cfg := newConfig(opts)
	tokens, scanErrs := scanner.ScanTokens(source)
	return tokens, scanDiagnostics(scanErrs, cfg.path)
}

// Parse scans and parses source without resolving it.
func Parse(source string, opts ...Option) (*ast.Program, []driver.Diagnostic) {
	cfg := newConfig(opts)
	program, scanErrs, err := parser.ParseSource(source)
	diags := scanDiagnostics(scanErrs, cfg.path)
	diags = append(diags, parseDiagnostics(err, cfg.path)...)
	if len(diags) > 0 {
		return nil, diags
	}
	return program, nil
}

// analyze runs scan, parse and resolve. Resolution only happens when the
// first two stages were clean.
func analyze(source, path string) (*ast.Program, resolver.Locals, Result) {
	program, diags := Parse(source, WithPath(path))
	if len(diags) > 0 {
		return nil, nil, Result{Status: StatusStaticError, Diagnostics: diags}
	}
	locals, err := resolver.Resolve(program)
	if err != nil {
		return nil, nil, Result{Status: StatusResolveError, Diagnostics: resolveDiagnostics(err, path)}
	}
	return program, locals, Result{Status: StatusOK}
}

func scanDiagnostics(errs []*scanner.Error, path string) []driver.Diagnostic {
	var diags []driver.Diagnostic
	for _, err := range errs {
		diags = append(diags, driver.Diagnostic{
			Severity: driver.SeverityError,
			Stage:    driver.StageScan,
			Message:  err.Message,
			Location: driver.DiagnosticLocation{Path: path, Line: err.Line},
		})
	}
	return diags
}

func parseDiagnostics(err error, path string) []driver.Diagnostic {
	if err == nil {
		return nil
	}
	var list parser.ErrorList
	if !errors.As(err, &list) {
		return []driver.Diagnostic{{
			Severity: driver.SeverityError,
			Stage:    driver.StageParse,
			Message:  err.Error(),
			Location: driver.DiagnosticLocation{Path: path},
		}}
	}
	diags := make([]driver.Diagnostic, 0, len(list))
	for _, pe := range list {
		diags = append(diags, driver.Diagnostic{
			Severity: driver.SeverityError,
			Stage:    driver.StageParse,
			Message:  pe.Message,
			Where:    pe.Where(),
			Location: driver.DiagnosticLocation{Path: path, Line: pe.Token.Line},
		})
	}
	return diags
}

func resolveDiagnostics(err error, path string) []driver.Diagnostic {
	var list resolver.ErrorList
	if !errors.As(err, &list) {
		return []driver.Diagnostic{{
			Severity: driver.SeverityError,
			Stage:    driver.StageResolve,
			Message:  err.Error(),
			Location: driver.DiagnosticLocation{Path: path},
		}}
	}
	diags := make([]driver.Diagnostic, 0, len(list))
	for _, re := range list {
		diags = append(diags, driver.Diagnostic{
			Severity: driver.SeverityError,
			Stage:    driver.StageResolve,
			Message:  re.Message,
			Where:    re.Where(),
			Location: driver.DiagnosticLocation{Path: path, Line: re.Token.Line},
		})
	}
	return diags
}

func runtimeDiagnostic(err error, path string) driver.Diagnostic {
	diag := driver.Diagnostic{
		Severity: driver.SeverityError,
		Stage:    driver.StageRuntime,
		Message:  err.Error(),
		Location: driver.DiagnosticLocation{Path: path},
	}
	var rtErr *interpreter.RuntimeError
	if errors.As(err, &rtErr) {
		diag.Message = rtErr.Message
		diag.Location.Line = rtErr.Line()
	}
	return diag
}

// Incomplete reports whether source fails only because it ends too early:
// an open block, a missing semicolon at end of input, or an unterminated
// string or block comment. The REPL uses it to ask for another line.
func Incomplete(source string) bool {
	_, scanErrs, err := parser.ParseSource(source)
	for _, se := range scanErrs {
		if !strings.HasPrefix(se.Message, "Unterminated") {
			return false
		}
	}
	if err == nil {
		return len(scanErrs) > 0
	}
	var list parser.ErrorList
	if !errors.As(err, &list) {
		return false
	}
	return len(scanErrs) > 0 || list.Incomplete()
}
