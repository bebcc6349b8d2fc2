package interpreter

import (
	"bytes"
	"errors"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
)

func parseAndResolve(t *testing.T, src string) (*ast.Program, resolver.Locals) {
	t.Helper()
	program, scanErrs, err := parser.ParseSource(src)
	if len(scanErrs) > 0 {
		t.Fatalf("scan errors: %v", scanErrs)
	}
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	locals, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	return program, locals
}

// runSource executes src in a fresh interpreter and returns what it printed
// along with the runtime error, if any.
func runSource(t *testing.T, src string, opts ...Option) (string, *RuntimeError) {
	t.Helper()
	var out bytes.Buffer
	interp := New(append([]Option{WithOutput(&out)}, opts...)...)
	program, locals := parseAndResolve(t, src)
	err := interp.Interpret(program, locals)
	if err == nil {
		return out.String(), nil
	}
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	return out.String(), rtErr
}

func expectOutput(t *testing.T, src, want string) {
	t.Helper()
	got, rtErr := runSource(t, src)
	if rtErr != nil {
		t.Fatalf("unexpected runtime error: %v", rtErr)
	}
	if got != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func expectRuntimeError(t *testing.T, src, message string, line int) string {
	t.Helper()
	out, rtErr := runSource(t, src)
	if rtErr == nil {
		t.Fatalf("expected runtime error %q, program completed with output %q", message, out)
	}
	if rtErr.Message != message || rtErr.Line() != line {
		t.Fatalf("runtime error = %q at line %d, want %q at line %d", rtErr.Message, rtErr.Line(), message, line)
	}
	return out
}
