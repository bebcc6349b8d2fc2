package parser

import (
	"errors"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/scanner"
)

func tokens(toks ...scanner.Token) []scanner.Token {
	return append(toks, scanner.Token{Type: scanner.EOF})
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, scanErrs, err := ParseSource(src)
	if len(scanErrs) > 0 {
		t.Fatalf("scan errors: %v", scanErrs)
	}
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func parseErrors(t *testing.T, src string) ErrorList {
	t.Helper()
	program, _, err := ParseSource(src)
	if err == nil {
		t.Fatalf("expected parse errors for %q", src)
	}
	if program != nil {
		t.Fatalf("expected nil program when errors are reported")
	}
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %T", err)
	}
	return list
}

func TestParseNumberLiteral(t *testing.T) {
	p := New(tokens(scanner.Token{Type: scanner.Number, Lexeme: "1234", Literal: 1234.0}))
	expr, err := p.Expression()
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	lit, ok := expr.(*ast.NumberLiteral)
	if !ok || lit.Value != 1234 {
		t.Fatalf("expected number literal 1234, got %#v", expr)
	}
}

func TestParseStringLiteral(t *testing.T) {
	p := New(tokens(scanner.Token{Type: scanner.String, Lexeme: `"hello world"`, Literal: "hello world"}))
	expr, err := p.Expression()
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	lit, ok := expr.(*ast.StringLiteral)
	if !ok || lit.Value != "hello world" {
		t.Fatalf("expected string literal, got %#v", expr)
	}
}

func TestParseEqualityOperators(t *testing.T) {
	for _, op := range []scanner.TokenType{scanner.EqualEqual, scanner.BangEqual} {
		p := New(tokens(
			scanner.Token{Type: scanner.String, Literal: "foo"},
			scanner.Token{Type: op, Lexeme: op.String()},
			scanner.Token{Type: scanner.String, Literal: "bar"},
		))
		expr, err := p.Expression()
		if err != nil {
			t.Fatalf("Expression: %v", err)
		}
		bin, ok := expr.(*ast.BinaryExpression)
		if !ok {
			t.Fatalf("expected binary expression, got %#v", expr)
		}
		if bin.Operator.Type != op {
			t.Fatalf("operator = %v, want %v", bin.Operator.Type, op)
		}
		if bin.Left.(*ast.StringLiteral).Value != "foo" || bin.Right.(*ast.StringLiteral).Value != "bar" {
			t.Fatalf("unexpected operands: %s", ast.Print(bin))
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{src: `"a" == "b" > "c"`, want: `(== "a" (> "b" "c"))`},
		{src: "1 + 2 * 3 - 4", want: "(- (+ 1 (* 2 3)) 4)"},
		{src: "-a.b(1)", want: "(- (call (. a b) 1))"},
		{src: "!!true", want: "(! (! true))"},
		{src: "a or b and c", want: "(or a (and b c))"},
		{src: "a = b = c", want: "(= a (= b c))"},
		{src: "obj.field = 1 < 2", want: "(set obj field (< 1 2))"},
		{src: "(1 + 2) / 3", want: "(/ (group (+ 1 2)) 3)"},
		{src: "f(1)(2).g", want: "(. (call (call f 1) 2) g)"},
		{src: "1, 2, 3", want: "(, 1 2 3)"},
		{src: "f(a, b)", want: "(call f a b)"},
		{src: "super.cook", want: "(super cook)"},
		{src: "fun (x) { return x; }", want: "(fun (x) (return x))"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			toks, errs := scanner.ScanTokens(tc.src)
			if len(errs) > 0 {
				t.Fatalf("scan errors: %v", errs)
			}
			expr, err := New(toks).Expression()
			if err != nil {
				t.Fatalf("Expression: %v", err)
			}
			if got := ast.Print(expr); got != tc.want {
				t.Fatalf("Print() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseSeriesCount(t *testing.T) {
	p := New(tokens(
		scanner.Token{Type: scanner.Number, Lexeme: "1", Literal: 1.0},
		scanner.Token{Type: scanner.Comma, Lexeme: ","},
		scanner.Token{Type: scanner.Number, Lexeme: "2", Literal: 2.0},
		scanner.Token{Type: scanner.Comma, Lexeme: ","},
		scanner.Token{Type: scanner.Number, Lexeme: "3", Literal: 3.0},
	))
	expr, err := p.Expression()
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	series, ok := expr.(*ast.SeriesExpression)
	if !ok || len(series.Expressions) != 3 {
		t.Fatalf("expected 3-element series, got %#v", expr)
	}
}

func TestParseDeclarations(t *testing.T) {
	src := `
var a = 1;
var b;
fun add(x, y) { return x + y; }
class Cake < Pastry {
  init(flavor) { this.flavor = flavor; }
  taste() { print super.taste(); }
}
if (a) print a; else { print b; }
while (a < 3) a = a + 1;
`
	program := mustParse(t, src)
	want := strings.Join([]string{
		"(var a 1)",
		"(var b)",
		"(fun add (x y) (return (+ x y)))",
		"(class Cake < Pastry (fun init (flavor) (; (set this flavor flavor))) (fun taste () (print (call (super taste)))))",
		"(if-else a (print a) (block (print b)))",
		"(while (< a 3) (; (= a (+ a 1))))",
	}, "\n") + "\n"
	if got := ast.PrintProgram(program); got != want {
		t.Fatalf("PrintProgram() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	program := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	want := "(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))\n"
	if got := ast.PrintProgram(program); got != want {
		t.Fatalf("PrintProgram() = %s, want %s", got, want)
	}

	program = mustParse(t, "for (;;) print 1;")
	if got := ast.PrintProgram(program); got != "(while true (print 1))\n" {
		t.Fatalf("bare for loop = %s", got)
	}
}

func TestParseErrorsSynchronize(t *testing.T) {
	src := `
var = 1;
print 2
var ok = 3;
fun f( { }
print (4;
`
	list := parseErrors(t, src)
	if len(list) != 4 {
		t.Fatalf("expected 4 errors, got %d:\n%v", len(list), list)
	}
	want := []string{
		"[line 2] Error at '=': Expect variable name.",
		"[line 4] Error at 'var': Expect ';' after value.",
		"[line 5] Error at '{': Expect parameter name.",
		"[line 6] Error at ';': Expect ')' after expression.",
	}
	for i, w := range want {
		if got := list[i].Error(); got != w {
			t.Fatalf("error %d = %q, want %q", i, got, w)
		}
	}
}

func TestParseErrorInsideBlockRecoversAtTopLevel(t *testing.T) {
	src := `
fun f() { print 1 }
print 2;
{ var x = ; print 3; }
print 4;
`
	list := parseErrors(t, src)
	want := []string{
		"[line 2] Error at '}': Expect ';' after value.",
		"[line 4] Error at ';': Expect expression.",
	}
	if len(list) != len(want) {
		t.Fatalf("expected %d errors, got %d:\n%v", len(want), len(list), list)
	}
	for i, w := range want {
		if got := list[i].Error(); got != w {
			t.Fatalf("error %d = %q, want %q", i, got, w)
		}
	}
}

func TestParseErrorsInNestedBlocksStayInside(t *testing.T) {
	src := `
fun outer() {
  if (true) { print ; }
  while (false) { var = 1; }
}
print "after";
`
	list := parseErrors(t, src)
	want := []string{
		"[line 3] Error at ';': Expect expression.",
		"[line 4] Error at '=': Expect variable name.",
	}
	if len(list) != len(want) {
		t.Fatalf("expected %d errors, got %d:\n%v", len(want), len(list), list)
	}
	for i, w := range want {
		if got := list[i].Error(); got != w {
			t.Fatalf("error %d = %q, want %q", i, got, w)
		}
	}
}

func TestParseErrorAtEnd(t *testing.T) {
	list := parseErrors(t, "print 1 +")
	if len(list) != 1 {
		t.Fatalf("expected one error, got %v", list)
	}
	if list[0].Where() != " at end" || list[0].Message != "Expect expression." {
		t.Fatalf("unexpected error %q", list[0].Error())
	}
	if !list.Incomplete() {
		t.Fatalf("expected incomplete input")
	}

	list = parseErrors(t, "{ var a = 1;")
	if !list.Incomplete() {
		t.Fatalf("unterminated block should be incomplete: %v", list)
	}

	list = parseErrors(t, "print );")
	if list.Incomplete() {
		t.Fatalf("mid-input error must not be incomplete")
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	list := parseErrors(t, "a + b = c; var x = 1 = 2;")
	if len(list) != 2 {
		t.Fatalf("expected 2 errors, got %v", list)
	}
	for _, err := range list {
		if err.Message != "Invalid assignment target." || err.Token.Lexeme != "=" {
			t.Fatalf("unexpected error %q", err.Error())
		}
	}
}

func TestParseTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	list := parseErrors(t, "f("+strings.Join(args, ", ")+");")
	if len(list) != 1 || list[0].Message != "Can't have more than 255 arguments." {
		t.Fatalf("unexpected errors: %v", list)
	}
}

func TestParseTooManyParameters(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = "p" + strings.Repeat("x", i%7) + string(rune('a'+i%26))
	}
	list := parseErrors(t, "fun f("+strings.Join(params, ", ")+") {}")
	if len(list) != 1 || list[0].Message != "Can't have more than 255 parameters." {
		t.Fatalf("unexpected errors: %v", list)
	}
}

func TestParseClassErrors(t *testing.T) {
	cases := map[string]string{
		"class {}":        "Expect class name.",
		"class A < {}":    "Expect superclass name.",
		"class A":         "Expect '{' before class body.",
		"class A { foo }": "Expect '(' after method name.",
		"super;":          "Expect '.' after 'super'.",
		"super.;":         "Expect superclass method name.",
		"a.;":             "Expect property name after '.'.",
	}
	for src, msg := range cases {
		t.Run(src, func(t *testing.T) {
			list := parseErrors(t, src)
			if list[0].Message != msg {
				t.Fatalf("first error = %q, want %q", list[0].Message, msg)
			}
		})
	}
}

func TestNewAppendsEOF(t *testing.T) {
	p := New([]scanner.Token{{Type: scanner.Nil, Lexeme: "nil", Line: 3}})
	expr, err := p.Expression()
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	if _, ok := expr.(*ast.NilLiteral); !ok {
		t.Fatalf("expected nil literal, got %#v", expr)
	}
}
