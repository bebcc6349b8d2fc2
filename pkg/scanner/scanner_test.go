package scanner

import (
	"reflect"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func scanClean(t *testing.T, src string) []Token {
	t.Helper()
	tokens, errs := ScanTokens(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected scan errors for %q: %v", src, errs)
	}
	return tokens
}

func TestScannerSingleCharacterTokens(t *testing.T) {
	tokens := scanClean(t, "(){},.-+;/*")
	want := []TokenType{LeftParen, RightParen, LeftBrace, RightBrace, Comma, Dot, Minus, Plus, Semicolon, Slash, Star, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
}

func TestScannerMaximalMunch(t *testing.T) {
	tokens := scanClean(t, "! != = == < <= > >=")
	want := []TokenType{Bang, BangEqual, Equal, EqualEqual, Less, LessEqual, Greater, GreaterEqual, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
}

func TestScannerIdentifiers(t *testing.T) {
	tokens := scanClean(t, "these are123 identi_fiers _under")
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(tokens))
	}
	for i, lexeme := range []string{"these", "are123", "identi_fiers", "_under"} {
		if tokens[i].Type != Identifier || tokens[i].Lexeme != lexeme {
			t.Fatalf("token %d = %v, want identifier %q", i, tokens[i], lexeme)
		}
	}
}

func TestScannerKeywords(t *testing.T) {
	tokens := scanClean(t, "and class else false for fun if nil or print return super this true var while")
	want := []TokenType{And, Class, Else, False, For, Fun, If, Nil, Or, Print, Return, Super, This, True, Var, While, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
}

func TestScannerKeywordPrefixIsIdentifier(t *testing.T) {
	tokens := scanClean(t, "classy orchid")
	if tokens[0].Type != Identifier || tokens[1].Type != Identifier {
		t.Fatalf("expected identifiers, got %v", tokenTypes(tokens))
	}
}

func TestScannerNumbers(t *testing.T) {
	tokens := scanClean(t, "123 45.67 8.")
	want := []TokenType{Number, Number, Number, Dot, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	if tokens[0].Literal != 123.0 {
		t.Fatalf("literal = %v, want 123", tokens[0].Literal)
	}
	if tokens[1].Literal != 45.67 {
		t.Fatalf("literal = %v, want 45.67", tokens[1].Literal)
	}
	if tokens[2].Lexeme != "8" {
		t.Fatalf("trailing dot must not be consumed, got lexeme %q", tokens[2].Lexeme)
	}
}

func TestScannerStrings(t *testing.T) {
	tokens := scanClean(t, "\"hello\" \"multi\nline\" x")
	if tokens[0].Type != String || tokens[0].Literal != "hello" {
		t.Fatalf("unexpected string token %v", tokens[0])
	}
	if tokens[1].Literal != "multi\nline" || tokens[1].Line != 2 {
		t.Fatalf("multi-line string token = %#v", tokens[1])
	}
	if tokens[2].Line != 2 {
		t.Fatalf("identifier line = %d, want 2", tokens[2].Line)
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	tokens, errs := ScanTokens("var s = \"oops")
	if len(errs) != 1 || errs[0].Message != "Unterminated string." {
		t.Fatalf("errors = %v", errs)
	}
	want := []TokenType{Var, Identifier, Equal, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
}

func TestScannerLineComments(t *testing.T) {
	tokens := scanClean(t, "// nothing here\nprint 1; // trailing\n")
	want := []TokenType{Print, Number, Semicolon, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	if tokens[0].Line != 2 || tokens[3].Line != 3 {
		t.Fatalf("line tracking wrong: %v", tokens)
	}
}

func TestScannerBlockComments(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{name: "simple", src: "/* this is *** \n *** a comment */ var x = 123"},
		{name: "nested", src: "/* this is /*** another one \n ***/ a comment */ var x = 123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := scanClean(t, tc.src)
			want := []TokenType{Var, Identifier, Equal, Number, EOF}
			if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
				t.Fatalf("token types = %v, want %v", got, want)
			}
			if tokens[0].Line != 2 {
				t.Fatalf("line after comment = %d, want 2", tokens[0].Line)
			}
		})
	}
}

func TestScannerUnterminatedNestedBlockComment(t *testing.T) {
	tokens, errs := ScanTokens("/* this is /*** another one \n *** a comment */ var x = 123")
	if len(tokens) != 1 || tokens[0].Type != EOF {
		t.Fatalf("expected only EOF, got %v", tokenTypes(tokens))
	}
	if len(errs) != 1 || errs[0].Message != "Unterminated block comment." {
		t.Fatalf("errors = %v", errs)
	}
}

func TestScannerAccumulatesErrors(t *testing.T) {
	tokens, errs := ScanTokens("var @ = 1;\n# x;")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Line != 1 || errs[1].Line != 2 {
		t.Fatalf("error lines = %d, %d", errs[0].Line, errs[1].Line)
	}
	if errs[0].Error() != "[line 1] Error: Unexpected character." {
		t.Fatalf("error text = %q", errs[0].Error())
	}
	want := []TokenType{Var, Equal, Number, Semicolon, Identifier, Semicolon, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
}

func TestScannerReportsMultiByteCharacterOnce(t *testing.T) {
	tokens, errs := ScanTokens("print é; print \"ü\"; 😀")
	if len(errs) != 2 {
		t.Fatalf("expected one error per character, got %v", errs)
	}
	want := []TokenType{Print, Semicolon, Print, String, Semicolon, EOF}
	if got := tokenTypes(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	if tokens[3].Literal != "ü" {
		t.Fatalf("string literal = %#v", tokens[3].Literal)
	}
}

func TestScannerNextIsLazyAndSingleUse(t *testing.T) {
	s := New("a b")
	if tok := s.Next(); tok.Lexeme != "a" {
		t.Fatalf("first token = %v", tok)
	}
	if tok := s.Next(); tok.Lexeme != "b" {
		t.Fatalf("second token = %v", tok)
	}
	for i := 0; i < 3; i++ {
		if tok := s.Next(); tok.Type != EOF {
			t.Fatalf("expected EOF after exhaustion, got %v", tok)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Type: Number, Lexeme: "1.5", Literal: 1.5, Line: 1}
	if got := tok.String(); got != "NUMBER 1.5 1.5" {
		t.Fatalf("String() = %q", got)
	}
	tok = Token{Type: Semicolon, Lexeme: ";", Line: 1}
	if got := tok.String(); got != "SEMICOLON ; null" {
		t.Fatalf("String() = %q", got)
	}
}
