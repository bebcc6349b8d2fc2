package scanner

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Error is a lexical error. Scanning continues past it.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// Scanner turns Lox source into tokens. A scanner is single-use: once it has
// produced the EOF token it keeps returning EOF.
type Scanner struct {
	source string
	start  int
	cursor int
	line   int
	done   bool
	errors []*Error
}

// New creates a scanner over source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// ScanTokens consumes the remaining source and returns every token, ending
// with EOF, together with the lexical errors encountered.
func ScanTokens(source string) ([]Token, []*Error) {
	s := New(source)
	var tokens []Token
	for {
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens, s.Errors()
}

// Errors returns the errors recorded so far.
func (s *Scanner) Errors() []*Error {
	return s.errors
}

// Next returns the next token, skipping whitespace and comments.
func (s *Scanner) Next() Token {
	for !s.atEnd() {
		s.start = s.cursor
		if tok, ok := s.scanToken(); ok {
			return tok
		}
	}
	s.done = true
	return Token{Type: EOF, Line: s.line}
}

func (s *Scanner) scanToken() (Token, bool) {
	c := s.advance()
	switch c {
	case '(':
		return s.token(LeftParen, nil), true
	case ')':
		return s.token(RightParen, nil), true
	case '{':
		return s.token(LeftBrace, nil), true
	case '}':
		return s.token(RightBrace, nil), true
	case ',':
		return s.token(Comma, nil), true
	case '.':
		return s.token(Dot, nil), true
	case '-':
		return s.token(Minus, nil), true
	case '+':
		return s.token(Plus, nil), true
	case ';':
		return s.token(Semicolon, nil), true
	case '*':
		return s.token(Star, nil), true
	case '!':
		return s.token(s.pick('=', BangEqual, Bang), nil), true
	case '=':
		return s.token(s.pick('=', EqualEqual, Equal), nil), true
	case '<':
		return s.token(s.pick('=', LessEqual, Less), nil), true
	case '>':
		return s.token(s.pick('=', GreaterEqual, Greater), nil), true
	case '/':
		switch {
		case s.match('/'):
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
			return Token{}, false
		case s.match('*'):
			s.blockComment()
			return Token{}, false
		default:
			return s.token(Slash, nil), true
		}
	case ' ', '\r', '\t':
		return Token{}, false
	case '\n':
		s.line++
		return Token{}, false
	case '"':
		return s.string()
	default:
		switch {
		case isDigit(c):
			return s.number(), true
		case isAlpha(c):
			return s.identifier(), true
		}
		if c >= utf8.RuneSelf {
			_, size := utf8.DecodeRuneInString(s.source[s.start:])
			s.cursor = s.start + size
		}
		s.errorf("Unexpected character.")
		return Token{}, false
	}
}

// blockComment skips a /* */ comment; comments nest.
func (s *Scanner) blockComment() {
	depth := 1
	for !s.atEnd() && depth > 0 {
		switch {
		case s.peek() == '/' && s.peekNext() == '*':
			depth++
			s.cursor += 2
		case s.peek() == '*' && s.peekNext() == '/':
			depth--
			s.cursor += 2
		default:
			if s.advance() == '\n' {
				s.line++
			}
		}
	}
	if depth > 0 {
		s.errorf("Unterminated block comment.")
	}
}

func (s *Scanner) string() (Token, bool) {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.errorf("Unterminated string.")
		return Token{}, false
	}
	s.advance()
	value := s.source[s.start+1 : s.cursor-1]
	return s.token(String, value), true
}

func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	// Digits-only input: the only possible failure is ErrRange, which
	// still yields +Inf.
	value, _ := strconv.ParseFloat(s.source[s.start:s.cursor], 64)
	return s.token(Number, value)
}

func (s *Scanner) identifier() Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.source[s.start:s.cursor]
	if kind, ok := keywords[text]; ok {
		return s.token(kind, nil)
	}
	return s.token(Identifier, nil)
}

func (s *Scanner) token(kind TokenType, literal any) Token {
	return Token{
		Type:    kind,
		Lexeme:  s.source[s.start:s.cursor],
		Literal: literal,
		Line:    s.line,
	}
}

func (s *Scanner) errorf(format string, args ...any) {
	s.errors = append(s.errors, &Error{Line: s.line, Message: fmt.Sprintf(format, args...)})
}

func (s *Scanner) pick(expected byte, matched, otherwise TokenType) TokenType {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.cursor] != expected {
		return false
	}
	s.cursor++
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.cursor]
	s.cursor++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.cursor]
}

func (s *Scanner) peekNext() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func (s *Scanner) atEnd() bool {
	return s.done || s.cursor >= len(s.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
