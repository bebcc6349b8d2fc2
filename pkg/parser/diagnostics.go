package parser

import (
	"fmt"
	"strings"

	"lox/interpreter-go/pkg/scanner"
)

// ParseError reports a grammar violation at Token.
type ParseError struct {
	Token   scanner.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Token.Line, e.Where(), e.Message)
}

// Where renders the location fragment used in diagnostics: " at end" or
// " at 'lexeme'".
func (e *ParseError) Where() string {
	if e.Token.Type == scanner.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", e.Token.Lexeme)
}

// AtEnd reports whether the parser ran out of input, which for interactive
// use means more lines may complete the program.
func (e *ParseError) AtEnd() bool {
	return e.Token.Type == scanner.EOF
}

// ErrorList aggregates every error found in one parse.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "parser: no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	for i, err := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Incomplete reports whether every error is at end of input.
func (l ErrorList) Incomplete() bool {
	if len(l) == 0 {
		return false
	}
	for _, err := range l {
		if !err.AtEnd() {
			return false
		}
	}
	return true
}
