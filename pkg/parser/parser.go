package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/scanner"
)

const maxArguments = 255

// Parser builds an AST from a token slice by recursive descent. It recovers
// from errors at statement boundaries so one run reports every syntax error.
type Parser struct {
	tokens     []scanner.Token
	current    int
	errors     ErrorList
	blockDepth int
}

// New creates a parser over tokens. The slice must end with an EOF token;
// one is appended when missing.
func New(tokens []scanner.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != scanner.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, scanner.Token{Type: scanner.EOF, Line: line})
	}
	return &Parser{tokens: tokens}
}

// ParseSource scans and parses source. Scan errors are returned separately
// from the parse result; callers decide how to combine them.
func ParseSource(source string) (*ast.Program, []*scanner.Error, error) {
	tokens, scanErrs := scanner.ScanTokens(source)
	program, err := New(tokens).Parse()
	return program, scanErrs, err
}

// Parse consumes the whole token stream. On any error it returns a nil
// program and an ErrorList.
func (p *Parser) Parse() (*ast.Program, error) {
	var statements []ast.Statement
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return ast.NewProgram(statements), nil
}

// Expression parses a single expression. Used by tooling and tests.
func (p *Parser) Expression() (ast.Expression, error) {
	expr, err := p.expression()
	if err != nil {
		p.errors = append(p.errors, asParseError(err))
	}
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return expr, nil
}

// Errors returns every error recorded so far.
func (p *Parser) Errors() ErrorList {
	return p.errors
}

// report records an error that does not require resynchronizing.
func (p *Parser) report(tok scanner.Token, message string) {
	p.errors = append(p.errors, &ParseError{Token: tok, Message: message})
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	if p.blockDepth > 0 && p.check(scanner.RightBrace) {
		return
	}
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == scanner.Semicolon {
			return
		}
		switch p.peek().Type {
		case scanner.RightBrace:
			if p.blockDepth > 0 {
				return
			}
		case scanner.Class, scanner.Fun, scanner.Var, scanner.For,
			scanner.If, scanner.While, scanner.Print, scanner.Return:
			return
		}
		p.advance()
	}
}

func asParseError(err error) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return &ParseError{Message: err.Error()}
}
