package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/scanner"
)

type functionKind string

const (
	kindFunction functionKind = "function"
	kindMethod   functionKind = "method"
)

// declaration is the recovery point: a failed declaration is recorded,
// the parser resynchronizes, and nil is returned.
func (p *Parser) declaration() ast.Statement {
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.errors = append(p.errors, asParseError(err))
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseDeclaration() (ast.Statement, error) {
	switch {
	case p.match(scanner.Class):
		return p.classDeclaration()
	case p.check(scanner.Fun) && p.checkNext(scanner.Identifier):
		p.advance()
		return p.function(kindFunction)
	case p.match(scanner.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() (ast.Statement, error) {
	name, err := p.consume(scanner.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(scanner.Less) {
		superName, err := p.consume(scanner.Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = ast.NewVariable(superName)
	}

	if _, err := p.consume(scanner.LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionDefinition
	for !p.check(scanner.RightBrace) && !p.atEnd() {
		method, err := p.function(kindMethod)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.consume(scanner.RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return ast.NewClassDefinition(name, superclass, methods), nil
}

func (p *Parser) function(kind functionKind) (*ast.FunctionDefinition, error) {
	name, err := p.consume(scanner.Identifier, "Expect "+string(kind)+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after "+string(kind)+" name."); err != nil {
		return nil, err
	}
	params, body, err := p.functionRest(kind)
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(name, params, body), nil
}

// functionRest parses `params) { body }` after the opening parenthesis.
func (p *Parser) functionRest(kind functionKind) ([]scanner.Token, []ast.Statement, error) {
	var params []scanner.Token
	if !p.check(scanner.RightParen) {
		for {
			if len(params) >= maxArguments {
				p.report(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(scanner.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, nil, err
			}
			params = append(params, param)
			if !p.match(scanner.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, nil, err
	}
	if _, err := p.consume(scanner.LeftBrace, "Expect '{' before "+string(kind)+" body."); err != nil {
		return nil, nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

func (p *Parser) varDeclaration() (ast.Statement, error) {
	name, err := p.consume(scanner.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expression
	if p.match(scanner.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVarDeclaration(name, initializer), nil
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(scanner.For):
		return p.forStatement()
	case p.match(scanner.If):
		return p.ifStatement()
	case p.match(scanner.Print):
		return p.printStatement()
	case p.match(scanner.Return):
		return p.returnStatement()
	case p.match(scanner.While):
		return p.whileStatement()
	case p.match(scanner.LeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStatement(stmts), nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func (p *Parser) forStatement() (ast.Statement, error) {
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Statement
	var err error
	switch {
	case p.match(scanner.Semicolon):
	case p.match(scanner.Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expression
	if !p.check(scanner.Semicolon) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.check(scanner.RightParen) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if increment != nil {
		body = ast.NewBlockStatement([]ast.Statement{body, ast.NewExpressionStatement(increment)})
	}
	if condition == nil {
		condition = ast.NewBooleanLiteral(true)
	}
	body = ast.NewWhileLoop(condition, body)
	if initializer != nil {
		body = ast.NewBlockStatement([]ast.Statement{initializer, body})
	}
	return body, nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	if !p.match(scanner.Else) {
		return ast.NewIfStatement(condition, thenBranch, nil), nil
	}
	elseBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewIfStatement(condition, thenBranch, elseBranch), nil
}

func (p *Parser) printStatement() (ast.Statement, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(value), nil
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(scanner.Semicolon) {
		var err error
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(keyword, value), nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(condition, body), nil
}

// block parses declarations up to the closing brace. Errors inside the
// block recover locally; synchronize never consumes the block's '}'.
func (p *Parser) block() ([]ast.Statement, error) {
	p.blockDepth++
	defer func() { p.blockDepth-- }()
	var stmts []ast.Statement
	for !p.check(scanner.RightBrace) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(scanner.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr), nil
}
