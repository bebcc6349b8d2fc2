package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/scanner"
)

// expression → assignment ( "," assignment )*
func (p *Parser) expression() (ast.Expression, error) {
	first, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if !p.check(scanner.Comma) {
		return first, nil
	}
	exprs := []ast.Expression{first}
	for p.match(scanner.Comma) {
		next, err := p.assignment()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return ast.NewSeriesExpression(exprs), nil
}

func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(scanner.Equal) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	switch target := expr.(type) {
	case *ast.Variable:
		return ast.NewAssignmentExpression(target.Name, value), nil
	case *ast.GetExpression:
		return ast.NewSetExpression(target.Object, target.Name, value), nil
	}
	// The left side is already parsed, so there is nothing to resync past.
	p.report(equals, "Invalid assignment target.")
	return expr, nil
}

func (p *Parser) or() (ast.Expression, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(scanner.Or) {
		operator := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(scanner.And) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binaryLevel(p.comparison, scanner.BangEqual, scanner.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binaryLevel(p.term, scanner.Greater, scanner.GreaterEqual, scanner.Less, scanner.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binaryLevel(p.factor, scanner.Minus, scanner.Plus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binaryLevel(p.unary, scanner.Slash, scanner.Star)
}

// binaryLevel parses a left-associative run of operators over next.
func (p *Parser) binaryLevel(next func() (ast.Expression, error), operators ...scanner.TokenType) (ast.Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(scanner.Bang, scanner.Minus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(operator, right), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(scanner.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(scanner.Dot):
			name, err := p.consume(scanner.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = ast.NewGetExpression(expr, name)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var args []ast.Expression
	if !p.check(scanner.RightParen) {
		for {
			if len(args) >= maxArguments {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(scanner.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(scanner.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewCallExpression(callee, paren, args), nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(scanner.False):
		return ast.NewBooleanLiteral(false), nil
	case p.match(scanner.True):
		return ast.NewBooleanLiteral(true), nil
	case p.match(scanner.Nil):
		return ast.NewNilLiteral(), nil
	case p.match(scanner.Number):
		value, _ := p.previous().Literal.(float64)
		return ast.NewNumberLiteral(value), nil
	case p.match(scanner.String):
		value, _ := p.previous().Literal.(string)
		return ast.NewStringLiteral(value), nil
	case p.match(scanner.Super):
		keyword := p.previous()
		if _, err := p.consume(scanner.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(scanner.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return ast.NewSuperExpression(keyword, method), nil
	case p.match(scanner.This):
		return ast.NewThisExpression(p.previous()), nil
	case p.match(scanner.Identifier):
		return ast.NewVariable(p.previous()), nil
	case p.match(scanner.Fun):
		return p.lambda()
	case p.match(scanner.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(scanner.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGroupingExpression(expr), nil
	}
	return nil, p.errorAt(p.peek(), "Expect expression.")
}

// lambda parses `fun (params) { body }` after the `fun` keyword.
func (p *Parser) lambda() (ast.Expression, error) {
	keyword := p.previous()
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after 'fun'."); err != nil {
		return nil, err
	}
	params, body, err := p.functionRest(kindFunction)
	if err != nil {
		return nil, err
	}
	name := scanner.Token{Type: scanner.Fun, Line: keyword.Line}
	return ast.NewLambdaExpression(ast.NewFunctionDefinition(name, params, body)), nil
}
