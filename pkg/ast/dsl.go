package ast

import "lox/interpreter-go/pkg/scanner"

// Builders used by tests and tooling to assemble trees without source text.
// Every synthesized token sits on line 1.

var operatorTypes = map[string]scanner.TokenType{
	"-":   scanner.Minus,
	"+":   scanner.Plus,
	"/":   scanner.Slash,
	"*":   scanner.Star,
	"!":   scanner.Bang,
	"!=":  scanner.BangEqual,
	"==":  scanner.EqualEqual,
	">":   scanner.Greater,
	">=":  scanner.GreaterEqual,
	"<":   scanner.Less,
	"<=":  scanner.LessEqual,
	"and": scanner.And,
	"or":  scanner.Or,
}

// Tok synthesizes a token.
func Tok(kind scanner.TokenType, lexeme string) scanner.Token {
	return scanner.Token{Type: kind, Lexeme: lexeme, Line: 1}
}

// Ident synthesizes an identifier token.
func Ident(name string) scanner.Token {
	return Tok(scanner.Identifier, name)
}

// Op synthesizes an operator token from its lexeme.
func Op(lexeme string) scanner.Token {
	kind, ok := operatorTypes[lexeme]
	if !ok {
		panic("ast: unknown operator " + lexeme)
	}
	return Tok(kind, lexeme)
}

// Literal helpers.

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

// Expression helpers.

func ID(name string) *Variable {
	return NewVariable(Ident(name))
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(Ident(name), value)
}

func Un(op string, right Expression) *UnaryExpression {
	return NewUnaryExpression(Op(op), right)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(left, Op(op), right)
}

func Logic(op string, left, right Expression) *LogicalExpression {
	return NewLogicalExpression(left, Op(op), right)
}

func Group(inner Expression) *GroupingExpression {
	return NewGroupingExpression(inner)
}

func Series(exprs ...Expression) *SeriesExpression {
	return NewSeriesExpression(exprs)
}

func CallExpr(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, Tok(scanner.RightParen, ")"), args)
}

func Get(object Expression, name string) *GetExpression {
	return NewGetExpression(object, Ident(name))
}

func Set(object Expression, name string, value Expression) *SetExpression {
	return NewSetExpression(object, Ident(name), value)
}

func This() *ThisExpression {
	return NewThisExpression(Tok(scanner.This, "this"))
}

func Super(method string) *SuperExpression {
	return NewSuperExpression(Tok(scanner.Super, "super"), Ident(method))
}

func Lambda(params []string, body ...Statement) *LambdaExpression {
	return NewLambdaExpression(NewFunctionDefinition(Tok(scanner.Fun, ""), idents(params), body))
}

// Statement helpers.

func ExprStmt(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func PrintStmt(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func VarDecl(name string, initializer Expression) *VarDeclaration {
	return NewVarDeclaration(Ident(name), initializer)
}

func Block(stmts ...Statement) *BlockStatement {
	return NewBlockStatement(stmts)
}

func If(cond Expression, then, otherwise Statement) *IfStatement {
	return NewIfStatement(cond, then, otherwise)
}

func While(cond Expression, body Statement) *WhileLoop {
	return NewWhileLoop(cond, body)
}

func Fn(name string, params []string, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(Ident(name), idents(params), body)
}

// Class builds a class definition; an empty superclass means none.
func Class(name, superclass string, methods ...*FunctionDefinition) *ClassDefinition {
	var super *Variable
	if superclass != "" {
		super = ID(superclass)
	}
	return NewClassDefinition(Ident(name), super, methods)
}

// Ret builds a return statement; value may be nil.
func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(Tok(scanner.Return, "return"), value)
}

func Prog(stmts ...Statement) *Program {
	return NewProgram(stmts)
}

func idents(names []string) []scanner.Token {
	out := make([]scanner.Token, 0, len(names))
	for _, name := range names {
		out = append(out, Ident(name))
	}
	return out
}
