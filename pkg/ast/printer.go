package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a node as a parenthesized prefix form, e.g. `(+ 1 (group 2))`.
func Print(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// PrintProgram renders each top-level statement on its own line.
func PrintProgram(program *Program) string {
	if program == nil {
		return ""
	}
	var b strings.Builder
	for _, stmt := range program.Statements {
		writeNode(&b, stmt)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *NumberLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case *StringLiteral:
		b.WriteString(strconv.Quote(n.Value))
	case *BooleanLiteral:
		b.WriteString(strconv.FormatBool(n.Value))
	case *NilLiteral:
		b.WriteString("nil")
	case *Variable:
		b.WriteString(n.Name.Lexeme)
	case *AssignmentExpression:
		parens(b, "=", n.Name.Lexeme, n.Value)
	case *UnaryExpression:
		parens(b, n.Operator.Lexeme, n.Right)
	case *BinaryExpression:
		parens(b, n.Operator.Lexeme, n.Left, n.Right)
	case *LogicalExpression:
		parens(b, n.Operator.Lexeme, n.Left, n.Right)
	case *GroupingExpression:
		parens(b, "group", n.Expression)
	case *SeriesExpression:
		parts := make([]any, 0, len(n.Expressions))
		for _, expr := range n.Expressions {
			parts = append(parts, expr)
		}
		parens(b, ",", parts...)
	case *CallExpression:
		parts := []any{n.Callee}
		for _, arg := range n.Arguments {
			parts = append(parts, arg)
		}
		parens(b, "call", parts...)
	case *GetExpression:
		parens(b, ".", n.Object, n.Name.Lexeme)
	case *SetExpression:
		parens(b, "set", n.Object, n.Name.Lexeme, n.Value)
	case *ThisExpression:
		b.WriteString("this")
	case *SuperExpression:
		parens(b, "super", n.Method.Lexeme)
	case *LambdaExpression:
		writeFunction(b, n.Function)
	case *ExpressionStatement:
		parens(b, ";", n.Expression)
	case *PrintStatement:
		parens(b, "print", n.Expression)
	case *VarDeclaration:
		if n.Initializer == nil {
			parens(b, "var", n.Name.Lexeme)
			return
		}
		parens(b, "var", n.Name.Lexeme, n.Initializer)
	case *BlockStatement:
		parts := make([]any, 0, len(n.Statements))
		for _, stmt := range n.Statements {
			parts = append(parts, stmt)
		}
		parens(b, "block", parts...)
	case *IfStatement:
		if n.ElseBranch == nil {
			parens(b, "if", n.Condition, n.ThenBranch)
			return
		}
		parens(b, "if-else", n.Condition, n.ThenBranch, n.ElseBranch)
	case *WhileLoop:
		parens(b, "while", n.Condition, n.Body)
	case *FunctionDefinition:
		writeFunction(b, n)
	case *ClassDefinition:
		parts := []any{n.Name.Lexeme}
		if n.Superclass != nil {
			parts = append(parts, "<", n.Superclass.Name.Lexeme)
		}
		for _, method := range n.Methods {
			parts = append(parts, method)
		}
		parens(b, "class", parts...)
	case *ReturnStatement:
		if n.Value == nil {
			b.WriteString("(return)")
			return
		}
		parens(b, "return", n.Value)
	case *Program:
		b.WriteString(strings.TrimRight(PrintProgram(n), "\n"))
	default:
		fmt.Fprintf(b, "<%s>", node.NodeType())
	}
}

func writeFunction(b *strings.Builder, fn *FunctionDefinition) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, p.Lexeme)
	}
	parts := make([]any, 0, len(fn.Body)+2)
	if !fn.IsAnonymous() {
		parts = append(parts, fn.Name.Lexeme)
	}
	parts = append(parts, "("+strings.Join(params, " ")+")")
	for _, stmt := range fn.Body {
		parts = append(parts, stmt)
	}
	parens(b, "fun", parts...)
}

// parens writes `(name part...)`; parts are nodes or raw strings.
func parens(b *strings.Builder, name string, parts ...any) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, part := range parts {
		b.WriteByte(' ')
		switch p := part.(type) {
		case string:
			b.WriteString(p)
		case Node:
			writeNode(b, p)
		default:
			fmt.Fprintf(b, "%v", p)
		}
	}
	b.WriteByte(')')
}
