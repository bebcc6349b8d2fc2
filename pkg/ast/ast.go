package ast

import "lox/interpreter-go/pkg/scanner"

type NodeType string

const (
	NodeNumberLiteral        NodeType = "NumberLiteral"
	NodeStringLiteral        NodeType = "StringLiteral"
	NodeBooleanLiteral       NodeType = "BooleanLiteral"
	NodeNilLiteral           NodeType = "NilLiteral"
	NodeVariable             NodeType = "Variable"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodeUnaryExpression      NodeType = "UnaryExpression"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeLogicalExpression    NodeType = "LogicalExpression"
	NodeCallExpression       NodeType = "CallExpression"
	NodeGetExpression        NodeType = "GetExpression"
	NodeSetExpression        NodeType = "SetExpression"
	NodeThisExpression       NodeType = "ThisExpression"
	NodeSuperExpression      NodeType = "SuperExpression"
	NodeGroupingExpression   NodeType = "GroupingExpression"
	NodeLambdaExpression     NodeType = "LambdaExpression"
	NodeSeriesExpression     NodeType = "SeriesExpression"
	NodeExpressionStatement  NodeType = "ExpressionStatement"
	NodePrintStatement       NodeType = "PrintStatement"
	NodeVarDeclaration       NodeType = "VarDeclaration"
	NodeBlockStatement       NodeType = "BlockStatement"
	NodeIfStatement          NodeType = "IfStatement"
	NodeWhileLoop            NodeType = "WhileLoop"
	NodeFunctionDefinition   NodeType = "FunctionDefinition"
	NodeClassDefinition      NodeType = "ClassDefinition"
	NodeReturnStatement      NodeType = "ReturnStatement"
	NodeProgram              NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

// Expression nodes are compared by pointer identity; the resolver keys its
// scope-depth table on them.
type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker

	Value float64
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

// Variables and assignment

type Variable struct {
	nodeImpl
	expressionMarker

	Name scanner.Token
}

func NewVariable(name scanner.Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  scanner.Token
	Value Expression
}

func NewAssignmentExpression(name scanner.Token, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Name: name, Value: value}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator scanner.Token
	Right    Expression
}

func NewUnaryExpression(operator scanner.Token, right Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Right: right}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression
	Operator scanner.Token
	Right    Expression
}

func NewBinaryExpression(left Expression, operator scanner.Token, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Left: left, Operator: operator, Right: right}
}

// LogicalExpression is `and` / `or`; the right operand is evaluated only when
// the left one does not decide the result.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression
	Operator scanner.Token
	Right    Expression
}

func NewLogicalExpression(left Expression, operator scanner.Token, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Left: left, Operator: operator, Right: right}
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression
}

func NewGroupingExpression(inner Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression), Expression: inner}
}

// SeriesExpression is the comma operator: every element is evaluated in
// order and the last value is the result.
type SeriesExpression struct {
	nodeImpl
	expressionMarker

	Expressions []Expression
}

func NewSeriesExpression(expressions []Expression) *SeriesExpression {
	return &SeriesExpression{nodeImpl: newNodeImpl(NodeSeriesExpression), Expressions: expressions}
}

// Calls and members

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression
	Paren     scanner.Token
	Arguments []Expression
}

func NewCallExpression(callee Expression, paren scanner.Token, arguments []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Paren: paren, Arguments: arguments}
}

type GetExpression struct {
	nodeImpl
	expressionMarker

	Object Expression
	Name   scanner.Token
}

func NewGetExpression(object Expression, name scanner.Token) *GetExpression {
	return &GetExpression{nodeImpl: newNodeImpl(NodeGetExpression), Object: object, Name: name}
}

type SetExpression struct {
	nodeImpl
	expressionMarker

	Object Expression
	Name   scanner.Token
	Value  Expression
}

func NewSetExpression(object Expression, name scanner.Token, value Expression) *SetExpression {
	return &SetExpression{nodeImpl: newNodeImpl(NodeSetExpression), Object: object, Name: name, Value: value}
}

type ThisExpression struct {
	nodeImpl
	expressionMarker

	Keyword scanner.Token
}

func NewThisExpression(keyword scanner.Token) *ThisExpression {
	return &ThisExpression{nodeImpl: newNodeImpl(NodeThisExpression), Keyword: keyword}
}

type SuperExpression struct {
	nodeImpl
	expressionMarker

	Keyword scanner.Token
	Method  scanner.Token
}

func NewSuperExpression(keyword, method scanner.Token) *SuperExpression {
	return &SuperExpression{nodeImpl: newNodeImpl(NodeSuperExpression), Keyword: keyword, Method: method}
}

// LambdaExpression is an anonymous `fun (params) { body }`.
type LambdaExpression struct {
	nodeImpl
	expressionMarker

	Function *FunctionDefinition
}

func NewLambdaExpression(fn *FunctionDefinition) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Function: fn}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewPrintStatement(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

// VarDeclaration binds Name; a nil Initializer binds nil.
type VarDeclaration struct {
	nodeImpl
	statementMarker

	Name        scanner.Token
	Initializer Expression
}

func NewVarDeclaration(name scanner.Token, initializer Expression) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement
}

func NewBlockStatement(statements []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: statements}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition  Expression
	ThenBranch Statement
	ElseBranch Statement
}

func NewIfStatement(condition Expression, thenBranch, elseBranch Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

// WhileLoop also carries desugared `for` loops.
type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression
	Body      Statement
}

func NewWhileLoop(condition Expression, body Statement) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// FunctionDefinition is a named function, a method, or (with an empty Name
// lexeme) the body of a lambda.
type FunctionDefinition struct {
	nodeImpl
	statementMarker

	Name   scanner.Token
	Params []scanner.Token
	Body   []Statement
}

func NewFunctionDefinition(name scanner.Token, params []scanner.Token, body []Statement) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Name: name, Params: params, Body: body}
}

// IsAnonymous reports whether the definition came from a lambda.
func (f *FunctionDefinition) IsAnonymous() bool {
	return f.Name.Lexeme == ""
}

type ClassDefinition struct {
	nodeImpl
	statementMarker

	Name       scanner.Token
	Superclass *Variable
	Methods    []*FunctionDefinition
}

func NewClassDefinition(name scanner.Token, superclass *Variable, methods []*FunctionDefinition) *ClassDefinition {
	return &ClassDefinition{nodeImpl: newNodeImpl(NodeClassDefinition), Name: name, Superclass: superclass, Methods: methods}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Keyword scanner.Token
	Value   Expression
}

func NewReturnStatement(keyword scanner.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Keyword: keyword, Value: value}
}

// Program is the root produced by a successful parse.
type Program struct {
	nodeImpl

	Statements []Statement
}

func NewProgram(statements []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Statements: statements}
}
