package ast

type NodeType string

const (
	NodeIdentifier            NodeType = "Identifier"
	NodeNumberLiteral         NodeType = "NumberLiteral"
	NodeBooleanLiteral        NodeType = "BooleanLiteral"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeLambdaExpression      NodeType = "LambdaExpression"
	NodeFunctionCall          NodeType = "FunctionCall"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Expression is implemented by every node of the language; there are no
// statements.
type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

// NumberLiteral holds a double-precision constant, matching JavaScript numbers.
type NumberLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

// Operators

type BinaryOperator string

const (
	BinaryOperatorAdd  BinaryOperator = "+"
	BinaryOperatorLess BinaryOperator = "<"
	BinaryOperatorOr   BinaryOperator = "||"
	BinaryOperatorAnd  BinaryOperator = "&&"
)

// Valid reports whether the operator belongs to the language.
func (op BinaryOperator) Valid() bool {
	switch op {
	case BinaryOperatorAdd, BinaryOperatorLess, BinaryOperatorOr, BinaryOperatorAnd:
		return true
	default:
		return false
	}
}

type UnaryOperator string

const (
	UnaryOperatorNot    UnaryOperator = "!"
	UnaryOperatorNegate UnaryOperator = "-"
)

func (op UnaryOperator) Valid() bool {
	return op == UnaryOperatorNot || op == UnaryOperatorNegate
}

// Expressions

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

// ConditionalExpression is the ternary `condition ? consequent : alternate`.
type ConditionalExpression struct {
	nodeImpl
	expressionMarker

	Condition  Expression `json:"condition"`
	Consequent Expression `json:"consequent"`
	Alternate  Expression `json:"alternate"`
}

func NewConditionalExpression(condition, consequent, alternate Expression) *ConditionalExpression {
	return &ConditionalExpression{nodeImpl: newNodeImpl(NodeConditionalExpression), Condition: condition, Consequent: consequent, Alternate: alternate}
}

// LambdaExpression is a single-parameter arrow function `param => body`.
type LambdaExpression struct {
	nodeImpl
	expressionMarker

	Param *Identifier `json:"param"`
	Body  Expression  `json:"body"`
}

func NewLambdaExpression(param *Identifier, body Expression) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Param: param, Body: body}
}

// ParamName returns the bound name, or "" when the parameter is missing.
func (l *LambdaExpression) ParamName() string {
	if l == nil || l.Param == nil {
		return ""
	}
	return l.Param.Name
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee   Expression `json:"callee"`
	Argument Expression `json:"argument"`
}

func NewFunctionCall(callee, argument Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Argument: argument}
}
