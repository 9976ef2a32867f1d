package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

// Operator helpers.

func Bin(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Add(left, right Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryOperatorAdd, left, right)
}

func Less(left, right Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryOperatorLess, left, right)
}

func Or(left, right Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryOperatorOr, left, right)
}

func And(left, right Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryOperatorAnd, left, right)
}

func Un(operator UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNot, operand)
}

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNegate, operand)
}

// Control flow and functions.

func Cond(condition, consequent, alternate Expression) *ConditionalExpression {
	return NewConditionalExpression(condition, consequent, alternate)
}

func Lambda(param string, body Expression) *LambdaExpression {
	return NewLambdaExpression(ID(param), body)
}

func Call(callee, argument Expression) *FunctionCall {
	return NewFunctionCall(callee, argument)
}

// CallN applies callee to each argument in turn: CallN(f, a, b) is f(a)(b).
// With no arguments it returns callee unchanged.
func CallN(callee Expression, args ...Expression) Expression {
	expr := callee
	for _, arg := range args {
		expr = NewFunctionCall(expr, arg)
	}
	return expr
}
