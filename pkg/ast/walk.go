package ast

import "sort"

// Children returns the direct sub-expressions of node in evaluation order.
// Lambda parameters are not included.
func Children(node Node) []Expression {
	switch n := node.(type) {
	case *BinaryExpression:
		return []Expression{n.Left, n.Right}
	case *UnaryExpression:
		return []Expression{n.Operand}
	case *ConditionalExpression:
		return []Expression{n.Condition, n.Consequent, n.Alternate}
	case *LambdaExpression:
		return []Expression{n.Body}
	case *FunctionCall:
		return []Expression{n.Callee, n.Argument}
	default:
		return nil
	}
}

// Walk visits node and its descendants in pre-order. Returning false from
// visit skips the children of that node. Nil children are ignored.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || isNilNode(node) {
		return
	}
	if !visit(node) {
		return
	}
	if lambda, ok := node.(*LambdaExpression); ok && lambda.Param != nil {
		Walk(lambda.Param, visit)
	}
	for _, child := range Children(node) {
		Walk(child, visit)
	}
}

// FreeVariables returns the sorted identifier names referenced by expr that
// are not bound by an enclosing lambda inside expr.
func FreeVariables(expr Expression) []string {
	free := make(map[string]struct{})
	collectFree(expr, map[string]int{}, free)
	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectFree(expr Expression, bound map[string]int, free map[string]struct{}) {
	if expr == nil || isNilNode(expr) {
		return
	}
	switch n := expr.(type) {
	case *Identifier:
		if bound[n.Name] == 0 {
			free[n.Name] = struct{}{}
		}
	case *LambdaExpression:
		name := n.ParamName()
		bound[name]++
		collectFree(n.Body, bound, free)
		bound[name]--
	default:
		for _, child := range Children(expr) {
			collectFree(child, bound, free)
		}
	}
}

func isNilNode(node Node) bool {
	switch n := node.(type) {
	case *Identifier:
		return n == nil
	case *NumberLiteral:
		return n == nil
	case *BooleanLiteral:
		return n == nil
	case *BinaryExpression:
		return n == nil
	case *UnaryExpression:
		return n == nil
	case *ConditionalExpression:
		return n == nil
	case *LambdaExpression:
		return n == nil
	case *FunctionCall:
		return n == nil
	default:
		return false
	}
}
