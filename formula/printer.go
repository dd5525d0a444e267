package formula

import (
	"strconv"

	"github.com/expr-lang/expr/ast"
)

const unaryPrecedence = 3

func precedenceOf(operator string) int {
	switch operator {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	default:
		return 0
	}
}

// render prints node as canonical text, wrapping it in parentheses only
// when parentPrec (the precedence of the operator it's nested under)
// would otherwise change its meaning. isRightChild additionally guards
// the non-associative operators - and / : "1-(2-3)" needs its
// parentheses kept, but "(1-2)-3" does not.
func render(node ast.Node, parentPrec int, isRightChild bool) string {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return strconv.Itoa(n.Value)

	case *ast.FloatNode:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)

	case *ast.IdentifierNode:
		return n.Value

	case *ast.UnaryNode:
		text := n.Operator + render(n.Node, unaryPrecedence, false)
		if needsParens(unaryPrecedence, parentPrec, isRightChild, false) {
			return "(" + text + ")"
		}
		return text

	case *ast.BinaryNode:
		prec := precedenceOf(n.Operator)
		left := render(n.Left, prec, false)
		right := render(n.Right, prec, true)
		text := left + n.Operator + right

		nonAssociative := n.Operator == "-" || n.Operator == "/"
		if needsParens(prec, parentPrec, isRightChild, nonAssociative) {
			return "(" + text + ")"
		}
		return text

	default:
		return ""
	}
}

func needsParens(ownPrec, parentPrec int, isRightChild, nonAssociative bool) bool {
	if ownPrec < parentPrec {
		return true
	}
	return ownPrec == parentPrec && isRightChild && nonAssociative
}
