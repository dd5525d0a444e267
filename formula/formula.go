// Package formula is the grammar collaborator spec.md §4.2 calls for: it
// parses arithmetic formula text into an evaluable, re-printable AST and
// reports the cell positions the formula names.
//
// Parsing itself is delegated to github.com/expr-lang/expr's lexer and
// parser (the teacher already leans on this library for its own
// expression engine); this package restricts the resulting AST to the
// arithmetic subset the grammar promises — literals, + - * /, unary sign,
// parentheses, and cell identifiers — and owns evaluation, reference
// extraction, and canonical printing itself so that spreadsheet-specific
// coercion and error semantics never leak into a general-purpose
// expression VM.
package formula

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/mpetrenko/cellsheet/cellvalue"
	"github.com/mpetrenko/cellsheet/position"
)

// Lookup resolves a cell reference to its already-computed value. Sheet
// supplies this during evaluation; it never returns an error itself —
// an absent or empty cell simply yields cellvalue.Number(0), per
// spec.md §4.3's formula-cell coercion rules.
type Lookup func(position.Position) cellvalue.CellValue

// Formula is a parsed arithmetic expression, ready to be evaluated
// against a Lookup, printed back to canonical text, or queried for the
// cells it references.
type Formula struct {
	root ast.Node
	refs []position.Position
}

// Parse builds a Formula from the text following a leading '='. The
// grammar accepts integer and decimal literals, +, -, *, /, unary +/-,
// parentheses, and A1-style cell identifiers; anything else — including
// an identifier that isn't a valid in-bounds Position — is a ParseError.
func Parse(expression string) (*Formula, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, &ParseError{Expression: expression, Err: err}
	}

	var refs []position.Position
	if err := validate(tree.Node, &refs); err != nil {
		return nil, &ParseError{Expression: expression, Err: err}
	}

	return &Formula{root: tree.Node, refs: sortUnique(refs)}, nil
}

// validate walks the AST depth-first, rejecting any node the arithmetic
// grammar doesn't allow and collecting every cell reference it finds.
func validate(node ast.Node, refs *[]position.Position) error {
	switch n := node.(type) {
	case *ast.IntegerNode, *ast.FloatNode:
		return nil

	case *ast.UnaryNode:
		if n.Operator != "+" && n.Operator != "-" {
			return fmt.Errorf("unsupported unary operator %q", n.Operator)
		}
		return validate(n.Node, refs)

	case *ast.BinaryNode:
		switch n.Operator {
		case "+", "-", "*", "/":
		default:
			return fmt.Errorf("unsupported operator %q", n.Operator)
		}
		if err := validate(n.Left, refs); err != nil {
			return err
		}
		return validate(n.Right, refs)

	case *ast.IdentifierNode:
		pos, ok := position.Parse(n.Value)
		if !ok {
			return fmt.Errorf("%q is not a valid cell reference", n.Value)
		}
		*refs = append(*refs, pos)
		return nil

	default:
		return fmt.Errorf("unsupported expression syntax: %T", node)
	}
}

func sortUnique(refs []position.Position) []position.Position {
	if len(refs) == 0 {
		return nil
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })

	unique := refs[:1]
	for _, p := range refs[1:] {
		if p != unique[len(unique)-1] {
			unique = append(unique, p)
		}
	}
	return unique
}

// ReferencedCells returns the sorted, deduplicated set of positions named
// in the formula's text.
func (f *Formula) ReferencedCells() []position.Position {
	return f.refs
}

// Expression renders the formula back to its canonical text, with
// parentheses only where operator precedence requires them.
func (f *Formula) Expression() string {
	return render(f.root, 0, false)
}

// Evaluate walks the AST, resolving each cell reference through lookup
// and coercing it to a float as described in spec.md §4.3. The first
// ErrorKind encountered during evaluation wins and is returned as-is;
// division by zero or a non-finite result yields Div0.
func (f *Formula) Evaluate(lookup Lookup) cellvalue.CellValue {
	n, kind := eval(f.root, lookup)
	if kind != cellvalue.None {
		return cellvalue.Error(kind)
	}
	return cellvalue.Number(n)
}

func eval(node ast.Node, lookup Lookup) (float64, cellvalue.ErrorKind) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return float64(n.Value), cellvalue.None

	case *ast.FloatNode:
		return n.Value, cellvalue.None

	case *ast.UnaryNode:
		v, kind := eval(n.Node, lookup)
		if kind != cellvalue.None {
			return 0, kind
		}
		if n.Operator == "-" {
			return -v, cellvalue.None
		}
		return v, cellvalue.None

	case *ast.BinaryNode:
		left, kind := eval(n.Left, lookup)
		if kind != cellvalue.None {
			return 0, kind
		}
		right, kind := eval(n.Right, lookup)
		if kind != cellvalue.None {
			return 0, kind
		}
		return applyBinary(n.Operator, left, right)

	case *ast.IdentifierNode:
		pos, _ := position.Parse(n.Value) // validated during Parse
		return coerce(lookup(pos))

	default:
		return 0, cellvalue.Value
	}
}

func applyBinary(operator string, left, right float64) (float64, cellvalue.ErrorKind) {
	switch operator {
	case "+":
		return left + right, cellvalue.None
	case "-":
		return left - right, cellvalue.None
	case "*":
		return left * right, cellvalue.None
	case "/":
		if right == 0 {
			return 0, cellvalue.Div0
		}
		result := left / right
		if math.IsInf(result, 0) || math.IsNaN(result) {
			return 0, cellvalue.Div0
		}
		return result, cellvalue.None
	default:
		return 0, cellvalue.Value
	}
}

// coerce implements the formula-cell coercion rules of spec.md §4.3: a
// Number contributes itself, Text is parsed whole-string as a float or
// yields Value, and an Error propagates its own kind unchanged.
func coerce(v cellvalue.CellValue) (float64, cellvalue.ErrorKind) {
	switch {
	case v.IsNumber():
		return v.NumberValue(), cellvalue.None
	case v.IsText():
		f, err := strconv.ParseFloat(v.TextValue(), 64)
		if err != nil {
			return 0, cellvalue.Value
		}
		return f, cellvalue.None
	default:
		return 0, v.ErrorKind()
	}
}
