// Package cell implements a single grid entry: the Empty/Text/Formula
// tagged content described in spec.md §3-§4.3, its cached evaluated
// value, and the positions its formula (if any) references.
package cell

import (
	"github.com/mpetrenko/cellsheet/cellvalue"
	"github.com/mpetrenko/cellsheet/formula"
	"github.com/mpetrenko/cellsheet/position"
)

// FormulaSign marks the start of formula text passed to Set.
const FormulaSign = '='

// EscapeSign, when it leads Text content, is stripped from GetValue but
// kept in GetText — the usual spreadsheet trick for forcing text that
// would otherwise look numeric or formula-like to stay text.
const EscapeSign = '\''

// Source resolves another cell's computed value during formula
// evaluation. A Sheet implements this and passes
// itself to every Cell it owns; a Cell never holds a direct pointer to
// another Cell; only to the Source it reads through, matching spec.md
// §5's "indices, never ownership pointers" rule for the reference graph.
type Source interface {
	Value(position.Position) cellvalue.CellValue
}

// Reader is the read-only view of a Cell that Sheet.GetCell hands out.
// It deliberately omits Set/Clear so a caller can never mutate a cell
// outside of Sheet.SetCell/ClearCell.
type Reader interface {
	IsEmpty() bool
	GetText() string
	GetValue() cellvalue.CellValue
	ReferencedCells() []position.Position
}

type variant int

const (
	empty variant = iota
	text
	formulaVariant
)

// Cell is a single grid entry. The zero value is not usable; construct
// one with New.
type Cell struct {
	source Source

	kind    variant
	raw     string // verbatim text for the Text variant
	formula *formula.Formula
	cached  *cellvalue.CellValue
}

// New returns an Empty cell bound to source, the Sheet it will read
// through when evaluating a formula.
func New(source Source) *Cell {
	return &Cell{source: source, kind: empty}
}

// Set replaces the cell's content following spec.md §4.3:
//
//	text == ""                      -> Empty
//	text[0] == '=' and len(text) > 1 -> Formula, parsed from text[1:]
//	otherwise                       -> Text, stored verbatim
//
// A malformed formula (including one naming an out-of-bounds position)
// leaves the cell untouched and returns the underlying *formula.ParseError.
func (c *Cell) Set(text string) error {
	switch {
	case text == "":
		c.becomeEmpty()
		return nil

	case len(text) > 1 && text[0] == FormulaSign:
		f, err := formula.Parse(text[1:])
		if err != nil {
			return err
		}
		c.becomeFormula(f)
		return nil

	default:
		c.becomeText(text)
		return nil
	}
}

// Clear replaces the cell's content with Empty.
func (c *Cell) Clear() {
	c.becomeEmpty()
}

func (c *Cell) becomeEmpty() {
	c.kind = empty
	c.raw = ""
	c.formula = nil
	c.cached = nil
}

func (c *Cell) becomeText(raw string) {
	c.kind = text
	c.raw = raw
	c.formula = nil
	c.cached = nil
}

func (c *Cell) becomeFormula(f *formula.Formula) {
	c.kind = formulaVariant
	c.raw = ""
	c.formula = f
	c.cached = nil
}

// IsEmpty reports whether the content is the Empty variant.
func (c *Cell) IsEmpty() bool {
	return c.kind == empty
}

// GetText returns the cell's source text: "" for Empty, the verbatim
// stored string (escape included) for Text, and "=" plus the formula's
// canonical expression for Formula.
func (c *Cell) GetText() string {
	switch c.kind {
	case text:
		return c.raw
	case formulaVariant:
		return string(FormulaSign) + c.formula.Expression()
	default:
		return ""
	}
}

// GetValue returns the cell's computed value. Text strips a leading
// escape sign; Formula returns the cached value if one is still valid,
// otherwise evaluates (through source) and caches the result.
func (c *Cell) GetValue() cellvalue.CellValue {
	switch c.kind {
	case text:
		if len(c.raw) > 0 && c.raw[0] == EscapeSign {
			return cellvalue.Text(c.raw[1:])
		}
		return cellvalue.Text(c.raw)

	case formulaVariant:
		if c.cached == nil {
			v := c.formula.Evaluate(c.source.Value)
			c.cached = &v
		}
		return *c.cached

	default:
		return cellvalue.Number(0)
	}
}

// ReferencedCells forwards to the formula's referenced positions, or
// returns nil for Empty and Text content.
func (c *Cell) ReferencedCells() []position.Position {
	if c.kind != formulaVariant {
		return nil
	}
	return c.formula.ReferencedCells()
}

// InvalidateCache discards a cached Formula value so the next GetValue
// re-evaluates. It is a no-op for Empty and Text content, which have no
// cache to begin with.
func (c *Cell) InvalidateCache() {
	c.cached = nil
}
