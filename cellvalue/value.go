// Package cellvalue defines the tagged CellValue result type shared by
// formulas, cells, and sheets: a computed cell is always exactly one of a
// number, a string, or an evaluation error.
package cellvalue

import "strconv"

// ErrorKind enumerates the evaluation-time errors a formula can surface.
type ErrorKind int

const (
	// None is not a real error; it exists so the zero ErrorKind is not
	// mistaken for Ref.
	None ErrorKind = iota
	// Ref marks a reference to a position outside the sheet's bounds.
	Ref
	// Value marks an arithmetic operation on text that isn't numeric.
	Value
	// Div0 marks division by zero or a non-finite result.
	Div0
)

// String renders the error the way a spreadsheet cell displays it.
func (k ErrorKind) String() string {
	switch k {
	case Ref:
		return "#REF!"
	case Value:
		return "#VALUE!"
	case Div0:
		return "#DIV/0!"
	default:
		return ""
	}
}

// kind tags which field of CellValue is populated.
type kind int

const (
	kindNumber kind = iota
	kindText
	kindError
)

// CellValue is the tagged three-way result of reading a cell: Number(f64),
// Text(string), or Error(ErrorKind). The zero CellValue is Number(0).
type CellValue struct {
	kind   kind
	number float64
	text   string
	err    ErrorKind
}

// Number builds a numeric CellValue.
func Number(n float64) CellValue { return CellValue{kind: kindNumber, number: n} }

// Text builds a string CellValue.
func Text(s string) CellValue { return CellValue{kind: kindText, text: s} }

// Error builds an error CellValue.
func Error(k ErrorKind) CellValue { return CellValue{kind: kindError, err: k} }

// IsNumber, IsText, and IsError report which alternative is populated.
func (v CellValue) IsNumber() bool { return v.kind == kindNumber }
func (v CellValue) IsText() bool   { return v.kind == kindText }
func (v CellValue) IsError() bool  { return v.kind == kindError }

// NumberValue returns the numeric payload; it is only meaningful when IsNumber.
func (v CellValue) NumberValue() float64 { return v.number }

// TextValue returns the string payload; it is only meaningful when IsText.
func (v CellValue) TextValue() string { return v.text }

// ErrorKind returns the error payload; it is only meaningful when IsError.
func (v CellValue) ErrorKind() ErrorKind { return v.err }

// String renders the value the way print_values does: numbers in Go's
// default float formatting, strings verbatim, errors as #REF!/#VALUE!/#DIV/0!.
func (v CellValue) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case kindText:
		return v.text
	case kindError:
		return v.err.String()
	default:
		return ""
	}
}
