// Package sheet is the container described in spec.md §4.4: it maps
// positions to cells, owns the reverse-dependency graph, and is the
// single mutator and invalidator of the grid. Every mutation is
// validated, cycle-checked against a not-yet-installed candidate cell,
// and either commits in full or leaves the sheet bit-identical to its
// pre-call state — spec.md §5's synchronous, all-or-nothing contract.
package sheet

import (
	"fmt"
	"io"
	"sort"

	"github.com/mpetrenko/cellsheet/cell"
	"github.com/mpetrenko/cellsheet/cellvalue"
	"github.com/mpetrenko/cellsheet/notify"
	"github.com/mpetrenko/cellsheet/position"
)

// Sheet owns every Cell in the grid. The zero value is not usable;
// construct one with New.
type Sheet struct {
	cells   map[position.Position]*cell.Cell
	reverse *reverseIndex

	notifier *notify.Notifier
}

// New builds an empty Sheet.
func New(opts ...Option) *Sheet {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Sheet{
		cells:    make(map[position.Position]*cell.Cell),
		reverse:  newReverseIndex(),
		notifier: notify.New(cfg.notifyWorkers, cfg.notifyQueueSize),
	}
}

// Value implements cell.Source: a Cell's formula resolves its cell
// references through this method. A position with no stored cell
// resolves to Number(0), per spec.md §4.3 rule 1; a stored Empty cell
// already resolves to Number(0) on its own (rule 2).
func (s *Sheet) Value(pos position.Position) cellvalue.CellValue {
	c, ok := s.cells[pos]
	if !ok {
		return cellvalue.Number(0)
	}
	return c.GetValue()
}

// SetCell parses text into a candidate cell and installs it at pos,
// following spec.md §4.4:
//  1. reject an invalid pos
//  2. no-op if the stored text is already exactly text
//  3. reject a malformed formula without touching the sheet
//  4. reject a candidate that would create a reference cycle, again
//     without touching the sheet — the candidate is never installed
//     until after this check, so there is nothing to roll back
//  5. materialize any newly-referenced position as Empty
//  6. invalidate the cache of every cell that transitively depends on pos
//  7. install the candidate and update the reverse-dependency index
//
// It returns the freshly installed cell's value.
func (s *Sheet) SetCell(pos position.Position, text string) (cellvalue.CellValue, error) {
	if !pos.Valid() {
		return cellvalue.CellValue{}, ErrInvalidPosition
	}

	if existing, ok := s.cells[pos]; ok && existing.GetText() == text {
		return existing.GetValue(), nil
	}

	candidate := cell.New(s)
	if err := candidate.Set(text); err != nil {
		return cellvalue.CellValue{}, &FormulaError{Text: text, Err: err}
	}

	refs := candidate.ReferencedCells()
	if s.hasCycle(pos, refs) {
		return cellvalue.CellValue{}, fmt.Errorf("%s: %w", pos, ErrCircularDependency)
	}

	for _, ref := range refs {
		s.materialize(ref)
	}

	touched := s.invalidateDependants(pos)

	var oldRefs []position.Position
	if existing, ok := s.cells[pos]; ok {
		oldRefs = existing.ReferencedCells()
	}
	s.reverse.update(pos, oldRefs, refs)
	s.cells[pos] = candidate

	s.notifier.Enqueue(pos)
	for _, p := range touched {
		s.notifier.Enqueue(p)
	}

	return candidate.GetValue(), nil
}

// ClearCell removes the cell at pos, invalidating downstream caches
// first. Cells that referenced pos are left in place; they will read an
// Empty cell (value 0) the next time they are evaluated. Clearing an
// already-absent position is a no-op.
func (s *Sheet) ClearCell(pos position.Position) error {
	if !pos.Valid() {
		return ErrInvalidPosition
	}

	existing, ok := s.cells[pos]
	if !ok {
		return nil
	}

	touched := s.invalidateDependants(pos)

	s.reverse.remove(pos, existing.ReferencedCells())
	delete(s.cells, pos)

	s.notifier.Enqueue(pos)
	for _, p := range touched {
		s.notifier.Enqueue(p)
	}

	return nil
}

// GetCell returns a read-only view of the cell stored at pos, or a nil
// Reader if no cell is stored there or the stored cell is Empty (such as
// one materialized only because a formula references pos).
func (s *Sheet) GetCell(pos position.Position) (cell.Reader, error) {
	if !pos.Valid() {
		return nil, ErrInvalidPosition
	}

	c, ok := s.cells[pos]
	if !ok || c.IsEmpty() {
		return nil, nil
	}
	return c, nil
}

// materialize ensures pos has a stored (Empty, if newly created) cell,
// so printable size and downstream reads never have to special-case a
// referenced-but-never-set position.
func (s *Sheet) materialize(pos position.Position) {
	if _, ok := s.cells[pos]; ok {
		return
	}
	s.cells[pos] = cell.New(s)
}

// hasCycle runs a depth-first search from start, following each visited
// cell's own referenced positions, looking for target. Positions are
// visited in sorted order at each step so the search is deterministic.
// Edges beyond the current sheet state (a referenced position with no
// stored cell yet) simply have no outgoing edges to follow.
func (s *Sheet) hasCycle(target position.Position, start []position.Position) bool {
	visited := make(map[position.Position]bool)

	var visit func([]position.Position) bool
	visit = func(positions []position.Position) bool {
		for _, p := range sortedCopy(positions) {
			if p == target {
				return true
			}
			if visited[p] {
				continue
			}
			visited[p] = true

			c, ok := s.cells[p]
			if !ok {
				continue
			}
			if visit(c.ReferencedCells()) {
				return true
			}
		}
		return false
	}

	return visit(start)
}

// invalidateDependants runs a breadth-first search over the
// reverse-dependency graph starting at pos, clearing each visited
// Formula cell's cache exactly once, and returns every position it
// touched.
func (s *Sheet) invalidateDependants(pos position.Position) []position.Position {
	visited := make(map[position.Position]bool)
	queue := s.reverse.dependantsOf(pos)
	var touched []position.Position

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if visited[cur] {
			continue
		}
		visited[cur] = true
		touched = append(touched, cur)

		if c, ok := s.cells[cur]; ok {
			c.InvalidateCache()
		}
		queue = append(queue, s.reverse.dependantsOf(cur)...)
	}

	return touched
}

// GetPrintableSize returns the smallest rectangle, anchored at (0, 0),
// enclosing every position whose GetText() is non-empty. Positions
// materialized implicitly as Empty (via a formula reference) never
// enlarge it — the spec.md §9 Open Question this module resolves in
// favor of the smaller, "Empty never counts" rectangle.
func (s *Sheet) GetPrintableSize() (rows, cols int) {
	for pos, c := range s.cells {
		if c.GetText() == "" {
			continue
		}
		if pos.Row+1 > rows {
			rows = pos.Row + 1
		}
		if pos.Col+1 > cols {
			cols = pos.Col + 1
		}
	}
	return rows, cols
}

// PrintValues writes every row 0..rows-1, tab-separating columns
// 0..cols-1 and terminating each row with '\n'. Each cell renders its
// computed cellvalue.CellValue; an absent or Empty cell renders as "".
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.print(w, func(c *cell.Cell) string {
		if c == nil || c.IsEmpty() {
			return ""
		}
		return c.GetValue().String()
	})
}

// PrintTexts writes the sheet the same way PrintValues does, but
// renders each cell's GetText() instead of its computed value.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.print(w, func(c *cell.Cell) string {
		if c == nil {
			return ""
		}
		return c.GetText()
	})
}

func (s *Sheet) print(w io.Writer, render func(*cell.Cell) string) error {
	rows, cols := s.GetPrintableSize()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if col > 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, render(s.cells[position.New(row, col)])); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers fn to be called, asynchronously and on a worker
// goroutine, with every position written or invalidated by a future
// SetCell/ClearCell. See the notify package and SPEC_FULL.md's Notifier
// section for the delivery guarantees. The returned func cancels the
// subscription.
func (s *Sheet) Subscribe(fn func(position.Position)) (unsubscribe func()) {
	return s.notifier.Subscribe(fn)
}

// Close stops the sheet's background notification workers. It does not
// clear any cell state.
func (s *Sheet) Close() {
	s.notifier.Close()
}

func sortedCopy(positions []position.Position) []position.Position {
	out := make([]position.Position, len(positions))
	copy(out, positions)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
