package sheet

import (
	"sort"

	"github.com/bytedance/sonic"

	"github.com/mpetrenko/cellsheet/position"
)

// CellSnapshot is one non-empty cell's exported state.
type CellSnapshot struct {
	Position string `json:"position"`
	Text     string `json:"text"`
	Value    string `json:"value"`
}

// Snapshot is a point-in-time, JSON-serializable rendering of a Sheet —
// an in-memory supplement to PrintValues/PrintTexts for callers that
// want structured output (a log line, an event payload) rather than a
// tab-separated grid. Cells are listed in Position order (row, then
// column).
type Snapshot struct {
	Rows  int            `json:"rows"`
	Cols  int            `json:"cols"`
	Cells []CellSnapshot `json:"cells"`
}

// Snapshot renders the sheet's non-empty cells to JSON using
// bytedance/sonic, the same JSON library the teacher uses for its API
// responses and webhook payloads — here used purely for in-memory
// marshaling, never sent over a network.
func (s *Sheet) Snapshot() ([]byte, error) {
	rows, cols := s.GetPrintableSize()
	snap := Snapshot{Rows: rows, Cols: cols}

	for pos, c := range s.cells {
		if c.GetText() == "" {
			continue
		}
		snap.Cells = append(snap.Cells, CellSnapshot{
			Position: pos.String(),
			Text:     c.GetText(),
			Value:    c.GetValue().String(),
		})
	}

	sort.Slice(snap.Cells, func(i, j int) bool {
		pi, _ := position.Parse(snap.Cells[i].Position)
		pj, _ := position.Parse(snap.Cells[j].Position)
		return pi.Less(pj)
	})

	return sonic.Marshal(snap)
}
