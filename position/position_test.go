package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/cellsheet/position"
)

func TestParseAndString(t *testing.T) {
	cases := []struct {
		text string
		row  int
		col  int
	}{
		{"A1", 0, 0},
		{"B1", 0, 1},
		{"Z1", 0, 25},
		{"AA1", 0, 26},
		{"AB1", 0, 27},
		{"ZZ1", 0, 701},
		{"A2", 1, 0},
		{"A10", 9, 0},
	}

	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			p, ok := position.Parse(c.text)
			require.True(t, ok)
			assert.Equal(t, c.row, p.Row)
			assert.Equal(t, c.col, p.Col)
			assert.Equal(t, c.text, p.String())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", "1A", "a1", "A0", "A01", "A", "1", " A1", "A1 ", "A-1"}

	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			p, ok := position.Parse(text)
			assert.False(t, ok)
			assert.Equal(t, position.Invalid, p)
		})
	}
}

func TestParseOutOfBounds(t *testing.T) {
	_, ok := position.Parse("A100000")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	for _, p := range []position.Position{
		position.New(0, 0),
		position.New(9999, 0),
		position.New(0, 16383),
		position.New(5, 700),
	} {
		if !p.Valid() {
			continue
		}
		text := p.String()
		parsed, ok := position.Parse(text)
		require.True(t, ok)
		assert.Equal(t, p, parsed)
	}
}

func TestOrdering(t *testing.T) {
	a1 := position.New(0, 0)
	a2 := position.New(1, 0)
	b1 := position.New(0, 1)

	assert.True(t, a1.Less(b1))
	assert.True(t, b1.Less(a2))
	assert.Equal(t, -1, a1.Compare(b1))
	assert.Equal(t, 0, a1.Compare(a1))
	assert.Equal(t, 1, b1.Compare(a1))
}

func TestValid(t *testing.T) {
	assert.True(t, position.New(0, 0).Valid())
	assert.False(t, position.New(-1, 0).Valid())
	assert.False(t, position.New(0, -1).Valid())
	assert.False(t, position.New(position.MaxRows, 0).Valid())
	assert.False(t, position.New(0, position.MaxCols).Valid())
	assert.False(t, position.Invalid.Valid())
}
