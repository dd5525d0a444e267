package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/cellsheet/cell"
	"github.com/mpetrenko/cellsheet/cellvalue"
	"github.com/mpetrenko/cellsheet/internal/mocks"
	"github.com/mpetrenko/cellsheet/position"
)

func TestEmptyCell(t *testing.T) {
	c := cell.New(mocks.NewSource(t))

	assert.True(t, c.IsEmpty())
	assert.Equal(t, "", c.GetText())
	assert.Equal(t, cellvalue.Number(0), c.GetValue())
	assert.Nil(t, c.ReferencedCells())
}

func TestSetEmptyTextBecomesEmpty(t *testing.T) {
	c := cell.New(mocks.NewSource(t))
	require.NoError(t, c.Set("hello"))
	require.NoError(t, c.Set(""))
	assert.True(t, c.IsEmpty())
}

func TestTextCell(t *testing.T) {
	c := cell.New(mocks.NewSource(t))
	require.NoError(t, c.Set("hello"))

	assert.False(t, c.IsEmpty())
	assert.Equal(t, "hello", c.GetText())
	assert.Equal(t, cellvalue.Text("hello"), c.GetValue())
}

func TestTextCellEscape(t *testing.T) {
	c := cell.New(mocks.NewSource(t))
	require.NoError(t, c.Set("'hello"))

	assert.Equal(t, "'hello", c.GetText())
	assert.Equal(t, cellvalue.Text("hello"), c.GetValue())
}

func TestSingleEqualsIsText(t *testing.T) {
	c := cell.New(mocks.NewSource(t))
	require.NoError(t, c.Set("="))

	assert.Equal(t, "=", c.GetText())
	assert.Equal(t, cellvalue.Text("="), c.GetValue())
}

func TestFormulaCell(t *testing.T) {
	source := mocks.NewSource(t)
	c := cell.New(source)
	require.NoError(t, c.Set("=1+2*3"))

	assert.Equal(t, "=1+2*3", c.GetText())
	assert.Equal(t, []position.Position{}, append([]position.Position{}, c.ReferencedCells()...))
	assert.Equal(t, cellvalue.Number(7), c.GetValue())
}

func TestFormulaCellCachesAndInvalidates(t *testing.T) {
	source := mocks.NewSource(t)
	a1 := position.New(0, 0)
	source.On("Value", a1).Return(cellvalue.Number(10)).Once()

	c := cell.New(source)
	require.NoError(t, c.Set("=A1+5"))

	v1 := c.GetValue()
	v2 := c.GetValue() // must come from cache, not call Value again
	assert.Equal(t, cellvalue.Number(15), v1)
	assert.Equal(t, v1, v2)

	c.InvalidateCache()
	source.On("Value", a1).Return(cellvalue.Number(20)).Once()
	v3 := c.GetValue()
	assert.Equal(t, cellvalue.Number(25), v3)
}

func TestFormulaCellReferencedCells(t *testing.T) {
	source := mocks.NewSource(t)
	c := cell.New(source)
	require.NoError(t, c.Set("=A1+B2"))

	assert.Equal(t, []position.Position{
		position.New(0, 0),
		position.New(1, 1),
	}, c.ReferencedCells())
}

func TestSetInvalidFormulaLeavesCellUntouched(t *testing.T) {
	c := cell.New(mocks.NewSource(t))
	require.NoError(t, c.Set("10"))

	err := c.Set("=ZZ99999")
	require.Error(t, err)

	assert.Equal(t, "10", c.GetText())
	assert.Equal(t, cellvalue.Text("10"), c.GetValue())
}

func TestClear(t *testing.T) {
	c := cell.New(mocks.NewSource(t))
	require.NoError(t, c.Set("=1+1"))
	c.Clear()
	assert.True(t, c.IsEmpty())
}
