package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListMode_NumbersSequentially(t *testing.T) {
	e := newEngine(t, "first second third fourth")

	e.ApplySymbol(ListSymbol, false)
	assert.True(t, e.InListMode())
	for i := 1; i <= 2; i++ {
		e.Tap(wordAt(e, i).ID)
		e.ApplySymbol(ListSymbol, false)
	}

	assert.Equal(t, []string{"L1"}, wordAt(e, 0).Symbols())
	assert.Equal(t, []string{"L2"}, wordAt(e, 1).Symbols())
	assert.Equal(t, []string{"L3"}, wordAt(e, 2).Symbols())
	assert.Equal(t, "L4", e.NextListSymbol())
}

func TestListMode_OtherSymbolExits(t *testing.T) {
	e := newEngine(t, "a b c")
	e.ApplySymbol(ListSymbol, false)
	e.Tap(wordAt(e, 1).ID)
	e.ApplySymbol("↑", true)

	assert.False(t, e.InListMode())
	assert.Equal(t, []string{"↑"}, wordAt(e, 1).Symbols())

	// Re-entering restarts at L1.
	e.Tap(wordAt(e, 2).ID)
	e.ApplySymbol(ListSymbol, false)
	assert.Equal(t, []string{"L1"}, wordAt(e, 2).Symbols())
}

func TestListMode_OverwritesExisting(t *testing.T) {
	e := newEngine(t, "a")
	e.AddAnnotation("●", false)
	e.ApplySymbol(ListSymbol, true)
	assert.Equal(t, []string{"L1"}, wordAt(e, 0).Symbols())
}

func TestApplyListAnnotation_OutsideListMode(t *testing.T) {
	e := newEngine(t, "one two three")
	e.ApplyListAnnotation()
	assert.Equal(t, []string{"L1"}, wordAt(e, 0).Symbols())
	assert.False(t, e.InListMode())

	e.Tap(wordAt(e, 1).ID)
	e.ApplyListAnnotation()
	assert.Equal(t, []string{"L2"}, wordAt(e, 1).Symbols())
}

func TestEscape(t *testing.T) {
	e := newEngine(t, "a b c")
	e.ModifySelection(Right)
	e.EnterListMode()

	e.Escape()
	assert.False(t, e.InListMode())
	assert.Equal(t, 2, e.SelectionLen(), "first escape only leaves list mode")

	e.Escape()
	assert.Equal(t, 1, e.SelectionLen())
}

func TestApplySymbol_Append(t *testing.T) {
	e := newEngine(t, "a")
	e.ApplySymbol("↑", false)
	e.ApplySymbol("_", true)
	assert.Equal(t, []string{"↑", "_"}, wordAt(e, 0).Symbols())
}
