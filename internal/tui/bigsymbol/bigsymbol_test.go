package bigsymbol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_BundledFont(t *testing.T) {
	require.True(t, Available(), "the bundled Go font always loads")

	out := Render("L1", 12, 6)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 12, len([]rune(l)))
	}
	assert.True(t, strings.ContainsAny(out, "█▀▄"), "glyph has ink")
}

func TestRender_Degenerate(t *testing.T) {
	assert.Empty(t, Render("", 10, 5))
	assert.Empty(t, Render("x", 0, 5))
	assert.Empty(t, Render("x", 10, 0))
}

func TestCached(t *testing.T) {
	first := Cached("_", 8, 4)
	assert.Equal(t, Render("_", 8, 4), first)
	assert.Equal(t, first, Cached("_", 8, 4))
}
