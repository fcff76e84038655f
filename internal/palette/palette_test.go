package palette

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/f3rmion/promptscore/internal/score"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	c := New(nil, nil)

	e, ok := c.ByShortcut('h')
	require.True(t, ok)
	assert.Equal(t, "↑", e.Symbol)
	assert.True(t, e.Builtin)

	e, ok = c.ByShortcut('T')
	require.True(t, ok, "shift does not change the symbol")
	assert.Equal(t, "L", e.Symbol)

	e, ok = c.BySymbol("○")
	require.True(t, ok)
	assert.Equal(t, "Low emphasis", e.Description)

	_, ok = c.ByShortcut('z')
	assert.False(t, ok)
	assert.Len(t, c.Entries(), 9)
	assert.Empty(t, c.Custom())
}

func TestNew_BuiltinsWinConflicts(t *testing.T) {
	c := New([]Entry{
		{Symbol: "↑", Description: "shadow"},
		{Symbol: "~", Description: "Wobble", Shortcut: "H"},
		{Symbol: "!", Description: "Punch", Shortcut: "x"},
		{Symbol: "", Description: "blank"},
	}, nil)

	custom := c.Custom()
	require.Len(t, custom, 2)
	assert.Equal(t, "", custom[0].Shortcut, "clashing shortcut cleared")
	assert.Equal(t, "x", custom[1].Shortcut)

	e, _ := c.ByShortcut('h')
	assert.Equal(t, "↑", e.Symbol)
	e, _ = c.BySymbol("↑")
	assert.Equal(t, "High pitch", e.Description)
}

func TestAdd(t *testing.T) {
	c := New(nil, nil)

	require.NoError(t, c.Add(Entry{Symbol: " ~ ", Description: "Wobble", Shortcut: "B"}))
	e, ok := c.ByShortcut('b')
	require.True(t, ok)
	assert.Equal(t, "~", e.Symbol)
	assert.False(t, e.Builtin)

	assert.ErrorIs(t, c.Add(Entry{Symbol: ""}), ErrEmptySymbol)
	assert.ErrorIs(t, c.Add(Entry{Symbol: "~"}), ErrDuplicateSymbol)
	assert.ErrorIs(t, c.Add(Entry{Symbol: "^", Shortcut: "e"}), ErrDuplicateShortcut)
	assert.ErrorIs(t, c.Add(Entry{Symbol: "^", Shortcut: "ab"}), ErrInvalidShortcut)
	assert.NoError(t, c.Add(Entry{Symbol: "^"}), "shortcut is optional")
}

func TestUpdateAndRemove(t *testing.T) {
	c := New([]Entry{{Symbol: "~", Description: "Wobble", Shortcut: "b"}}, nil)

	require.NoError(t, c.Update("~", Entry{Symbol: "~", Description: "Vibrato", Shortcut: "b"}))
	e, _ := c.BySymbol("~")
	assert.Equal(t, "Vibrato", e.Description)

	assert.ErrorIs(t, c.Update("↑", Entry{Symbol: "↑"}), ErrBuiltin)
	assert.ErrorIs(t, c.Update("?", Entry{Symbol: "?"}), ErrUnknownSymbol)
	assert.ErrorIs(t, c.Remove("L"), ErrBuiltin)

	require.NoError(t, c.Remove("~"))
	_, ok := c.BySymbol("~")
	assert.False(t, ok)
	assert.ErrorIs(t, c.Remove("~"), ErrUnknownSymbol)
}

func TestShortcuts(t *testing.T) {
	c := New([]Entry{{Symbol: "~"}}, nil)
	m := c.Shortcuts()
	assert.Equal(t, "h", m["↑"])
	assert.Equal(t, "t", m["L"])
	_, ok := m["~"]
	assert.False(t, ok)
}

func TestColors(t *testing.T) {
	c := New(nil, nil)
	c.AddColor(score.CustomColor{DisplayName: "Teal", Color: score.RGB{Green: 0.5, Blue: 0.5}})
	cols := c.Colors()
	require.Len(t, cols, 1)
	assert.NotEqual(t, uuid.Nil, cols[0].ID)

	assert.ErrorIs(t, c.RemoveColor(uuid.New()), ErrUnknownColor)
	require.NoError(t, c.RemoveColor(cols[0].ID))
	assert.Empty(t, c.Colors())
}

func TestLoadSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "palette.yaml")

	c := New(nil, nil)
	require.NoError(t, c.Add(Entry{Symbol: "~", Description: "Wobble", Shortcut: "b"}))
	c.AddColor(score.NewCustomColor(0.1, 0.2, 0.3, "Slate"))
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Entries(), loaded.Entries())
	assert.Equal(t, c.Colors(), loaded.Colors())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "High pitch", "built-ins are not written")
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Entries(), len(builtins))
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: [:"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing palette file")
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: []\n"), 0644))

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("symbols: []\ncolors: []\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification")
	}

	select {
	case <-onChange:
		t.Fatal("burst should produce one notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palette.yaml")
	other := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(other, []byte("a: 1"), 0644))

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(other, []byte("a: 2"), 0644))

	select {
	case <-onChange:
		t.Fatal("unrelated file triggered reload")
	case <-time.After(100 * time.Millisecond):
	}
}
