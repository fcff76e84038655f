package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/promptscore/internal/audio"
	"github.com/f3rmion/promptscore/internal/config"
	"github.com/f3rmion/promptscore/internal/editor"
	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/f3rmion/promptscore/internal/store"
	"github.com/f3rmion/promptscore/internal/tui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app    AppModel
	engine *editor.Engine
	store  *store.Store
	config *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults(dir)
	st, err := store.Open(cfg.DatabasePath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	e := editor.New()
	app := NewApp(Deps{
		Config:     &cfg,
		ConfigFile: filepath.Join(dir, config.FileName),
		Engine:     e,
		Store:      st,
		Audio:      audio.NewLibrary(cfg.AudioDir()),
		Catalog:    palette.New(nil, nil),
	})
	h := &harness{app: app, engine: e, store: st, config: &cfg}
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send delivers msg and then every message its commands produce, the way
// the runtime would. Commands that block, like status timers, are dropped.
func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		model, cmd := h.app.Update(next)
		h.app = model.(AppModel)
		queue = append(queue, run(cmd)...)
	}
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, run(c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewApp_StartsOnImportWithoutScript(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ViewImport, h.app.currentView)
	assert.Contains(t, h.app.View(), "Import Text")
}

func TestImport_SavesAndOpensEditor(t *testing.T) {
	h := newHarness(t)

	h.send(t, views.ImportTextMsg{Text: "Speak up now.\n\nThen rest.", Title: "Keynote"})

	require.True(t, h.engine.HasScript())
	assert.Equal(t, ViewEditor, h.app.currentView)
	assert.Equal(t, "Keynote", h.engine.Script().Title)
	assert.False(t, h.app.editorView.Dirty())

	summaries, err := h.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Keynote", summaries[0].Title)
	assert.Equal(t, 5, summaries[0].Words)
}

func TestEditorKeys_ReachEngine(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "One two three."})

	h.send(t, tea.KeyMsg{Type: tea.KeyRight})
	h.send(t, key('q'))

	w := h.engine.Index().At(1)
	assert.Equal(t, []string{`""`}, w.Symbols(), "q is a palette shortcut in the editor")
	assert.True(t, h.app.editorView.Dirty())
}

func TestSave_ClearsDirtyAndPersists(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "One two three."})
	h.send(t, key('h'))
	require.True(t, h.app.editorView.Dirty())

	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, h.app.editorView.Dirty())

	loaded, err := h.store.Load(context.Background(), h.engine.Script().ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"↑"}, loaded.Paragraphs[0].Sentences[0].Words[0].Symbols())
}

func TestLibrary_OpenScript(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "First script.", Title: "First"})
	first := h.engine.Script().ID
	h.send(t, views.ImportTextMsg{Text: "Second script.", Title: "Second"})

	h.send(t, tea.KeyMsg{Type: tea.KeyF3})
	require.Equal(t, ViewLibrary, h.app.currentView)
	assert.Contains(t, h.app.View(), "First")

	h.send(t, views.OpenScriptMsg{ID: first})
	assert.Equal(t, ViewEditor, h.app.currentView)
	assert.Equal(t, first, h.engine.Script().ID)
	assert.Equal(t, "First", h.engine.Script().Title)
}

func TestSidebar_SwitchesViews(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "Words here."})

	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlW})
	require.True(t, h.app.sidebarActive)

	h.send(t, key('4'))
	assert.Equal(t, ViewPalette, h.app.currentView)
	assert.False(t, h.app.sidebarActive)
	assert.Contains(t, h.app.View(), "Symbol Palette")

	h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, h.app.sidebarActive)

	h.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewPalette, h.app.currentView)
}

func TestHelp_OpensAndCloses(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "Words here."})

	h.send(t, key('?'))
	require.True(t, h.app.showHelp)
	assert.Contains(t, h.app.View(), "High pitch")

	h.send(t, key('h'))
	assert.False(t, h.app.showHelp)
	assert.Empty(t, h.engine.Index().At(0).Annotations, "closing key is swallowed")
}

func TestPaletteReload_UpdatesShortcuts(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "Words here."})

	c := palette.New([]palette.Entry{{Symbol: "✶", Description: "Sparkle", Shortcut: "z"}}, nil)
	require.NoError(t, palette.Save(h.config.PaletteFile, c))
	h.send(t, paletteChangedMsg{})

	h.send(t, key('z'))
	assert.Equal(t, []string{"✶"}, h.engine.Index().At(0).Symbols())
}

func TestPaletteEdit_WritesFile(t *testing.T) {
	h := newHarness(t)
	h.send(t, tea.KeyMsg{Type: tea.KeyF4})

	h.send(t, key('a'))
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("★")})
	h.send(t, tea.KeyMsg{Type: tea.KeyTab})
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Star")})
	h.send(t, tea.KeyMsg{Type: tea.KeyTab})
	h.send(t, key('s'))
	h.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	loaded, err := palette.Load(h.config.PaletteFile)
	require.NoError(t, err)
	e, ok := loaded.BySymbol("★")
	require.True(t, ok)
	assert.Equal(t, "Star", e.Description)
	assert.Equal(t, "s", e.Shortcut)
}

func TestAttachAudio_CopiesAndReferences(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "One. Two."})
	src := filepath.Join(t.TempDir(), "take.wav")
	require.NoError(t, os.WriteFile(src, []byte("riff"), 0644))

	sent := h.engine.CurrentSentence()
	h.send(t, views.AttachAudioRequestMsg{SentenceID: sent.ID, Path: src})

	sent = h.engine.CurrentSentence()
	require.True(t, sent.HasAudio())
	lib := audio.NewLibrary(h.config.AudioDir())
	assert.True(t, lib.Exists(*sent.AudioClip))
	assert.False(t, h.app.editorView.Dirty(), "attaching saves the script")

	stored, err := h.store.Load(context.Background(), h.engine.Script().ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Paragraphs[0].Sentences[0].AudioClip)
	assert.Equal(t, *sent.AudioClip, *stored.Paragraphs[0].Sentences[0].AudioClip)

	h.send(t, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, h.engine.CurrentSentence().HasAudio())
	assert.False(t, lib.Exists(audio.HandleFor(sent.ID, ".wav")))
}

func TestAttachAudio_FailedSaveKeepsEarlierRecording(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "One. Two."})
	sent := h.engine.CurrentSentence()
	lib := audio.NewLibrary(h.config.AudioDir())

	first := filepath.Join(t.TempDir(), "take1.m4a")
	require.NoError(t, os.WriteFile(first, []byte("take one"), 0644))
	h.send(t, views.AttachAudioRequestMsg{SentenceID: sent.ID, Path: first})
	handle := audio.HandleFor(sent.ID, ".m4a")
	require.True(t, lib.Exists(handle))

	require.NoError(t, h.store.Close())
	second := filepath.Join(t.TempDir(), "take2.m4a")
	require.NoError(t, os.WriteFile(second, []byte("take two"), 0644))
	h.send(t, views.AttachAudioRequestMsg{SentenceID: sent.ID, Path: second})

	assert.Contains(t, h.app.View(), "Save failed")
	data, err := os.ReadFile(lib.Path(handle))
	require.NoError(t, err)
	assert.Equal(t, "take one", string(data), "stored script still points at the first take")
	assert.Len(t, h.app.staged, 1, "new take waits for a successful save")
}

func TestAttachAudio_MissingFileReportsError(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "One."})

	h.send(t, views.AttachAudioRequestMsg{SentenceID: h.engine.CurrentSentence().ID, Path: "/nope/take.m4a"})
	assert.False(t, h.engine.CurrentSentence().HasAudio())
	assert.Contains(t, h.app.View(), "audio source not found")
}

func TestSettings_AdjustAndSave(t *testing.T) {
	h := newHarness(t)
	h.send(t, views.ImportTextMsg{Text: "Words here."})
	h.send(t, tea.KeyMsg{Type: tea.KeyF5})
	require.Equal(t, ViewSettings, h.app.currentView)

	h.send(t, key('+'))
	assert.Equal(t, 76, h.config.Editor.WrapWidth, "editor sees the change live")

	h.send(t, key('s'))
	data, err := os.ReadFile(filepath.Join(filepath.Dir(h.config.PaletteFile), config.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "wrap_width: 76")
	assert.NotContains(t, h.app.View(), "Settings *")
}

func TestSettings_RejectsInvalidValues(t *testing.T) {
	h := newHarness(t)
	h.send(t, tea.KeyMsg{Type: tea.KeyF5})
	h.send(t, tea.KeyMsg{Type: tea.KeyTab})
	h.send(t, key('j'))
	h.send(t, key('j')) // padding

	for range 10 {
		h.send(t, key('+'))
	}
	assert.Less(t, h.config.Highlight.Padding*2, h.config.Layout.CellWidth)
	assert.Contains(t, h.app.View(), "highlight.padding")
}
