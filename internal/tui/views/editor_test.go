package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/promptscore/internal/config"
	"github.com/f3rmion/promptscore/internal/editor"
	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T, text string) (EditorModel, *editor.Engine) {
	t.Helper()
	e := editor.New()
	e.ImportText(text)
	cfg := config.Defaults(t.TempDir())
	m := NewEditorModel(e, palette.New(nil, nil), &cfg)
	m.SetSize(120, 40)
	m.Loaded()
	return m, e
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(m EditorModel, keys ...tea.KeyMsg) EditorModel {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func headText(e *editor.Engine) string {
	return e.Index().Word(e.Head()).Text
}

func TestEditor_ArrowsNavigate(t *testing.T) {
	m, e := newEditor(t, "Speak up now. Then rest.")

	press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "now.", headText(e))

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, "Then", headText(e))
	assert.Equal(t, 1, e.CurrentIndices().Sentence)

	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "now.", headText(e))
}

func TestEditor_ShiftArrowsExtend(t *testing.T) {
	m, e := newEditor(t, "Speak up now.")

	press(m, tea.KeyMsg{Type: tea.KeyShiftRight}, tea.KeyMsg{Type: tea.KeyShiftRight})
	assert.Equal(t, 3, e.SelectionLen())
	assert.Equal(t, "Speak up now.", e.SelectionText())

	press(m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	assert.Equal(t, 2, e.SelectionLen())
}

func TestEditor_ShortcutOverwritesAndShiftAppends(t *testing.T) {
	m, e := newEditor(t, "Speak up now.")

	press(m, runeKey('e'))
	assert.Equal(t, []string{palette.HighEmphasis}, e.Index().At(0).Symbols())

	press(m, runeKey('H'))
	assert.Equal(t, []string{palette.HighEmphasis, "↑"}, e.Index().At(0).Symbols())

	press(m, runeKey('l'))
	assert.Equal(t, []string{"↓"}, e.Index().At(0).Symbols())

	press(m, runeKey('z'))
	assert.Equal(t, []string{"↓"}, e.Index().At(0).Symbols(), "unbound keys do nothing")
}

func TestEditor_ListNumbering(t *testing.T) {
	m, e := newEditor(t, "Apples pears plums.")

	m = press(m, runeKey('t'), tea.KeyMsg{Type: tea.KeyRight}, runeKey('t'))
	assert.Equal(t, []string{"L1"}, e.Index().At(0).Symbols())
	assert.Equal(t, []string{"L2"}, e.Index().At(1).Symbols())
	assert.True(t, e.InListMode())
	assert.Contains(t, m.View(), "LIST next L3")

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, e.InListMode())
	assert.NotContains(t, m.View(), "LIST")
}

func TestEditor_DigitsHighlight(t *testing.T) {
	m, e := newEditor(t, "Speak up now.")

	press(m, tea.KeyMsg{Type: tea.KeyShiftRight}, runeKey('2'))
	assert.Equal(t, score.BlueLight, e.Index().At(0).Highlight)
	assert.Equal(t, score.BlueLight, e.Index().At(1).Highlight)

	press(m, tea.KeyMsg{Type: tea.KeyRight}, runeKey('0'))
	assert.Equal(t, score.BlueLight, e.Index().At(0).Highlight)
	assert.False(t, e.Index().At(1).IsHighlighted())
}

func TestEditor_DigitShortcutBeatsHighlight(t *testing.T) {
	e := editor.New()
	e.ImportText("Speak up now.")
	cfg := config.Defaults(t.TempDir())
	catalog := palette.New([]palette.Entry{{Symbol: "★", Description: "Star", Shortcut: "2"}}, nil)
	m := NewEditorModel(e, catalog, &cfg)
	m.SetSize(120, 40)
	m.Loaded()

	press(m, runeKey('2'))
	assert.Equal(t, []string{"★"}, e.Index().At(0).Symbols())
	assert.False(t, e.Index().At(0).IsHighlighted(), "bound digit does not highlight")
}

func TestEditor_BackspaceClearsWhatIsThere(t *testing.T) {
	m, e := newEditor(t, "Speak up now.")

	m = press(m, runeKey('h'), tea.KeyMsg{Type: tea.KeyBackspace})
	assert.False(t, m.Prompting())
	assert.Empty(t, e.Index().At(0).Annotations)
}

func TestEditor_BackspaceAsksWhenBothPresent(t *testing.T) {
	m, e := newEditor(t, "Speak up now.")

	m = press(m, runeKey('h'), runeKey('6'), tea.KeyMsg{Type: tea.KeyBackspace})
	require.True(t, m.Prompting())
	assert.Contains(t, m.View(), "(a)nnotations")

	m = press(m, runeKey('h'))
	assert.False(t, m.Prompting())
	w := e.Index().At(0)
	assert.False(t, w.IsHighlighted())
	assert.Equal(t, []string{"↑"}, w.Symbols(), "annotations kept")
}

func TestEditor_SaveRequest(t *testing.T) {
	m, _ := newEditor(t, "Speak.")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, SaveRequestMsg{}, cmd())
}

func TestEditor_AttachAudioPrompt(t *testing.T) {
	m, e := newEditor(t, "One. Two.")
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlA})
	require.True(t, m.Prompting())
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/take.m4a")})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Prompting())
	require.NotNil(t, cmd)
	msg, ok := cmd().(AttachAudioRequestMsg)
	require.True(t, ok)
	assert.Equal(t, "/tmp/take.m4a", msg.Path)
	assert.Equal(t, e.Script().Paragraphs[0].Sentences[1].ID, msg.SentenceID)
}

func TestEditor_PromptSwallowsShortcuts(t *testing.T) {
	m, e := newEditor(t, "One two.")

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlT}, runeKey('h'))
	assert.Empty(t, e.Index().At(0).Annotations)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, score.DefaultTitle+"h", e.Script().Title)
}

func TestEditor_DetachAudio(t *testing.T) {
	m, e := newEditor(t, "One.")
	sent := e.CurrentSentence()
	require.True(t, e.AttachAudio(sent.ID, "audio_x.m4a"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	assert.False(t, e.CurrentSentence().HasAudio())
}

func TestEditor_Dirty(t *testing.T) {
	m, e := newEditor(t, "One two.")
	assert.False(t, m.Dirty())

	m = press(m, runeKey('p'))
	assert.True(t, m.Dirty())

	m.MarkSaved(e.Revision())
	assert.False(t, m.Dirty())
}

func TestEditor_ViewShowsSymbolsAboveWords(t *testing.T) {
	m, _ := newEditor(t, "Speak up now.")
	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, runeKey('h'))

	lines := strings.Split(m.View(), "\n")
	var symbolRow, wordRow int
	for i, line := range lines {
		if strings.Contains(line, "Speak") {
			wordRow = i
		}
		if strings.Contains(line, "↑") && symbolRow == 0 {
			symbolRow = i
		}
	}
	require.NotZero(t, wordRow)
	assert.Equal(t, wordRow-1, symbolRow)
	assert.Equal(t, strings.Index(lines[wordRow], "up"), strings.Index(lines[symbolRow], "↑"))
}

func TestEditor_SentenceMode(t *testing.T) {
	m, e := newEditor(t, "First one here. Second one there.")

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, editor.ViewSingleSentence, e.ViewMode())
	view := m.View()
	assert.Contains(t, view, "First")
	assert.NotContains(t, view, "Second")

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	view = m.View()
	assert.Contains(t, view, "Second")
	assert.NotContains(t, view, "First")
}

func TestEditor_UpDownFollowWrappedLines(t *testing.T) {
	m, e := newEditor(t, "aaaa bbbb cccc dddd")
	m.config.Editor.WrapWidth = 10 // two words per line

	press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "dddd", headText(e))

	press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "bbbb", headText(e))

	press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "bbbb", headText(e), "no line above")
}

func TestEditor_NoScript(t *testing.T) {
	cfg := config.Defaults(t.TempDir())
	m := NewEditorModel(editor.New(), palette.New(nil, nil), &cfg)
	m.SetSize(80, 20)

	m = press(m, runeKey('h'), tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "No script loaded")
	assert.False(t, m.Dirty())
}

func TestEditor_PickAudioFile(t *testing.T) {
	m, e := newEditor(t, "One. Two.")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "take.wav"), []byte("riff"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	m.picker.Open(dir)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.Prompting())
	assert.Equal(t, dir, m.picker.Dir())

	view := m.View()
	assert.Contains(t, view, "take.wav")
	assert.NotContains(t, view, "notes.txt")

	// entries are "..", then take.wav
	m = press(m, runeKey('j'))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(FileSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "take.wav"), selected.Path)

	m, cmd = m.Update(selected)
	assert.False(t, m.Prompting())
	require.NotNil(t, cmd)
	req, ok := cmd().(AttachAudioRequestMsg)
	require.True(t, ok)
	assert.Equal(t, e.CurrentSentence().ID, req.SentenceID)
	assert.Equal(t, selected.Path, req.Path)
}

func TestEditor_PickAudioCancel(t *testing.T) {
	m, _ := newEditor(t, "One.")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.Prompting())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.False(t, m.Prompting())
}
