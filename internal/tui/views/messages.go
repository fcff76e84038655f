package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Requests the views hand to the app, which owns the store, the audio
// library and the palette file.

// SaveRequestMsg asks for the live script to be written to the library.
type SaveRequestMsg struct{}

// ImportTextMsg carries text to tokenize into a new script.
type ImportTextMsg struct {
	Text  string
	Title string
}

// OpenScriptMsg asks for a library script to be loaded into the editor.
type OpenScriptMsg struct {
	ID uuid.UUID
}

// DeleteScriptMsg asks for a library script to be removed.
type DeleteScriptMsg struct {
	ID uuid.UUID
}

// RefreshLibraryMsg asks for the library listing to be reloaded.
type RefreshLibraryMsg struct{}

// AttachAudioRequestMsg asks for Path to be copied into the audio library
// and referenced from the sentence.
type AttachAudioRequestMsg struct {
	SentenceID uuid.UUID
	Path       string
}

// AudioDetachedMsg reports a handle that no sentence references anymore.
type AudioDetachedMsg struct {
	Handle string
}

// PaletteEditedMsg reports that the palette view changed the catalog.
type PaletteEditedMsg struct{}

// SettingsEditedMsg asks the app to write the configuration to disk.
type SettingsEditedMsg struct{}

type clearStatusMsg struct {
	seq int
}

func clearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
