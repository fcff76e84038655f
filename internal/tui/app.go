// Package tui provides the interactive terminal UI for PromptScore.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/promptscore/internal/audio"
	"github.com/f3rmion/promptscore/internal/config"
	"github.com/f3rmion/promptscore/internal/editor"
	"github.com/f3rmion/promptscore/internal/log"
	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/f3rmion/promptscore/internal/store"
	"github.com/f3rmion/promptscore/internal/tui/views"
	"github.com/google/uuid"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewEditor ViewType = iota
	ViewImport
	ViewLibrary
	ViewPalette
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	Icon     string
	View     ViewType
	Shortcut string
}

type scriptLoadedMsg struct {
	script *score.Script
	err    error
}

type scriptSavedMsg struct {
	id       uuid.UUID
	revision uint64
	title    string
	err      error
}

type libraryLoadedMsg struct {
	scripts []store.Summary
	err     error
}

type audioAttachedMsg struct {
	sentenceID uuid.UUID
	pending    *audio.Pending
	err        error
}

// stagedAudio is a copied recording waiting for a save at or after revision.
type stagedAudio struct {
	pending  *audio.Pending
	scriptID uuid.UUID
	revision uint64
}

type paletteChangedMsg struct{}

type paletteReloadedMsg struct {
	catalog *palette.Catalog
	err     error
}

type paletteSavedMsg struct {
	err error
}

type settingsSavedMsg struct {
	err error
}

// Deps are the services the app drives. PaletteChanges may be nil when the
// palette file is not watched.
type Deps struct {
	Config         *config.Config
	ConfigFile     string
	Engine         *editor.Engine
	Store          *store.Store
	Audio          *audio.Library
	Catalog        *palette.Catalog
	PaletteChanges <-chan struct{}
}

// AppModel is the main TUI model
type AppModel struct {
	config     *config.Config
	configFile string
	engine     *editor.Engine
	store      *store.Store
	audio      *audio.Library
	catalog    *palette.Catalog
	changes    <-chan struct{}
	staged     []stagedAudio

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	editorView   views.EditorModel
	importView   views.ImportModel
	libraryView  views.LibraryModel
	paletteView  views.PaletteModel
	settingsView views.SettingsModel

	showHelp bool
}

// NewApp creates the application. When the engine already holds a script
// the editor opens first, otherwise the import view does.
func NewApp(d Deps) AppModel {
	menuItems := []MenuItem{
		{Label: "Editor", Icon: "✎", View: ViewEditor, Shortcut: "1"},
		{Label: "Import", Icon: "⇣", View: ViewImport, Shortcut: "2"},
		{Label: "Library", Icon: "▤", View: ViewLibrary, Shortcut: "3"},
		{Label: "Palette", Icon: "↗", View: ViewPalette, Shortcut: "4"},
		{Label: "Settings", Icon: "⚙", View: ViewSettings, Shortcut: "5"},
	}

	app := AppModel{
		config:       d.Config,
		configFile:   d.ConfigFile,
		engine:       d.Engine,
		store:        d.Store,
		audio:        d.Audio,
		catalog:      d.Catalog,
		changes:      d.PaletteChanges,
		sidebarWidth: 20,
		menuItems:    menuItems,

		editorView:   views.NewEditorModel(d.Engine, d.Catalog, d.Config),
		importView:   views.NewImportModel(),
		libraryView:  views.NewLibraryModel(),
		paletteView:  views.NewPaletteModel(d.Catalog),
		settingsView: views.NewSettingsModel(d.Config, d.ConfigFile),
	}
	app.editorView.Loaded()
	if !d.Engine.HasScript() {
		app.switchTo(ViewImport)
	}
	return app
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadLibrary(), m.listenPalette())
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if model, cmd, handled := m.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2
		m.editorView.SetSize(contentWidth, contentHeight)
		m.importView.SetSize(contentWidth, contentHeight)
		m.libraryView.SetSize(contentWidth, contentHeight)
		m.paletteView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.SaveRequestMsg:
		return m, m.saveScript()

	case scriptSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatStore, "save failed", msg.err)
			return m, m.editorView.SetStatus("Save failed: "+msg.err.Error(), true)
		}
		if s := m.engine.Script(); s != nil && s.ID == msg.id {
			m.editorView.MarkSaved(msg.revision)
		}
		m.commitStaged(msg.id, msg.revision)
		return m, tea.Batch(m.editorView.SetStatus("Saved "+msg.title, false), m.loadLibrary())

	case views.ImportTextMsg:
		m.engine.ImportText(msg.Text)
		m.engine.SetTitle(msg.Title)
		m.editorView.Loaded()
		m.switchTo(ViewEditor)
		return m, m.saveScript()

	case views.OpenScriptMsg:
		return m, then(m.saveIfDirty(), m.openScript(msg.ID))

	case scriptLoadedMsg:
		if msg.err != nil {
			return m, m.editorView.SetStatus("Open failed: "+msg.err.Error(), true)
		}
		m.engine.Load(msg.script)
		m.editorView.Loaded()
		m.switchTo(ViewEditor)
		return m, nil

	case views.DeleteScriptMsg:
		return m, m.deleteScript(msg.ID)

	case views.RefreshLibraryMsg:
		return m, m.loadLibrary()

	case libraryLoadedMsg:
		m.libraryView.SetScripts(msg.scripts, msg.err)
		return m, nil

	case views.AttachAudioRequestMsg:
		return m, m.attachAudio(msg.SentenceID, msg.Path)

	case audioAttachedMsg:
		if msg.err != nil {
			return m, m.editorView.SetStatus(msg.err.Error(), true)
		}
		if !m.engine.AttachAudio(msg.sentenceID, msg.pending.Handle()) {
			// The sentence is gone, so nothing references the copy.
			msg.pending.Discard()
			return m, nil
		}
		m.staged = append(m.staged, stagedAudio{
			pending:  msg.pending,
			scriptID: m.engine.Script().ID,
			revision: m.engine.Revision(),
		})
		return m, tea.Batch(m.editorView.SetStatus("Audio attached", false), m.saveScript())

	case views.AudioDetachedMsg:
		m.discardStaged(msg.Handle)
		if err := m.audio.Detach(msg.Handle); err != nil {
			log.ErrorErr(log.CatAudio, "detach failed", err, "handle", msg.Handle)
		}
		return m, nil

	case views.PaletteEditedMsg:
		m.editorView.SetCatalog(m.catalog)
		return m, m.savePalette()

	case paletteSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatPalette, "palette save failed", msg.err)
		}
		return m, nil

	case views.SettingsEditedMsg:
		return m, m.saveSettings()

	case settingsSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatConfig, "config save failed", msg.err)
		}
		m.settingsView.Saved(msg.err)
		return m, nil

	case paletteChangedMsg:
		return m, tea.Batch(m.reloadPalette(), m.listenPalette())

	case paletteReloadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatPalette, "palette reload failed", msg.err)
			return m, nil
		}
		m.catalog = msg.catalog
		m.editorView.SetCatalog(msg.catalog)
		m.paletteView.SetCatalog(msg.catalog)
		return m, nil
	}

	if _, isKey := msg.(tea.KeyMsg); isKey && m.sidebarActive {
		return m, nil
	}

	// Delegate to the active view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewEditor:
		m.editorView, cmd = m.editorView.Update(msg)
	case ViewImport:
		m.importView, cmd = m.importView.Update(msg)
	case ViewLibrary:
		m.libraryView, cmd = m.libraryView.Update(msg)
	case ViewPalette:
		m.paletteView, cmd = m.paletteView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	// Status timers belong to the editor even when another view is shown.
	if m.currentView != ViewEditor {
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			var edCmd tea.Cmd
			m.editorView, edCmd = m.editorView.Update(msg)
			cmd = tea.Batch(cmd, edCmd)
		}
	}
	return m, cmd
}

// typing reports whether a text field has focus, in which case every key
// but the global chords belongs to it.
func (m AppModel) typing() bool {
	switch m.currentView {
	case ViewEditor:
		return m.editorView.Prompting()
	case ViewImport:
		return true
	case ViewPalette:
		return m.paletteView.Editing()
	}
	return false
}

// capturing reports whether plain letters belong to the active view. In
// the editor they are palette shortcuts.
func (m AppModel) capturing() bool {
	return m.currentView == ViewEditor || m.typing()
}

func (m AppModel) handleGlobalKey(msg tea.KeyMsg) (AppModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, then(m.saveIfDirty(), tea.Quit), true
	case "ctrl+w":
		m.sidebarActive = !m.sidebarActive
		return m, nil, true
	case "f1":
		m.switchTo(ViewEditor)
		return m, nil, true
	case "f2":
		m.switchTo(ViewImport)
		return m, nil, true
	case "f3":
		m.switchTo(ViewLibrary)
		return m, m.loadLibrary(), true
	case "f4":
		m.switchTo(ViewPalette)
		return m, nil, true
	case "f5":
		m.switchTo(ViewSettings)
		return m, nil, true
	}

	if m.sidebarActive {
		switch msg.String() {
		case "q":
			return m, then(m.saveIfDirty(), tea.Quit), true
		case "esc":
			m.sidebarActive = false
		case "?":
			m.showHelp = true
		case "j", "down":
			if m.selectedMenu < len(m.menuItems)-1 {
				m.selectedMenu++
			}
		case "k", "up":
			if m.selectedMenu > 0 {
				m.selectedMenu--
			}
		case "enter", "l", "right":
			m.switchTo(m.menuItems[m.selectedMenu].View)
		case "1", "2", "3", "4", "5":
			m.switchTo(m.menuItems[int(msg.String()[0]-'1')].View)
		}
		return m, nil, true
	}

	if m.typing() {
		return m, nil, false
	}
	if msg.String() == "?" {
		m.showHelp = true
		return m, nil, true
	}
	if m.capturing() {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		return m, then(m.saveIfDirty(), tea.Quit), true
	case "esc":
		m.sidebarActive = true
		return m, nil, true
	}
	return m, nil, false
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	m.sidebarActive = false
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
}

// saveScript snapshots the live script and writes the copy in the
// background so later edits cannot race the encoder.
func (m AppModel) saveScript() tea.Cmd {
	s := m.engine.Script()
	if s == nil || m.store == nil {
		return nil
	}
	data, err := score.EncodeJSON(s)
	if err != nil {
		return func() tea.Msg { return scriptSavedMsg{err: err} }
	}
	snapshot, err := score.DecodeJSON(data)
	if err != nil {
		return func() tea.Msg { return scriptSavedMsg{err: err} }
	}
	revision := m.engine.Revision()
	st := m.store
	return func() tea.Msg {
		err := st.Save(context.Background(), snapshot)
		return scriptSavedMsg{id: snapshot.ID, revision: revision, title: snapshot.Title, err: err}
	}
}

func (m AppModel) saveIfDirty() tea.Cmd {
	if !m.editorView.Dirty() {
		return nil
	}
	return m.saveScript()
}

// then runs next after first has finished.
func then(first, next tea.Cmd) tea.Cmd {
	if first == nil {
		return next
	}
	return tea.Sequence(first, next)
}

func (m AppModel) openScript(id uuid.UUID) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		s, err := st.Load(context.Background(), id)
		return scriptLoadedMsg{script: s, err: err}
	}
}

func (m AppModel) deleteScript(id uuid.UUID) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		if err := st.Delete(context.Background(), id); err != nil {
			return libraryLoadedMsg{err: err}
		}
		scripts, err := st.List(context.Background())
		return libraryLoadedMsg{scripts: scripts, err: err}
	}
}

func (m AppModel) loadLibrary() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		scripts, err := st.List(context.Background())
		return libraryLoadedMsg{scripts: scripts, err: err}
	}
}

func (m AppModel) attachAudio(sentenceID uuid.UUID, path string) tea.Cmd {
	lib := m.audio
	if lib == nil {
		return nil
	}
	return func() tea.Msg {
		pending, err := lib.Stage(context.Background(), sentenceID, path)
		return audioAttachedMsg{sentenceID: sentenceID, pending: pending, err: err}
	}
}

// commitStaged puts recordings in place once a save that references them
// has landed. Until then the earlier file for the sentence is kept.
func (m *AppModel) commitStaged(scriptID uuid.UUID, revision uint64) {
	var waiting []stagedAudio
	for _, s := range m.staged {
		if s.scriptID != scriptID || s.revision > revision {
			waiting = append(waiting, s)
			continue
		}
		if err := s.pending.Commit(); err != nil {
			log.ErrorErr(log.CatAudio, "storing audio failed", err, "handle", s.pending.Handle())
		}
	}
	m.staged = waiting
}

func (m *AppModel) discardStaged(handle string) {
	var waiting []stagedAudio
	for _, s := range m.staged {
		if s.pending.Handle() == handle {
			s.pending.Discard()
			continue
		}
		waiting = append(waiting, s)
	}
	m.staged = waiting
}

func (m AppModel) paletteFile() string {
	if m.config == nil {
		return ""
	}
	return m.config.PaletteFile
}

func (m AppModel) savePalette() tea.Cmd {
	path := m.paletteFile()
	if path == "" {
		return nil
	}
	snapshot := palette.New(m.catalog.Custom(), m.catalog.Colors())
	return func() tea.Msg {
		return paletteSavedMsg{err: palette.Save(path, snapshot)}
	}
}

// saveSettings writes a copy of the config so later adjustments cannot
// race the encoder.
func (m AppModel) saveSettings() tea.Cmd {
	if m.configFile == "" || m.config == nil {
		return nil
	}
	snapshot := *m.config
	path := m.configFile
	return func() tea.Msg {
		return settingsSavedMsg{err: config.Save(path, snapshot)}
	}
}

func (m AppModel) reloadPalette() tea.Cmd {
	path := m.paletteFile()
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		c, err := palette.Load(path)
		return paletteReloadedMsg{catalog: c, err: err}
	}
}

// listenPalette waits for the next palette file change.
func (m AppModel) listenPalette() tea.Cmd {
	ch := m.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return paletteChangedMsg{}
	}
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewEditor:
		content = m.editorView.View()
	case ViewImport:
		content = m.importView.View()
	case ViewLibrary:
		content = m.libraryView.View()
	case ViewPalette:
		content = m.paletteView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render(" ♪ PromptScore "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := fmt.Sprintf("F%s %s %s", item.Shortcut, item.Icon, item.Label)

		var style lipgloss.Style
		switch {
		case i == m.selectedMenu && m.sidebarActive:
			style = SidebarItemActiveStyle
		case i == m.selectedMenu:
			style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
		default:
			style = SidebarItemStyle
		}
		items = append(items, style.Render(label))
	}

	if m.editorView.Dirty() {
		items = append(items, "", UnsavedStyle.Render("● unsaved"))
	}

	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}

	items = append(items, SidebarHelpStyle.Render("? Help  ^C Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m AppModel) renderHelp() string {
	key := func(k, desc string) string {
		return HelpKeyStyle.Render(k) + HelpDescStyle.Render(desc) + "\n"
	}

	text := HelpTitleStyle.Render("PromptScore") + "\n\n"

	text += HelpSectionStyle.Render("Global") + "\n"
	text += key("F1-F5", "Switch views")
	text += key("ctrl+w", "Toggle sidebar focus")
	text += key("?", "Show this help")
	text += key("ctrl+c", "Save and quit")

	text += HelpSectionStyle.Render("Editor") + "\n"
	text += key("←/→ space", "Move selection")
	text += key("shift+←/→", "Extend selection")
	text += key("↑/↓", "Previous/next line")
	text += key("letter", "Apply symbol")
	text += key("Letter", "Append symbol")
	var entries []palette.Entry
	if m.catalog != nil {
		entries = m.catalog.Entries()
	}
	for _, e := range entries {
		if e.Shortcut != "" {
			text += key("  "+e.Shortcut, e.Symbol+"  "+e.Description)
		}
	}
	text += key("1-6 / 0", "Highlight / remove")
	text += key("⌫", "Clear formatting")
	text += key("esc", "Leave list / collapse")
	text += key("tab", "Paragraph/sentence view")
	text += key("ctrl+a/x", "Attach/remove audio")
	text += key("ctrl+o", "Pick audio file")
	text += key("ctrl+t", "Rename script")
	text += key("ctrl+y", "Copy selection")
	text += key("ctrl+s", "Save")

	text += "\n" + HelpFooterStyle.Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(text))
}
