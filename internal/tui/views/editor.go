package views

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/promptscore/internal/audio"
	"github.com/f3rmion/promptscore/internal/clipboard"
	"github.com/f3rmion/promptscore/internal/coalesce"
	"github.com/f3rmion/promptscore/internal/config"
	"github.com/f3rmion/promptscore/internal/editor"
	"github.com/f3rmion/promptscore/internal/layout"
	"github.com/f3rmion/promptscore/internal/log"
	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/f3rmion/promptscore/internal/tui/bigsymbol"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
)

const (
	focusPanelWidth = 28
	focusMinWidth   = 84 // below this the focus panel is hidden
	gutterWidth     = 4
)

type promptKind int

const (
	promptNone promptKind = iota
	promptClear
	promptAudio
	promptTitle
)

// EditorModel is the annotation view. It draws the live script with
// annotation rows above the words and coalesced highlight bars behind them,
// and turns keys into engine operations.
type EditorModel struct {
	engine  *editor.Engine
	catalog *palette.Catalog
	config  *config.Config

	prompt promptKind
	input  textinput.Model

	picker  FilePickerModel
	picking bool

	offset        int // first visible layout row
	savedRevision uint64

	status    string
	statusErr bool
	statusSeq int

	width  int
	height int
}

// NewEditorModel creates the editor view around an engine.
func NewEditorModel(engine *editor.Engine, catalog *palette.Catalog, cfg *config.Config) EditorModel {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorAccent)

	return EditorModel{
		engine:  engine,
		catalog: catalog,
		config:  cfg,
		input:   ti,
		picker:  NewFilePickerModel("Attach Recording", audio.Extensions...),
	}
}

// SetSize updates the view dimensions.
func (m *EditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.SetSize(width, height-2)
}

// SetCatalog swaps in a reloaded palette.
func (m *EditorModel) SetCatalog(c *palette.Catalog) {
	m.catalog = c
}

// Loaded resets view state after the engine adopted a new script.
func (m *EditorModel) Loaded() {
	m.offset = 0
	m.prompt = promptNone
	m.picking = false
	m.savedRevision = m.engine.Revision()
}

// MarkSaved records the revision that is now on disk.
func (m *EditorModel) MarkSaved(revision uint64) {
	m.savedRevision = revision
}

// Dirty reports whether the script changed since it was last saved.
func (m EditorModel) Dirty() bool {
	return m.engine.HasScript() && m.engine.Revision() != m.savedRevision
}

// Prompting reports whether the editor is waiting for prompt input, during
// which it wants every key.
func (m EditorModel) Prompting() bool {
	return m.prompt != promptNone || m.picking
}

// SetStatus shows a transient message in the status bar.
func (m *EditorModel) SetStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	return clearStatusAfter(3*time.Second, m.statusSeq)
}

// Update handles messages.
func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case FileSelectedMsg:
		m.picking = false
		sent := m.engine.CurrentSentence()
		if sent == nil {
			return m, nil
		}
		return m, send(AttachAudioRequestMsg{SentenceID: sent.ID, Path: msg.Path})

	case FilePickCanceledMsg:
		m.picking = false
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		if !m.engine.HasScript() {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m EditorModel) updateKeys(msg tea.KeyMsg) (EditorModel, tea.Cmd) {
	e := m.engine
	// A palette shortcut wins over the highlight digits.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && m.applyShortcut(msg.Runes[0]) {
		m.keepHeadVisible()
		return m, nil
	}
	switch msg.String() {
	case "left":
		e.NavigatePrevious()
	case "right", " ":
		e.NavigateNext()
	case "shift+left":
		e.ModifySelection(editor.Left)
	case "shift+right":
		e.ModifySelection(editor.Right)
	case "up":
		m.moveLine(-1)
	case "down":
		m.moveLine(1)
	case "esc":
		e.Escape()
	case "tab":
		e.ToggleViewMode()
		m.offset = 0
	case "backspace", "delete":
		switch e.ClearFormattingRequest() {
		case editor.ClearAnnotationsOnly:
			e.ClearAnnotations()
		case editor.ClearHighlightsOnly:
			e.ClearHighlights()
		case editor.ClearAsk:
			m.prompt = promptClear
		}
	case "0":
		e.SetHighlight(score.NoHighlight)
	case "1", "2", "3", "4", "5", "6":
		if c, ok := score.HighlightByIndex(int(msg.String()[0] - '0')); ok {
			e.SetHighlight(c)
		}
	case "ctrl+s":
		return m, send(SaveRequestMsg{})
	case "ctrl+y":
		if err := clipboard.Write(e.SelectionText()); err != nil {
			return m, m.SetStatus(err.Error(), true)
		}
		return m, m.SetStatus("Copied selection", false)
	case "ctrl+a":
		if e.CurrentSentence() == nil {
			return m, nil
		}
		m.openPrompt(promptAudio, "Audio file: ", "")
		return m, textinput.Blink
	case "ctrl+o":
		if e.CurrentSentence() == nil {
			return m, nil
		}
		dir := m.picker.Dir()
		if dir == "" {
			dir, _ = os.Getwd()
		}
		m.picker.Open(dir)
		m.picking = true
		return m, nil
	case "ctrl+x":
		sent := e.CurrentSentence()
		if sent == nil {
			return m, nil
		}
		if handle, ok := e.DetachAudio(sent.ID); ok {
			return m, tea.Batch(send(AudioDetachedMsg{Handle: handle}), m.SetStatus("Audio removed", false))
		}
	case "ctrl+t":
		m.openPrompt(promptTitle, "Title: ", e.Script().Title)
		return m, textinput.Blink
	}
	m.keepHeadVisible()
	return m, nil
}

// applyShortcut applies the palette symbol bound to r and reports whether
// one was bound. Shift appends instead of overwriting.
func (m *EditorModel) applyShortcut(r rune) bool {
	if m.catalog == nil {
		return false
	}
	entry, ok := m.catalog.ByShortcut(r)
	if !ok {
		return false
	}
	log.Debug(log.CatUI, "shortcut", "key", string(r), "symbol", entry.Symbol)
	m.engine.ApplySymbol(entry.Symbol, unicode.IsUpper(r))
	return true
}

func (m *EditorModel) openPrompt(kind promptKind, label, value string) {
	m.prompt = kind
	m.input.Prompt = label
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *EditorModel) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m EditorModel) updatePrompt(msg tea.KeyMsg) (EditorModel, tea.Cmd) {
	if m.prompt == promptClear {
		switch msg.String() {
		case "a":
			m.engine.ClearAnnotations()
		case "h":
			m.engine.ClearHighlights()
		case "b":
			m.engine.ClearAllFormatting()
		}
		m.prompt = promptNone
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		switch kind {
		case promptAudio:
			sent := m.engine.CurrentSentence()
			if value == "" || sent == nil {
				return m, nil
			}
			return m, send(AttachAudioRequestMsg{SentenceID: sent.ID, Path: value})
		case promptTitle:
			m.engine.SetTitle(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// blocks returns what the current view mode displays, with the paragraph
// number of each block.
func (m EditorModel) blocks() ([]layout.Block, []int) {
	s := m.engine.Script()
	if s == nil {
		return nil, nil
	}
	if m.engine.ViewMode() == editor.ViewSingleSentence {
		sent := m.engine.CurrentSentence()
		if sent == nil {
			return nil, nil
		}
		block := make(layout.Block, len(sent.Words))
		for i := range sent.Words {
			block[i] = &sent.Words[i]
		}
		return []layout.Block{block}, []int{m.engine.CurrentIndices().Paragraph + 1}
	}

	blocks := make([]layout.Block, len(s.Paragraphs))
	numbers := make([]int, len(s.Paragraphs))
	for i := range s.Paragraphs {
		numbers[i] = i + 1
		for j := range s.Paragraphs[i].Sentences {
			sent := &s.Paragraphs[i].Sentences[j]
			for k := range sent.Words {
				blocks[i] = append(blocks[i], &sent.Words[k])
			}
		}
	}
	return blocks, numbers
}

func (m EditorModel) textWidth() int {
	w := m.width
	if m.showFocusPanel() {
		w -= focusPanelWidth + 2
	}
	if m.config != nil && m.config.Editor.ShowLineNumbers {
		w -= gutterWidth
	}
	if m.config != nil && m.config.Editor.WrapWidth > 0 && m.config.Editor.WrapWidth < w {
		w = m.config.Editor.WrapWidth
	}
	return max(w, 10)
}

func (m EditorModel) showFocusPanel() bool {
	return m.width >= focusMinWidth
}

func (m EditorModel) flow() (*layout.Layout, []int) {
	blocks, numbers := m.blocks()
	return layout.Flow(blocks, m.textWidth()), numbers
}

func (m EditorModel) metrics() layout.Metrics {
	if m.config != nil {
		return m.config.Layout
	}
	return layout.DefaultMetrics()
}

func (m EditorModel) highlightOptions() coalesce.Options {
	if m.config != nil {
		return m.config.Highlight
	}
	return coalesce.DefaultOptions()
}

// moveLine taps the word on the neighbouring visual line closest to the
// head's column.
func (m *EditorModel) moveLine(delta int) {
	l, _ := m.flow()
	line, item, ok := l.Locate(m.engine.Head())
	if !ok {
		return
	}
	target := line + delta
	if target < 0 || target >= len(l.Lines) {
		return
	}
	col := l.Lines[line].Items[item].Col
	best := l.Lines[target].Items[0]
	for _, it := range l.Lines[target].Items[1:] {
		if abs(it.Col-col) < abs(best.Col-col) {
			best = it
		}
	}
	m.engine.Tap(best.Word.ID)
}

// visibleRows is how many layout rows fit; each takes an annotation row and
// a word row.
func (m EditorModel) visibleRows() int {
	return max((m.height-6)/2, 1)
}

func (m *EditorModel) keepHeadVisible() {
	l, _ := m.flow()
	line, _, ok := l.Locate(m.engine.Head())
	if !ok {
		return
	}
	row := l.Lines[line].Row
	if row < m.offset {
		m.offset = row
	}
	if vis := m.visibleRows(); row >= m.offset+vis {
		m.offset = row - vis + 1
	}
}

// View renders the editor.
func (m EditorModel) View() string {
	if !m.engine.HasScript() {
		var b strings.Builder
		b.WriteString(titleStyle.Render("No script loaded"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Import text (F2) or open one from the library (F3)."))
		return b.String()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.picking {
		b.WriteString(m.picker.View())
		return b.String()
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	text := m.renderText()
	if m.showFocusPanel() {
		text = lipgloss.JoinHorizontal(lipgloss.Top, text, "  ", m.renderFocusPanel())
	}
	b.WriteString(text)
	b.WriteString("\n")

	switch m.prompt {
	case promptClear:
		b.WriteString(promptStyle.Render("Clear (a)nnotations, (h)ighlights or (b)oth? any other key cancels"))
	case promptAudio, promptTitle:
		b.WriteString(promptStyle.Render(m.input.View()))
	default:
		b.WriteString(helpStyle.Render("←/→ move • shift+←/→ extend • a-z annotate (shift appends) • 1-6 color • 0 uncolor • ⌫ clear • tab view • ctrl+s save"))
	}
	return b.String()
}

func (m EditorModel) renderHeader() string {
	e := m.engine
	title := e.Script().Title
	if m.Dirty() {
		title += " *"
	}
	parts := []string{
		subtitleStyle.Bold(true).Render(title),
		mutedStyle.Render(e.ViewMode().String()),
	}
	if e.InListMode() {
		parts = append(parts, badgeStyle.Render("LIST next "+e.NextListSymbol()))
	}
	if n := e.SelectionLen(); n > 1 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("%d words", n)))
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, errorStyle.Render(m.status))
		} else {
			parts = append(parts, successStyle.Render(m.status))
		}
	}
	return strings.Join(parts, "  ")
}

// fill is the background a highlight or selection region paints.
type fill struct {
	bg, fg string
}

func fillFor(r coalesce.Region) fill {
	if r.Selection {
		return fill{bg: string(colorAccent), fg: string(colorBg)}
	}
	fg := string(colorBg)
	if r.Color.Dark() {
		fg = "#ffffff"
	}
	return fill{bg: r.Color.Hex(), fg: fg}
}

// fills coalesces the visible words and returns the painted cells per row.
func (m EditorModel) fills(l *layout.Layout) map[int][]fill {
	rows := map[int][]fill{}
	met := m.metrics()
	for _, r := range coalesce.Coalesce(l.Frames(met, m.engine.IsSelected), m.highlightOptions()) {
		row, start, end := met.Span(r.Rect)
		cells := rows[row]
		for len(cells) < end {
			cells = append(cells, fill{})
		}
		f := fillFor(r)
		for c := start; c < end; c++ {
			cells[c] = f
		}
		rows[row] = cells
	}
	return rows
}

func (m EditorModel) renderText() string {
	l, numbers := m.flow()
	fills := m.fills(l)
	gutter := m.config != nil && m.config.Editor.ShowLineNumbers
	head := m.engine.Head()

	byRow := make(map[int]layout.Line, len(l.Lines))
	for _, line := range l.Lines {
		byRow[line.Row] = line
	}

	var out []string
	end := min(l.Rows(), m.offset+m.visibleRows())
	for row := m.offset; row < end; row++ {
		line, ok := byRow[row]
		if !ok {
			out = append(out, "")
			continue
		}
		prefix, blank := "", ""
		if gutter {
			blank = strings.Repeat(" ", gutterWidth)
			prefix = blank
			if first := row == 0 || byRow[row-1].Block != line.Block || len(byRow[row-1].Items) == 0; first {
				prefix = mutedStyle.Render(fmt.Sprintf("%3d ", numbers[line.Block]))
			}
		}
		out = append(out, blank+annotationRow(line))
		out = append(out, prefix+wordRow(line, fills[row], head))
	}
	return strings.Join(out, "\n")
}

func annotationRow(line layout.Line) string {
	var b strings.Builder
	col := 0
	for _, it := range line.Items {
		label := layout.AnnotationLabel(it.Word)
		if label == "" {
			continue
		}
		b.WriteString(strings.Repeat(" ", it.Col-col))
		b.WriteString(symbolStyle.Render(label))
		col = it.Col + runewidth.StringWidth(label)
	}
	return b.String()
}

// cellStyle describes how a run of cells is drawn. It is comparable so
// neighbouring cells with the same look render as one run.
type cellStyle struct {
	fill
	bold, italic, underline bool
}

func (c cellStyle) render(s string) string {
	if c == (cellStyle{}) {
		return s
	}
	st := lipgloss.NewStyle().Bold(c.bold).Italic(c.italic).Underline(c.underline)
	if c.fg != "" {
		st = st.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		st = st.Background(lipgloss.Color(c.bg))
	}
	return st.Render(s)
}

type rowWriter struct {
	out   strings.Builder
	run   strings.Builder
	style cellStyle
}

func (w *rowWriter) put(s string, st cellStyle) {
	if st != w.style {
		w.flush()
		w.style = st
	}
	w.run.WriteString(s)
}

func (w *rowWriter) flush() {
	if w.run.Len() == 0 {
		return
	}
	w.out.WriteString(w.style.render(w.run.String()))
	w.run.Reset()
}

func (w *rowWriter) String() string {
	w.flush()
	return w.out.String()
}

func wordRow(line layout.Line, fills []fill, head uuid.UUID) string {
	at := func(c int) fill {
		if c < len(fills) {
			return fills[c]
		}
		return fill{}
	}

	w := &rowWriter{}
	col := 0
	for _, it := range line.Items {
		for ; col < it.Col; col++ {
			w.put(" ", cellStyle{fill: at(col)})
		}
		base := cellStyle{
			italic:    it.Word.HasSymbol(palette.HighEmphasis),
			bold:      it.Word.HasSymbol(palette.LowEmphasis),
			underline: it.Word.ID == head,
		}
		for _, r := range it.Word.Text {
			st := base
			st.fill = at(col)
			if st.fg == "" {
				st.fg = string(colorText)
			}
			w.put(string(r), st)
			col += runewidth.RuneWidth(r)
		}
	}
	for ; col < len(fills); col++ {
		w.put(" ", cellStyle{fill: at(col)})
	}
	return w.String()
}

func (m EditorModel) renderFocusPanel() string {
	word := m.engine.Index().Word(m.engine.Head())
	if word == nil {
		return ""
	}
	var b strings.Builder

	label := layout.AnnotationLabel(word)
	if label != "" && bigsymbol.Available() {
		if art := bigsymbol.Cached(label, focusPanelWidth-4, 5); art != "" {
			b.WriteString(symbolStyle.Render(art))
			b.WriteString("\n")
		}
	}

	b.WriteString(labelStyle.Render("Word"))
	b.WriteString(valueStyle.Render(runewidth.Truncate(word.Text, focusPanelWidth-16, "…")))
	b.WriteString("\n")

	for _, a := range word.Annotations {
		desc := ""
		if m.catalog != nil {
			if entry, ok := m.catalog.BySymbol(a.Symbol); ok {
				desc = entry.Description
			}
		}
		if strings.HasPrefix(a.Symbol, editor.ListSymbol) && desc == "" {
			desc = "List item"
		}
		b.WriteString(labelStyle.Render(a.Symbol))
		b.WriteString(mutedStyle.Render(desc))
		b.WriteString("\n")
	}

	if word.IsHighlighted() {
		b.WriteString(labelStyle.Render("Color"))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(word.Highlight.Hex())).Render(word.Highlight.DisplayName()))
		b.WriteString("\n")
	}

	if sent := m.engine.CurrentSentence(); sent != nil && sent.HasAudio() {
		b.WriteString(labelStyle.Render("Audio"))
		b.WriteString(mutedStyle.Render("♪ attached"))
		b.WriteString("\n")
	}

	return panelStyle.Width(focusPanelWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
