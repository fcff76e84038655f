package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/mattn/go-runewidth"
)

type formKind int

const (
	formNone formKind = iota
	formAddSymbol
	formEditSymbol
	formAddColor
)

// PaletteModel shows the symbol catalog and edits its custom part.
type PaletteModel struct {
	catalog *palette.Catalog

	selected int // rows: entries first, then colors
	form     formKind
	editing  string // symbol being edited
	fields   []textinput.Model
	focus    int
	err      error

	width  int
	height int
}

// NewPaletteModel creates the palette view.
func NewPaletteModel(c *palette.Catalog) PaletteModel {
	return PaletteModel{catalog: c}
}

// SetSize updates the view dimensions.
func (m *PaletteModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetCatalog swaps in a reloaded palette.
func (m *PaletteModel) SetCatalog(c *palette.Catalog) {
	m.catalog = c
	if n := m.rows(); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

// Editing reports whether a form has focus.
func (m PaletteModel) Editing() bool {
	return m.form != formNone
}

func (m PaletteModel) rows() int {
	if m.catalog == nil {
		return 0
	}
	return len(m.catalog.Entries()) + len(m.catalog.Colors())
}

// current returns the entry or color under the cursor.
func (m PaletteModel) current() (palette.Entry, *score.CustomColor) {
	entries := m.catalog.Entries()
	if m.selected < len(entries) {
		return entries[m.selected], nil
	}
	colors := m.catalog.Colors()
	if i := m.selected - len(entries); i < len(colors) {
		return palette.Entry{}, &colors[i]
	}
	return palette.Entry{}, nil
}

func newField(prompt, value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = limit
	ti.Width = 30
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLabel).Width(14)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorAccent)
	ti.SetValue(value)
	return ti
}

func (m *PaletteModel) openForm(kind formKind, fields ...textinput.Model) tea.Cmd {
	m.form = kind
	m.fields = fields
	m.focus = 0
	m.err = nil
	return m.fields[0].Focus()
}

// Update handles messages.
func (m PaletteModel) Update(msg tea.Msg) (PaletteModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.catalog == nil {
		return m, nil
	}
	if m.form != formNone {
		return m.updateForm(key)
	}

	switch key.String() {
	case "j", "down":
		if m.selected < m.rows()-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
	case "a":
		return m, m.openForm(formAddSymbol,
			newField("Symbol", "", 8),
			newField("Description", "", 60),
			newField("Shortcut", "", 1))
	case "c":
		return m, m.openForm(formAddColor,
			newField("Name", "", 40),
			newField("Hex", "#", 7))
	case "e", "enter":
		entry, _ := m.current()
		if entry.Symbol == "" || entry.Builtin {
			return m, nil
		}
		m.editing = entry.Symbol
		return m, m.openForm(formEditSymbol,
			newField("Symbol", entry.Symbol, 8),
			newField("Description", entry.Description, 60),
			newField("Shortcut", entry.Shortcut, 1))
	case "x", "d":
		entry, color := m.current()
		var err error
		switch {
		case color != nil:
			err = m.catalog.RemoveColor(color.ID)
		case entry.Symbol != "":
			err = m.catalog.Remove(entry.Symbol)
		}
		m.err = err
		if err == nil && (color != nil || entry.Symbol != "") {
			m.SetCatalog(m.catalog)
			return m, send(PaletteEditedMsg{})
		}
	}
	return m, nil
}

func (m PaletteModel) updateForm(key tea.KeyMsg) (PaletteModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.form = formNone
		m.err = nil
		return m, nil
	case "tab", "down":
		m.fields[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.fields)
		return m, m.fields[m.focus].Focus()
	case "shift+tab", "up":
		m.fields[m.focus].Blur()
		m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
		return m, m.fields[m.focus].Focus()
	case "enter":
		if err := m.submit(); err != nil {
			m.err = err
			return m, nil
		}
		m.form = formNone
		m.err = nil
		return m, send(PaletteEditedMsg{})
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(key)
	return m, cmd
}

func (m *PaletteModel) submit() error {
	value := func(i int) string { return strings.TrimSpace(m.fields[i].Value()) }

	switch m.form {
	case formAddSymbol:
		return m.catalog.Add(palette.Entry{Symbol: value(0), Description: value(1), Shortcut: value(2)})
	case formEditSymbol:
		return m.catalog.Update(m.editing, palette.Entry{Symbol: value(0), Description: value(1), Shortcut: value(2)})
	case formAddColor:
		rgb, err := score.ParseHex(value(1))
		if err != nil {
			return err
		}
		name := value(0)
		if name == "" {
			name = value(1)
		}
		m.catalog.AddColor(score.CustomColor{Color: rgb, DisplayName: name})
	}
	return nil
}

// View renders the palette.
func (m PaletteModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Symbol Palette"))
	b.WriteString("\n")

	if m.catalog == nil {
		return b.String()
	}

	row := 0
	for _, e := range m.catalog.Entries() {
		key := e.Shortcut
		if key == "" {
			key = "-"
		}
		kind := "custom"
		if e.Builtin {
			kind = "built-in"
		}
		sym := runewidth.FillRight(e.Symbol, 4)
		line := fmt.Sprintf("%s  %s  %-28s %s", sym, key, e.Description, kind)
		b.WriteString(m.renderRow(row, line))
		row++
	}

	if colors := m.catalog.Colors(); len(colors) > 0 {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Custom colors"))
		b.WriteString("\n")
		for _, c := range colors {
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Color.Hex())).Render("    ")
			b.WriteString(m.renderRow(row, swatch+"  "+c.DisplayName+"  "+c.Color.Hex()))
			row++
		}
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Highlights"))
	b.WriteString("\n")
	for i, c := range score.AllHighlightColors() {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
		b.WriteString(fmt.Sprintf("  %s  %d  %s\n", swatch, i+1, c.DisplayName()))
	}

	if m.form != formNone {
		var f strings.Builder
		for _, field := range m.fields {
			f.WriteString(field.View())
			f.WriteString("\n")
		}
		f.WriteString(mutedStyle.Render("enter: save • tab: next field • esc: cancel"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(f.String()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	if m.form == formNone {
		b.WriteString(helpStyle.Render("a: add symbol • e: edit • x: remove • c: add color • j/k: move"))
	}
	return b.String()
}

func (m PaletteModel) renderRow(row int, line string) string {
	if row == m.selected {
		return "> " + selectedRowStyle.Render(line) + "\n"
	}
	return "  " + rowStyle.Render(line) + "\n"
}
