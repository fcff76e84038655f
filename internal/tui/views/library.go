package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/promptscore/internal/store"
	"github.com/mattn/go-runewidth"
)

// LibraryModel lists saved scripts, newest first.
type LibraryModel struct {
	scripts  []store.Summary
	selected int
	offset   int
	confirm  bool // waiting for y/n on delete
	err      error

	width  int
	height int
}

// NewLibraryModel creates the library view.
func NewLibraryModel() LibraryModel {
	return LibraryModel{}
}

// SetSize updates the view dimensions.
func (m *LibraryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetScripts replaces the listing, keeping the cursor in range.
func (m *LibraryModel) SetScripts(scripts []store.Summary, err error) {
	m.scripts = scripts
	m.err = err
	m.confirm = false
	if m.selected >= len(scripts) {
		m.selected = max(len(scripts)-1, 0)
	}
	m.adjustScroll()
}

// Update handles messages.
func (m LibraryModel) Update(msg tea.Msg) (LibraryModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirm {
		m.confirm = false
		if key.String() == "y" && m.selected < len(m.scripts) {
			return m, send(DeleteScriptMsg{ID: m.scripts[m.selected].ID})
		}
		return m, nil
	}

	switch key.String() {
	case "j", "down":
		if m.selected < len(m.scripts)-1 {
			m.selected++
			m.adjustScroll()
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.adjustScroll()
		}
	case "g":
		m.selected = 0
		m.offset = 0
	case "G":
		m.selected = max(len(m.scripts)-1, 0)
		m.adjustScroll()
	case "enter":
		if m.selected < len(m.scripts) {
			return m, send(OpenScriptMsg{ID: m.scripts[m.selected].ID})
		}
	case "d", "x":
		if len(m.scripts) > 0 {
			m.confirm = true
		}
	case "r":
		return m, send(RefreshLibraryMsg{})
	}
	return m, nil
}

func (m *LibraryModel) visibleHeight() int {
	return max(m.height-8, 5)
}

func (m *LibraryModel) adjustScroll() {
	h := m.visibleHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+h {
		m.offset = m.selected - h + 1
	}
}

// View renders the library.
func (m LibraryModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Library"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if len(m.scripts) == 0 {
		b.WriteString(mutedStyle.Render("  (no saved scripts)"))
		b.WriteString("\n")
	}

	titleWidth := max(min(m.width-36, 40), 10)
	end := min(m.offset+m.visibleHeight(), len(m.scripts))
	for i := m.offset; i < end; i++ {
		s := m.scripts[i]
		title := runewidth.FillRight(runewidth.Truncate(s.Title, titleWidth, "…"), titleWidth)
		line := fmt.Sprintf("%s  %4d words  %s", title, s.Words, s.ModifiedAt.Local().Format("2006-01-02 15:04"))

		prefix := "  "
		style := rowStyle
		if i == m.selected {
			prefix = "> "
			style = selectedRowStyle
		}
		b.WriteString(prefix)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if m.confirm && m.selected < len(m.scripts) {
		b.WriteString(promptStyle.Render(fmt.Sprintf("Delete %q? y/n", m.scripts[m.selected].Title)))
		return b.String()
	}
	b.WriteString(helpStyle.Render("enter: open • d: delete • r: refresh • j/k: move"))
	return b.String()
}
