package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/promptscore/internal/clipboard"
)

// ImportModel collects raw text and an optional title for a new script.
type ImportModel struct {
	title textinput.Model
	body  textarea.Model

	focusTitle bool
	err        string

	width  int
	height int
}

// NewImportModel creates the import view.
func NewImportModel() ImportModel {
	ti := textinput.New()
	ti.Placeholder = "Untitled Script"
	ti.Prompt = "Title: "
	ti.CharLimit = 120
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorAccent)

	ta := textarea.New()
	ta.Placeholder = "Paste or type the script. Blank lines separate paragraphs."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	return ImportModel{title: ti, body: ta}
}

// SetSize updates the view dimensions.
func (m *ImportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.title.Width = max(width-10, 10)
	m.body.SetWidth(max(width, 10))
	m.body.SetHeight(max(height-8, 3))
}

// Update handles messages.
func (m ImportModel) Update(msg tea.Msg) (ImportModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			m.focusTitle = !m.focusTitle
			if m.focusTitle {
				m.body.Blur()
				return m, m.title.Focus()
			}
			m.title.Blur()
			return m, m.body.Focus()
		case "ctrl+r":
			text, err := clipboard.Read()
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.err = ""
			m.body.SetValue(text)
			return m, nil
		case "ctrl+s":
			text := m.body.Value()
			if strings.TrimSpace(text) == "" {
				m.err = "Nothing to import"
				return m, nil
			}
			title := strings.TrimSpace(m.title.Value())
			m.err = ""
			m.body.Reset()
			m.title.Reset()
			return m, send(ImportTextMsg{Text: text, Title: title})
		}
	}

	var cmd tea.Cmd
	if m.focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

// View renders the import view.
func (m ImportModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Import Text"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.body.View())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("ctrl+s: import • ctrl+r: paste clipboard • tab: title/text"))
	return b.String()
}
