package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/promptscore/internal/config"
)

var (
	settingsTabStyle = lipgloss.NewStyle().
				Foreground(colorLabel).
				Padding(0, 2)

	settingsTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent).
				Background(colorBgAlt).
				Padding(0, 2)
)

// setting is one adjustable config value. adjust moves it by steps
// (positive or negative) in place.
type setting struct {
	label  string
	value  func(c *config.Config) string
	adjust func(c *config.Config, steps int)
}

var settingTabs = []string{"Editor", "Highlight", "Paths"}

var editorSettings = []setting{
	{
		label: "Wrap width",
		value: func(c *config.Config) string { return fmt.Sprintf("%d cells", c.Editor.WrapWidth) },
		adjust: func(c *config.Config, n int) {
			c.Editor.WrapWidth = max(c.Editor.WrapWidth+4*n, 10)
		},
	},
	{
		label: "View mode",
		value: func(c *config.Config) string { return c.Editor.ViewMode },
		adjust: func(c *config.Config, _ int) {
			if c.Editor.ViewMode == "sentence" {
				c.Editor.ViewMode = "paragraph"
			} else {
				c.Editor.ViewMode = "sentence"
			}
		},
	},
	{
		label: "Line numbers",
		value: func(c *config.Config) string { return onOff(c.Editor.ShowLineNumbers) },
		adjust: func(c *config.Config, _ int) {
			c.Editor.ShowLineNumbers = !c.Editor.ShowLineNumbers
		},
	},
}

var highlightSettings = []setting{
	{
		label:  "Line tolerance",
		value:  func(c *config.Config) string { return fmt.Sprintf("%.1f", c.Highlight.LineTolerance) },
		adjust: func(c *config.Config, n int) { c.Highlight.LineTolerance = max(c.Highlight.LineTolerance+float64(n), 0) },
	},
	{
		label:  "Max gap",
		value:  func(c *config.Config) string { return fmt.Sprintf("%.1f", c.Highlight.MaxGap) },
		adjust: func(c *config.Config, n int) { c.Highlight.MaxGap = max(c.Highlight.MaxGap+2*float64(n), 0) },
	},
	{
		label:  "Padding",
		value:  func(c *config.Config) string { return fmt.Sprintf("%.1f", c.Highlight.Padding) },
		adjust: func(c *config.Config, n int) { c.Highlight.Padding = max(c.Highlight.Padding+0.5*float64(n), 0) },
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// SettingsModel shows the configuration and adjusts the editor and
// highlight values in place. Changes apply immediately; s saves them.
type SettingsModel struct {
	config     *config.Config
	configFile string

	tab      int
	selected int
	dirty    bool
	err      error

	width  int
	height int
}

// NewSettingsModel creates the settings view for cfg, which is saved to
// configFile.
func NewSettingsModel(cfg *config.Config, configFile string) SettingsModel {
	return SettingsModel{config: cfg, configFile: configFile}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Saved records the outcome of writing the config file.
func (m *SettingsModel) Saved(err error) {
	m.err = err
	if err == nil {
		m.dirty = false
	}
}

func (m SettingsModel) settings() []setting {
	switch m.tab {
	case 0:
		return editorSettings
	case 1:
		return highlightSettings
	}
	return nil
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.config == nil {
		return m, nil
	}

	switch key.String() {
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % len(settingTabs)
		m.selected = 0
	case "shift+tab", "left", "h":
		m.tab = (m.tab + len(settingTabs) - 1) % len(settingTabs)
		m.selected = 0
	case "j", "down":
		if m.selected < len(m.settings())-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
	case "+", "=", "enter", " ":
		m.adjust(1)
	case "-", "_":
		m.adjust(-1)
	case "s", "ctrl+s":
		if m.dirty {
			return m, send(SettingsEditedMsg{})
		}
	}
	return m, nil
}

// adjust applies a change and rolls it back when the result is invalid.
func (m *SettingsModel) adjust(steps int) {
	rows := m.settings()
	if m.selected >= len(rows) {
		return
	}
	before := *m.config
	rows[m.selected].adjust(m.config, steps)
	if err := m.config.Validate(); err != nil {
		*m.config = before
		m.err = err
		return
	}
	m.err = nil
	if *m.config != before {
		m.dirty = true
	}
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	title := "Settings"
	if m.dirty {
		title += " *"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Italic(true).Render(m.configFile))
	b.WriteString("\n\n")

	var tabs []string
	for i, t := range settingTabs {
		if i == m.tab {
			tabs = append(tabs, settingsTabActiveStyle.Render(t))
		} else {
			tabs = append(tabs, settingsTabStyle.Render(t))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n\n")

	if m.config == nil {
		return b.String()
	}

	if m.tab == 2 {
		b.WriteString(labelStyle.Render("Library") + valueStyle.Render(m.config.DatabasePath()) + "\n")
		b.WriteString(labelStyle.Render("Audio") + valueStyle.Render(m.config.AudioDir()) + "\n")
		b.WriteString(labelStyle.Render("Palette") + valueStyle.Render(m.config.PaletteFile) + "\n")
		b.WriteString(labelStyle.Render("Cell") + valueStyle.Render(fmt.Sprintf("%.0f × %.0f",
			m.config.Layout.CellWidth, m.config.Layout.LineHeight)) + "\n")
	}

	for i, s := range m.settings() {
		line := lipgloss.NewStyle().Width(16).Render(s.label) + s.value(m.config)
		if i == m.selected {
			b.WriteString("> " + selectedRowStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + rowStyle.Render(line) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab: switch tabs • j/k: select • +/-: change • s: save"))
	return b.String()
}
