package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors shared by every view. Kept in step with the app palette.
var (
	colorPrimary   = lipgloss.Color("#FF6B6B")
	colorSecondary = lipgloss.Color("#4ecdc4")
	colorAccent    = lipgloss.Color("#ffe66d")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#a8e6cf")
	colorText      = lipgloss.Color("#f1faee")
	colorLabel     = lipgloss.Color("#a8dadc")
	colorBg        = lipgloss.Color("#1a1a2e")
	colorBgAlt     = lipgloss.Color("#2d3436")
	colorBorder    = lipgloss.Color("#3d5a80")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorLabel).
			Bold(true).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent).
				Background(colorBgAlt)

	rowStyle = lipgloss.NewStyle().
			Foreground(colorText)

	symbolStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBg).
			Background(colorSecondary).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorBorder)
)

func divider(width int) string {
	return dividerStyle.Render(strings.Repeat("─", max(min(width, 60), 0)))
}
