package views

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// FileSelectedMsg is sent when a file is picked.
type FileSelectedMsg struct {
	Path string
}

// FilePickCanceledMsg is sent when the picker is dismissed.
type FilePickCanceledMsg struct{}

// FileEntry is a file or directory in the picker.
type FileEntry struct {
	Name  string
	IsDir bool
	Path  string
}

// FilePickerModel browses the filesystem for a file with one of a set of
// extensions.
type FilePickerModel struct {
	title      string
	currentDir string
	entries    []FileEntry
	selected   int
	offset     int

	extensions []string

	err error

	width  int
	height int
}

// NewFilePickerModel creates a picker that lists directories and files
// matching extensions (all files when none are given).
func NewFilePickerModel(title string, extensions ...string) FilePickerModel {
	return FilePickerModel{title: title, extensions: extensions}
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Open shows dir, falling back to the home directory when dir is empty.
func (m *FilePickerModel) Open(dir string) {
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}
	if dir == "" {
		dir = "/"
	}
	m.currentDir = dir
	m.loadDir()
}

// Dir returns the directory being shown.
func (m FilePickerModel) Dir() string {
	return m.currentDir
}

func (m *FilePickerModel) loadDir() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	entries, err := os.ReadDir(m.currentDir)
	if err != nil {
		m.err = err
		return
	}

	if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
		m.entries = append(m.entries, FileEntry{Name: "..", IsDir: true, Path: parent})
	}

	var dirs, files []FileEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fe := FileEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Path:  filepath.Join(m.currentDir, entry.Name()),
		}
		switch {
		case fe.IsDir:
			dirs = append(dirs, fe)
		case m.matchesExtension(fe.Name):
			files = append(files, fe)
		}
	}

	byName := func(list []FileEntry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m FilePickerModel) matchesExtension(name string) bool {
	if len(m.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc", "q":
		return m, send(FilePickCanceledMsg{})
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "ctrl+d":
		m.move(m.visibleHeight() / 2)
	case "ctrl+u":
		m.move(-m.visibleHeight() / 2)
	case "g":
		m.move(-len(m.entries))
	case "G":
		m.move(len(m.entries))
	case "enter", "l", "right":
		if m.selected >= len(m.entries) {
			return m, nil
		}
		entry := m.entries[m.selected]
		if !entry.IsDir {
			return m, send(FileSelectedMsg{Path: entry.Path})
		}
		m.currentDir = entry.Path
		m.loadDir()
	case "backspace", "h", "left":
		if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
			m.currentDir = parent
			m.loadDir()
		}
	case "~":
		if home, _ := os.UserHomeDir(); home != "" {
			m.currentDir = home
			m.loadDir()
		}
	}
	return m, nil
}

func (m *FilePickerModel) move(delta int) {
	m.selected = max(min(m.selected+delta, len(m.entries)-1), 0)

	vis := m.visibleHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+vis {
		m.offset = m.selected - vis + 1
	}
}

func (m FilePickerModel) visibleHeight() int {
	return max(m.height-8, 5)
}

// View renders the picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Italic(true).Render(m.currentDir))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(mutedStyle.Render("  (nothing to pick here)"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleHeight(), len(m.entries))
	for i := m.offset; i < end; i++ {
		entry := m.entries[i]
		icon := "♪ "
		if entry.IsDir {
			icon = "▸ "
		}
		line := runewidth.Truncate(icon+entry.Name, max(m.width-4, 10), "…")

		switch {
		case i == m.selected:
			b.WriteString("> " + selectedRowStyle.Render(line))
		case entry.IsDir:
			b.WriteString("  " + subtitleStyle.Render(line))
		default:
			b.WriteString("  " + rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.entries) > m.visibleHeight() {
		b.WriteString(mutedStyle.Render("↕ scroll"))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: select • backspace: parent • ~: home • esc: cancel"))
	return b.String()
}
