// Package log provides category-tagged debug logging for PromptScore.
// Output goes to a file opened through tea.LogToFile so the terminal UI is
// never written to. Logging stays off unless --debug or PROMPTSCORE_DEBUG is set.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatTokenize Category = "tokenize" // Text import
	CatEditor   Category = "editor"   // Selection and annotation engine
	CatStore    Category = "store"    // Script library
	CatPalette  Category = "palette"  // Symbol catalog and reloads
	CatAudio    Category = "audio"    // Audio reference copies
	CatUI       Category = "ui"       // TUI events
	CatConfig   Category = "config"   // Configuration loading/saving
)

type logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	minLevel Level
}

var defaultLogger *logger

// Init opens path for appending and enables logging.
// The returned function closes the file.
func Init(path string) (func(), error) {
	f, err := tea.LogToFile(path, "promptscore")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defaultLogger = &logger{file: f, writer: f, minLevel: LevelDebug}
	return func() {
		_ = f.Close()
		defaultLogger = nil
	}, nil
}

// SetOutput directs log entries to w. A nil writer disables logging.
func SetOutput(w io.Writer) {
	if w == nil {
		defaultLogger = nil
		return
	}
	defaultLogger = &logger{writer: w, minLevel: LevelDebug}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Enabled reports whether entries are being written.
func Enabled() bool {
	return defaultLogger != nil
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minLevel {
		return
	}

	// 2025-06-01T10:45:00 [INFO] [editor] message key=value
	entry := fmt.Sprintf("%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	entry += "\n"

	_, _ = l.writer.Write([]byte(entry))
}
