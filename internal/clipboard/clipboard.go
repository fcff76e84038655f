// Package clipboard provides cross-platform clipboard support.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility can be found.
var ErrUnavailable = errors.New("clipboard not available")

// Write copies text to the system clipboard.
func Write(text string) error {
	if !Available() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Read returns the clipboard contents.
func Read() (string, error) {
	if !Available() {
		return "", ErrUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return text, nil
}

// Available checks if clipboard functionality is available.
func Available() bool {
	return !clipboard.Unsupported
}
