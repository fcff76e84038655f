// Package palette is the symbol catalog: the built-in prosody symbols plus
// user-defined symbols and custom colors, looked up by shortcut or symbol.
package palette

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/f3rmion/promptscore/internal/score"
	"github.com/google/uuid"
)

var (
	ErrEmptySymbol       = errors.New("symbol is empty")
	ErrDuplicateSymbol   = errors.New("symbol already exists")
	ErrDuplicateShortcut = errors.New("shortcut already in use")
	ErrInvalidShortcut   = errors.New("shortcut must be a single character")
	ErrBuiltin           = errors.New("built-in symbols cannot be changed")
	ErrUnknownSymbol     = errors.New("no such symbol")
	ErrUnknownColor      = errors.New("no such color")
)

// Entry is one symbol the user can apply.
type Entry struct {
	Symbol      string `yaml:"symbol" json:"symbol"`
	Description string `yaml:"description" json:"description"`
	Shortcut    string `yaml:"shortcut,omitempty" json:"shortcut,omitempty"` // one lowercase character, optional
	Builtin     bool   `yaml:"-" json:"builtin"`
}

// ShortcutRune returns the shortcut as a rune, or 0 when there is none.
func (e Entry) ShortcutRune() rune {
	r, _ := utf8.DecodeRuneInString(e.Shortcut)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

var builtins = []Entry{
	{Symbol: "↑", Description: "High pitch", Shortcut: "h"},
	{Symbol: "↓", Description: "Low pitch", Shortcut: "l"},
	{Symbol: "↗︎", Description: "Low to high", Shortcut: "u"},
	{Symbol: "↘︎", Description: "High to low", Shortcut: "d"},
	{Symbol: "●", Description: "High emphasis", Shortcut: "e"},
	{Symbol: "○", Description: "Low emphasis", Shortcut: "w"},
	{Symbol: "_", Description: "Pause", Shortcut: "p"},
	{Symbol: `""`, Description: "Air quotes", Shortcut: "q"},
	{Symbol: "L", Description: "List item", Shortcut: "t"},
}

// Emphasis symbols change how the word itself is drawn.
const (
	HighEmphasis = "●"
	LowEmphasis  = "○"
)

// Builtins returns the built-in symbols in palette order.
func Builtins() []Entry {
	out := make([]Entry, len(builtins))
	for i, e := range builtins {
		e.Builtin = true
		out[i] = e
	}
	return out
}

// Catalog holds every symbol and custom color. It is not safe for
// concurrent use; the UI replaces it wholesale on reload.
type Catalog struct {
	entries []Entry
	colors  []score.CustomColor
}

// New builds a catalog from user-defined entries and colors. Custom entries
// that clash with a built-in symbol are dropped and a custom shortcut that
// clashes with an earlier entry is cleared, so built-ins always win.
func New(custom []Entry, colors []score.CustomColor) *Catalog {
	c := &Catalog{entries: Builtins()}
	for _, e := range custom {
		e.Builtin = false
		e.Shortcut = normalizeShortcut(e.Shortcut)
		if e.Symbol == "" {
			continue
		}
		if _, ok := c.BySymbol(e.Symbol); ok {
			continue
		}
		if r := e.ShortcutRune(); r != 0 {
			if _, ok := c.ByShortcut(r); ok {
				e.Shortcut = ""
			}
		}
		c.entries = append(c.entries, e)
	}
	c.colors = append(c.colors, colors...)
	return c
}

// ByShortcut finds the entry bound to r. Case is ignored because Shift only
// switches between overwrite and append.
func (c *Catalog) ByShortcut(r rune) (Entry, bool) {
	r = unicode.ToLower(r)
	for _, e := range c.entries {
		if e.ShortcutRune() == r && r != 0 {
			return e, true
		}
	}
	return Entry{}, false
}

// BySymbol finds an entry by its symbol text.
func (c *Catalog) BySymbol(symbol string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Symbol == symbol {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns built-ins first, then custom entries in insertion order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Custom returns only the user-defined entries.
func (c *Catalog) Custom() []Entry {
	var out []Entry
	for _, e := range c.entries {
		if !e.Builtin {
			out = append(out, e)
		}
	}
	return out
}

// Shortcuts maps each symbol that has a shortcut to it.
func (c *Catalog) Shortcuts() map[string]string {
	m := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		if e.Shortcut != "" {
			m[e.Symbol] = e.Shortcut
		}
	}
	return m
}

// Add appends a custom symbol.
func (c *Catalog) Add(e Entry) error {
	e.Builtin = false
	e.Symbol = strings.TrimSpace(e.Symbol)
	e.Shortcut = normalizeShortcut(e.Shortcut)
	if err := c.validate(e, ""); err != nil {
		return err
	}
	c.entries = append(c.entries, e)
	return nil
}

// Update replaces the custom entry named symbol.
func (c *Catalog) Update(symbol string, e Entry) error {
	i, err := c.customIndex(symbol)
	if err != nil {
		return err
	}
	e.Builtin = false
	e.Symbol = strings.TrimSpace(e.Symbol)
	e.Shortcut = normalizeShortcut(e.Shortcut)
	if err := c.validate(e, symbol); err != nil {
		return err
	}
	c.entries[i] = e
	return nil
}

// Remove deletes a custom symbol.
func (c *Catalog) Remove(symbol string) error {
	i, err := c.customIndex(symbol)
	if err != nil {
		return err
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return nil
}

// Colors returns the custom colors.
func (c *Catalog) Colors() []score.CustomColor {
	return append([]score.CustomColor(nil), c.colors...)
}

// AddColor appends a custom color.
func (c *Catalog) AddColor(color score.CustomColor) {
	if color.ID == uuid.Nil {
		color.ID = uuid.New()
	}
	c.colors = append(c.colors, color)
}

// RemoveColor deletes a custom color by ID.
func (c *Catalog) RemoveColor(id uuid.UUID) error {
	for i, col := range c.colors {
		if col.ID == id {
			c.colors = append(c.colors[:i], c.colors[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownColor, id)
}

// validate checks e against every entry except the one named skip.
func (c *Catalog) validate(e Entry, skip string) error {
	if e.Symbol == "" {
		return ErrEmptySymbol
	}
	if utf8.RuneCountInString(e.Shortcut) > 1 {
		return fmt.Errorf("%w: %q", ErrInvalidShortcut, e.Shortcut)
	}
	for _, other := range c.entries {
		if other.Symbol == skip {
			continue
		}
		if other.Symbol == e.Symbol {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, e.Symbol)
		}
		if e.Shortcut != "" && other.Shortcut == e.Shortcut {
			return fmt.Errorf("%w: %q is bound to %s", ErrDuplicateShortcut, e.Shortcut, other.Symbol)
		}
	}
	return nil
}

func (c *Catalog) customIndex(symbol string) (int, error) {
	for i, e := range c.entries {
		if e.Symbol != symbol {
			continue
		}
		if e.Builtin {
			return -1, fmt.Errorf("%w: %s", ErrBuiltin, symbol)
		}
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
}

func normalizeShortcut(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
