package palette

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/f3rmion/promptscore/internal/score"
	"gopkg.in/yaml.v3"
)

// file is the on-disk shape of palette.yaml. Built-ins are never written.
type file struct {
	Symbols []Entry             `yaml:"symbols"`
	Colors  []score.CustomColor `yaml:"colors"`
}

// Load reads a palette file. A missing file yields the built-ins only.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing palette file: %w", err)
	}
	return New(f.Symbols, f.Colors), nil
}

// Save writes the custom part of c to path.
func Save(path string, c *Catalog) error {
	f := file{Symbols: c.Custom(), Colors: c.Colors()}
	if f.Symbols == nil {
		f.Symbols = []Entry{}
	}
	if f.Colors == nil {
		f.Colors = []score.CustomColor{}
	}

	out, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling palette: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating palette directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing palette file: %w", err)
	}
	return nil
}
