// Package config handles loading and saving user configuration for PromptScore.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/promptscore/internal/coalesce"
	"github.com/f3rmion/promptscore/internal/layout"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration for PromptScore.
type Config struct {
	DataDir     string           `mapstructure:"data_dir" yaml:"data_dir"`         // scripts.db and audio/
	PaletteFile string           `mapstructure:"palette_file" yaml:"palette_file"` // custom symbols and colors
	Editor      EditorConfig     `mapstructure:"editor" yaml:"editor"`
	Highlight   coalesce.Options `mapstructure:"highlight" yaml:"highlight"`
	Layout      layout.Metrics   `mapstructure:"layout" yaml:"layout"`
}

// EditorConfig holds settings for the annotation view.
type EditorConfig struct {
	WrapWidth       int    `mapstructure:"wrap_width" yaml:"wrap_width"`               // max cells per word row
	ViewMode        string `mapstructure:"view_mode" yaml:"view_mode"`                 // "paragraph" or "sentence"
	ShowLineNumbers bool   `mapstructure:"show_line_numbers" yaml:"show_line_numbers"` // paragraph numbers in the gutter
}

// Defaults returns the configuration used when nothing is set, rooted at
// the given config directory.
func Defaults(configDir string) Config {
	return Config{
		DataDir:     filepath.Join(configDir, "data"),
		PaletteFile: filepath.Join(configDir, "palette.yaml"),
		Editor: EditorConfig{
			WrapWidth: 72,
			ViewMode:  "paragraph",
		},
		Highlight: coalesce.DefaultOptions(),
		Layout:    layout.DefaultMetrics(),
	}
}

// SetDefaults registers every default with v so env vars and flags can
// override nested keys.
func SetDefaults(v *viper.Viper, d Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("palette_file", d.PaletteFile)
	v.SetDefault("editor.wrap_width", d.Editor.WrapWidth)
	v.SetDefault("editor.view_mode", d.Editor.ViewMode)
	v.SetDefault("editor.show_line_numbers", d.Editor.ShowLineNumbers)
	v.SetDefault("highlight.line_tolerance", d.Highlight.LineTolerance)
	v.SetDefault("highlight.max_gap", d.Highlight.MaxGap)
	v.SetDefault("highlight.padding", d.Highlight.Padding)
	v.SetDefault("layout.cell_width", d.Layout.CellWidth)
	v.SetDefault("layout.line_height", d.Layout.LineHeight)
}

// EnvKeyReplacer maps nested keys to env names, e.g. editor.wrap_width to
// PROMPTSCORE_EDITOR_WRAP_WIDTH.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Load reads config.yaml from configDir through v. A missing file is not an
// error; defaults fill in everything unset.
func Load(v *viper.Viper, configDir string) (Config, error) {
	SetDefaults(v, Defaults(configDir))

	v.SetConfigFile(filepath.Join(configDir, FileName))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the editor cannot work with.
func (c Config) Validate() error {
	if c.Editor.WrapWidth < 10 {
		return fmt.Errorf("editor.wrap_width must be at least 10, got %d", c.Editor.WrapWidth)
	}
	switch c.Editor.ViewMode {
	case "paragraph", "sentence":
	default:
		return fmt.Errorf("editor.view_mode must be paragraph or sentence, got %q", c.Editor.ViewMode)
	}
	if c.Layout.CellWidth <= 0 || c.Layout.LineHeight <= 0 {
		return fmt.Errorf("layout cell_width and line_height must be positive")
	}
	if c.Highlight.Padding*2 >= c.Layout.CellWidth {
		return fmt.Errorf("highlight.padding must be less than half of layout.cell_width")
	}
	if c.Highlight.LineTolerance >= c.Layout.LineHeight {
		return fmt.Errorf("highlight.line_tolerance must be less than layout.line_height")
	}
	return nil
}

// DatabasePath is the script library file.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "scripts.db")
}

// AudioDir holds copied audio references.
func (c Config) AudioDir() string {
	return filepath.Join(c.DataDir, "audio")
}

// Save writes c to path as YAML.
func Save(path string, c Config) error {
	out, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "promptscore"), nil
}

// EnsureDirs creates the config directory and the data directories of c.
func EnsureDirs(configDir string, c Config) error {
	for _, dir := range []string{configDir, c.DataDir, c.AudioDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
