package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults("/cfg")
	assert.Equal(t, filepath.Join("/cfg", "data"), d.DataDir)
	assert.Equal(t, filepath.Join("/cfg", "palette.yaml"), d.PaletteFile)
	assert.Equal(t, 72, d.Editor.WrapWidth)
	assert.Equal(t, 5.0, d.Highlight.LineTolerance)
	assert.Equal(t, 20.0, d.Highlight.MaxGap)
	assert.Equal(t, 2.0, d.Highlight.Padding)
	assert.Equal(t, 8.0, d.Layout.CellWidth)
	assert.NoError(t, d.Validate())
	assert.Equal(t, filepath.Join("/cfg", "data", "scripts.db"), d.DatabasePath())
	assert.Equal(t, filepath.Join("/cfg", "data", "audio"), d.AudioDir())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults(dir), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := "editor:\n  wrap_width: 40\n  view_mode: sentence\nhighlight:\n  max_gap: 12\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0644))

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Editor.WrapWidth)
	assert.Equal(t, "sentence", cfg.Editor.ViewMode)
	assert.Equal(t, 12.0, cfg.Highlight.MaxGap)
	assert.Equal(t, 5.0, cfg.Highlight.LineTolerance, "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROMPTSCORE_EDITOR_WRAP_WIDTH", "50")

	v := viper.New()
	v.SetEnvPrefix("PROMPTSCORE")
	v.SetEnvKeyReplacer(EnvKeyReplacer())
	v.AutomaticEnv()

	cfg, err := Load(v, dir)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Editor.WrapWidth)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("editor:\n  view_mode: poster\n"), 0644))

	_, err := Load(viper.New(), dir)
	assert.ErrorContains(t, err, "view_mode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"narrow wrap", func(c *Config) { c.Editor.WrapWidth = 3 }, "wrap_width"},
		{"zero cell", func(c *Config) { c.Layout.CellWidth = 0 }, "positive"},
		{"fat padding", func(c *Config) { c.Highlight.Padding = 4 }, "padding"},
		{"tall tolerance", func(c *Config) { c.Highlight.LineTolerance = 25 }, "line_tolerance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults("/x")
			tt.mutate(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestSave_ReloadsIdentically(t *testing.T) {
	dir := t.TempDir()
	want := Defaults(dir)
	want.Editor.ShowLineNumbers = true
	want.Editor.WrapWidth = 60
	require.NoError(t, Save(filepath.Join(dir, FileName), want))

	got, err := Load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnsureDirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "promptscore")
	require.NoError(t, EnsureDirs(dir, Defaults(dir)))
	info, err := os.Stat(filepath.Join(dir, "data", "audio"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
