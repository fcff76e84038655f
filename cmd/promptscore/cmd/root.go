// Package cmd contains all CLI commands for PromptScore.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/promptscore/internal/audio"
	"github.com/f3rmion/promptscore/internal/config"
	"github.com/f3rmion/promptscore/internal/editor"
	"github.com/f3rmion/promptscore/internal/log"
	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/f3rmion/promptscore/internal/store"
	"github.com/f3rmion/promptscore/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgDir   string
	closeLog func()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "promptscore",
	Short: "Annotate scripts for spoken delivery",
	Long: `PromptScore marks up a script for reading aloud: pitch arrows,
emphasis dots, pauses and numbered list items sit above the words, and
highlight colors run behind them.

Running 'promptscore' without arguments opens the most recent script in
the terminal editor.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(*cobra.Command, []string) { stopLogging() },
	RunE:              runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer stopLogging()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/promptscore)")
	rootCmd.PersistentFlags().Bool("debug", false, "write a debug log to the config directory")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in ENV variables and settles the config directory.
func initConfig() {
	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("PROMPTSCORE")
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if !viper.GetBool("debug") || closeLog != nil {
		return nil
	}
	dir := getConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	closer, err := log.Init(filepath.Join(dir, "debug.log"))
	if err != nil {
		return err
	}
	closeLog = closer
	log.Info(log.CatConfig, "starting", "command", cmd.Name(), "config_dir", dir)
	return nil
}

func stopLogging() {
	if closeLog != nil {
		closeLog()
		closeLog = nil
	}
}

// loadConfig reads config.yaml and creates the data directories.
func loadConfig() (config.Config, error) {
	dir := getConfigDir()
	cfg, err := config.Load(viper.GetViper(), dir)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.EnsureDirs(dir, cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openLibrary loads the config and opens the script store.
func openLibrary() (config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, st, nil
}

// loadRef loads the script named by an ID or unique ID prefix.
func loadRef(ctx context.Context, st *store.Store, ref string) (*score.Script, error) {
	id, err := st.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return st.Load(ctx, id)
}

// runTUI opens the most recent script in the editor.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, st, err := openLibrary()
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := st.Latest(cmd.Context())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return runApp(cfg, st, s)
}

// runApp starts the TUI with s loaded, or with the import view when s is nil.
func runApp(cfg config.Config, st *store.Store, s *score.Script) error {
	catalog, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		return err
	}

	engine := editor.New(editor.WithViewMode(editor.ParseViewMode(cfg.Editor.ViewMode)))
	if s != nil {
		engine.Load(s)
	}

	deps := tui.Deps{
		Config:     &cfg,
		ConfigFile: filepath.Join(getConfigDir(), config.FileName),
		Engine:     engine,
		Store:      st,
		Audio:      audio.NewLibrary(cfg.AudioDir()),
		Catalog:    catalog,
	}

	// The app works without live palette reloads.
	if w, err := palette.NewWatcher(cfg.PaletteFile, palette.DefaultDebounce); err == nil {
		if ch, err := w.Start(); err == nil {
			deps.PaletteChanges = ch
			defer w.Stop()
		} else {
			log.ErrorErr(log.CatPalette, "palette watcher disabled", err)
			_ = w.Stop()
		}
	}

	p := tea.NewProgram(
		tui.NewApp(deps),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
