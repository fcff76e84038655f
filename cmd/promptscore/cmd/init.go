package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/promptscore/internal/config"
	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize PromptScore configuration",
	Long: `Initialize PromptScore in your config directory.

This creates:
  - config.yaml   (editor, layout and highlight settings)
  - palette.yaml  (your own symbols and colors, empty to start)
  - data/         (script library and audio recordings)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, config.FileName)

	if _, err := os.Stat(configFile); err == nil && !force {
		return fmt.Errorf("config already exists: %s\nUse --force to overwrite", configFile)
	}

	cfg := config.Defaults(configDir)
	if err := config.EnsureDirs(configDir, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initializing PromptScore in %s\n\n", configDir)

	if err := config.Save(configFile, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Created %s\n", config.FileName)

	if _, err := os.Stat(cfg.PaletteFile); err != nil || force {
		if err := palette.Save(cfg.PaletteFile, palette.New(nil, nil)); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Created %s\n", filepath.Base(cfg.PaletteFile))
	}
	fmt.Fprintf(out, "  Created %s\n", cfg.DataDir)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Run 'promptscore import <file>' to add a script")
	fmt.Fprintln(out, "  2. Run 'promptscore' to start annotating")
	fmt.Fprintln(out, "  3. Run 'promptscore palette add' to define your own symbols")
	return nil
}
