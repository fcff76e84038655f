package cmd

import (
	"fmt"

	"github.com/f3rmion/promptscore/internal/palette"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Manage annotation symbols and custom colors",
	Long: `Show and edit the symbol palette. Built-in symbols are fixed; custom
symbols and colors are stored in palette.yaml and picked up by a
running editor as soon as the file changes.`,
}

var paletteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List symbols, shortcuts and colors",
	Args:  cobra.NoArgs,
	RunE:  runPaletteList,
}

var paletteAddCmd = &cobra.Command{
	Use:   "add <symbol> <description>",
	Short: "Add a custom symbol",
	Long: `Add a custom symbol to the palette.

Example:
  promptscore palette add ★ "Smile here" --key s`,
	Args: cobra.ExactArgs(2),
	RunE: runPaletteAdd,
}

var paletteRemoveCmd = &cobra.Command{
	Use:   "remove <symbol>",
	Short: "Remove a custom symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaletteRemove,
}

var paletteColorCmd = &cobra.Command{
	Use:   "color <name> <#rrggbb>",
	Short: "Add a custom color",
	Args:  cobra.ExactArgs(2),
	RunE:  runPaletteColor,
}

func init() {
	rootCmd.AddCommand(paletteCmd)
	paletteCmd.AddCommand(paletteListCmd, paletteAddCmd, paletteRemoveCmd, paletteColorCmd)
	paletteAddCmd.Flags().StringP("key", "k", "", "single-character editor shortcut")
}

// editPalette loads the palette, applies fn and writes it back.
func editPalette(fn func(*palette.Catalog) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return palette.Save(cfg.PaletteFile, c)
}

func runPaletteList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range c.Entries() {
		key := e.Shortcut
		if key == "" {
			key = "-"
		}
		kind := "custom"
		if e.Builtin {
			kind = "built-in"
		}
		fmt.Fprintf(out, "%s  %s  %-28s %s\n", runewidth.FillRight(e.Symbol, 4), key, e.Description, kind)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Highlights:")
	for i, h := range score.AllHighlightColors() {
		fmt.Fprintf(out, "  %d  %-14s %s\n", i+1, h.DisplayName(), h.Hex())
	}

	if colors := c.Colors(); len(colors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Custom colors:")
		for _, col := range colors {
			fmt.Fprintf(out, "  %s  %s\n", col.Color.Hex(), col.DisplayName)
		}
	}
	return nil
}

func runPaletteAdd(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	err := editPalette(func(c *palette.Catalog) error {
		return c.Add(palette.Entry{Symbol: args[0], Description: args[1], Shortcut: key})
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", args[0])
	return nil
}

func runPaletteRemove(cmd *cobra.Command, args []string) error {
	err := editPalette(func(c *palette.Catalog) error {
		return c.Remove(args[0])
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

func runPaletteColor(cmd *cobra.Command, args []string) error {
	rgb, err := score.ParseHex(args[1])
	if err != nil {
		return err
	}
	err = editPalette(func(c *palette.Catalog) error {
		c.AddColor(score.CustomColor{Color: rgb, DisplayName: args[0]})
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added color %s %s\n", args[0], rgb.Hex())
	return nil
}
