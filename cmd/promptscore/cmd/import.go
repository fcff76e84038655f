package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/f3rmion/promptscore/internal/clipboard"
	"github.com/f3rmion/promptscore/internal/editor"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Import text as a new script",
	Long: `Split text into paragraphs, sentences and words and save it to the
library as a new script.

Blank lines separate paragraphs. Read from a file, from standard input
with '-', or from the clipboard with --clipboard.

Examples:
  promptscore import talk.txt --title "Keynote"
  pbpaste | promptscore import -
  promptscore import --clipboard --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("title", "t", "", "script title")
	importCmd.Flags().Bool("clipboard", false, "read the text from the clipboard")
	importCmd.Flags().Bool("open", false, "open the new script in the editor")
}

func runImport(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	fromClipboard, _ := cmd.Flags().GetBool("clipboard")
	open, _ := cmd.Flags().GetBool("open")

	text, err := readImportText(cmd, args, fromClipboard)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to import")
	}

	cfg, st, err := openLibrary()
	if err != nil {
		return err
	}
	defer st.Close()

	engine := editor.New()
	engine.ImportText(text)
	engine.SetTitle(title)
	s := engine.Script()

	if err := st.Save(cmd.Context(), s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %q: %d paragraphs, %d sentences, %d words\n",
		s.Title, len(s.Paragraphs), s.SentenceCount(), s.WordCount())
	fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", s.ID)

	if open {
		return runApp(cfg, st, s)
	}
	return nil
}

func readImportText(cmd *cobra.Command, args []string, fromClipboard bool) (string, error) {
	switch {
	case fromClipboard:
		if len(args) > 0 {
			return "", fmt.Errorf("--clipboard takes no file argument")
		}
		return clipboard.Read()
	case len(args) == 0 || args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
}
