package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/f3rmion/promptscore/internal/render"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a script as JSON, YAML or annotated text",
	Long: `Write a saved script to standard output or a file.

Formats:
  json   full document, the same shape the library stores
  yaml   full document in YAML
  text   words with their symbols above and highlight markers below

Examples:
  promptscore export 3f2a --format text
  promptscore export 3f2a -f yaml -o keynote.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "json", "output format: json, yaml or text")
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().Int("width", 0, "text width (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")

	cfg, st, err := openLibrary()
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := loadRef(cmd.Context(), st, args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case "json":
		data, err := score.EncodeJSON(s)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case "yaml", "yml":
		data, err := score.EncodeYAML(s)
		if err != nil {
			return err
		}
		buf.Write(data)
	case "text", "txt":
		opts := render.Options{
			Width:     cfg.Editor.WrapWidth,
			Metrics:   cfg.Layout,
			Highlight: cfg.Highlight,
		}
		if width > 0 {
			opts.Width = width
		}
		if err := render.Text(&buf, s, opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or text)", format)
	}

	var out io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %q to %s\n", s.Title, output)
	}
	return nil
}
