package cmd

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved scripts",
	Long: `List the scripts in the library, most recently edited first.

The short ID in the first column is enough to name a script in other
commands.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	_, st, err := openLibrary()
	if err != nil {
		return err
	}
	defer st.Close()

	scripts, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(scripts) == 0 {
		fmt.Fprintln(out, "No scripts yet. Try 'promptscore import <file>'.")
		return nil
	}

	for _, s := range scripts {
		title := runewidth.FillRight(runewidth.Truncate(s.Title, 40, "…"), 40)
		fmt.Fprintf(out, "%s  %s  %5d words  %s\n",
			s.ID.String()[:8], title, s.Words, s.ModifiedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
