package cmd

import "github.com/spf13/cobra"

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Open a script in the editor",
	Long: `Open a saved script in the terminal editor. The ID may be shortened
to any unique prefix.

Example:
  promptscore edit 3f2a`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, st, err := openLibrary()
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := loadRef(cmd.Context(), st, args[0])
	if err != nil {
		return err
	}
	return runApp(cfg, st, s)
}
