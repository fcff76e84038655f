package cmd

import (
	"fmt"

	"github.com/f3rmion/promptscore/internal/audio"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a script and its audio",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().Bool("keep-audio", false, "leave copied audio files in place")
}

func runDelete(cmd *cobra.Command, args []string) error {
	keepAudio, _ := cmd.Flags().GetBool("keep-audio")

	cfg, st, err := openLibrary()
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := loadRef(cmd.Context(), st, args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(cmd.Context(), s.ID); err != nil {
		return err
	}

	if !keepAudio {
		lib := audio.NewLibrary(cfg.AudioDir())
		for _, p := range s.Paragraphs {
			for _, sent := range p.Sentences {
				if sent.HasAudio() {
					if err := lib.Detach(*sent.AudioClip); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", err)
					}
				}
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", s.Title)
	return nil
}
