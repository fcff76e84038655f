package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/f3rmion/promptscore/internal/audio"
	"github.com/f3rmion/promptscore/internal/editor"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <id> <paragraph.sentence> [file]",
	Short: "Attach a recording to a sentence",
	Long: `Copy an audio file into the library and reference it from a sentence.
Sentences are numbered from 1 within their paragraph.

Examples:
  promptscore attach 3f2a 1.2 take3.m4a
  promptscore attach 3f2a 1.2 --detach`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.Flags().Bool("detach", false, "remove the sentence's recording instead")
}

func runAttach(cmd *cobra.Command, args []string) error {
	detach, _ := cmd.Flags().GetBool("detach")
	if !detach && len(args) != 3 {
		return fmt.Errorf("an audio file is required unless --detach is set")
	}

	cfg, st, err := openLibrary()
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := loadRef(cmd.Context(), st, args[0])
	if err != nil {
		return err
	}
	sent, err := sentenceAt(s, args[1])
	if err != nil {
		return err
	}

	lib := audio.NewLibrary(cfg.AudioDir())
	engine := editor.New()
	engine.Load(s)

	if detach {
		handle, ok := engine.DetachAudio(sent.ID)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Sentence %s has no recording\n", args[1])
			return nil
		}
		if err := st.Save(cmd.Context(), engine.Script()); err != nil {
			return err
		}
		if err := lib.Detach(handle); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Detached recording from sentence %s\n", args[1])
		return nil
	}

	// The earlier recording stays in place until the script is saved.
	pending, err := lib.Stage(cmd.Context(), sent.ID, args[2])
	if err != nil {
		return err
	}
	handle := pending.Handle()
	engine.AttachAudio(sent.ID, handle)
	if err := st.Save(cmd.Context(), engine.Script()); err != nil {
		pending.Discard()
		return err
	}
	if err := pending.Commit(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Attached %s to sentence %s\n", handle, args[1])
	return nil
}

// sentenceAt resolves a 1-based "paragraph.sentence" reference.
func sentenceAt(s *score.Script, ref string) (*score.Sentence, error) {
	ps, ss, ok := strings.Cut(ref, ".")
	if !ok {
		return nil, fmt.Errorf("invalid sentence %q: want paragraph.sentence, e.g. 1.2", ref)
	}
	p, err := strconv.Atoi(ps)
	if err != nil || p < 1 || p > len(s.Paragraphs) {
		return nil, fmt.Errorf("no paragraph %q (script has %d)", ps, len(s.Paragraphs))
	}
	sentences := s.Paragraphs[p-1].Sentences
	n, err := strconv.Atoi(ss)
	if err != nil || n < 1 || n > len(sentences) {
		return nil, fmt.Errorf("no sentence %q in paragraph %d (it has %d)", ss, p, len(sentences))
	}
	return &sentences[n-1], nil
}
