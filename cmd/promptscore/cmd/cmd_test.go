package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/f3rmion/promptscore/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestImportListExport(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, "Speak up now.\n\nThen rest.", "--config", dir, "import", "-", "--title", "Keynote")
	assert.Contains(t, out, "2 paragraphs, 2 sentences, 5 words")
	_, id, ok := strings.Cut(strings.TrimSpace(out), "ID: ")
	require.True(t, ok)

	out = execute(t, "", "--config", dir, "list")
	assert.Contains(t, out, "Keynote")
	assert.Contains(t, out, id[:8])

	out = execute(t, "", "--config", dir, "export", id[:8], "--format", "text")
	assert.Contains(t, out, "# Keynote")
	assert.Contains(t, out, "Speak up now.")

	out = execute(t, "", "--config", dir, "export", id, "--format", "json")
	s, err := score.DecodeJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Keynote", s.Title)
	assert.Equal(t, 5, s.WordCount())
}

func TestPaletteCommands(t *testing.T) {
	dir := t.TempDir()

	execute(t, "", "--config", dir, "palette", "add", "★", "Smile here", "--key", "s")
	execute(t, "", "--config", dir, "palette", "color", "Brand", "#ff8000")

	out := execute(t, "", "--config", dir, "palette", "list")
	assert.Contains(t, out, "Smile here")
	assert.Contains(t, out, "#ff8000  Brand")
	assert.Contains(t, out, "High pitch")

	execute(t, "", "--config", dir, "palette", "remove", "★")
	out = execute(t, "", "--config", dir, "palette", "list")
	assert.NotContains(t, out, "Smile here")
}

func TestSentenceAt(t *testing.T) {
	s := score.NewScript("", []score.Paragraph{
		score.NewParagraph([]score.Sentence{
			score.NewSentence([]score.Word{score.NewWord("One.")}),
			score.NewSentence([]score.Word{score.NewWord("Two.")}),
		}),
	}, time.Now())

	sent, err := sentenceAt(s, "1.2")
	require.NoError(t, err)
	assert.Equal(t, "Two.", sent.Words[0].Text)

	for _, ref := range []string{"1", "0.1", "2.1", "1.3", "a.b"} {
		_, err := sentenceAt(s, ref)
		assert.Error(t, err, ref)
	}
}

func TestAttachReplacesRecordingAfterSave(t *testing.T) {
	dir := t.TempDir()
	audioDir := filepath.Join(dir, "data", "audio")

	out := execute(t, "Speak up now.", "--config", dir, "import", "-")
	_, id, ok := strings.Cut(strings.TrimSpace(out), "ID: ")
	require.True(t, ok)

	first := filepath.Join(t.TempDir(), "take1.m4a")
	require.NoError(t, os.WriteFile(first, []byte("take one"), 0644))
	out = execute(t, "", "--config", dir, "attach", id, "1.1", first)
	handle := strings.Fields(out)[1]

	second := filepath.Join(t.TempDir(), "take2.m4a")
	require.NoError(t, os.WriteFile(second, []byte("take two"), 0644))
	out = execute(t, "", "--config", dir, "attach", id, "1.1", second)
	assert.Equal(t, handle, strings.Fields(out)[1])

	data, err := os.ReadFile(filepath.Join(audioDir, handle))
	require.NoError(t, err)
	assert.Equal(t, "take two", string(data))

	third := filepath.Join(t.TempDir(), "take3.wav")
	require.NoError(t, os.WriteFile(third, []byte("take three"), 0644))
	out = execute(t, "", "--config", dir, "attach", id, "1.1", third)
	wav := strings.Fields(out)[1]

	entries, err := os.ReadDir(audioDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "earlier extension pruned, no staged copy left")
	assert.Equal(t, wav, entries[0].Name())
}
