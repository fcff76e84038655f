// Package render turns an annotated script into plain text: each word row
// gets its annotation symbols above it and a highlight marker row below.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/f3rmion/promptscore/internal/coalesce"
	"github.com/f3rmion/promptscore/internal/layout"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/mattn/go-runewidth"
)

// Options controls text output.
type Options struct {
	Width     int
	Metrics   layout.Metrics
	Highlight coalesce.Options
}

// DefaultOptions matches the editor defaults.
func DefaultOptions() Options {
	return Options{Width: 72, Metrics: layout.DefaultMetrics(), Highlight: coalesce.DefaultOptions()}
}

// markers are the letters drawn under highlighted words.
var markers = map[score.HighlightColor]rune{
	score.GreenDark:   'g',
	score.BlueLight:   'b',
	score.BlueDark:    'B',
	score.OrangeLight: 'o',
	score.OrangeDark:  'O',
	score.Yellow:      'y',
}

// Marker returns the letter used for a highlight color.
func Marker(c score.HighlightColor) rune {
	return markers[c]
}

// Text writes s to w.
func Text(w io.Writer, s *score.Script, opts Options) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", s.Title)

	blocks := make([]layout.Block, len(s.Paragraphs))
	for i := range s.Paragraphs {
		for j := range s.Paragraphs[i].Sentences {
			sent := &s.Paragraphs[i].Sentences[j]
			for k := range sent.Words {
				blocks[i] = append(blocks[i], &sent.Words[k])
			}
		}
	}
	l := layout.Flow(blocks, opts.Width)
	marks := markerRows(l, opts)

	used := map[score.HighlightColor]bool{}
	for i, line := range l.Lines {
		if i > 0 && line.Block != l.Lines[i-1].Block {
			writeAudioNotes(bw, s.Paragraphs[l.Lines[i-1].Block])
			bw.WriteString("\n")
		}

		if ann := row(line, layout.AnnotationLabel); strings.TrimSpace(ann) != "" {
			bw.WriteString(ann + "\n")
		}
		bw.WriteString(row(line, func(w *score.Word) string { return w.Text }) + "\n")
		if m, ok := marks[line.Row]; ok {
			bw.WriteString(strings.TrimRight(string(m), " ") + "\n")
		}
		for _, it := range line.Items {
			if it.Word.IsHighlighted() {
				used[it.Word.Highlight] = true
			}
		}
	}
	if n := len(l.Lines); n > 0 {
		writeAudioNotes(bw, s.Paragraphs[l.Lines[n-1].Block])
	}

	if len(used) > 0 {
		bw.WriteString("\nHighlights:\n")
		for _, c := range score.AllHighlightColors() {
			if used[c] {
				fmt.Fprintf(bw, "  %c  %s\n", Marker(c), c.DisplayName())
			}
		}
	}
	return bw.Flush()
}

// row places text(word) at each item's column.
func row(line layout.Line, text func(*score.Word) string) string {
	var b strings.Builder
	col := 0
	for _, it := range line.Items {
		if it.Col > col {
			b.WriteString(strings.Repeat(" ", it.Col-col))
			col = it.Col
		}
		t := text(it.Word)
		b.WriteString(t)
		col += runewidth.StringWidth(t)
	}
	return strings.TrimRight(b.String(), " ")
}

// markerRows coalesces highlights and fills each region's cells with the
// color's marker, so a run of highlighted words reads as one bar.
func markerRows(l *layout.Layout, opts Options) map[int][]rune {
	rows := map[int][]rune{}
	regions := coalesce.Coalesce(l.Frames(opts.Metrics, nil), opts.Highlight)
	for _, r := range regions {
		row, start, end := opts.Metrics.Span(r.Rect)
		cells, ok := rows[row]
		if !ok {
			cells = []rune(strings.Repeat(" ", l.Width))
		}
		for len(cells) < end {
			cells = append(cells, ' ')
		}
		for c := start; c < end; c++ {
			cells[c] = Marker(r.Color)
		}
		rows[row] = cells
	}
	return rows
}

func writeAudioNotes(w *bufio.Writer, p score.Paragraph) {
	for i, s := range p.Sentences {
		if s.HasAudio() {
			fmt.Fprintf(w, "  ♪ sentence %d: %s\n", i+1, *s.AudioClip)
		}
	}
}
