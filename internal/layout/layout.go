// Package layout flows words into terminal lines and reports the per-word
// geometry the coalescer needs.
//
// Geometry is expressed in pseudo-pixels: one terminal cell is CellWidth
// wide and one text row (annotation line plus word line) is LineHeight tall.
package layout

import (
	"math"
	"strings"

	"github.com/f3rmion/promptscore/internal/coalesce"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
)

// Metrics converts terminal cells to pseudo-pixels.
type Metrics struct {
	CellWidth  float64 `mapstructure:"cell_width" yaml:"cell_width"`
	LineHeight float64 `mapstructure:"line_height" yaml:"line_height"`
}

// DefaultMetrics returns the metrics the coalescer tolerances were tuned for.
func DefaultMetrics() Metrics {
	return Metrics{CellWidth: 8, LineHeight: 20}
}

// Block is a run of words that starts on a fresh row, usually a paragraph.
type Block []*score.Word

// Item is one placed word.
type Item struct {
	Word  *score.Word
	Col   int // first cell
	Width int // cells covered, wide enough for the word or its annotations
}

// Line is one visual row of words.
type Line struct {
	Row   int // visual row, counting the blank rows between blocks
	Block int
	Items []Item
}

// Layout is the result of flowing blocks into a fixed width.
type Layout struct {
	Width int
	Lines []Line
	where map[uuid.UUID][2]int // word ID -> line, item
}

// AnnotationLabel is the text drawn above a word.
func AnnotationLabel(w *score.Word) string {
	return strings.Join(w.Symbols(), "")
}

// ItemWidth is the number of cells a word occupies.
func ItemWidth(w *score.Word) int {
	return max(runewidth.StringWidth(w.Text), runewidth.StringWidth(AnnotationLabel(w)), 1)
}

// Flow places blocks into lines no wider than width. Words are separated by
// one cell; a word wider than the line gets a line to itself.
func Flow(blocks []Block, width int) *Layout {
	if width < 1 {
		width = 1
	}
	l := &Layout{Width: width, where: make(map[uuid.UUID][2]int)}

	row := 0
	for b, block := range blocks {
		if len(block) == 0 {
			continue
		}
		if len(l.Lines) > 0 {
			row++ // blank row between blocks
		}
		line := Line{Row: row, Block: b}
		col := 0
		for _, w := range block {
			iw := ItemWidth(w)
			if len(line.Items) > 0 && col+1+iw > width {
				l.Lines = append(l.Lines, line)
				row++
				line = Line{Row: row, Block: b}
				col = 0
			}
			if len(line.Items) > 0 {
				col++
			}
			l.where[w.ID] = [2]int{len(l.Lines), len(line.Items)}
			line.Items = append(line.Items, Item{Word: w, Col: col, Width: iw})
			col += iw
		}
		l.Lines = append(l.Lines, line)
		row++
	}
	return l
}

// Rows returns the number of visual rows, including blank separators.
func (l *Layout) Rows() int {
	if len(l.Lines) == 0 {
		return 0
	}
	return l.Lines[len(l.Lines)-1].Row + 1
}

// Locate returns the line and item index of a word.
func (l *Layout) Locate(id uuid.UUID) (line, item int, ok bool) {
	p, ok := l.where[id]
	return p[0], p[1], ok
}

// Frames returns one coalescer frame per placed word, in reading order.
func (l *Layout) Frames(m Metrics, selected func(uuid.UUID) bool) []coalesce.Frame {
	var frames []coalesce.Frame
	for _, line := range l.Lines {
		for _, it := range line.Items {
			frames = append(frames, coalesce.Frame{
				ID:        it.Word.ID,
				Rect:      m.Rect(line.Row, it.Col, it.Width),
				Selected:  selected != nil && selected(it.Word.ID),
				Highlight: it.Word.Highlight,
			})
		}
	}
	return frames
}

// Rect converts a cell span to pseudo-pixels.
func (m Metrics) Rect(row, col, width int) coalesce.Rect {
	return coalesce.Rect{
		X: float64(col) * m.CellWidth,
		Y: float64(row) * m.LineHeight,
		W: float64(width) * m.CellWidth,
		H: m.LineHeight,
	}
}

// Span maps a region back to a row and a half-open cell range. Padding
// smaller than half a cell rounds away.
func (m Metrics) Span(r coalesce.Rect) (row, start, end int) {
	row = int(math.Floor((r.Y + r.H/2) / m.LineHeight))
	start = int(math.Round(r.X / m.CellWidth))
	end = int(math.Round(r.MaxX() / m.CellWidth))
	if start < 0 {
		start = 0
	}
	return row, start, end
}
