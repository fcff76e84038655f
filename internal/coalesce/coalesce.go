// Package coalesce merges per-word marking into the minimal set of regions a
// renderer paints behind the text.
//
// A region is a maximal run of words, in reading order, that share one
// marking (the selection, or a single highlight color) and sit next to each
// other on the same line. Unmarked words never produce a region and end any
// run in progress.
package coalesce

import (
	"cmp"
	"math"
	"slices"

	"github.com/f3rmion/promptscore/internal/score"
	"github.com/google/uuid"
)

// Rect is an axis-aligned box. Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Union returns the smallest rect containing r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.MinX(), o.MinX())
	minY := math.Min(r.MinY(), o.MinY())
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Inset grows r by d on every side; a negative d shrinks it.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Frame is one word's geometry and marking for a single layout pass.
type Frame struct {
	ID        uuid.UUID
	Rect      Rect
	Selected  bool
	Highlight score.HighlightColor
}

// Region is one painted background.
type Region struct {
	Rect      Rect
	Color     score.HighlightColor // NoHighlight for selection regions
	Selection bool
	Members   []uuid.UUID // Word IDs in reading order
}

// Options tunes line detection and merging.
type Options struct {
	LineTolerance float64 `mapstructure:"line_tolerance" yaml:"line_tolerance"` // max |ΔminY| for "same line"
	MaxGap        float64 `mapstructure:"max_gap" yaml:"max_gap"`               // merge when gap is below this
	Padding       float64 `mapstructure:"padding" yaml:"padding"`               // added around each region
}

// DefaultOptions returns the tolerances used by the editor.
func DefaultOptions() Options {
	return Options{LineTolerance: 5, MaxGap: 20, Padding: 2}
}

// marking identifies what a frame is painted as. The zero value is unmarked.
type marking struct {
	selection bool
	color     score.HighlightColor
}

func (m marking) none() bool {
	return !m.selection && m.color == score.NoHighlight
}

func markingOf(f Frame) marking {
	if f.Selected {
		return marking{selection: true}
	}
	return marking{color: f.Highlight}
}

// Coalesce partitions frames into regions. Frames may arrive in any order;
// they are put into reading order first. The input is not modified.
func Coalesce(frames []Frame, opts Options) []Region {
	sorted := ReadingOrder(frames, opts.LineTolerance)

	var (
		regions []Region
		run     []Frame
		current marking
	)
	flush := func() {
		if len(run) > 0 {
			regions = append(regions, makeRegion(run, current, opts.Padding))
		}
		run = run[:0]
	}

	for _, f := range sorted {
		m := markingOf(f)
		if m.none() {
			flush()
			current = marking{}
			continue
		}
		if len(run) > 0 && m == current && adjacent(run[len(run)-1], f, opts) {
			run = append(run, f)
			continue
		}
		flush()
		run = append(run, f)
		current = m
	}
	flush()

	return regions
}

// ReadingOrder returns a copy of frames sorted top to bottom, then left to
// right. Frames whose minY lies within tolerance of the first frame of a line
// belong to that line.
func ReadingOrder(frames []Frame, tolerance float64) []Frame {
	byY := slices.Clone(frames)
	slices.SortStableFunc(byY, func(a, b Frame) int {
		return cmp.Compare(a.Rect.MinY(), b.Rect.MinY())
	})

	type lined struct {
		line int
		f    Frame
	}
	withLines := make([]lined, len(byY))
	line, lineY := -1, 0.0
	for i, f := range byY {
		if line < 0 || math.Abs(f.Rect.MinY()-lineY) >= tolerance {
			line++
			lineY = f.Rect.MinY()
		}
		withLines[i] = lined{line: line, f: f}
	}

	slices.SortStableFunc(withLines, func(a, b lined) int {
		if c := cmp.Compare(a.line, b.line); c != 0 {
			return c
		}
		return cmp.Compare(a.f.Rect.MinX(), b.f.Rect.MinX())
	})

	out := make([]Frame, len(withLines))
	for i, l := range withLines {
		out[i] = l.f
	}
	return out
}

func adjacent(last, next Frame, opts Options) bool {
	sameLine := math.Abs(last.Rect.MinY()-next.Rect.MinY()) < opts.LineTolerance
	return sameLine && next.Rect.MinX()-last.Rect.MaxX() < opts.MaxGap
}

func makeRegion(run []Frame, m marking, padding float64) Region {
	bounds := run[0].Rect
	members := make([]uuid.UUID, len(run))
	for i, f := range run {
		bounds = bounds.Union(f.Rect)
		members[i] = f.ID
	}
	return Region{
		Rect:      bounds.Inset(padding),
		Color:     m.color,
		Selection: m.selection,
		Members:   members,
	}
}
