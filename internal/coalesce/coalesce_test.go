package coalesce

import (
	"testing"

	"github.com/f3rmion/promptscore/internal/score"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func frame(x, y, w float64, sel bool, hl score.HighlightColor) Frame {
	return Frame{ID: uuid.New(), Rect: Rect{X: x, Y: y, W: w, H: 16}, Selected: sel, Highlight: hl}
}

func TestCoalesce_MergesCloseSameColor(t *testing.T) {
	a := frame(0, 0, 40, false, score.Yellow)
	b := frame(48, 0, 30, false, score.Yellow)

	got := Coalesce([]Frame{a, b}, DefaultOptions())

	require.Len(t, got, 1)
	assert.Equal(t, score.Yellow, got[0].Color)
	assert.False(t, got[0].Selection)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, got[0].Members)
	assert.Equal(t, Rect{X: -2, Y: -2, W: 82, H: 20}, got[0].Rect)
}

func TestCoalesce_SplitsWideGap(t *testing.T) {
	a := frame(0, 0, 40, false, score.Yellow)
	b := frame(60, 0, 30, false, score.Yellow) // gap 20, not below threshold

	got := Coalesce([]Frame{a, b}, DefaultOptions())
	require.Len(t, got, 2)
	assert.Equal(t, []uuid.UUID{a.ID}, got[0].Members)
	assert.Equal(t, []uuid.UUID{b.ID}, got[1].Members)
}

func TestCoalesce_NeverMergesAcrossKinds(t *testing.T) {
	frames := []Frame{
		frame(0, 0, 20, false, score.BlueLight),
		frame(24, 0, 20, false, score.BlueDark),
		frame(48, 0, 20, true, score.BlueDark),
		frame(72, 0, 20, true, score.NoHighlight),
	}

	got := Coalesce(frames, DefaultOptions())
	require.Len(t, got, 3)
	assert.Equal(t, score.BlueLight, got[0].Color)
	assert.Equal(t, score.BlueDark, got[1].Color)
	assert.True(t, got[2].Selection, "selection wins over highlight")
	assert.Equal(t, score.NoHighlight, got[2].Color)
	assert.Len(t, got[2].Members, 2)
}

func TestCoalesce_UnmarkedBreaksRun(t *testing.T) {
	frames := []Frame{
		frame(0, 0, 20, false, score.GreenDark),
		frame(24, 0, 20, false, score.NoHighlight),
		frame(48, 0, 20, false, score.GreenDark),
	}
	got := Coalesce(frames, DefaultOptions())
	assert.Len(t, got, 2)
}

func TestCoalesce_LineWrapSplits(t *testing.T) {
	frames := []Frame{
		frame(200, 0, 40, false, score.OrangeLight),
		frame(0, 20, 40, false, score.OrangeLight),
	}
	got := Coalesce(frames, DefaultOptions())
	assert.Len(t, got, 2)
}

func TestCoalesce_NearEqualYIsSameLine(t *testing.T) {
	a := frame(0, 0, 40, false, score.Yellow)
	b := frame(44, 3, 40, false, score.Yellow)
	got := Coalesce([]Frame{b, a}, DefaultOptions())
	require.Len(t, got, 1)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, got[0].Members)
}

func TestCoalesce_Empty(t *testing.T) {
	assert.Empty(t, Coalesce(nil, DefaultOptions()))
	assert.Empty(t, Coalesce([]Frame{frame(0, 0, 10, false, score.NoHighlight)}, DefaultOptions()))
}

func TestReadingOrder(t *testing.T) {
	l2 := frame(0, 20, 10, false, "")
	l1b := frame(30, 1, 10, false, "")
	l1a := frame(0, 0, 10, false, "")

	got := ReadingOrder([]Frame{l2, l1b, l1a}, 5)
	assert.Equal(t, []uuid.UUID{l1a.ID, l1b.ID, l2.ID}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
}

func TestRect(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	assert.Equal(t, 4.0, r.MaxX())
	assert.Equal(t, 6.0, r.MaxY())
	assert.Equal(t, Rect{X: 0, Y: 0, W: 10, H: 6}, r.Union(Rect{X: 0, Y: 0, W: 10, H: 1}))
	assert.Equal(t, Rect{X: 0, Y: 1, W: 5, H: 6}, r.Inset(1))
}

var colors = append([]score.HighlightColor{score.NoHighlight}, score.AllHighlightColors()...)

func genFrames() *rapid.Generator[[]Frame] {
	return rapid.Custom(func(t *rapid.T) []Frame {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		frames := make([]Frame, n)
		for i := range frames {
			frames[i] = Frame{
				ID: uuid.New(),
				Rect: Rect{
					X: float64(rapid.IntRange(0, 400).Draw(t, "x")),
					Y: float64(rapid.IntRange(0, 4).Draw(t, "line") * 20),
					W: float64(rapid.IntRange(8, 80).Draw(t, "w")),
					H: 16,
				},
				Selected:  rapid.Bool().Draw(t, "sel"),
				Highlight: rapid.SampledFrom(colors).Draw(t, "hl"),
			}
		}
		return frames
	})
}

func TestCoalesce_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frames := genFrames().Draw(t, "frames")
		opts := DefaultOptions()

		first := Coalesce(frames, opts)
		second := Coalesce(frames, opts)
		require.Equal(t, len(first), len(second))
		for i := range first {
			require.Equal(t, first[i].Members, second[i].Members)
		}

		byID := map[uuid.UUID]Frame{}
		marked := 0
		for _, f := range frames {
			byID[f.ID] = f
			if !markingOf(f).none() {
				marked++
			}
		}

		covered := 0
		for _, r := range first {
			for _, id := range r.Members {
				m := markingOf(byID[id])
				if m.selection != r.Selection || m.color != r.Color {
					t.Fatalf("region mixes markings")
				}
				covered++
			}
		}
		if covered != marked {
			t.Fatalf("covered %d frames, want %d marked", covered, marked)
		}
	})
}
