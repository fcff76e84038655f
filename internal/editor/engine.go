// Package editor implements the selection and annotation engine that owns the
// live script.
//
// Selection is kept as an anchor and a head position in canonical document
// order; the selected words are always the inclusive run between the two, so
// a disjoint selection cannot be represented. Every operation is synchronous
// and leaves the script consistent; callers must serialize calls.
package editor

import (
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/promptscore/internal/log"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/f3rmion/promptscore/internal/tokenize"
	"github.com/google/uuid"
)

// ListSymbol is the palette symbol that starts or continues list numbering.
const ListSymbol = "L"

// Direction is the side a selection grows or shrinks toward.
type Direction int

const (
	Left Direction = iota
	Right
)

// ViewMode controls how much of the script a renderer shows.
type ViewMode int

const (
	ViewFullParagraph ViewMode = iota
	ViewSingleSentence
)

func (v ViewMode) String() string {
	if v == ViewSingleSentence {
		return "sentence"
	}
	return "paragraph"
}

// ParseViewMode maps a config value to a ViewMode. Unknown values mean paragraph.
func ParseViewMode(s string) ViewMode {
	if strings.EqualFold(s, "sentence") {
		return ViewSingleSentence
	}
	return ViewFullParagraph
}

// ClearKind tells a caller what a delete keystroke should clear.
type ClearKind int

const (
	ClearNone            ClearKind = iota
	ClearAnnotationsOnly           // Only annotations present
	ClearHighlightsOnly            // Only highlights present
	ClearAsk                       // Both present; ask which to clear
)

// Engine is the stateful controller over one live script.
type Engine struct {
	script *score.Script
	index  *score.Index

	// Positions into index; valid only when hasSelection.
	anchor       int
	head         int
	hasSelection bool

	current score.Location

	listMode    bool
	listCounter int

	viewMode ViewMode
	revision uint64

	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to stamp modifications.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithViewMode sets the initial view mode.
func WithViewMode(mode ViewMode) Option {
	return func(e *Engine) {
		e.viewMode = mode
	}
}

// New creates an engine with no script loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		index:       score.BuildIndex(nil),
		listCounter: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ImportText replaces the live script with the tokenized text.
func (e *Engine) ImportText(text string) {
	s := tokenize.TokenizeAt(text, e.now())
	log.Info(log.CatTokenize, "imported text", "paragraphs", len(s.Paragraphs), "words", s.WordCount())
	e.Load(s)
}

// Load adopts an existing script, e.g. one read back from the library.
// The first word becomes the selection when there is one.
func (e *Engine) Load(s *score.Script) {
	e.script = s
	e.index = score.BuildIndex(s)
	e.current = score.Location{}
	e.revision = 0
	if e.index.Len() == 0 {
		e.hasSelection = false
		return
	}
	e.selectSingle(0)
}

// Script returns the live script, or nil before the first import.
func (e *Engine) Script() *score.Script {
	return e.script
}

// HasScript reports whether a script is loaded.
func (e *Engine) HasScript() bool {
	return e.script != nil
}

// Index returns the flat view of the live script.
func (e *Engine) Index() *score.Index {
	return e.index
}

// Revision counts content mutations since the script was loaded.
func (e *Engine) Revision() uint64 {
	return e.revision
}

// Tap collapses the selection to one word. Unknown IDs are ignored.
func (e *Engine) Tap(id uuid.UUID) {
	pos, ok := e.index.Position(id)
	if !ok {
		log.Warn(log.CatEditor, "tap on unknown word", "id", id)
		return
	}
	e.selectSingle(pos)
}

// NavigateNext moves a single-word selection one word forward, or shifts a
// multi-word window one word forward keeping its size. At the end of the
// document it does nothing.
func (e *Engine) NavigateNext() {
	e.shift(1)
}

// NavigatePrevious is the mirror of NavigateNext.
func (e *Engine) NavigatePrevious() {
	e.shift(-1)
}

func (e *Engine) shift(delta int) {
	if !e.hasSelection {
		return
	}
	lo, hi := e.bounds()
	if lo == hi {
		next := lo + delta
		if next < 0 || next >= e.index.Len() {
			return
		}
		e.selectSingle(next)
		return
	}

	newLo, newHi := lo+delta, hi+delta
	if newLo < 0 || newHi >= e.index.Len() {
		return
	}
	e.anchor, e.head = newLo, newHi
}

// ModifySelection moves the head one word toward dir while the anchor stays
// put. The selection becomes the run between anchor and the new head.
func (e *Engine) ModifySelection(dir Direction) {
	if !e.hasSelection {
		return
	}
	next := e.head + 1
	if dir == Left {
		next = e.head - 1
	}
	if next < 0 || next >= e.index.Len() {
		return
	}
	e.head = next
}

// ClearSelection collapses the selection to its earliest word.
func (e *Engine) ClearSelection() {
	if !e.hasSelection {
		return
	}
	lo, _ := e.bounds()
	e.selectSingle(lo)
}

// OrderedSelection returns the selected words in document order.
func (e *Engine) OrderedSelection() []*score.Word {
	if !e.hasSelection {
		return nil
	}
	lo, hi := e.bounds()
	words := make([]*score.Word, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		words = append(words, e.index.At(i))
	}
	return words
}

// SelectionRange returns the inclusive document positions of the selection.
func (e *Engine) SelectionRange() (lo, hi int, ok bool) {
	if !e.hasSelection {
		return 0, 0, false
	}
	lo, hi = e.bounds()
	return lo, hi, true
}

// SelectionLen returns the number of selected words.
func (e *Engine) SelectionLen() int {
	if !e.hasSelection {
		return 0
	}
	lo, hi := e.bounds()
	return hi - lo + 1
}

// IsSelected reports whether the word is part of the selection.
func (e *Engine) IsSelected(id uuid.UUID) bool {
	if !e.hasSelection {
		return false
	}
	pos, ok := e.index.Position(id)
	if !ok {
		return false
	}
	lo, hi := e.bounds()
	return pos >= lo && pos <= hi
}

// Anchor returns the fixed end of the selection, or uuid.Nil.
func (e *Engine) Anchor() uuid.UUID {
	if !e.hasSelection {
		return uuid.Nil
	}
	return e.index.At(e.anchor).ID
}

// Head returns the moving end of the selection, or uuid.Nil.
func (e *Engine) Head() uuid.UUID {
	if !e.hasSelection {
		return uuid.Nil
	}
	return e.index.At(e.head).ID
}

// SelectionText joins the selected words with spaces.
func (e *Engine) SelectionText() string {
	words := e.OrderedSelection()
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// CurrentIndices returns the paragraph and sentence that single-sentence
// display should show.
func (e *Engine) CurrentIndices() score.Location {
	return e.current
}

// CurrentSentence returns the sentence at CurrentIndices, or nil.
func (e *Engine) CurrentSentence() *score.Sentence {
	if e.script == nil {
		return nil
	}
	p, s := e.current.Paragraph, e.current.Sentence
	if p >= len(e.script.Paragraphs) || s >= len(e.script.Paragraphs[p].Sentences) {
		return nil
	}
	return &e.script.Paragraphs[p].Sentences[s]
}

// ViewMode returns the display mode.
func (e *Engine) ViewMode() ViewMode {
	return e.viewMode
}

// SetViewMode changes the display mode.
func (e *Engine) SetViewMode(mode ViewMode) {
	e.viewMode = mode
}

// ToggleViewMode flips between paragraph and sentence display.
func (e *Engine) ToggleViewMode() {
	if e.viewMode == ViewFullParagraph {
		e.viewMode = ViewSingleSentence
	} else {
		e.viewMode = ViewFullParagraph
	}
}

func (e *Engine) selectSingle(pos int) {
	e.anchor, e.head = pos, pos
	e.hasSelection = true
	e.current = e.index.Location(pos)
}

func (e *Engine) bounds() (lo, hi int) {
	if e.anchor <= e.head {
		return e.anchor, e.head
	}
	return e.head, e.anchor
}

// mutated stamps the script and bumps the revision. Call once per operation.
func (e *Engine) mutated() {
	e.script.Touch(e.now())
	e.revision++
}

// listSymbol returns the list annotation for the current counter.
func (e *Engine) listSymbol() string {
	return ListSymbol + strconv.Itoa(e.listCounter)
}
