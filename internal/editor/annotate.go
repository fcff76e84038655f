package editor

import (
	"github.com/f3rmion/promptscore/internal/log"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/google/uuid"
)

// AddAnnotation puts symbol on every selected word. With appendMode the
// symbol joins existing annotations, otherwise it replaces them. The
// selection collapses to its earliest word afterwards.
func (e *Engine) AddAnnotation(symbol string, appendMode bool) {
	words := e.OrderedSelection()
	if e.script == nil || len(words) == 0 {
		return
	}
	now := e.now()
	for _, w := range words {
		a := score.NewAnnotation(symbol, now)
		if appendMode {
			w.Annotations = append(w.Annotations, a)
		} else {
			w.Annotations = []score.Annotation{a}
		}
	}
	e.mutated()
	log.Debug(log.CatEditor, "annotated", "symbol", symbol, "words", len(words), "append", appendMode)
	e.ClearSelection()
}

// SetHighlight colors every selected word. NoHighlight removes the color.
func (e *Engine) SetHighlight(color score.HighlightColor) {
	words := e.OrderedSelection()
	if e.script == nil || len(words) == 0 {
		return
	}
	for _, w := range words {
		w.Highlight = color
	}
	e.mutated()
	log.Debug(log.CatEditor, "highlighted", "color", color, "words", len(words))
	e.ClearSelection()
}

// RemoveAnnotation deletes one annotation from one word. Unknown IDs are
// ignored. The selection is left alone.
func (e *Engine) RemoveAnnotation(wordID, annotationID uuid.UUID) {
	w := e.index.Word(wordID)
	if w == nil {
		return
	}
	for i, a := range w.Annotations {
		if a.ID == annotationID {
			w.Annotations = append(w.Annotations[:i:i], w.Annotations[i+1:]...)
			e.mutated()
			return
		}
	}
}

// ClearAnnotations empties the annotations of every selected word. Unlike the
// apply operations, the clears keep the selection as it is.
func (e *Engine) ClearAnnotations() {
	e.clearSelected(true, false)
}

// ClearHighlights removes the highlight of every selected word.
func (e *Engine) ClearHighlights() {
	e.clearSelected(false, true)
}

// ClearAllFormatting removes annotations and highlights from the selection.
func (e *Engine) ClearAllFormatting() {
	e.clearSelected(true, true)
}

func (e *Engine) clearSelected(annotations, highlights bool) {
	words := e.OrderedSelection()
	if e.script == nil || len(words) == 0 {
		return
	}
	for _, w := range words {
		if annotations {
			w.Annotations = []score.Annotation{}
		}
		if highlights {
			w.Highlight = score.NoHighlight
		}
	}
	e.mutated()
	log.Debug(log.CatEditor, "cleared formatting", "words", len(words), "annotations", annotations, "highlights", highlights)
}

// HasAnnotations reports whether any selected word carries an annotation.
func (e *Engine) HasAnnotations() bool {
	for _, w := range e.OrderedSelection() {
		if w.HasAnnotations() {
			return true
		}
	}
	return false
}

// HasHighlights reports whether any selected word is highlighted.
func (e *Engine) HasHighlights() bool {
	for _, w := range e.OrderedSelection() {
		if w.IsHighlighted() {
			return true
		}
	}
	return false
}

// ClearFormattingRequest decides what a delete keystroke should clear.
// ClearAsk means the caller must ask; the other kinds can be applied directly
// with ClearAnnotations or ClearHighlights.
func (e *Engine) ClearFormattingRequest() ClearKind {
	ann, hl := e.HasAnnotations(), e.HasHighlights()
	switch {
	case ann && hl:
		return ClearAsk
	case ann:
		return ClearAnnotationsOnly
	case hl:
		return ClearHighlightsOnly
	default:
		return ClearNone
	}
}

// AttachAudio records an audio handle on a sentence, replacing any earlier
// one. It returns false when the sentence does not exist.
func (e *Engine) AttachAudio(sentenceID uuid.UUID, handle string) bool {
	s := e.index.Sentence(sentenceID)
	if s == nil {
		return false
	}
	s.AudioClip = &handle
	e.mutated()
	log.Info(log.CatAudio, "attached audio", "sentence", sentenceID, "handle", handle)
	return true
}

// DetachAudio removes a sentence's audio handle and returns the old one.
func (e *Engine) DetachAudio(sentenceID uuid.UUID) (string, bool) {
	s := e.index.Sentence(sentenceID)
	if s == nil || s.AudioClip == nil {
		return "", false
	}
	old := *s.AudioClip
	s.AudioClip = nil
	e.mutated()
	log.Info(log.CatAudio, "detached audio", "sentence", sentenceID)
	return old, true
}

// SetTitle renames the script.
func (e *Engine) SetTitle(title string) {
	if e.script == nil || title == "" || title == e.script.Title {
		return
	}
	e.script.Title = title
	e.mutated()
}
