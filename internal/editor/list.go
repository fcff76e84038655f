package editor

import "github.com/f3rmion/promptscore/internal/log"

// EnterListMode starts numbering list items from L1.
func (e *Engine) EnterListMode() {
	e.listMode = true
	e.listCounter = 1
	log.Debug(log.CatEditor, "list mode on")
}

// ExitListMode stops list numbering. The counter restarts on the next entry.
func (e *Engine) ExitListMode() {
	if !e.listMode {
		return
	}
	e.listMode = false
	e.listCounter = 1
	log.Debug(log.CatEditor, "list mode off")
}

// InListMode reports whether list numbering is active.
func (e *Engine) InListMode() bool {
	return e.listMode
}

// NextListSymbol returns the symbol ApplyListAnnotation would apply next.
func (e *Engine) NextListSymbol() string {
	return e.listSymbol()
}

// ApplyListAnnotation replaces the selection's annotations with the next
// list number and advances the counter, whether or not list mode is on.
func (e *Engine) ApplyListAnnotation() {
	e.AddAnnotation(e.listSymbol(), false)
	e.listCounter++
}

// ApplySymbol is the keystroke-level entry point for palette symbols. The
// list symbol enters or continues list mode; any other symbol leaves it and
// is added in overwrite or append mode.
func (e *Engine) ApplySymbol(symbol string, appendMode bool) {
	if symbol == ListSymbol {
		if !e.listMode {
			e.EnterListMode()
		}
		e.ApplyListAnnotation()
		return
	}
	e.ExitListMode()
	e.AddAnnotation(symbol, appendMode)
}

// Escape leaves list mode if active, otherwise collapses the selection.
func (e *Engine) Escape() {
	if e.listMode {
		e.ExitListMode()
		return
	}
	e.ClearSelection()
}
