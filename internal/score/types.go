// Package score provides the document model for annotated spoken-word scripts.
package score

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is given to scripts created from raw text.
const DefaultTitle = "Untitled Script"

// Script is a whole imported text. It owns its paragraphs.
type Script struct {
	ID         uuid.UUID   `yaml:"id" json:"id"`
	Title      string      `yaml:"title" json:"title"`
	Paragraphs []Paragraph `yaml:"paragraphs" json:"paragraphs"`
	CreatedAt  time.Time   `yaml:"createdAt" json:"createdAt"`
	ModifiedAt time.Time   `yaml:"modifiedAt" json:"modifiedAt"` // Bumped by every content mutation
}

// Paragraph is an ordered run of sentences.
type Paragraph struct {
	ID        uuid.UUID  `yaml:"id" json:"id"`
	Sentences []Sentence `yaml:"sentences" json:"sentences"`
}

// Sentence is an ordered run of words with an optional audio reference.
type Sentence struct {
	ID        uuid.UUID `yaml:"id" json:"id"`
	Words     []Word    `yaml:"words" json:"words"`
	AudioClip *string   `yaml:"audioClip,omitempty" json:"audioClip,omitempty"` // Opaque handle owned by the audio library
}

// Word is a single token of source text plus its markup.
type Word struct {
	ID          uuid.UUID
	Text        string         // Source text including any reattached trailing punctuation
	Annotations []Annotation   // Insertion order is display order
	Highlight   HighlightColor // NoHighlight when unset
	Timing      *AudioSpan     // Reserved; nothing populates it yet
}

// AudioSpan is a start/end pair in seconds. Both ends always travel together.
type AudioSpan struct {
	Start float64
	End   float64
}

// Annotation is a prosody mark placed on a word.
type Annotation struct {
	ID        uuid.UUID `yaml:"id" json:"id"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	CreatedAt time.Time `yaml:"createdAt" json:"createdAt"`
}

// NewScript creates a script stamped with now.
func NewScript(title string, paragraphs []Paragraph, now time.Time) *Script {
	if title == "" {
		title = DefaultTitle
	}
	if paragraphs == nil {
		paragraphs = []Paragraph{}
	}
	return &Script{
		ID:         uuid.New(),
		Title:      title,
		Paragraphs: paragraphs,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// NewParagraph creates a paragraph from sentences.
func NewParagraph(sentences []Sentence) Paragraph {
	return Paragraph{ID: uuid.New(), Sentences: sentences}
}

// NewSentence creates a sentence from words.
func NewSentence(words []Word) Sentence {
	return Sentence{ID: uuid.New(), Words: words}
}

// NewWord creates an unmarked word.
func NewWord(text string) Word {
	return Word{ID: uuid.New(), Text: text, Annotations: []Annotation{}}
}

// NewAnnotation creates an annotation stamped with now.
func NewAnnotation(symbol string, now time.Time) Annotation {
	return Annotation{ID: uuid.New(), Symbol: symbol, CreatedAt: now}
}

// Touch records a content mutation.
func (s *Script) Touch(now time.Time) {
	s.ModifiedAt = now
}

// FullText returns the plain text with paragraphs separated by a blank line.
func (s *Script) FullText() string {
	parts := make([]string, len(s.Paragraphs))
	for i := range s.Paragraphs {
		parts[i] = s.Paragraphs[i].FullText()
	}
	return strings.Join(parts, "\n\n")
}

// Words returns every word in canonical document order.
func (s *Script) Words() []*Word {
	var words []*Word
	for p := range s.Paragraphs {
		for si := range s.Paragraphs[p].Sentences {
			sent := &s.Paragraphs[p].Sentences[si]
			for w := range sent.Words {
				words = append(words, &sent.Words[w])
			}
		}
	}
	return words
}

// WordCount returns the number of words in the script.
func (s *Script) WordCount() int {
	n := 0
	for _, p := range s.Paragraphs {
		for _, sent := range p.Sentences {
			n += len(sent.Words)
		}
	}
	return n
}

// SentenceCount returns the number of sentences in the script.
func (s *Script) SentenceCount() int {
	n := 0
	for _, p := range s.Paragraphs {
		n += len(p.Sentences)
	}
	return n
}

// FullText joins the paragraph's sentences with a space.
func (p Paragraph) FullText() string {
	parts := make([]string, len(p.Sentences))
	for i, s := range p.Sentences {
		parts[i] = s.FullText()
	}
	return strings.Join(parts, " ")
}

// FullText joins the sentence's words with a space.
func (s Sentence) FullText() string {
	parts := make([]string, len(s.Words))
	for i, w := range s.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// HasAudio reports whether an audio reference is attached.
func (s Sentence) HasAudio() bool {
	return s.AudioClip != nil
}

// HasAnnotations reports whether the word carries any annotation.
func (w Word) HasAnnotations() bool {
	return len(w.Annotations) > 0
}

// IsHighlighted reports whether the word has a highlight color.
func (w Word) IsHighlighted() bool {
	return w.Highlight != NoHighlight
}

// Symbols returns the word's annotation symbols in display order.
func (w Word) Symbols() []string {
	out := make([]string, len(w.Annotations))
	for i, a := range w.Annotations {
		out[i] = a.Symbol
	}
	return out
}

// HasSymbol reports whether any annotation on the word uses symbol.
func (w Word) HasSymbol(symbol string) bool {
	for _, a := range w.Annotations {
		if a.Symbol == symbol {
			return true
		}
	}
	return false
}
