package score

import "github.com/google/uuid"

// Location is the paragraph and sentence position of a word.
type Location struct {
	Paragraph int
	Sentence  int
}

// Index is a flat view of a script in canonical document order.
//
// The tree shape of a script never changes after tokenization, so the word
// pointers stay valid while annotations and highlights are edited in place.
type Index struct {
	words     []*Word
	locs      []Location
	pos       map[uuid.UUID]int
	sentences map[uuid.UUID]*Sentence
}

// BuildIndex flattens s. A nil script yields an empty index.
func BuildIndex(s *Script) *Index {
	idx := &Index{
		pos:       make(map[uuid.UUID]int),
		sentences: make(map[uuid.UUID]*Sentence),
	}
	if s == nil {
		return idx
	}
	for p := range s.Paragraphs {
		for si := range s.Paragraphs[p].Sentences {
			sent := &s.Paragraphs[p].Sentences[si]
			idx.sentences[sent.ID] = sent
			for w := range sent.Words {
				idx.pos[sent.Words[w].ID] = len(idx.words)
				idx.words = append(idx.words, &sent.Words[w])
				idx.locs = append(idx.locs, Location{Paragraph: p, Sentence: si})
			}
		}
	}
	return idx
}

// Len returns the number of words.
func (x *Index) Len() int {
	return len(x.words)
}

// At returns the word at position i, or nil when out of range.
func (x *Index) At(i int) *Word {
	if i < 0 || i >= len(x.words) {
		return nil
	}
	return x.words[i]
}

// Position returns the document position of a word.
func (x *Index) Position(id uuid.UUID) (int, bool) {
	i, ok := x.pos[id]
	return i, ok
}

// Word looks a word up by identity.
func (x *Index) Word(id uuid.UUID) *Word {
	i, ok := x.pos[id]
	if !ok {
		return nil
	}
	return x.words[i]
}

// Location returns the paragraph/sentence indices of position i.
func (x *Index) Location(i int) Location {
	if i < 0 || i >= len(x.locs) {
		return Location{}
	}
	return x.locs[i]
}

// Sentence looks a sentence up by identity.
func (x *Index) Sentence(id uuid.UUID) *Sentence {
	return x.sentences[id]
}
