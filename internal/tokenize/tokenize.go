// Package tokenize segments raw script text into paragraphs, sentences and words.
//
// Sentence and word boundaries follow Unicode UAX #29. Punctuation that
// directly follows a word (no intervening space) is folded into that word, so
// "Hello," stays one token; punctuation that stands alone is discarded.
package tokenize

import (
	"strings"
	"time"
	"unicode"

	"github.com/f3rmion/promptscore/internal/score"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// paragraphSeparator splits paragraphs. Runs of blank lines produce empty
// pieces which are discarded, so they collapse.
const paragraphSeparator = "\n\n"

// Tokenize builds a script from raw text, stamped with the current time.
func Tokenize(raw string) *score.Script {
	return TokenizeAt(raw, time.Now())
}

// TokenizeAt builds a script from raw text, stamped with now.
// It never fails; blank input yields a script without paragraphs.
func TokenizeAt(raw string, now time.Time) *score.Script {
	var paragraphs []score.Paragraph
	for _, para := range Paragraphs(raw) {
		sentences := []score.Sentence{}
		for _, sent := range para {
			words := make([]score.Word, len(sent))
			for i, text := range sent {
				words[i] = score.NewWord(text)
			}
			sentences = append(sentences, score.NewSentence(words))
		}
		paragraphs = append(paragraphs, score.NewParagraph(sentences))
	}
	return score.NewScript(score.DefaultTitle, paragraphs, now)
}

// Paragraphs returns the word texts of raw grouped by paragraph and sentence.
// Paragraphs whose sentences all turn out empty are still kept, matching the
// blank-line rule which only looks at trimmed text.
func Paragraphs(raw string) [][][]string {
	text := normalizeText(raw)

	var out [][][]string
	for _, piece := range strings.Split(text, paragraphSeparator) {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		out = append(out, Sentences(piece))
	}
	return out
}

// Sentences splits a paragraph into sentences of words. Sentences without
// any word are dropped.
func Sentences(paragraph string) [][]string {
	var out [][]string
	state := -1
	rest := paragraph
	for len(rest) > 0 {
		var sentence string
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		if words := Words(sentence); len(words) > 0 {
			out = append(out, words)
		}
	}
	return out
}

// token is a word segment's byte range within its sentence.
type token struct {
	start, end int
}

// Words splits a sentence into word texts with trailing punctuation attached.
func Words(sentence string) []string {
	tokens := wordTokens(sentence)

	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		text := sentence[tok.start:tok.end] + trailingPunctuation(sentence[tok.end:])
		if isAllPunctuationOrSpace(text) {
			continue
		}
		words = append(words, text)
	}
	return words
}

// wordTokens returns every UAX #29 word segment that is not whitespace.
// Symbols such as "$", "+" or emoji are words of their own.
func wordTokens(sentence string) []token {
	var tokens []token
	offset := 0
	state := -1
	rest := sentence
	for len(rest) > 0 {
		var segment string
		segment, rest, state = uniseg.FirstWordInString(rest, state)
		if strings.TrimSpace(segment) != "" {
			tokens = append(tokens, token{start: offset, end: offset + len(segment)})
		}
		offset += len(segment)
	}
	return tokens
}

// trailingPunctuation returns the punctuation run at the start of s, stopping
// at the first whitespace or non-punctuation rune.
func trailingPunctuation(s string) string {
	for i, r := range s {
		if unicode.IsSpace(r) || !isPunctuation(r) {
			return s[:i]
		}
	}
	return s
}

func isPunctuation(r rune) bool {
	return unicode.IsPunct(r) || r == '\'' || r == '“' || r == '”'
}

func isAllPunctuationOrSpace(s string) bool {
	for _, r := range s {
		if !isPunctuation(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// normalizeText folds line endings and composes Unicode so equivalent input
// segments identically.
func normalizeText(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFC.String(text)
}
