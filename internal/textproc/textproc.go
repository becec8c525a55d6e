// Package textproc provides the text normalization, tokenization and
// chunking primitives shared by the embedding engine and the scorer.
package textproc

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	tokenRe       = regexp.MustCompile(`[a-z0-9][a-z0-9\-]{2,}`)
	sentenceEndRe = regexp.MustCompile(`([.!?]) +`)
)

// stopWords is a compact english stop-word list. Tokens found here carry no
// matching signal and are excluded from overlap scoring.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again all also am an and any are as at be because
		been before being below between both but by can could did do does doing down during each few for from
		further had has have having he her here hers him his how i if in into is it its itself just me more
		most my no nor not now of off on once only or other our ours out over own same she should so some such
		than that the their theirs them then there these they this those through to too under until up very
		was we were what when where which while who whom why will with you your yours`) {
		stopWords[w] = struct{}{}
	}
}

// Clean normalizes text for embedding: lowercase, non-alphanumerics replaced
// with spaces, whitespace collapsed, leading/trailing space stripped.
func Clean(text string) string {
	text = strings.ToLower(text)
	text = nonAlnumRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// Tokenize splits text into a set of lowercased alphanumeric tokens of length
// three or more, excluding stop words.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens[tok] = struct{}{}
	}

	return tokens
}

// IsStopWord reports whether the given lowercased token is a stop word.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with the preceding sentence.
func SplitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	ends := sentenceEndRe.FindAllStringSubmatch(text, -1)

	sentences := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(ends) {
			part += ends[i][1]
		}
		if part != "" {
			sentences = append(sentences, part)
		}
	}

	return sentences
}

// ChunkText performs sentence-aware chunking: sentences are packed into
// chunks not exceeding maxLength, with the last overlap characters of a
// finished chunk carried into the next one. The trailing partial chunk is
// always flushed so no content is dropped.
func ChunkText(text string, maxLength, overlap int) []string {
	if maxLength <= 0 {
		return []string{strings.TrimSpace(text)}
	}

	var chunks []string
	var current string

	for _, sentence := range SplitSentences(text) {
		if len(current)+len(sentence)+1 > maxLength {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}

			if overlap > 0 && len(current) > overlap {
				current = current[len(current)-overlap:] + " " + sentence
			} else {
				current = sentence
			}
		} else {
			current += " " + sentence
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}
