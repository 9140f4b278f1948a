// Package tokenizer turns free text into the ordered term sequences the index and
// the query path work with: lowercase, split on anything outside [a-z0-9], drop stop
// words, then apply a simplified suffix-stripping stemmer.
package tokenizer

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nonAlphanumericRegex matches sequences of characters outside [a-z0-9].
// It is applied after lowercasing, so uppercase ASCII never reaches it.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize lowercases text and splits it on every character outside [a-z0-9].
// Empty tokens are discarded; the result is never nil.
func Tokenize(text string) []string {
	// A Caser is stateful, so one is built per call instead of shared across goroutines.
	lowerText := cases.Lower(language.Und).String(text)

	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Preprocess is the indexing pipeline: tokenize, remove the broad stop-word set, stem.
// Token order and duplicates are preserved, since positions are derived from it.
func Preprocess(text string) []string {
	return StemTokens(RemoveStopWords(Tokenize(text)))
}

// PreprocessQuery is the query pipeline. Queries are short, so only the small
// query stop-word set is removed before stemming.
func PreprocessQuery(query string) []string {
	return StemTokens(RemoveQueryStopWords(Tokenize(query)))
}
