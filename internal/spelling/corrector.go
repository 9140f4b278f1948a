// Package spelling corrects query terms against the vocabulary of an index.
package spelling

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-retrieval-engine/internal/tokenizer"
	"github.com/gcbaptista/go-retrieval-engine/internal/typoutil"
)

const (
	// MaxEditDistance bounds the Levenshtein distance of a correction candidate.
	MaxEditDistance = 2

	// minCorrectableLength is the shortest term the corrector will try to change.
	minCorrectableLength = 3
)

// VocabularySource supplies the dictionary terms. *index.InvertedIndex satisfies it.
type VocabularySource interface {
	AllTerms() []string
}

// CorrectionResult describes the outcome of CorrectQuery.
type CorrectionResult struct {
	Original       string            `json:"original"`
	Corrected      string            `json:"corrected"`
	HadCorrections bool              `json:"had_corrections"`
	Corrections    map[string]string `json:"corrections"` // original term -> replacement, changed terms only
}

// Corrector holds a dictionary of valid terms. A Corrector is not safe for
// concurrent InitDictionary calls; once initialized it is read-only.
type Corrector struct {
	dictionary map[string]struct{}
	terms      []string // dictionary terms, sorted
}

// NewCorrector returns a corrector with an empty dictionary.
func NewCorrector() *Corrector {
	return &Corrector{
		dictionary: make(map[string]struct{}),
		terms:      make([]string, 0),
	}
}

// InitDictionary replaces the dictionary with the vocabulary of source.
func (c *Corrector) InitDictionary(source VocabularySource) {
	terms := source.AllTerms()
	dictionary := make(map[string]struct{}, len(terms))
	sorted := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := dictionary[term]; ok {
			continue
		}
		dictionary[term] = struct{}{}
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)

	c.dictionary = dictionary
	c.terms = sorted
}

// Size returns the number of dictionary terms.
func (c *Corrector) Size() int {
	return len(c.dictionary)
}

// Contains reports whether term is in the dictionary.
func (c *Corrector) Contains(term string) bool {
	_, ok := c.dictionary[term]
	return ok
}

// CorrectTerm returns the best dictionary replacement for term, or term itself when it
// is shorter than three characters, already valid, or has no candidate within
// MaxEditDistance. Equal scores resolve to the lexicographically smallest candidate.
func (c *Corrector) CorrectTerm(term string) string {
	if utf8.RuneCountInString(term) < minCorrectableLength || c.Contains(term) {
		return term
	}

	candidates := typoutil.FindWithinDistance(term, c.terms, MaxEditDistance)
	if len(candidates) == 0 {
		return term
	}

	termLen := utf8.RuneCountInString(term)
	best := candidates[0].Term
	bestScore := score(termLen, candidates[0])
	for _, candidate := range candidates[1:] {
		// c.terms is sorted, so keeping the first maximum picks the smallest term.
		if s := score(termLen, candidate); s > bestScore {
			best = candidate.Term
			bestScore = s
		}
	}
	return best
}

// score favors small edit distances, similar lengths and, for single edits, shorter candidates.
func score(termLen int, candidate typoutil.Candidate) float64 {
	candidateLen := utf8.RuneCountInString(candidate.Term)
	lengthDiff := termLen - candidateLen
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}

	s := 1.0 / float64(candidate.Distance+1)
	s += 0.2 * (1.0 / float64(lengthDiff+1))
	if candidate.Distance == 1 {
		s += 0.1 * (1.0 / float64(candidateLen))
	}
	return s
}

// CorrectQuery runs the query pipeline over query and corrects every term independently.
// The corrected text is the processed terms joined by single spaces. With an empty
// dictionary the query is returned unchanged.
func (c *Corrector) CorrectQuery(query string) CorrectionResult {
	result := CorrectionResult{
		Original:    query,
		Corrected:   query,
		Corrections: make(map[string]string),
	}
	if c.Size() == 0 {
		return result
	}

	terms := tokenizer.PreprocessQuery(query)
	corrected := make([]string, len(terms))
	for i, term := range terms {
		replacement := c.CorrectTerm(term)
		if replacement != term {
			result.Corrections[term] = replacement
			result.HadCorrections = true
		}
		corrected[i] = replacement
	}
	result.Corrected = strings.Join(corrected, " ")
	return result
}
