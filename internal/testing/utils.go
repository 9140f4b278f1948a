// Package testing provides fixtures and helpers for testing the retrieval engine.
package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// ScenarioDocuments returns the two-document corpus used to pin the behavior of
// each retrieval model.
func ScenarioDocuments() []model.Document {
	return []model.Document{
		{ID: "1", Title: "Boolean Retrieval Model", Content: "boolean retrieval uses AND operators"},
		{ID: "2", Title: "Vector Space Model", Content: "vector space uses cosine similarity"},
	}
}

// SampleCorpus returns a small information-retrieval corpus with overlapping vocabulary.
func SampleCorpus() []model.Document {
	return []model.Document{
		{
			ID:       "ir-001",
			Title:    "Introduction to Information Retrieval",
			Content:  "Information retrieval finds relevant documents in a large collection using an inverted index.",
			Metadata: map[string]interface{}{"category": "overview", "year": 2008},
		},
		{
			ID:       "ir-002",
			Title:    "Boolean Retrieval",
			Content:  "Boolean queries combine terms with AND operators. Every document must contain every query term.",
			Metadata: map[string]interface{}{"category": "models"},
		},
		{
			ID:       "ir-003",
			Title:    "The Vector Space Model",
			Content:  "Documents and queries are vectors of TF-IDF weights. Cosine similarity ranks documents by the angle between vectors.",
			Metadata: map[string]interface{}{"category": "models"},
		},
		{
			ID:      "ir-004",
			Title:   "Positional Indexes and Phrase Queries",
			Content: "A positional index stores token positions so that phrase queries can check that terms are adjacent.",
		},
		{
			ID:      "ir-005",
			Title:   "Spelling Correction",
			Content: "Edit distance compares a misspelled query term with the dictionary built from the inverted index.",
		},
		{
			ID:      "ir-006",
			Title:   "Stemming and Stop Words",
			Content: "Stemming strips suffixes from tokens and stop words are removed before indexing documents.",
		},
		{
			ID:      "ir-007",
			Title:   "Evaluating Search Engines",
			Content: "Precision and recall measure how many relevant documents a search engine returns for each query.",
		},
		{
			ID:      "ir-008",
			Title:   "Inverted Index Construction",
			Content: "Building an inverted index sorts postings by term and records the frequency of each term in each document.",
		},
	}
}

// HitIDs returns the document IDs of hits in ranked order.
func HitIDs(hits []services.SearchHit) []string {
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.Document.ID)
	}
	return ids
}

// AssertRankedIDs asserts that hits contain exactly ids, in order.
func AssertRankedIDs(t *testing.T, hits []services.SearchHit, ids ...string) {
	t.Helper()
	if ids == nil {
		ids = []string{}
	}
	assert.Equal(t, ids, HitIDs(hits))
}

// AssertDescendingScores asserts that hit scores never increase.
func AssertDescendingScores(t *testing.T, hits []services.SearchHit) {
	t.Helper()
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score, "hit %d scores above hit %d", i, i-1)
	}
}

// Querier is anything that answers a single search.
type Querier interface {
	Search(query string, opts services.SearchOptions) (services.SearchResponse, error)
}

// RequireSearch runs a search and fails the test on error.
func RequireSearch(t *testing.T, searcher Querier, query string, opts services.SearchOptions) services.SearchResponse {
	t.Helper()
	response, err := searcher.Search(query, opts)
	require.NoError(t, err, "search for %q", query)
	return response
}
