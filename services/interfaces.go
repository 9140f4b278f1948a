package services

import (
	"strings"
	"time"

	"github.com/gcbaptista/go-retrieval-engine/index"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/spelling"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// RetrievalModel selects how a query is matched and ranked.
type RetrievalModel string

const (
	ModelBoolean RetrievalModel = "boolean" // every query term must occur; score is summed term frequency
	ModelVector  RetrievalModel = "vector"  // TF-IDF cosine similarity
	ModelPhrase  RetrievalModel = "phrase"  // terms must occur contiguously and in order
)

// ParseRetrievalModel accepts a model name in any case. An empty name yields the
// empty model, which callers replace with their default.
func ParseRetrievalModel(name string) (RetrievalModel, error) {
	m := RetrievalModel(strings.ToLower(strings.TrimSpace(name)))
	if m == "" || m.Valid() {
		return m, nil
	}
	return "", internalErrors.NewValidationError("model",
		"unknown retrieval model '"+name+"', expected boolean, vector or phrase")
}

// Valid reports whether m names a supported model.
func (m RetrievalModel) Valid() bool {
	switch m {
	case ModelBoolean, ModelVector, ModelPhrase:
		return true
	}
	return false
}

// SearchOptions tunes a single search.
type SearchOptions struct {
	Model                 RetrievalModel `json:"model"`
	Limit                 int            `json:"limit"` // 0 uses the engine default, negative disables truncation
	UseSpellingCorrection bool           `json:"use_spelling_correction"`
}

// SearchHit is a ranked document.
type SearchHit struct {
	Document model.Document `json:"document"`
	Score    float64        `json:"score"`
}

// SearchResponse holds ranked hits plus query diagnostics.
type SearchResponse struct {
	Hits               []SearchHit                `json:"hits"`
	Total              int                        `json:"total"` // matches before truncation
	Model              RetrievalModel             `json:"model"`
	ProcessedQuery     []string                   `json:"processed_query"`
	SpellingCorrection *spelling.CorrectionResult `json:"spelling_correction,omitempty"` // nil when correction did not run
	TopTerms           []index.TermFrequency      `json:"top_terms"`
	Took               int64                      `json:"took"`       // milliseconds
	QueryID            string                     `json:"query_id"`   // unique UUID for this search query
	Generation         string                     `json:"generation"` // identifies the corpus snapshot that answered
}

// PagedResponse is one page of a search.
type PagedResponse struct {
	SearchResponse
	CurrentPage int    `json:"current_page"`
	PageSize    int    `json:"page_size"`
	TotalPages  int    `json:"total_pages"`
	DidYouMean  string `json:"did_you_mean,omitempty"`
}

// Stats summarizes the current corpus.
type Stats struct {
	DocumentCount  int                   `json:"document_count"`
	TermCount      int                   `json:"term_count"`
	DictionarySize int                   `json:"dictionary_size"`
	TopTerms       []index.TermFrequency `json:"top_terms"`
	Generation     string                `json:"generation"`
	IndexedAt      time.Time             `json:"indexed_at"`
}

// Indexer replaces the searchable corpus.
type Indexer interface {
	AddDocuments(docs []model.Document) error
}

// Searcher answers queries against the current corpus.
type Searcher interface {
	Search(query string, opts SearchOptions) (SearchResponse, error)
	SearchPage(query string, page, pageSize int, opts SearchOptions) (PagedResponse, error)
}

// SearchEngine is the full engine surface used by the API and the CLI.
type SearchEngine interface {
	Indexer
	Searcher
	GetDocument(id string) (model.Document, error)
	DocumentCount() int
	Generation() string
	Stats() Stats
}
