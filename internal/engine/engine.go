package engine

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/index"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// Engine owns the searchable corpus. It implements services.SearchEngine.
//
// The corpus lives in an immutable snapshot published through an atomic pointer.
// AddDocuments replaces the whole corpus: it builds a new snapshot and swaps it in,
// so concurrent searches see either the old or the new corpus, never a mix.
// Ingesting is not additive; documents from earlier calls are dropped.
type Engine struct {
	settings config.EngineSettings
	current  atomic.Pointer[snapshot]
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

var _ services.SearchEngine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records searches and ingestions on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine holding an empty corpus.
func NewEngine(settings config.EngineSettings, opts ...Option) *Engine {
	settings.ApplyDefaults()
	e := &Engine{
		settings: settings,
		logger:   logger.WithComponent("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	empty, err := buildSnapshot(nil, &e.settings)
	if err != nil {
		// An empty corpus has nothing to validate.
		panic(err)
	}
	e.current.Store(empty)
	return e
}

// Settings returns the effective engine settings.
func (e *Engine) Settings() config.EngineSettings {
	return e.settings
}

// AddDocuments replaces the corpus with docs. IDs must be non-empty and unique
// within docs; on error the current corpus is kept.
func (e *Engine) AddDocuments(docs []model.Document) error {
	start := time.Now()
	next, err := buildSnapshot(docs, &e.settings)
	if err != nil {
		e.logger.Warn("ingestion rejected", "documents", len(docs), "error", err)
		return err
	}
	e.publish(next, "ingested", start)
	return nil
}

func (e *Engine) publish(next *snapshot, action string, start time.Time) {
	previous := e.current.Swap(next)
	e.metrics.ObserveIngest(next.documentStore.Len(), next.invertedIndex.TermCount())
	e.logger.Info("corpus "+action,
		"documents", next.documentStore.Len(),
		"terms", next.invertedIndex.TermCount(),
		"generation", next.generation,
		"previous_generation", previous.generation,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Search runs query against the current corpus.
func (e *Engine) Search(query string, opts services.SearchOptions) (services.SearchResponse, error) {
	start := time.Now()
	snap := e.current.Load()

	response, err := snap.searcher.Search(query, opts)
	if err != nil {
		e.observeSearchError(query, opts, err, start)
		return services.SearchResponse{}, err
	}
	response.Generation = snap.generation

	outcome := "hit"
	if response.Total == 0 {
		outcome = "zero_result"
	}
	corrected := response.SpellingCorrection != nil && response.SpellingCorrection.HadCorrections
	e.metrics.ObserveSearch(string(response.Model), outcome, response.Total, time.Since(start), corrected)
	e.logger.Debug("search served",
		"query_id", response.QueryID,
		"model", response.Model,
		"terms", len(response.ProcessedQuery),
		"total", response.Total,
		"corrected", corrected,
	)
	return response, nil
}

func (e *Engine) observeSearchError(query string, opts services.SearchOptions, err error, start time.Time) {
	model, parseErr := services.ParseRetrievalModel(string(opts.Model))
	label := string(model)
	switch {
	case parseErr != nil:
		label = "invalid"
	case label == "":
		label = e.settings.DefaultModel
	}
	e.metrics.ObserveSearch(label, "error", 0, time.Since(start), false)

	if errors.Is(err, internalErrors.ErrCorruptIndex) {
		e.logger.Error("index inconsistent with document store", "query", query, "error", err)
		return
	}
	e.logger.Debug("search rejected", "query", query, "error", err)
}

// SearchPage runs query without truncation and returns the requested page.
// page counts from 1; a pageSize below 1 uses the default limit.
func (e *Engine) SearchPage(query string, page, pageSize int, opts services.SearchOptions) (services.PagedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = e.settings.DefaultLimit
	}

	opts.Limit = -1
	response, err := e.Search(query, opts)
	if err != nil {
		return services.PagedResponse{}, err
	}

	total := len(response.Hits)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	// Pages past the end are empty. Compare before multiplying so huge pages cannot overflow.
	startIndex := total
	if page-1 < totalPages {
		startIndex = (page - 1) * pageSize
	}
	endIndex := total
	if total-startIndex > pageSize {
		endIndex = startIndex + pageSize
	}
	response.Hits = response.Hits[startIndex:endIndex]

	paged := services.PagedResponse{
		SearchResponse: response,
		CurrentPage:    page,
		PageSize:       pageSize,
		TotalPages:     totalPages,
	}
	if correction := response.SpellingCorrection; correction != nil && correction.HadCorrections {
		paged.DidYouMean = correction.Corrected
	}
	return paged, nil
}

// GetDocument returns the document stored under id.
func (e *Engine) GetDocument(id string) (model.Document, error) {
	doc, ok := e.current.Load().documentStore.Get(id)
	if !ok {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(id)
	}
	return doc, nil
}

// DocumentCount returns the number of documents in the current corpus.
func (e *Engine) DocumentCount() int {
	return e.current.Load().documentStore.Len()
}

// Index returns the inverted index of the current corpus. It must be treated as read-only.
func (e *Engine) Index() *index.InvertedIndex {
	return e.current.Load().invertedIndex
}

// Generation identifies the current corpus snapshot.
func (e *Engine) Generation() string {
	return e.current.Load().generation
}

// Stats summarizes the current corpus.
func (e *Engine) Stats() services.Stats {
	snap := e.current.Load()
	return services.Stats{
		DocumentCount:  snap.documentStore.Len(),
		TermCount:      snap.invertedIndex.TermCount(),
		DictionarySize: snap.corrector.Size(),
		TopTerms:       snap.invertedIndex.MostFrequentTerms(e.settings.StatsTopTerms),
		Generation:     snap.generation,
		IndexedAt:      snap.indexedAt,
	}
}
