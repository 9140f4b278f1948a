package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/index"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/spelling"
	"github.com/gcbaptista/go-retrieval-engine/internal/tokenizer"
	"github.com/gcbaptista/go-retrieval-engine/services"
	"github.com/gcbaptista/go-retrieval-engine/store"
)

// Service answers queries against one index, document store and corrector.
// All three are read-only, so a Service is safe for concurrent use.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	corrector     *spelling.Corrector
	settings      *config.EngineSettings
}

// NewService creates a new search Service.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, corrector *spelling.Corrector, settings *config.EngineSettings) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if corrector == nil {
		return nil, fmt.Errorf("spelling corrector cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		corrector:     corrector,
		settings:      settings,
	}, nil
}

// ResolveOptions fills unset options from the engine settings and validates the model.
func (s *Service) ResolveOptions(opts services.SearchOptions) (services.SearchOptions, error) {
	model, err := services.ParseRetrievalModel(string(opts.Model))
	if err != nil {
		return opts, err
	}
	if model == "" {
		model = services.RetrievalModel(s.settings.DefaultModel)
	}
	opts.Model = model

	if opts.Limit == 0 {
		opts.Limit = s.settings.DefaultLimit
	}
	return opts, nil
}

// Search corrects and preprocesses query, ranks matches with the selected model and
// truncates them to the limit. No matches is a normal empty response; an error means
// invalid options or an index referencing a document the store does not hold.
func (s *Service) Search(query string, opts services.SearchOptions) (services.SearchResponse, error) {
	startTime := time.Now()
	queryUUID := uuid.New().String()

	opts, err := s.ResolveOptions(opts)
	if err != nil {
		return services.SearchResponse{}, err
	}

	response := services.SearchResponse{
		Hits:    []services.SearchHit{},
		Model:   opts.Model,
		QueryID: queryUUID,
	}

	if opts.UseSpellingCorrection && strings.TrimSpace(query) != "" {
		correction := s.corrector.CorrectQuery(query)
		response.SpellingCorrection = &correction
		if correction.HadCorrections {
			query = correction.Corrected
		}
	}

	terms := tokenizer.PreprocessQuery(query)
	response.ProcessedQuery = terms

	if len(terms) == 0 {
		response.TopTerms = s.invertedIndex.MostFrequentTerms(s.settings.TopTermsCount)
		response.Took = time.Since(startTime).Milliseconds()
		return response, nil
	}

	var candidates []candidateHit
	switch opts.Model {
	case services.ModelBoolean:
		candidates, err = s.booleanSearch(terms)
	case services.ModelPhrase:
		candidates, err = s.phraseSearch(terms)
	default:
		candidates, err = s.vectorSearch(terms)
	}
	if err != nil {
		return services.SearchResponse{}, err
	}

	rankCandidates(candidates)
	hits, err := s.materialize(candidates)
	if err != nil {
		return services.SearchResponse{}, err
	}
	response.Total = len(hits)

	if opts.Limit >= 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	response.Hits = hits
	response.TopTerms, err = s.topTermsForQuery(terms)
	if err != nil {
		return services.SearchResponse{}, err
	}
	response.Took = time.Since(startTime).Milliseconds()
	return response, nil
}

// materialize attaches stored documents to ranked candidates.
func (s *Service) materialize(candidates []candidateHit) ([]services.SearchHit, error) {
	hits := make([]services.SearchHit, 0, len(candidates))
	for _, candidate := range candidates {
		doc, ok := s.documentStore.Get(candidate.docID)
		if !ok {
			return nil, internalErrors.NewCorruptIndexError("", candidate.docID)
		}
		hits = append(hits, services.SearchHit{Document: doc, Score: candidate.score})
	}
	return hits, nil
}
