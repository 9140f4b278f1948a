package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/index"
	"github.com/gcbaptista/go-retrieval-engine/internal/search"
	"github.com/gcbaptista/go-retrieval-engine/internal/spelling"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/store"
)

// snapshot holds every component built from one ingestion. It is never mutated
// after construction; re-ingestion builds a new snapshot.
type snapshot struct {
	generation    string
	indexedAt     time.Time
	documentStore *store.DocumentStore
	invertedIndex *index.InvertedIndex
	corrector     *spelling.Corrector
	searcher      *search.Service
}

// buildSnapshot validates docs, indexes them and seeds the corrector.
func buildSnapshot(docs []model.Document, settings *config.EngineSettings) (*snapshot, error) {
	docStore, err := store.NewDocumentStore(docs)
	if err != nil {
		return nil, err
	}

	invIndex := index.NewInvertedIndex()
	if err := invIndex.Build(docStore.Documents()); err != nil {
		return nil, fmt.Errorf("failed to build inverted index: %w", err)
	}

	return assembleSnapshot(docStore, invIndex, settings)
}

// assembleSnapshot wires the corrector and search service over a populated store and index.
func assembleSnapshot(docStore *store.DocumentStore, invIndex *index.InvertedIndex, settings *config.EngineSettings) (*snapshot, error) {
	corrector := spelling.NewCorrector()
	corrector.InitDictionary(invIndex)

	searcher, err := search.NewService(invIndex, docStore, corrector, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &snapshot{
		generation:    uuid.New().String(),
		indexedAt:     time.Now().UTC(),
		documentStore: docStore,
		invertedIndex: invIndex,
		corrector:     corrector,
		searcher:      searcher,
	}, nil
}
