package engine

import (
	"fmt"
	"time"

	"github.com/gcbaptista/go-retrieval-engine/index"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/store"
)

// ExportIndex serializes the inverted index of the current corpus.
// The documents themselves are not included.
func (e *Engine) ExportIndex() ([]byte, error) {
	data, err := e.current.Load().invertedIndex.Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to export index: %w", err)
	}
	return data, nil
}

// ImportIndex replaces the corpus with docs and a previously exported index of
// those same documents, skipping the build. The index must reference exactly the
// documents in docs; otherwise the current corpus is kept and a CorruptIndexError
// is returned.
func (e *Engine) ImportIndex(docs []model.Document, data []byte) error {
	start := time.Now()

	docStore, err := store.NewDocumentStore(docs)
	if err != nil {
		return err
	}

	invIndex := index.NewInvertedIndex()
	if err := invIndex.Deserialize(data); err != nil {
		return fmt.Errorf("failed to import index: %w", err)
	}

	if invIndex.DocumentCount() != docStore.Len() {
		return fmt.Errorf("%w: index holds %d documents, %d supplied",
			internalErrors.ErrCorruptIndex, invIndex.DocumentCount(), docStore.Len())
	}
	for _, docID := range invIndex.DocumentIDs() {
		if _, ok := docStore.Get(docID); !ok {
			return internalErrors.NewCorruptIndexError("", docID)
		}
	}

	next, err := assembleSnapshot(docStore, invIndex, &e.settings)
	if err != nil {
		return err
	}
	e.publish(next, "imported", start)
	return nil
}
