package store

import (
	"fmt"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// DocumentStore maps external document IDs to documents and remembers ingest order.
// A store is populated once by NewDocumentStore and never mutated afterwards.
type DocumentStore struct {
	docs  map[string]model.Document
	order []string
}

// NewDocumentStore validates docs and stores them in the given order.
// IDs are trimmed; an empty ID is a ValidationError and a repeated ID is a
// DuplicateDocumentError. On error no store is returned.
func NewDocumentStore(docs []model.Document) (*DocumentStore, error) {
	ds := &DocumentStore{
		docs:  make(map[string]model.Document, len(docs)),
		order: make([]string, 0, len(docs)),
	}

	for position, doc := range docs {
		id, ok := doc.GetDocumentID()
		if !ok {
			return nil, internalErrors.NewValidationError("id",
				fmt.Sprintf("document at position %d has an empty id", position))
		}
		if _, exists := ds.docs[id]; exists {
			return nil, internalErrors.NewDuplicateDocumentError(id, position)
		}
		doc = doc.Clone()
		doc.ID = id
		ds.docs[id] = doc
		ds.order = append(ds.order, id)
	}
	return ds, nil
}

// Get returns the document stored under id. Its Metadata belongs to the store and
// must not be modified.
func (ds *DocumentStore) Get(id string) (model.Document, bool) {
	doc, ok := ds.docs[id]
	return doc, ok
}

// Len returns the number of stored documents.
func (ds *DocumentStore) Len() int {
	return len(ds.order)
}

// Documents returns the stored documents in ingest order.
func (ds *DocumentStore) Documents() []model.Document {
	docs := make([]model.Document, 0, len(ds.order))
	for _, id := range ds.order {
		docs = append(docs, ds.docs[id])
	}
	return docs
}

// IDs returns the stored document IDs in ingest order.
func (ds *DocumentStore) IDs() []string {
	ids := make([]string, len(ds.order))
	copy(ids, ds.order)
	return ids
}
