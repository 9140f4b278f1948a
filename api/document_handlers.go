package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-retrieval-engine/model"
)

// AddDocumentsHandler replaces the corpus with the request body, a document
// object or an array of documents.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	docs, err := decodeDocuments(body)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDocuments(docs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.AddDocuments(docs); err != nil {
		SendIndexingError(c, err)
		return
	}

	if err := api.cache.Invalidate(c.Request.Context()); err != nil {
		api.requestLogger(c).Warn("cache invalidation failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("%d document(s) indexed", len(docs)),
		"document_count": api.engine.DocumentCount(),
		"generation":     api.engine.Generation(),
	})
}

// decodeDocuments accepts a single JSON object or an array of objects.
func decodeDocuments(body []byte) ([]model.Document, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body, expecting a document object or an array of documents")
	}

	switch trimmed[0] {
	case '[':
		var docs []model.Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	case '{':
		var doc model.Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		return []model.Document{doc}, nil
	default:
		return nil, fmt.Errorf("expecting a document object or an array of documents")
	}
}

// GetDocumentHandler returns one stored document.
func (api *API) GetDocumentHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	document, err := api.engine.GetDocument(documentID)
	if err != nil {
		SendDocumentNotFoundError(c, documentID)
		return
	}

	c.JSON(http.StatusOK, document)
}
