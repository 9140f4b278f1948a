// Package api provides the HTTP surface of the retrieval engine and the
// validation utilities for request handling.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

const (
	maxPageSize = 100
	maxPage     = 100000
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateDocumentID validates a document ID path parameter
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("documentId", "Document ID is required")
		return result
	}

	if strings.TrimSpace(documentID) != documentID {
		result.AddError("documentId", "Document ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateDocuments checks that a batch is non-empty and every document has an id.
// Duplicate ids are reported by the engine.
func ValidateDocuments(docs []model.Document) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(docs) == 0 {
		result.AddError("documents", "No documents provided")
		return result
	}

	for i, doc := range docs {
		if _, ok := doc.GetDocumentID(); !ok {
			result.AddError(fmt.Sprintf("documents[%d].id", i), "Document ID cannot be empty or whitespace-only")
		}
	}

	return result
}

// ValidatePagination applies defaults and caps the page size. Negative values
// and pages beyond maxPage are rejected.
func ValidatePagination(page, pageSize, defaultPageSize int) (int, int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if page < 0 {
		result.AddError("page", "Page number must be greater than 0")
	} else if page > maxPage {
		result.AddError("page", fmt.Sprintf("Page number cannot exceed %d", maxPage))
	}
	if pageSize < 0 {
		result.AddError("page_size", "Page size must be greater than 0")
	}

	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize, result
}

// ValidateModel checks a retrieval model name. The empty name is valid.
func ValidateModel(name string) (services.RetrievalModel, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	m, err := services.ParseRetrievalModel(name)
	if err != nil {
		result.AddError("model", fmt.Sprintf("Unknown retrieval model '%s', expected boolean, vector or phrase", name))
	}
	return m, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateQueryBinding validates query parameter binding
func ValidateQueryBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindQuery(target); err != nil {
		result.AddError("query_parameters", "Invalid query parameters: "+err.Error())
	}

	return result
}
