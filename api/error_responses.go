package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrorCodeDocumentNotFound  ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeDuplicateDocument ErrorCode = "DUPLICATE_DOCUMENT"
	ErrorCodeInvalidJSON       ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery      ErrorCode = "INVALID_QUERY"
	ErrorCodePayloadTooLarge   ErrorCode = "PAYLOAD_TOO_LARGE"

	// Server Error Codes (5xx)
	ErrorCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrorCodeIndexingFailed ErrorCode = "INDEXING_FAILED"
	ErrorCodeSearchFailed   ErrorCode = "SEARCH_FAILED"
	ErrorCodeCorruptIndex   ErrorCode = "CORRUPT_INDEX"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)
	errorResponse.RequestID = c.GetString(requestIDKey)
	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends one detail per validation problem
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendDocumentNotFoundError sends a standardized document not found error
func SendDocumentNotFoundError(c *gin.Context, documentID string) {
	SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound,
		"Document '"+documentID+"' not found")
}

// SendInvalidJSONError sends a standardized invalid JSON error. Bodies over the
// configured size limit get 413 instead.
func SendInvalidJSONError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
			"Request body exceeds the limit of "+strconv.FormatInt(maxBytesErr.Limit, 10)+" bytes")
		return
	}
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendIndexingError maps an ingest failure to its status code.
func SendIndexingError(c *gin.Context, err error) {
	var duplicate *internalErrors.DuplicateDocumentError
	var validation *internalErrors.ValidationError
	switch {
	case errors.As(err, &duplicate):
		SendError(c, http.StatusConflict, ErrorCodeDuplicateDocument, err.Error(),
			ErrorDetail{Field: "documents[" + strconv.Itoa(duplicate.Position) + "].id", Message: "duplicate id '" + duplicate.DocumentID + "'"})
	case errors.As(err, &validation):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error(),
			ErrorDetail{Field: validation.Field, Message: validation.Message, Code: "VALIDATION_ERROR"})
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeIndexingFailed,
			"Indexing operation failed: "+err.Error())
	}
}

// SendSearchError maps a search failure to its status code.
func SendSearchError(c *gin.Context, err error) {
	var validation *internalErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error(),
			ErrorDetail{Field: validation.Field, Message: validation.Message, Code: "VALIDATION_ERROR"})
	case errors.Is(err, internalErrors.ErrCorruptIndex):
		SendError(c, http.StatusInternalServerError, ErrorCodeCorruptIndex, "Search failed: "+err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed, "Search failed: "+err.Error())
	}
}
