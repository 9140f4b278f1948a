package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDuplicateDocument is returned when an ingest batch repeats a document ID
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptIndex is returned when the index references state the engine does not hold.
	// It signals a broken build contract and is never a normal "no results" outcome.
	ErrCorruptIndex = errors.New("corrupt index")
)

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID}
}

// DuplicateDocumentError reports a document ID that appears more than once in one ingest batch
type DuplicateDocumentError struct {
	DocumentID string
	Position   int // Index of the second occurrence within the batch
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document ID '%s' at position %d is already present in this batch", e.DocumentID, e.Position)
}

func (e *DuplicateDocumentError) Is(target error) bool {
	return target == ErrDuplicateDocument
}

// NewDuplicateDocumentError creates a new DuplicateDocumentError
func NewDuplicateDocumentError(documentID string, position int) *DuplicateDocumentError {
	return &DuplicateDocumentError{DocumentID: documentID, Position: position}
}

// CorruptIndexError reports a posting that points at a document the store does not hold
type CorruptIndexError struct {
	Term       string
	DocumentID string
}

func (e *CorruptIndexError) Error() string {
	if e.Term != "" {
		return fmt.Sprintf("index corrupted: posting for term '%s' references unknown document '%s'", e.Term, e.DocumentID)
	}
	return fmt.Sprintf("index corrupted: reference to unknown document '%s'", e.DocumentID)
}

func (e *CorruptIndexError) Is(target error) bool {
	return target == ErrCorruptIndex
}

// NewCorruptIndexError creates a new CorruptIndexError
func NewCorruptIndexError(term, documentID string) *CorruptIndexError {
	return &CorruptIndexError{Term: term, DocumentID: documentID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
