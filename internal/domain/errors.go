package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound signals a missing or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDecisionNotFound signals a missing decision inside a dataset.
	ErrDecisionNotFound = errors.New("decision not found")
	// ErrInvalidSchema signals a file without the required columns.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidDataset signals rows that break dataset invariants (bad or duplicate IDs).
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrUnreadableFile signals a file that could not be decoded as delimited text.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrInvalidCriteria signals filter criteria that cannot be normalized.
	ErrInvalidCriteria = errors.New("invalid criteria")
	// ErrNoAnalysis signals an export requested before any analysis ran.
	ErrNoAnalysis = errors.New("no analysis in session")
	// ErrPayloadTooLarge signals an upload over the configured limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrSummarizerUnavailable signals a failing narrative provider.
	ErrSummarizerUnavailable = errors.New("summarizer unavailable")
	// ErrSummarizerBudgetExceeded signals an exhausted summarizer token budget.
	ErrSummarizerBudgetExceeded = errors.New("summarizer token budget exceeded")
)

// SchemaError wraps ErrInvalidSchema with the required and found column lists.
type SchemaError struct {
	Required []string
	Found    []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: file must have columns [%s], found [%s]",
		ErrInvalidSchema.Error(), strings.Join(e.Required, ", "), strings.Join(e.Found, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrInvalidSchema }

// NewSchemaError creates a schema error.
func NewSchemaError(required, found []string) error {
	return &SchemaError{Required: required, Found: found}
}
