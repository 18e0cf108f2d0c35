package ementa

import "github.com/kailas-cloud/ementa/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSessionNotFound  = domain.ErrSessionNotFound
	ErrDecisionNotFound = domain.ErrDecisionNotFound
	ErrInvalidSchema    = domain.ErrInvalidSchema
	ErrInvalidDataset   = domain.ErrInvalidDataset
	ErrUnreadableFile   = domain.ErrUnreadableFile
	ErrInvalidCriteria  = domain.ErrInvalidCriteria
	ErrNoAnalysis       = domain.ErrNoAnalysis
	ErrPayloadTooLarge  = domain.ErrPayloadTooLarge
)

// SchemaError lists the required and found columns of a rejected file.
// Use errors.As() to inspect it.
type SchemaError = domain.SchemaError
