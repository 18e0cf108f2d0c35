package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/domain"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeMethodNotAllowed ErrorCode = "method_not_allowed"
	CodeSessionNotFound  ErrorCode = "session_not_found"
	CodeDecisionNotFound ErrorCode = "decision_not_found"
	CodeInvalidSchema    ErrorCode = "invalid_schema"
	CodeInvalidDataset   ErrorCode = "invalid_dataset"
	CodeUnreadableFile   ErrorCode = "unreadable_file"
	CodeInvalidCriteria  ErrorCode = "invalid_criteria"
	CodeNoAnalysis       ErrorCode = "no_analysis"
	CodePayloadTooLarge  ErrorCode = "payload_too_large"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Required []string  `json:"required,omitempty"`
	Found    []string  `json:"found,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		schemaErrorHandler,
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrDecisionNotFound, http.StatusNotFound, CodeDecisionNotFound),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusUnprocessableEntity, CodeInvalidSchema),
		sentinelHandler(domain.ErrInvalidDataset, http.StatusUnprocessableEntity, CodeInvalidDataset),
		sentinelHandler(domain.ErrUnreadableFile, http.StatusUnprocessableEntity, CodeUnreadableFile),
		sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, CodeInvalidCriteria),
		sentinelHandler(domain.ErrNoAnalysis, http.StatusConflict, CodeNoAnalysis),
		sentinelHandler(domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge),
	}
}

// clientSentinels are the errors whose full message is safe to return.
var clientSentinels = []error{
	domain.ErrSessionNotFound,
	domain.ErrDecisionNotFound,
	domain.ErrInvalidSchema,
	domain.ErrInvalidDataset,
	domain.ErrUnreadableFile,
	domain.ErrInvalidCriteria,
	domain.ErrNoAnalysis,
	domain.ErrPayloadTooLarge,
}

// safeDomainMessage returns a client message without exposing internals.
// Validation errors keep their detail (line numbers, offending values).
func safeDomainMessage(err error) string {
	for _, s := range clientSentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// schemaErrorHandler reports the required and found columns of a rejected file.
func schemaErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var se *domain.SchemaError
	if !errors.As(err, &se) {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Code:     CodeInvalidSchema,
		Message:  msg,
		Required: se.Required,
		Found:    nonNil(se.Found),
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
