package entity

import "errors"

// ValidationError means the request was rejected before any upstream call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type ExtractionErrorKind string

const (
	ExtractionInvalidURL         ExtractionErrorKind = "invalid_url"
	ExtractionNotFound           ExtractionErrorKind = "not_found"
	ExtractionRateLimited        ExtractionErrorKind = "rate_limited"
	ExtractionUpstreamInternal   ExtractionErrorKind = "upstream_internal"
	ExtractionTimeout            ExtractionErrorKind = "timeout"
	ExtractionServiceUnavailable ExtractionErrorKind = "service_unavailable"
	ExtractionFailed             ExtractionErrorKind = "extraction_failed"
)

type ExtractionError struct {
	Kind    ExtractionErrorKind
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func NewExtractionError(kind ExtractionErrorKind, message string, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: message, Cause: cause}
}

// ExtractionKind returns the kind of an extraction error anywhere in err's chain.
func ExtractionKind(err error) (ExtractionErrorKind, bool) {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind, true
	}
	return "", false
}

// AnalysisError wraps any vision collaborator failure. Sub-causes are not classified.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

func NewAnalysisError(cause error) *AnalysisError {
	message := "vision analysis failed"
	if cause != nil {
		message = cause.Error()
	}
	return &AnalysisError{Message: message, Cause: cause}
}
