package models

import "fmt"

// ErrorCategory is the machine-distinguishable error class returned to callers.
type ErrorCategory string

const (
	ErrInvalidRequest      ErrorCategory = "invalid_request"
	ErrUnauthorized        ErrorCategory = "unauthorized"
	ErrInsufficientCredits ErrorCategory = "insufficient_credits"
	ErrConvergenceFailed   ErrorCategory = "convergence_failed"
	ErrContentPolicy       ErrorCategory = "content_policy"
	ErrRateLimited         ErrorCategory = "rate_limited"
	ErrNotSaved            ErrorCategory = "not_saved"
	ErrInternal            ErrorCategory = "internal"
)

// PipelineError carries the category, a human-readable message, actionable
// suggestions and diagnostic detail. Stage internals stay in Details; raw
// upstream error bodies are never exposed through Message.
type PipelineError struct {
	Category    ErrorCategory  `json:"category"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// HTTPStatus maps the category onto the HTTP-style status contract.
func (e *PipelineError) HTTPStatus() int {
	switch e.Category {
	case ErrInvalidRequest:
		return 400
	case ErrUnauthorized:
		return 401
	case ErrInsufficientCredits:
		return 402
	case ErrConvergenceFailed, ErrContentPolicy:
		return 422
	case ErrRateLimited:
		return 429
	default:
		return 500
	}
}

func NewPipelineError(cat ErrorCategory, msg string) *PipelineError {
	return &PipelineError{Category: cat, Message: msg}
}

func (e *PipelineError) WithSuggestions(s ...string) *PipelineError {
	e.Suggestions = append(e.Suggestions, s...)
	return e
}

func (e *PipelineError) WithDetail(key string, value any) *PipelineError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}
