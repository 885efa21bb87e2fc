// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package so the mobile client
// always finds the message under "error" and no internal detail (SQL, stack
// traces) reaches it.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Error: "Faltan datos", Fields: fields}
}
