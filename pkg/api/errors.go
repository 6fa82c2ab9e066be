package api

import "fmt"

// ErrorType is the outward-facing category of an API error. The transport
// derives the HTTP status code from the type alone.
type ErrorType string

const (
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"
	ErrorTypeForbidden       ErrorType = "forbidden"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeServerError     ErrorType = "server_error"
)

// Error codes preserving the internal failure kind when several kinds share
// one outward type. All token and credential failures surface as
// "unauthenticated"; the code keeps them distinguishable in logs.
const (
	CodeTokenMissing       = "token_missing"
	CodeTokenMalformed     = "token_malformed"
	CodeTokenExpired       = "token_expired"
	CodeUnknownUser        = "unknown_user"
	CodeInvalidCredentials = "invalid_credentials"
)

// APIError is a structured error with an outward type, an internal code,
// an optional offending parameter, and a human-readable message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError as the top-level JSON error body.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewUnauthenticatedError creates an APIError for authentication failures.
// The code records which kind of failure occurred (missing, malformed,
// expired token, unknown user, bad credentials); all of them map to 401.
func NewUnauthenticatedError(code, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUnauthenticated,
		Code:    code,
		Message: message,
	}
}

// NewForbiddenError creates an APIError for ownership violations: the
// resource exists but belongs to someone else.
func NewForbiddenError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that do not exist.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewConflictError creates an APIError for duplicate usernames or emails
// at registration.
func NewConflictError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInvalidRequestError creates an APIError for malformed or incomplete
// request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewServerError creates an APIError for internal failures.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}
