package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dailydaisy/planner/pkg/accounts"
	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/authz"
	"github.com/dailydaisy/planner/pkg/storage"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP
// status code.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case api.ErrorTypeForbidden:
		return http.StatusForbidden
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeConflict:
		return http.StatusConflict
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// MapError translates domain and storage errors into a structured APIError.
// Errors that are already *api.APIError pass through unchanged; anything
// unrecognized becomes a server error with a generic message.
func MapError(err error) *api.APIError {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, storage.ErrNotFound):
		return api.NewNotFoundError("resource not found")
	case errors.Is(err, storage.ErrConflict):
		return api.NewConflictError("username or email already exists")
	case errors.Is(err, authz.ErrForbidden):
		return api.NewForbiddenError("access denied")
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return api.NewUnauthenticatedError(api.CodeInvalidCredentials, "invalid email or password")
	default:
		return api.NewServerError("internal server error")
	}
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api. It sets the Content-Type header and writes
// the HTTP status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteError maps err to an APIError and writes it, deriving the HTTP
// status code from the error type.
func WriteError(w http.ResponseWriter, err error) {
	apiErr := MapError(err)
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}

// WriteJSON writes a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
