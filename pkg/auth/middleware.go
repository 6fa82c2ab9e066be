package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/observability"
	"github.com/dailydaisy/planner/pkg/storage"
)

// UserResolver resolves a verified user ID to a live user record.
// The storage layer's user store satisfies it.
type UserResolver interface {
	GetUserByID(ctx context.Context, id int64) (*api.User, error)
}

// Middleware creates the authentication gate as HTTP middleware. It runs
// before any handler logic: requests to non-bypass endpoints either reach
// the handler with a resolved user in the context or are rejected with 401.
func Middleware(tokens *TokenService, users UserResolver, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, err := ExtractBearerToken(r)
			if err == nil {
				var userID int64
				userID, err = tokens.Verify(token)
				if err == nil {
					var user *api.User
					user, err = users.GetUserByID(r.Context(), userID)
					if errors.Is(err, storage.ErrNotFound) {
						err = ErrUnknownUser
					}
					if err == nil {
						next.ServeHTTP(w, r.WithContext(SetUser(r.Context(), user)))
						return
					}
				}
			}

			kind := failureKind(err)
			slog.Warn("authentication failed",
				"kind", kind,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			observability.AuthFailuresTotal.WithLabelValues(kind).Inc()

			writeUnauthenticated(w, kind)
		})
	}
}

// ExtractBearerToken reads the token from the Authorization header. The
// header is split on whitespace and the second component is the token, so
// any scheme word is accepted. An absent header or a header without a
// token component yields ErrMissingToken.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", ErrMissingToken
	}
	return fields[1], nil
}

// failureKind maps an authentication error to its stable internal code.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return api.CodeTokenMissing
	case errors.Is(err, ErrExpiredToken):
		return api.CodeTokenExpired
	case errors.Is(err, ErrUnknownUser):
		return api.CodeUnknownUser
	default:
		return api.CodeTokenMalformed
	}
}

// writeUnauthenticated writes the generic 401 body. The outward message is
// the same for every kind; only the code differs.
func writeUnauthenticated(w http.ResponseWriter, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(api.ErrorResponse{
		Error: api.NewUnauthenticatedError(kind, "authentication required"),
	})
}

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{
	"/healthz",
	"/metrics",
	"/api/auth/register",
	"/api/auth/login",
}
