package auth

import "errors"

// Sentinel errors for authentication failures. All of them surface as 401
// outward; the distinct kinds are preserved for logging and metrics.
var (
	// ErrMissingToken means the Authorization header was absent or carried
	// no token component after the scheme.
	ErrMissingToken = errors.New("token missing")

	// ErrMalformedToken means the token's signature did not verify or its
	// payload could not be parsed.
	ErrMalformedToken = errors.New("token malformed")

	// ErrExpiredToken means the token's expiry instant has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrUnknownUser means the token verified but its user no longer
	// exists (the token outlived the account).
	ErrUnknownUser = errors.New("unknown user")
)
