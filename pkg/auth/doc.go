// Package auth implements the token service and the authentication gate.
//
// Tokens are stateless bearer JWTs signed with a server-held HMAC secret:
// possession is proof of identity for the token's lifetime, and no
// revocation list exists. The gate is HTTP middleware that extracts the
// bearer token, verifies it, resolves the user record, and injects the
// identity into the request context. Handlers read identity only from the
// context; no handler re-derives it another way.
package auth
