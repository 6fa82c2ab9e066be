// Package transport holds the HTTP-facing plumbing shared by the server:
// error-to-status mapping, JSON error writing, and cross-cutting middleware
// (panic recovery, request IDs, request logging).
package transport
