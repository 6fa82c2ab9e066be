// Package storage defines the persistence interface for users, planners,
// and tasks, plus the sentinel errors implementations must return so the
// layers above can map them to API outcomes.
//
// Two implementations exist: memory (testing and lightweight deployments)
// and postgres (pgx connection pool with embedded schema migrations).
package storage
