// Package api defines the domain types and the error model shared by all
// layers of the planner backend: users, planners, tasks, and the structured
// APIError taxonomy that the transport maps to HTTP status codes.
package api
