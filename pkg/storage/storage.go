package storage

import (
	"context"

	"github.com/dailydaisy/planner/pkg/api"
)

// Store is the persistence contract for the planner backend. Implementations
// must be safe for concurrent use; every read and write is a single atomic
// row operation, so no cross-call transaction support is required.
type Store interface {
	UserStore
	PlannerStore
	TaskStore

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user and fills in its ID and CreatedAt.
	// Returns ErrConflict if the username or email is already taken.
	CreateUser(ctx context.Context, user *api.User) error

	// GetUserByID returns the user with the given ID, or ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (*api.User, error)

	// GetUserByEmail returns the user with the given email, or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*api.User, error)

	// UpdateUserLocation sets the location of an existing user.
	// Returns ErrNotFound if the user does not exist.
	UpdateUserLocation(ctx context.Context, id int64, location string) error
}

// PlannerStore persists planners.
type PlannerStore interface {
	// CreatePlanner inserts a new planner and fills in its ID and CreatedAt.
	CreatePlanner(ctx context.Context, planner *api.Planner) error

	// GetPlanner returns the planner with the given ID, or ErrNotFound.
	GetPlanner(ctx context.Context, id int64) (*api.Planner, error)

	// ListPlanners returns all planners owned by the given user, oldest first.
	ListPlanners(ctx context.Context, userID int64) ([]*api.Planner, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	// CreateTask inserts a new task and fills in its ID and CreatedAt.
	CreateTask(ctx context.Context, task *api.Task) error

	// GetTask returns the task with the given ID, or ErrNotFound.
	GetTask(ctx context.Context, id int64) (*api.Task, error)

	// ListTasks returns all tasks in the given planner, oldest first.
	ListTasks(ctx context.Context, plannerID int64) ([]*api.Task, error)

	// UpdateTaskStatus sets the status of an existing task.
	// Returns ErrNotFound if the task does not exist.
	UpdateTaskStatus(ctx context.Context, id int64, status string) error

	// DeleteTask removes a task. Returns ErrNotFound if it does not exist,
	// including when it was already deleted by an earlier call.
	DeleteTask(ctx context.Context, id int64) error
}
