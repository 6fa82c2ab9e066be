// Package authz implements the ownership chain resolver. Every planner- or
// task-scoped operation authorizes by proving the resource belongs to the
// authenticated user: directly for planners, transitively via the parent
// planner for tasks.
package authz

import (
	"context"
	"errors"

	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/storage"
)

// ErrForbidden means the resource exists but is owned by another user.
// It is distinct from storage.ErrNotFound: an absent resource is a 404,
// a foreign one a 403.
var ErrForbidden = errors.New("resource not owned by requester")

// Resolver verifies resource ownership against the store. Resolution runs
// on every request; no result is cached across requests, so a prior check
// never authorizes a later mutation.
type Resolver struct {
	planners storage.PlannerStore
	tasks    storage.TaskStore
}

// NewResolver creates a resolver over the given stores.
func NewResolver(planners storage.PlannerStore, tasks storage.TaskStore) *Resolver {
	return &Resolver{planners: planners, tasks: tasks}
}

// Planner resolves direct ownership: the planner must exist and belong to
// userID. Returns storage.ErrNotFound if absent, ErrForbidden if owned by
// someone else.
func (r *Resolver) Planner(ctx context.Context, userID, plannerID int64) (*api.Planner, error) {
	planner, err := r.planners.GetPlanner(ctx, plannerID)
	if err != nil {
		return nil, err
	}
	if planner.UserID != userID {
		return nil, ErrForbidden
	}
	return planner, nil
}

// Task resolves transitive ownership: the task must exist and the owner of
// its parent planner must be userID. Returns storage.ErrNotFound if the
// task is absent, ErrForbidden if the parent planner belongs to someone
// else.
func (r *Resolver) Task(ctx context.Context, userID, taskID int64) (*api.Task, *api.Planner, error) {
	task, err := r.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	planner, err := r.planners.GetPlanner(ctx, task.PlannerID)
	if err != nil {
		return nil, nil, err
	}
	if planner.UserID != userID {
		return nil, nil, ErrForbidden
	}
	return task, planner, nil
}
