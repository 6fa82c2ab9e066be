package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/storage"
)

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New()

	user := &api.User{Username: "alice", Email: "alice@x.com", PasswordHash: "hash"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected assigned ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected assigned CreatedAt")
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("username = %q, want alice", byID.Username)
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("id = %d, want %d", byEmail.ID, user.ID)
	}

	if err := store.UpdateUserLocation(ctx, user.ID, "Berlin"); err != nil {
		t.Fatalf("update location: %v", err)
	}
	updated, _ := store.GetUserByID(ctx, user.ID)
	if updated.Location != "Berlin" {
		t.Errorf("location = %q, want Berlin", updated.Location)
	}
}

func TestCreateUser_Conflicts(t *testing.T) {
	ctx := context.Background()
	store := New()

	if err := store.CreateUser(ctx, &api.User{Username: "alice", Email: "alice@x.com"}); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	err := store.CreateUser(ctx, &api.User{Username: "alice", Email: "other@x.com"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate username: error = %v, want ErrConflict", err)
	}

	err = store.CreateUser(ctx, &api.User{Username: "bob", Email: "alice@x.com"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate email: error = %v, want ErrConflict", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	store := New()

	if _, err := store.GetUserByID(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get by id: error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetUserByEmail(ctx, "nobody@x.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get by email: error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateUserLocation(ctx, 1, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("update location: error = %v, want ErrNotFound", err)
	}
}

func TestPlannerListScopedByUser(t *testing.T) {
	ctx := context.Background()
	store := New()

	for _, p := range []*api.Planner{
		{UserID: 1, Name: "Week1", ViewType: "weekly"},
		{UserID: 2, Name: "Other", ViewType: "daily"},
		{UserID: 1, Name: "Week2", ViewType: "weekly"},
	} {
		if err := store.CreatePlanner(ctx, p); err != nil {
			t.Fatalf("creating planner: %v", err)
		}
	}

	planners, err := store.ListPlanners(ctx, 1)
	if err != nil {
		t.Fatalf("listing planners: %v", err)
	}
	if len(planners) != 2 {
		t.Fatalf("len = %d, want 2", len(planners))
	}
	if planners[0].Name != "Week1" || planners[1].Name != "Week2" {
		t.Errorf("expected oldest-first order, got %q, %q", planners[0].Name, planners[1].Name)
	}
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New()

	task := &api.Task{PlannerID: 1, Title: "write report", Status: "pending"}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("creating task: %v", err)
	}

	if err := store.UpdateTaskStatus(ctx, task.ID, "completed"); err != nil {
		t.Fatalf("updating status: %v", err)
	}
	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("getting task: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("status = %q, want completed", got.Status)
	}

	tasks, err := store.ListTasks(ctx, 1)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("len = %d, want 1", len(tasks))
	}

	if err := store.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("deleting task: %v", err)
	}

	// The second delete reports the task as gone.
	if err := store.DeleteTask(ctx, task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("double delete: error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get after delete: error = %v, want ErrNotFound", err)
	}
}

func TestCopiesAreIsolated(t *testing.T) {
	// Mutating a returned record must not leak into the store.
	ctx := context.Background()
	store := New()

	user := &api.User{Username: "alice", Email: "alice@x.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	got, _ := store.GetUserByID(ctx, user.ID)
	got.Username = "mallory"

	again, _ := store.GetUserByID(ctx, user.ID)
	if again.Username != "alice" {
		t.Errorf("store mutated through returned copy: username = %q", again.Username)
	}
}
