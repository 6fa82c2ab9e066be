package postgres

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/storage"
)

func init() {
	// Configure testcontainers to use podman when no Docker host is set.
	if os.Getenv("DOCKER_HOST") == "" {
		out, err := exec.Command("podman", "machine", "inspect", "--format", "{{.ConnectionInfo.PodmanSocket.Path}}").Output()
		if err == nil {
			sock := strings.TrimSpace(string(out))
			if sock != "" {
				os.Setenv("DOCKER_HOST", "unix://"+sock)
			}
		}
	}
	// Ryuk needs privileged mode with podman.
	if os.Getenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED", "true")
	}
}

// setupTestDB starts a PostgreSQL container and returns a migrated Store.
// Tests are skipped if no container runtime is available.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("planner_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}

	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	store, err := New(ctx, Config{
		DSN:            connStr,
		MigrateOnStart: true,
	})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func seedUser(t *testing.T, store *Store, username, email string) *api.User {
	t.Helper()
	user := &api.User{Username: username, Email: email, PasswordHash: "hash"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return user
}

func TestUserCRUD(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	user := seedUser(t, store, "alice", "alice@x.com")
	if user.ID == 0 {
		t.Error("expected assigned ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected assigned CreatedAt")
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.PasswordHash != "hash" {
		t.Errorf("got %+v, want id=%d hash=hash", byEmail, user.ID)
	}

	if err := store.UpdateUserLocation(ctx, user.ID, "Berlin"); err != nil {
		t.Fatalf("update location: %v", err)
	}
	updated, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if updated.Location != "Berlin" {
		t.Errorf("location = %q, want Berlin", updated.Location)
	}

	if _, err := store.GetUserByID(ctx, 99999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("absent user: error = %v, want ErrNotFound", err)
	}
}

func TestUserUniqueConstraints(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, store, "alice", "alice@x.com")

	err := store.CreateUser(ctx, &api.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate username: error = %v, want ErrConflict", err)
	}

	err = store.CreateUser(ctx, &api.User{Username: "bob", Email: "alice@x.com", PasswordHash: "h"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate email: error = %v, want ErrConflict", err)
	}
}

func TestPlannerAndTaskCRUD(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice", "alice@x.com")
	bob := seedUser(t, store, "bob", "bob@x.com")

	planner := &api.Planner{UserID: alice.ID, Name: "Week1", ViewType: "weekly"}
	if err := store.CreatePlanner(ctx, planner); err != nil {
		t.Fatalf("creating planner: %v", err)
	}

	other := &api.Planner{UserID: bob.ID, Name: "Other", ViewType: "daily"}
	if err := store.CreatePlanner(ctx, other); err != nil {
		t.Fatalf("creating planner: %v", err)
	}

	planners, err := store.ListPlanners(ctx, alice.ID)
	if err != nil {
		t.Fatalf("listing planners: %v", err)
	}
	if len(planners) != 1 || planners[0].Name != "Week1" {
		t.Errorf("alice's planners = %+v, want only Week1", planners)
	}

	task := &api.Task{PlannerID: planner.ID, Title: "write report", Status: "pending"}
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

	tasks, err := store.ListTasks(ctx, planner.ID)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("len = %d, want 1", len(tasks))
	}

	if err := store.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("deleting task: %v", err)
	}
	if err := store.DeleteTask(ctx, task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("double delete: error = %v, want ErrNotFound", err)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	store := setupTestDB(t)

	// Running migrate again must be a no-op.
	if err := store.migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Errorf("health check: %v", err)
	}
}
