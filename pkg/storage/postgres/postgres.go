// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and applies embedded schema
// migrations at startup when configured to do so.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// CreateUser inserts a new user, filling in its ID and CreatedAt.
func (s *Store) CreateUser(ctx context.Context, user *api.User) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, user.Username, user.Email, user.PasswordHash, user.Location).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*api.User, error) {
	return s.getUser(ctx, "id = $1", id)
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*api.User, error) {
	return s.getUser(ctx, "email = $1", email)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*api.User, error) {
	var user api.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, location, created_at
		FROM users
		WHERE `+where, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.Location, &user.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

// UpdateUserLocation sets the location of an existing user.
func (s *Store) UpdateUserLocation(ctx context.Context, id int64, location string) error {
	result, err := s.pool.Exec(ctx,
		"UPDATE users SET location = $1 WHERE id = $2", location, id)
	if err != nil {
		return fmt.Errorf("updating user location: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreatePlanner inserts a new planner, filling in its ID and CreatedAt.
func (s *Store) CreatePlanner(ctx context.Context, planner *api.Planner) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO planners (user_id, name, view_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, planner.UserID, planner.Name, planner.ViewType).
		Scan(&planner.ID, &planner.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting planner: %w", err)
	}
	return nil
}

// GetPlanner retrieves a planner by ID.
func (s *Store) GetPlanner(ctx context.Context, id int64) (*api.Planner, error) {
	var planner api.Planner
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, view_type, created_at
		FROM planners
		WHERE id = $1
	`, id).Scan(&planner.ID, &planner.UserID, &planner.Name,
		&planner.ViewType, &planner.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying planner: %w", err)
	}
	return &planner, nil
}

// ListPlanners returns all planners owned by the given user, oldest first.
func (s *Store) ListPlanners(ctx context.Context, userID int64) ([]*api.Planner, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, view_type, created_at
		FROM planners
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying planners: %w", err)
	}
	defer rows.Close()

	var planners []*api.Planner
	for rows.Next() {
		var planner api.Planner
		if err := rows.Scan(&planner.ID, &planner.UserID, &planner.Name,
			&planner.ViewType, &planner.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning planner: %w", err)
		}
		planners = append(planners, &planner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planners: %w", err)
	}
	return planners, nil
}

// CreateTask inserts a new task, filling in its ID and CreatedAt.
func (s *Store) CreateTask(ctx context.Context, task *api.Task) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (planner_id, title, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, task.PlannerID, task.Title, task.Status).
		Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id int64) (*api.Task, error) {
	var task api.Task
	err := s.pool.QueryRow(ctx, `
		SELECT id, planner_id, title, status, created_at
		FROM tasks
		WHERE id = $1
	`, id).Scan(&task.ID, &task.PlannerID, &task.Title,
		&task.Status, &task.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return &task, nil
}

// ListTasks returns all tasks in the given planner, oldest first.
func (s *Store) ListTasks(ctx context.Context, plannerID int64) ([]*api.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, planner_id, title, status, created_at
		FROM tasks
		WHERE planner_id = $1
		ORDER BY id
	`, plannerID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*api.Task
	for rows.Next() {
		var task api.Task
		if err := rows.Scan(&task.ID, &task.PlannerID, &task.Title,
			&task.Status, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus sets the status of an existing task.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status string) error {
	result, err := s.pool.Exec(ctx,
		"UPDATE tasks SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
