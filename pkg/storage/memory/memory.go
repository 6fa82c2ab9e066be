// Package memory provides an in-memory implementation of storage.Store for
// testing and lightweight deployments. All data is lost when the process
// restarts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/storage"
)

// Store is an in-memory storage.Store guarded by a single mutex.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*api.User
	planners map[int64]*api.Planner
	tasks    map[int64]*api.Task

	nextUserID    int64
	nextPlannerID int64
	nextTaskID    int64
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[int64]*api.User),
		planners: make(map[int64]*api.Planner),
		tasks:    make(map[int64]*api.Task),
	}
}

// CreateUser inserts a new user, enforcing username and email uniqueness.
func (s *Store) CreateUser(_ context.Context, user *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return storage.ErrConflict
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

// GetUserByID returns a copy of the user with the given ID.
func (s *Store) GetUserByID(_ context.Context, id int64) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u := *user
	return &u, nil
}

// GetUserByEmail returns a copy of the user with the given email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

// UpdateUserLocation sets the location of an existing user.
func (s *Store) UpdateUserLocation(_ context.Context, id int64, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.Location = location
	return nil
}

// CreatePlanner inserts a new planner.
func (s *Store) CreatePlanner(_ context.Context, planner *api.Planner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPlannerID++
	planner.ID = s.nextPlannerID
	if planner.CreatedAt.IsZero() {
		planner.CreatedAt = time.Now().UTC()
	}

	stored := *planner
	s.planners[planner.ID] = &stored
	return nil
}

// GetPlanner returns a copy of the planner with the given ID.
func (s *Store) GetPlanner(_ context.Context, id int64) (*api.Planner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	planner, ok := s.planners[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p := *planner
	return &p, nil
}

// ListPlanners returns all planners owned by the given user, oldest first.
func (s *Store) ListPlanners(_ context.Context, userID int64) ([]*api.Planner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var planners []*api.Planner
	for _, planner := range s.planners {
		if planner.UserID == userID {
			p := *planner
			planners = append(planners, &p)
		}
	}
	sort.Slice(planners, func(i, j int) bool { return planners[i].ID < planners[j].ID })
	return planners, nil
}

// CreateTask inserts a new task.
func (s *Store) CreateTask(_ context.Context, task *api.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	task.ID = s.nextTaskID
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

// GetTask returns a copy of the task with the given ID.
func (s *Store) GetTask(_ context.Context, id int64) (*api.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	t := *task
	return &t, nil
}

// ListTasks returns all tasks in the given planner, oldest first.
func (s *Store) ListTasks(_ context.Context, plannerID int64) ([]*api.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*api.Task
	for _, task := range s.tasks {
		if task.PlannerID == plannerID {
			t := *task
			tasks = append(tasks, &t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// UpdateTaskStatus sets the status of an existing task.
func (s *Store) UpdateTaskStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return storage.ErrNotFound
	}
	task.Status = status
	return nil
}

// DeleteTask removes a task. A second delete of the same ID reports
// ErrNotFound like any other missing task.
func (s *Store) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
