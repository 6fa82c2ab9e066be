package api

import "time"

// User is a registered account. PasswordHash holds a bcrypt hash and is
// never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Planner is a collection of tasks owned by exactly one user.
// UserID is fixed at creation and never changes afterwards.
type Planner struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	ViewType  string    `json:"view_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Task belongs to exactly one planner. Its effective owner is the owner of
// that planner; authorization always walks up through PlannerID.
type Task struct {
	ID        int64     `json:"id"`
	PlannerID int64     `json:"planner_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Defaults applied at creation time.
const (
	DefaultViewType   = "daily"
	DefaultTaskStatus = "pending"
)
