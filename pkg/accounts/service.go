// Package accounts implements the credential store: registration with
// bcrypt password hashing, login verification, and profile updates.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/storage"
)

// ErrInvalidCredentials is returned by Authenticate for both "no such
// user" and "wrong password". The two cases are intentionally
// indistinguishable to the caller, preventing account enumeration.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is compared against when the user does not exist, so the
// missing-user path costs a bcrypt comparison like the wrong-password
// path does.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("planner-dummy-credential"), bcrypt.DefaultCost)

// Service provides account operations on top of a user store. Only the
// bcrypt hash of a password is ever stored; the plaintext is discarded
// after hashing.
type Service struct {
	users storage.UserStore
	cost  int
}

// NewService creates an account service. A cost of 0 uses bcrypt's default.
func NewService(users storage.UserStore, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, cost: cost}
}

// Register creates a new user with the given credentials. Returns
// storage.ErrConflict if the username or email is already taken.
func (s *Service) Register(ctx context.Context, username, email, password string) (*api.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &api.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the user on success.
// An absent user and a wrong password both yield ErrInvalidCredentials,
// and both paths perform one bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*api.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateLocation sets the user's location and returns the updated record.
func (s *Service) UpdateLocation(ctx context.Context, userID int64, location string) (*api.User, error) {
	if err := s.users.UpdateUserLocation(ctx, userID, location); err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, userID)
}
