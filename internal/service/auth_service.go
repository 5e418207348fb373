package service

import (
	"context"
	"errors"
	"fmt"

	"member-portal/internal/auth"
	"member-portal/internal/models"
	"member-portal/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// dummyHash is compared against when the username is unknown so both
// failure paths do the same bcrypt work.
var dummyHash = func() string {
	h, _ := auth.HashPassword("unknown-user-placeholder")
	return h
}()

// AuthService registers and authenticates users
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type authService struct {
	users repository.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

// Register hashes the password and stores a new user.
// Returns ErrUsernameTaken when the store rejects a duplicate username.
func (s *authService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the matching user, or ErrInvalidCredentials for an
// unknown username and a wrong password alike.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.CheckPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user by username: %w", err)
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
