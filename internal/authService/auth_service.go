package auth

import (
	"context"
	"errors"
	"fmt"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/session"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login, issuing session credentials
// on successful authentication.
type AuthService struct {
	users    repository.UserStore
	sessions *session.Store
}

// NewAuthService creates a new AuthService instance
func NewAuthService(users repository.UserStore, sessions *session.Store) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// Register creates a new account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("service: %w - missing username or password", auctionerrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service: failed to hash password for %s: %w", username, err)
	}

	user := model.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("service: failed to register %s: %w", username, err)
	}
	return nil
}

// Login verifies the password and issues a fresh session credential,
// replacing any prior session for the same identity. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("service: %w - missing username or password", auctionerrors.ErrInvalidInput)
	}

	user, err := s.users.GetUser(ctx, username)
	if errors.Is(err, auctionerrors.ErrUserNotFound) {
		return "", fmt.Errorf("service: login for %s: %w", username, auctionerrors.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("service: failed to look up %s: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("service: login for %s: %w", username, auctionerrors.ErrUnauthorized)
	}

	credential, err := s.sessions.Issue(username)
	if err != nil {
		return "", fmt.Errorf("service: failed to issue session for %s: %w", username, err)
	}
	return credential, nil
}
