// Package service implements the application's business operations on top of
// the storage layer and the ledger engine. Services return domain models and
// typed errors; the HTTP layer maps them to responses.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/models"
)

// ErrInvalidInput flags a request the caller can fix (missing or malformed
// fields). Handlers map it to a 400.
var ErrInvalidInput = errors.New("invalid input")

// AuthService implements user registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	if email == "" || displayName == "" {
		return nil, "", ErrInvalidInput
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		s.logger.Warn("registration failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns it with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// CurrentUser returns the account for an authenticated user id.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
