package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/scriptlab/internal/apperror"
	"github.com/sakif/scriptlab/internal/auth"
	"github.com/sakif/scriptlab/internal/model"
	"github.com/sakif/scriptlab/internal/repository"
)

// Username and password rules, enforced here so every caller (HTTP,
// CLI, future admin tooling) gets the same policy.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued JWT so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and signs the user in.
// A taken username surfaces as apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperror.ValidationFailed("username",
			"username may only contain letters, digits, and underscores")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// bcrypt's 72-byte input limit is the only expected cause.
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user %s: %w", username, err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID), slog.String("username", username))

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a JWT.
//
// Wrong username and wrong password produce the same Unauthorized
// message so the endpoint cannot be used to discover which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("service/auth: looking up user %s: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Warn("failed login attempt", slog.String("username", username))
		return nil, apperror.Unauthorized("invalid username or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the profile for an authenticated user ID, used by
// the /api/me handler after the middleware validates the JWT.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetUserByID(ctx, id)
}
