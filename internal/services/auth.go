package services

import (
	"context"
	"errors"

	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/repository"
)

// AuthService registers users and exchanges credentials for access tokens
type AuthService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	logger logging.Logger

	// compared against when the email is unknown so both login failures cost the same
	dummyHash string
}

// NewAuthService constructs an AuthService
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, logger logging.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger.With("service", "auth"),
		dummyHash: dummy,
	}, nil
}

// Register creates a user. A taken email, whether seen by the lookup or by the
// store's unique constraint during a race, yields ErrEmailAlreadyRegistered.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	_, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailAlreadyRegistered
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageFailure(ctx, s.logger, "find user", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, ErrStorage
	}

	user, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, storageFailure(ctx, s.logger, "create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and returns a signed access token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", ErrInvalidCredentials
		}
		return "", storageFailure(ctx, s.logger, "find user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.ID)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "user_id", user.ID, "error", err)
		return "", ErrStorage
	}
	return token, nil
}
