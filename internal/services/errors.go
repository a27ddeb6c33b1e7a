// Package services holds the authentication and ownership-scoped CRUD logic.
// Handlers resolve the caller's identity and pass it in explicitly; no
// operation trusts an owner id supplied by the client.
package services

import (
	"context"
	"errors"
	"fmt"

	"KANBAN_CRM_BACK-END/internal/logging"
)

var (
	// ErrEmailAlreadyRegistered is returned by Register for a taken email
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound is returned when the entity is missing or owned by someone else
	ErrNotFound = errors.New("not found")
	// ErrStorage wraps unexpected store failures; callers must not expose the cause
	ErrStorage = errors.New("storage failure")
)

// storageFailure logs err with context and returns an opaque ErrStorage
func storageFailure(ctx context.Context, logger logging.Logger, op string, err error) error {
	logger.Error(ctx, "store operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s", ErrStorage, op)
}
