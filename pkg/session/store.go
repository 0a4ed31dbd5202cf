package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines session persistence keyed by token hash.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error

	// GetByTokenHash retrieves a session or ErrSessionNotFound. Expired and
	// revoked sessions are still returned; validity is the Manager's call.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Delete removes a session by token hash. Deleting an absent session
	// is not an error.
	Delete(ctx context.Context, tokenHash string) error

	// RevokeByTenant stamps every live session of the tenant as revoked.
	RevokeByTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) error

	// DeleteExpired removes sessions whose lifetime has passed.
	DeleteExpired(ctx context.Context) error
}
