package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nimbushq/nimbusflags/pkg/pg"
)

// PostgresStore persists sessions in the "sessions" table. The tenant
// foreign key cascades, so removing a tenant removes its sessions.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a session store backed by the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create stores a new session.
func (s *PostgresStore) Create(ctx context.Context, sess *Session) error {
	if sess == nil || sess.TokenHash == "" {
		return ErrInvalidSession
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO sessions (id, tenant_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.TenantID, sess.TokenHash, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetByTokenHash retrieves a session or ErrSessionNotFound.
func (s *PostgresStore) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(ctx, `
		SELECT id, tenant_id, token_hash, created_at, expires_at, revoked_at
		FROM sessions
		WHERE token_hash = $1`, tokenHash).
		Scan(&sess.ID, &sess.TenantID, &sess.TokenHash,
			&sess.CreatedAt, &sess.ExpiresAt, &sess.RevokedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session by token hash.
func (s *PostgresStore) Delete(ctx context.Context, tokenHash string) error {
	if _, err := s.db.Exec(ctx,
		`DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeByTenant stamps every live session of the tenant as revoked.
func (s *PostgresStore) RevokeByTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) error {
	_, err := s.db.Exec(ctx, `
		UPDATE sessions
		SET revoked_at = $1
		WHERE tenant_id = $2 AND revoked_at IS NULL`, at, tenantID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose lifetime has passed.
func (s *PostgresStore) DeleteExpired(ctx context.Context) error {
	if _, err := s.db.Exec(ctx,
		`DELETE FROM sessions WHERE expires_at <= NOW()`); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
