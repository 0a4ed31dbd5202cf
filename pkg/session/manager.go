package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nimbushq/nimbusflags/pkg/logger"
	"github.com/nimbushq/nimbusflags/pkg/token"
)

const defaultTTL = 24 * time.Hour

// Manager issues, resolves, and destroys dashboard sessions on top of a
// pluggable Store.
type Manager struct {
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a session manager on top of the given store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store: store,
		ttl:   defaultTTL,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create issues a new session for the tenant and returns the raw token to
// hand to the client, together with the stored session.
func (m *Manager) Create(ctx context.Context, tenantID uuid.UUID) (string, *Session, error) {
	raw, err := token.New("")
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.New(),
		TenantID:  tenantID,
		TokenHash: token.Hash(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Create(ctx, s); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	m.log.InfoContext(ctx, "session created",
		logger.SessionID(s.ID.String()),
		logger.TenantID(tenantID.String()),
		logger.Component("session"),
	)

	return raw, s, nil
}

// Resolve looks up the session for a raw token. A session is valid iff it
// exists, has not expired, and has not been revoked; the three failure modes
// are distinguishable via errors.Is.
func (m *Manager) Resolve(ctx context.Context, rawToken string) (*Session, error) {
	if rawToken == "" {
		return nil, ErrSessionNotFound
	}

	s, err := m.store.GetByTokenHash(ctx, token.Hash(rawToken))
	if err != nil {
		return nil, err
	}
	if s.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	if s.IsExpired() {
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Destroy deletes the session for a raw token (logout). Destroying an
// unknown token is a no-op.
func (m *Manager) Destroy(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return m.store.Delete(ctx, token.Hash(rawToken))
}

// RevokeAll revokes every live session of the tenant, e.g. after an API key
// rotation or a password change.
func (m *Manager) RevokeAll(ctx context.Context, tenantID uuid.UUID) error {
	return m.store.RevokeByTenant(ctx, tenantID, time.Now())
}
