package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-process storage and an optional
// janitor loop that evicts expired sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemoryStore creates an in-memory session store. A positive
// cleanupInterval starts a background janitor; Close stops it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Create stores a new session.
func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	if s == nil || s.TokenHash == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *s
	m.sessions[s.TokenHash] = &copied
	return nil
}

// GetByTokenHash retrieves a session or ErrSessionNotFound.
func (m *MemoryStore) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := *s
	return &copied, nil
}

// Delete removes a session by token hash.
func (m *MemoryStore) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, tokenHash)
	return nil
}

// RevokeByTenant stamps every live session of the tenant as revoked.
func (m *MemoryStore) RevokeByTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.TenantID == tenantID && s.RevokedAt == nil {
			revokedAt := at
			s.RevokedAt = &revokedAt
		}
	}
	return nil
}

// DeleteExpired removes sessions whose lifetime has passed.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for hash, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, hash)
		}
	}
	return nil
}

// Close stops the janitor loop.
func (m *MemoryStore) Close() {
	if m.ticker != nil {
		m.ticker.Stop()
	}
	close(m.done)
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
