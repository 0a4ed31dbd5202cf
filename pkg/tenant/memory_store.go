package tenant

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface for
// tests and single-node deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]*record
	byEmail map[string]uuid.UUID
	byKey   map[string]uuid.UUID
}

type record struct {
	tenant       Tenant
	passwordHash []byte
	apiKeyHash   string
}

// NewMemoryStore creates an empty in-memory tenant store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants: make(map[uuid.UUID]*record),
		byEmail: make(map[string]uuid.UUID),
		byKey:   make(map[string]uuid.UUID),
	}
}

// Create inserts a new tenant, enforcing email uniqueness.
func (m *MemoryStore) Create(ctx context.Context, t Tenant, passwordHash []byte, apiKeyHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[t.Email]; exists {
		return ErrEmailAlreadyExists
	}

	m.tenants[t.ID] = &record{
		tenant:       t,
		passwordHash: slices.Clone(passwordHash),
		apiKeyHash:   apiKeyHash,
	}
	m.byEmail[t.Email] = t.ID
	m.byKey[apiKeyHash] = t.ID
	return nil
}

// GetByID returns the tenant or ErrTenantNotFound.
func (m *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.tenants[id]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return rec.tenant, nil
}

// GetByEmail returns the tenant or ErrTenantNotFound.
func (m *MemoryStore) GetByEmail(ctx context.Context, email string) (Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return m.tenants[id].tenant, nil
}

// GetByAPIKeyHash returns the tenant owning the credential hash.
func (m *MemoryStore) GetByAPIKeyHash(ctx context.Context, hash string) (Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byKey[hash]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return m.tenants[id].tenant, nil
}

// PasswordHash returns the stored bcrypt hash for the tenant.
func (m *MemoryStore) PasswordHash(ctx context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.tenants[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return slices.Clone(rec.passwordHash), nil
}

// SetAPIKeyHash replaces the tenant's machine credential hash.
func (m *MemoryStore) SetAPIKeyHash(ctx context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	delete(m.byKey, rec.apiKeyHash)
	rec.apiKeyHash = hash
	m.byKey[hash] = id
	return nil
}

// SetActive toggles the tenant's active switch.
func (m *MemoryStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	rec.tenant.Active = active
	return nil
}
