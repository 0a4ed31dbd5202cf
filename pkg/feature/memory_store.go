package feature

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It's useful for testing and single-node deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[uuid.UUID]map[string]*storedFlag
	seq   uint64
}

// storedFlag carries an insertion sequence so List stays creation-ordered
// even when flags are created within the same clock tick.
type storedFlag struct {
	flag Flag
	seq  uint64
}

// NewMemoryStore creates an empty in-memory flag store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flags: make(map[uuid.UUID]map[string]*storedFlag),
	}
}

// Upsert validates the configuration and creates or fully replaces the flag.
func (m *MemoryStore) Upsert(ctx context.Context, tenantID uuid.UUID, flag Flag) (Flag, error) {
	if err := ValidateConfig(flag.Key, flag.Conditions); err != nil {
		return Flag{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tenantFlags, ok := m.flags[tenantID]
	if !ok {
		tenantFlags = make(map[string]*storedFlag)
		m.flags[tenantID] = tenantFlags
	}

	now := time.Now()

	if existing, ok := tenantFlags[flag.Key]; ok {
		existing.flag.Enabled = flag.Enabled
		existing.flag.Conditions = cloneConditions(flag.Conditions)
		existing.flag.Parameters = cloneParameters(flag.Parameters)
		existing.flag.UpdatedAt = now
		return cloneFlag(existing.flag), nil
	}

	m.seq++
	created := Flag{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Key:        flag.Key,
		Enabled:    flag.Enabled,
		Conditions: cloneConditions(flag.Conditions),
		Parameters: cloneParameters(flag.Parameters),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	tenantFlags[flag.Key] = &storedFlag{flag: created, seq: m.seq}

	return cloneFlag(created), nil
}

// Get returns the flag for the tenant/key pair or ErrFlagNotFound.
func (m *MemoryStore) Get(ctx context.Context, tenantID uuid.UUID, key string) (Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.flags[tenantID][key]
	if !ok {
		return Flag{}, ErrFlagNotFound
	}

	return cloneFlag(stored.flag), nil
}

// List returns the tenant's flags in creation order.
func (m *MemoryStore) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tenantFlags := m.flags[tenantID]
	ordered := make([]*storedFlag, 0, len(tenantFlags))
	for _, stored := range tenantFlags {
		ordered = append(ordered, stored)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ordered) {
		return []Flag{}, nil
	}
	end := len(ordered)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	result := make([]Flag, 0, end-offset)
	for _, stored := range ordered[offset:end] {
		result = append(result, cloneFlag(stored.flag))
	}
	return result, nil
}

// Delete removes the flag if present and reports whether a row was removed.
func (m *MemoryStore) Delete(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tenantFlags, ok := m.flags[tenantID]
	if !ok {
		return false, nil
	}
	if _, ok := tenantFlags[key]; !ok {
		return false, nil
	}

	delete(tenantFlags, key)
	return true, nil
}

// DeleteByTenant drops every flag owned by the tenant. Called by the tenant
// store on tenant removal to keep the cascade a store-layer concern.
func (m *MemoryStore) DeleteByTenant(ctx context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.flags, tenantID)
	return nil
}

func cloneFlag(f Flag) Flag {
	f.Conditions = cloneConditions(f.Conditions)
	f.Parameters = cloneParameters(f.Parameters)
	return f
}

func cloneParameters(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	return maps.Clone(params)
}
