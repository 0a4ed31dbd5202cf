package feature

import (
	"context"

	"github.com/google/uuid"
)

// Store persists flags scoped by tenant identity. The (tenantID, key) pair is
// unique; cross-tenant lookups always miss. Implementations must validate
// configurations on write so evaluation never observes an invalid flag, and
// must never expose partially written conditions or parameters to readers.
type Store interface {
	// Upsert creates the flag if (tenantID, flag.Key) does not exist, or
	// fully replaces the enabled switch, conditions, and parameters of the
	// existing row. It returns the resulting snapshot.
	Upsert(ctx context.Context, tenantID uuid.UUID, flag Flag) (Flag, error)

	// Get returns the flag for the tenant/key pair or ErrFlagNotFound.
	Get(ctx context.Context, tenantID uuid.UUID, key string) (Flag, error)

	// List returns the tenant's flags in creation order, honoring the
	// pagination bounds. An out-of-range offset yields an empty slice.
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Flag, error)

	// Delete removes the flag if present and reports whether a row was
	// removed. Deleting an absent key is not an error.
	Delete(ctx context.Context, tenantID uuid.UUID, key string) (bool, error)
}
