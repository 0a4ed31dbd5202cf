package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Store persists tenants together with their credential hashes. The email
// and the API key hash are unique across all tenants.
type Store interface {
	// Create inserts a new tenant. Returns ErrEmailAlreadyExists when the
	// email is taken.
	Create(ctx context.Context, t Tenant, passwordHash []byte, apiKeyHash string) error

	// GetByID returns the tenant or ErrTenantNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (Tenant, error)

	// GetByEmail returns the tenant or ErrTenantNotFound.
	GetByEmail(ctx context.Context, email string) (Tenant, error)

	// GetByAPIKeyHash returns the tenant owning the hashed machine
	// credential, or ErrTenantNotFound.
	GetByAPIKeyHash(ctx context.Context, hash string) (Tenant, error)

	// PasswordHash returns the stored bcrypt hash for the tenant.
	PasswordHash(ctx context.Context, id uuid.UUID) ([]byte, error)

	// SetAPIKeyHash replaces the tenant's machine credential hash.
	SetAPIKeyHash(ctx context.Context, id uuid.UUID, hash string) error

	// SetActive toggles the tenant's active switch.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
