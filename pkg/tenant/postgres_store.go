package tenant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nimbushq/nimbusflags/pkg/pg"
)

// PostgresStore persists tenants in the "tenants" table. Flags and sessions
// reference it with ON DELETE CASCADE, so removing a tenant removes its
// owned rows at the storage layer.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a tenant store backed by the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a new tenant, relying on the unique email constraint.
func (s *PostgresStore) Create(ctx context.Context, t Tenant, passwordHash []byte, apiKeyHash string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO tenants (id, email, password_hash, api_key_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Email, passwordHash, apiKeyHash, t.Active, t.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

// GetByID returns the tenant or ErrTenantNotFound.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (Tenant, error) {
	return s.getBy(ctx, "id = $1", id)
}

// GetByEmail returns the tenant or ErrTenantNotFound.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (Tenant, error) {
	return s.getBy(ctx, "email = $1", email)
}

// GetByAPIKeyHash returns the tenant owning the credential hash.
func (s *PostgresStore) GetByAPIKeyHash(ctx context.Context, hash string) (Tenant, error) {
	return s.getBy(ctx, "api_key_hash = $1", hash)
}

func (s *PostgresStore) getBy(ctx context.Context, where string, arg any) (Tenant, error) {
	var t Tenant
	err := s.db.QueryRow(ctx,
		`SELECT id, email, active, created_at FROM tenants WHERE `+where, arg).
		Scan(&t.ID, &t.Email, &t.Active, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Tenant{}, ErrTenantNotFound
		}
		return Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// PasswordHash returns the stored bcrypt hash for the tenant.
func (s *PostgresStore) PasswordHash(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var hash []byte
	err := s.db.QueryRow(ctx,
		`SELECT password_hash FROM tenants WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

// SetAPIKeyHash replaces the tenant's machine credential hash.
func (s *PostgresStore) SetAPIKeyHash(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET api_key_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("set api key hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// SetActive toggles the tenant's active switch.
func (s *PostgresStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}
