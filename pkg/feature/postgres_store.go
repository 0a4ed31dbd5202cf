package feature

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nimbushq/nimbusflags/pkg/pg"
)

// PostgresStore persists flags in the "flags" table with conditions and
// parameters as JSONB columns. The UNIQUE (tenant_id, key) constraint backs
// the per-tenant uniqueness invariant, and the single-statement upsert keeps
// concurrent writers serialized without torn reads.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a flag store backed by the given connection pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const upsertFlagQuery = `
	INSERT INTO flags (id, tenant_id, key, enabled, conditions, parameters)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (tenant_id, key) DO UPDATE SET
		enabled    = EXCLUDED.enabled,
		conditions = EXCLUDED.conditions,
		parameters = EXCLUDED.parameters,
		updated_at = NOW()
	RETURNING id, tenant_id, key, enabled, conditions, parameters, created_at, updated_at`

// Upsert validates the configuration and creates or fully replaces the flag.
func (s *PostgresStore) Upsert(ctx context.Context, tenantID uuid.UUID, flag Flag) (Flag, error) {
	if err := ValidateConfig(flag.Key, flag.Conditions); err != nil {
		return Flag{}, err
	}

	conditions, parameters, err := encodeFlagConfig(flag)
	if err != nil {
		return Flag{}, err
	}

	row := s.db.QueryRow(ctx, upsertFlagQuery,
		uuid.New(), tenantID, flag.Key, flag.Enabled, conditions, parameters)

	result, err := scanFlag(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			// A writer racing on the same key between the conflict check and
			// the insert; the caller retries and lands on the update arm.
			return Flag{}, errors.Join(ErrStoreConflict, err)
		}
		return Flag{}, fmt.Errorf("upsert flag: %w", err)
	}
	return result, nil
}

// Get returns the flag for the tenant/key pair or ErrFlagNotFound.
func (s *PostgresStore) Get(ctx context.Context, tenantID uuid.UUID, key string) (Flag, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, tenant_id, key, enabled, conditions, parameters, created_at, updated_at
		FROM flags
		WHERE tenant_id = $1 AND key = $2`, tenantID, key)

	flag, err := scanFlag(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Flag{}, ErrFlagNotFound
		}
		return Flag{}, fmt.Errorf("get flag: %w", err)
	}
	return flag, nil
}

// List returns the tenant's flags in creation order.
func (s *PostgresStore) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]Flag, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, tenant_id, key, enabled, conditions, parameters, created_at, updated_at
		FROM flags
		WHERE tenant_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()

	result := []Flag{}
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, fmt.Errorf("list flags: %w", err)
		}
		result = append(result, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	return result, nil
}

// Delete removes the flag if present and reports whether a row was removed.
func (s *PostgresStore) Delete(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM flags WHERE tenant_id = $1 AND key = $2`, tenantID, key)
	if err != nil {
		return false, fmt.Errorf("delete flag: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func encodeFlagConfig(flag Flag) (conditions, parameters []byte, err error) {
	conds := flag.Conditions
	if conds == nil {
		conds = []Condition{}
	}
	conditions, err = json.Marshal(conds)
	if err != nil {
		return nil, nil, fmt.Errorf("encode conditions: %w", err)
	}

	params := flag.Parameters
	if params == nil {
		params = map[string]any{}
	}
	parameters, err = json.Marshal(params)
	if err != nil {
		return nil, nil, fmt.Errorf("encode parameters: %w", err)
	}
	return conditions, parameters, nil
}

func scanFlag(row pgx.Row) (Flag, error) {
	var (
		flag       Flag
		conditions []byte
		parameters []byte
	)
	if err := row.Scan(&flag.ID, &flag.TenantID, &flag.Key, &flag.Enabled,
		&conditions, &parameters, &flag.CreatedAt, &flag.UpdatedAt); err != nil {
		return Flag{}, err
	}

	if err := json.Unmarshal(conditions, &flag.Conditions); err != nil {
		return Flag{}, fmt.Errorf("decode conditions: %w", err)
	}
	if err := json.Unmarshal(parameters, &flag.Parameters); err != nil {
		return Flag{}, fmt.Errorf("decode parameters: %w", err)
	}
	return flag, nil
}
