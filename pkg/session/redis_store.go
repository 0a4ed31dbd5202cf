package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	tenantSetPrefix  = "tenant_sessions:"
)

// RedisStore implements Store on Redis. Sessions expire natively via key
// TTLs, so DeleteExpired has nothing to do beyond pruning the per-tenant
// index sets.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a session store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(tokenHash string) string { return sessionKeyPrefix + tokenHash }
func tenantKey(id uuid.UUID) string      { return tenantSetPrefix + id.String() }

// Create stores a new session with a TTL matching its expiry.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	if s == nil || s.TokenHash == "" {
		return ErrInvalidSession
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrInvalidSession
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(s.TokenHash), data, ttl)
	pipe.SAdd(ctx, tenantKey(s.TenantID), s.TokenHash)
	pipe.Expire(ctx, tenantKey(s.TenantID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetByTokenHash retrieves a session or ErrSessionNotFound.
func (r *RedisStore) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Delete removes a session by token hash.
func (r *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	s, err := r.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(tokenHash))
	pipe.SRem(ctx, tenantKey(s.TenantID), tokenHash)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeByTenant stamps every live session of the tenant as revoked.
func (r *RedisStore) RevokeByTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) error {
	hashes, err := r.client.SMembers(ctx, tenantKey(tenantID)).Result()
	if err != nil {
		return fmt.Errorf("list tenant sessions: %w", err)
	}

	for _, tokenHash := range hashes {
		s, err := r.GetByTokenHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				// Key already expired; drop the stale index entry.
				_ = r.client.SRem(ctx, tenantKey(tenantID), tokenHash)
				continue
			}
			return err
		}
		if s.RevokedAt != nil {
			continue
		}

		revokedAt := at
		s.RevokedAt = &revokedAt
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		// Keep the remaining TTL so the revoked record still disappears
		// when the session would have expired.
		if err := r.client.Set(ctx, sessionKey(tokenHash), data, redis.KeepTTL).Err(); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
	}
	return nil
}

// DeleteExpired is a no-op for the session keys themselves (Redis TTLs
// handle eviction); it exists to satisfy Store.
func (r *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}
