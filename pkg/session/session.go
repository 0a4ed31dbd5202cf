package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a dashboard login session. The raw token is handed to the
// client once at creation; the store keeps only its SHA-256 hash.
type Session struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	TokenHash string     `json:"token_hash"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IsExpired reports whether the session's lifetime has passed.
func (s *Session) IsExpired() bool {
	return s != nil && !time.Now().Before(s.ExpiresAt)
}

// IsRevoked reports whether the session was explicitly revoked.
func (s *Session) IsRevoked() bool {
	return s != nil && s.RevokedAt != nil
}

// Valid reports whether the session may authenticate a request: not yet
// expired and not revoked.
func (s *Session) Valid() bool {
	return s != nil && !s.IsExpired() && !s.IsRevoked()
}
