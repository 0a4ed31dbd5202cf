package tenant

import (
	"time"

	"github.com/google/uuid"
)

// APIKeyPrefix marks machine credentials so leaked keys are recognizable in
// logs and secret scanners.
const APIKeyPrefix = "nf_live_"

// Tenant is the internal representation of a registered client. Credential
// hashes never appear on this model; they live only inside the store.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
