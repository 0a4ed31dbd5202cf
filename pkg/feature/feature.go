package feature

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Flag is a tenant-owned feature flag. The Key is unique within the owning
// tenant only; two tenants may define flags with the same key independently.
type Flag struct {
	ID         uuid.UUID      `json:"id"`
	TenantID   uuid.UUID      `json:"tenant_id"`
	Key        string         `json:"key"`
	Enabled    bool           `json:"enabled"`
	Conditions []Condition    `json:"conditions"`
	Parameters map[string]any `json:"parameters"`
	CreatedAt  time.Time      `json:"created_at,omitzero"`
	UpdatedAt  time.Time      `json:"updated_at,omitzero"`
}

// Result is the outcome of evaluating a single flag against an attribute bag.
// Parameters is never nil: it carries the flag's parameters verbatim when the
// decision is enabled and is empty otherwise.
type Result struct {
	FlagKey    string         `json:"flag_key"`
	Enabled    bool           `json:"enabled"`
	Parameters map[string]any `json:"parameters"`
}

// Evaluate decides whether flag is enabled for the given attribute bag.
//
// The master Enabled switch short-circuits: a disabled flag never evaluates
// its conditions. An enabled flag with no conditions is on for everyone.
// Otherwise every condition must match (logical AND, order-independent).
//
// Evaluate is pure and total: it never fails for a flag that passed
// write-time validation. Unknown operators fail closed inside Condition.Match.
func Evaluate(flag Flag, attrs Attributes) Result {
	disabled := Result{FlagKey: flag.Key, Enabled: false, Parameters: map[string]any{}}

	if !flag.Enabled {
		return disabled
	}

	for _, cond := range flag.Conditions {
		if !cond.Match(attrs) {
			return disabled
		}
	}

	params := make(map[string]any, len(flag.Parameters))
	maps.Copy(params, flag.Parameters)

	return Result{FlagKey: flag.Key, Enabled: true, Parameters: params}
}
