// Package feature implements the flag evaluation engine and the
// tenant-scoped flag store.
//
// A Flag belongs to exactly one tenant and carries a master Enabled switch,
// an ordered list of Conditions, and a free-form parameter map. Evaluation
// combines the switch and the conditions into a single decision:
//
//	result := feature.Evaluate(flag, feature.Attributes{
//		"subscription": feature.String("premium"),
//		"country":      feature.String("CA"),
//	})
//	if result.Enabled {
//		// use result.Parameters
//	}
//
// Evaluate is a pure function: disabled flags short-circuit to a disabled
// result, an empty condition list means "always on", and otherwise every
// condition must match (logical AND). Comparisons are type-sensitive across
// the string/number/bool variants of Value, so "40" never matches 40.
//
// Malformed configurations (unknown operator, wrong operand shape) are
// rejected by ValidateConfig when a flag is written, never during
// evaluation. Should an invalid operator reach the read path regardless,
// the matcher fails closed.
//
// Two Store implementations are provided: MemoryStore for tests and
// single-node use, and PostgresStore backed by pgx with JSONB columns and a
// UNIQUE (tenant_id, key) constraint enforcing per-tenant key uniqueness
// under concurrent upserts.
package feature
