// Package pg wires the service to PostgreSQL: pool construction with retry,
// goose migrations bridged onto pgx, error classification helpers, and a
// readiness probe.
package pg
