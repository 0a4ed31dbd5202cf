// Package tenant manages registered clients of the flag service: email and
// password registration for the dashboard, opaque API keys for machine
// callers, and the stores backing both. Plaintext credentials are returned
// exactly once at registration or rotation; only bcrypt and SHA-256 hashes
// are persisted.
package tenant
