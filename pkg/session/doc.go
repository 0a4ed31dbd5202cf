// Package session implements dashboard login sessions: short-lived opaque
// tokens handed out on login, hashed at rest, validated on every
// authenticated call, and deleted on logout.
//
// A session is valid exactly when it exists, its expiry lies in the future,
// and it carries no revocation timestamp. The Manager distinguishes the
// three failure modes (ErrSessionNotFound, ErrSessionExpired,
// ErrSessionRevoked) so the HTTP layer can report stable error codes.
//
// Stores: MemoryStore (tests, single node), RedisStore (TTL-native), and
// PostgresStore (sessions table with a cascading tenant foreign key).
package session
