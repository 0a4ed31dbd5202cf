package session

import "errors"

var (
	// ErrSessionNotFound indicates no session matches the token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired indicates the session's lifetime has passed.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionRevoked indicates the session was explicitly revoked.
	ErrSessionRevoked = errors.New("session revoked")

	// ErrInvalidSession indicates a malformed session passed to a store.
	ErrInvalidSession = errors.New("invalid session")
)
