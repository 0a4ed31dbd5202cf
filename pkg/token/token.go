// Package token generates opaque credentials (API keys, session tokens) and
// their storable hashes. Plaintext credentials are shown to the caller once;
// only the SHA-256 hex digest is ever persisted, so a database leak does not
// leak usable credentials.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

// randomBytes is the entropy per credential; 32 bytes matches the
// url-safe token length used by the dashboard and machine keys alike.
const randomBytes = 32

// ErrGenerationFailed indicates the OS entropy source failed.
var ErrGenerationFailed = errors.New("credential generation failed")

// New returns a fresh url-safe credential with the given prefix, e.g.
// New("nf_live_") for machine API keys or New("") for session tokens.
func New(prefix string) (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrGenerationFailed, err)
	}
	return prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash returns the SHA-256 hex digest of a credential, the only form that
// is stored server-side.
func Hash(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}
