// Package password wraps the one-way hashing used for stored credentials.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the fixed bcrypt work factor applied to every stored hash.
const Cost = 10

// Hash derives a salted one-way hash from a plaintext password. The
// plaintext must never be persisted or logged; callers hash before any
// write reaches the store.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password: empty plaintext")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether candidate matches the stored hash. The bcrypt
// comparison primitive provides the constant-effort guarantee; nothing
// here short-circuits beyond what it already allows.
func Verify(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
