// Package token issues and verifies the stateless bearer tokens that carry
// a user identity between requests.
//
// Tokens embed only the subject (user id). Roles are deliberately not
// embedded: the authorization gate re-fetches the user on every request, so
// role changes bind immediately without reissuing tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager signs and verifies HS256 identity tokens with a fixed TTL.
//
// Manager is immutable after construction and safe for concurrent use.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
}

// NewManager builds a Manager from a server-held secret and token lifetime.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("token: invalid ttl")
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue produces a signed token asserting userID as the subject.
func (m *Manager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("token: empty subject")
	}

	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the subject.
//
// Verify is fail-soft: malformed input, a bad signature, and an expired
// token all report ok=false. The caller decides how to react; store-layer
// operations fail loud, this one never does.
func (m *Manager) Verify(tokenStr string) (subject string, ok bool) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)

	parsed, err := parser.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}

	c, okClaims := parsed.Claims.(*claims)
	if !okClaims || c.Subject == "" {
		return "", false
	}

	return c.Subject, true
}
