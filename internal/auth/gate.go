package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthFailure  = errors.New("wrong password")
	ErrUnauthorized = errors.New("admin login required")
)

// Context is the per-request view of the caller's privileges.
type Context struct {
	IsAdmin bool
}

// RequireAdmin reports whether c may use admin-only operations.
func RequireAdmin(c Context) bool {
	return c.IsAdmin
}

// Gate checks the shared admin password and issues signed session tokens.
type Gate struct {
	hash   []byte
	key    string
	issuer string
	ttl    time.Duration
}

// NewGate hashes password once so that logins compare against the hash.
func NewGate(password, signingKey, issuer string, ttl time.Duration) (*Gate, error) {
	if password == "" || signingKey == "" {
		return nil, errors.New("admin password and signing key are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Gate{hash: hash, key: signingKey, issuer: issuer, ttl: ttl}, nil
}

// Login returns a session token when password matches. A mismatch issues
// nothing and returns ErrAuthFailure.
func (g *Gate) Login(password string) (string, time.Time, error) {
	if bcrypt.CompareHashAndPassword(g.hash, []byte(password)) != nil {
		return "", time.Time{}, ErrAuthFailure
	}
	return Issue(RoleAdmin, g.issuer, g.key, g.ttl)
}

// Session turns a session token into a Context. Missing, expired or forged
// tokens give a non-admin context.
func (g *Gate) Session(token string) Context {
	if token == "" {
		return Context{}
	}
	claims, err := Parse(token, g.key, g.issuer)
	if err != nil {
		return Context{}
	}
	return Context{IsAdmin: claims.Role == RoleAdmin}
}
