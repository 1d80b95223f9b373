// Package session stores blog API bearer tokens behind opaque browser session ids.
//
// A stored session means the browser is signed in. The token never leaves the
// server; the browser only holds the session id cookie.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime used when the token carries no expiry.
const DefaultTTL = 7 * 24 * time.Hour

// ErrTokenRequired rejects sessions without a bearer token.
var ErrTokenRequired = errors.New("session token is required")

// ErrExpired reports a session minted from a token that is already past its
// expiry.
var ErrExpired = errors.New("session token already expired")

// Session binds a browser to a blog API bearer token.
type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by id. Get reports false for unknown or expired ids.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}

// New mints a session for token. The expiry follows the token's "exp" claim
// when the token is a JWT carrying one; otherwise it is now+fallbackTTL.
// Signatures are not checked here; the blog API verifies every call.
func New(token string, now time.Time, fallbackTTL time.Duration) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrTokenRequired
	}
	if fallbackTTL <= 0 {
		fallbackTTL = DefaultTTL
	}
	now = now.UTC()
	expiresAt := now.Add(fallbackTTL)
	if exp, ok := tokenExpiry(token); ok {
		expiresAt = exp
	}
	return Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.UTC(), true
}

// Normalize validates a session before it is stored.
func Normalize(s Session) (Session, error) {
	s.ID = strings.TrimSpace(s.ID)
	s.Token = strings.TrimSpace(s.Token)
	if s.ID == "" {
		return Session{}, errors.New("session id is required")
	}
	if s.Token == "" {
		return Session{}, ErrTokenRequired
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}
