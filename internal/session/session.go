// Package session persists the client-side session: the backend auth token and the
// cached user record.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no session has been stored
var ErrNoSession = errors.New("no active session")

// User is the cached record of the logged-in user
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the persisted client state
type Session struct {
	Token     string    `json:"token,omitempty"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExpiresAt returns the exp claim of the token. The token is decoded without
// verification; the backend remains the authority on validity.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil || s.Token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an exp claim at or before now.
// Tokens without an exp claim never expire client-side.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return !now.Before(exp)
}

// Store loads and saves the session
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=session.go Store
type Store interface {
	// Load returns ErrNoSession when nothing is stored
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
