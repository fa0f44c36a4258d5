// Package session provides session management for the authenticated admin.
//
// Sessions are created after a successful email/password sign-in and gate
// access to the admin API. The Store interface supports:
//   - Get/Set/Delete operations
//   - Automatic expiration checking
//   - Cleanup of expired sessions
//
// Two backends are provided:
//   - memory: in-process storage for development and single-instance servers
//   - redis: shared storage for multi-instance deployments
//
// # Usage
//
//	sess, err := session.New("admin@example.com", session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    // not found or expired
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/skovert/folio/pkg/errors"
)

// Session stores admin session data.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns a SESSION_NOT_FOUND error if the session doesn't exist and a
	// SESSION_EXPIRED error if it exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (no-op for Redis, which expires keys).
	Cleanup(ctx context.Context) error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "generate session id")
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a new session for the given admin email.
func New(email string, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		Email:     email,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}
