// Package auth implements email/password authentication for the admin.
//
// There is a single admin account, configured with an email address and a
// bcrypt password hash. Use [HashPassword] (or `folio auth hash`) to produce
// the hash for the config file; plaintext passwords are never stored.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/skovert/folio/pkg/errors"
)

// Authenticator verifies admin credentials.
type Authenticator struct {
	email string
	hash  []byte
}

// New creates an authenticator for the given admin email and bcrypt hash.
func New(email, passwordHash string) (*Authenticator, error) {
	if err := errors.ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "admin password hash is not set")
	}
	// Fail at startup on a malformed hash, not at first login.
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "admin password hash is not a bcrypt hash")
	}
	return &Authenticator{
		email: strings.ToLower(email),
		hash:  []byte(passwordHash),
	}, nil
}

// Authenticate checks the given credentials.
// Returns an UNAUTHORIZED error on any mismatch; the reason (wrong email vs.
// wrong password) is deliberately not distinguished in the error.
func (a *Authenticator) Authenticate(email, password string) error {
	if strings.ToLower(strings.TrimSpace(email)) != a.email {
		// Burn a comparison anyway so both failure paths cost the same.
		_ = bcrypt.CompareHashAndPassword(a.hash, []byte(password))
		return errors.New(errors.ErrCodeUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return errors.New(errors.ErrCodeUnauthorized, "invalid email or password")
	}
	return nil
}

// Email returns the configured admin email.
func (a *Authenticator) Email() string { return a.email }

// HashPassword produces a bcrypt hash suitable for the config file.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New(errors.ErrCodeInvalidInput, "password too short (min 8 characters)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash password")
	}
	return string(hash), nil
}
