package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Message length bounds for the contact form.
const (
	MinMessageLen = 10
	MaxMessageLen = 1000
)

// emailPattern is intentionally loose: one @, no spaces, a dot in the domain.
// Deliverability is the mail server's problem, not ours.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// hexColorPattern matches 3- or 6-digit CSS hex colors.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateEmail validates an email address for the contact form and admin
// sign-in. The check is a simple shape test, not an RFC 5322 parse.
func ValidateEmail(email string) error {
	if email == "" {
		return New(ErrCodeInvalidEmail, "email cannot be empty")
	}
	if len(email) > 254 {
		return New(ErrCodeInvalidEmail, "email too long (max 254 characters)")
	}
	if !emailPattern.MatchString(email) {
		return New(ErrCodeInvalidEmail, "email %q is not valid", email)
	}
	return nil
}

// ValidateMessage validates a contact-form message body.
// Length bounds are counted in runes so multibyte text is not penalized.
func ValidateMessage(msg string) error {
	n := utf8.RuneCountInString(msg)
	if n < MinMessageLen {
		return New(ErrCodeInvalidMessage, "message too short (min %d characters)", MinMessageLen)
	}
	if n > MaxMessageLen {
		return New(ErrCodeInvalidMessage, "message too long (max %d characters)", MaxMessageLen)
	}
	return nil
}

// ValidateHexColor validates a CSS hex color value ("#abc" or "#a1b2c3").
func ValidateHexColor(value string) error {
	if !hexColorPattern.MatchString(value) {
		return New(ErrCodeInvalidColor, "value %q is not a hex color", value)
	}
	return nil
}

// ValidateURL validates a social-link target URL.
// Only absolute http(s) URLs are accepted.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidLink, "url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidLink, err, "url %q is not valid", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidLink, "url %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidLink, "url %q has no host", raw)
	}
	return nil
}

// ValidateDocumentID validates a document-store identifier.
// IDs are used directly in store keys and file names, so the rules are
// conservative: lowercase alphanumerics plus "-" and "_", max 64 characters.
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "document id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "document id too long (max 64 characters)")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return New(ErrCodeInvalidInput, "document id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidatePathKey validates a single map key of a content path before it is
// sent to the document store. Keys become dotted field paths, so dots and
// control characters are rejected.
func ValidatePathKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidPath, "path key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidPath, "path key too long (max 128 characters)")
	}
	if strings.ContainsAny(key, ".$\x00") {
		return New(ErrCodeInvalidPath, "path key %q contains reserved characters", key)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path key contains control characters")
		}
	}
	return nil
}

// ValidateLabel validates a short human-readable label (social link names,
// style setting names).
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}
	if utf8.RuneCountInString(label) > 80 {
		return New(ErrCodeInvalidInput, "label too long (max 80 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains control characters")
		}
	}
	return nil
}
