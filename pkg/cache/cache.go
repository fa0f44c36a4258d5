// Package cache provides the read-through cache used in front of the
// document store.
//
// Public site reads (content, styles, social links) hit the cache first;
// admin writes invalidate the affected keys. Three backends exist:
//   - [RedisCache]: shared cache for deployed instances
//   - [FileCache]: per-machine cache for CLI usage
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the different cached artifacts.
type Keyer interface {
	// DocKey generates a key for a cached document.
	DocKey(docID string) string

	// CSSKey generates a key for the rendered style sheet.
	CSSKey() string

	// SocialKey generates a key for the ordered social-link list.
	SocialKey() string
}

// DefaultKeyer generates plain namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocKey generates a key for a cached document.
func (DefaultKeyer) DocKey(docID string) string { return "doc:" + docID }

// CSSKey generates a key for the rendered style sheet.
func (DefaultKeyer) CSSKey() string { return "css:styles" }

// SocialKey generates a key for the ordered social-link list.
func (DefaultKeyer) SocialKey() string { return "social:links" }
