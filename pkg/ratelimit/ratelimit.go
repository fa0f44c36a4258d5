// Package ratelimit implements the contact-form submission limit: one
// submission per window (60 seconds by default) per client key.
//
// Two backends are provided: an in-process limiter for single-instance
// servers and a Redis-backed limiter for deployments where several server
// processes must share the same counters.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultWindow is the default interval between allowed submissions.
const DefaultWindow = 60 * time.Second

// Limiter is the interface for rate-limit backends.
type Limiter interface {
	// Allow reports whether the given key may act now. When denied, the
	// second return is the remaining wait before the next allowed attempt.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// MemoryLimiter is an in-process fixed-window limiter.
// It is safe for concurrent use.
type MemoryLimiter struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
}

// NewMemoryLimiter creates a limiter with the given window.
// A window of 0 uses DefaultWindow.
func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLimiter{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Allow records an attempt for key and reports whether it is permitted.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.last[key]; ok {
		if wait := l.window - now.Sub(last); wait > 0 {
			return false, wait, nil
		}
	}
	l.last[key] = now

	// Drop stale entries so the map doesn't grow with one key per visitor.
	if len(l.last) > 1024 {
		for k, t := range l.last {
			if now.Sub(t) > l.window {
				delete(l.last, k)
			}
		}
	}
	return true, 0, nil
}

// Ensure MemoryLimiter implements Limiter.
var _ Limiter = (*MemoryLimiter)(nil)
