package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(time.Minute)

	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	ok, _, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if !ok {
		t.Fatal("first attempt should be allowed")
	}

	// Second attempt inside the window is denied with the remaining wait.
	now = now.Add(20 * time.Second)
	ok, wait, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if ok {
		t.Fatal("attempt inside the window should be denied")
	}
	if wait != 40*time.Second {
		t.Errorf("wait = %s, want 40s", wait)
	}

	// A different key is independent.
	if ok, _, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Error("different key should be allowed")
	}

	// After the window passes, the key is allowed again.
	now = now.Add(41 * time.Second)
	if ok, _, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Error("attempt after the window should be allowed")
	}
}

func TestMemoryLimiterDefaultWindow(t *testing.T) {
	l := NewMemoryLimiter(0)
	if l.window != DefaultWindow {
		t.Errorf("window = %s, want %s", l.window, DefaultWindow)
	}
}
