package social

import (
	"context"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	a := mustLink(t, "a", "https://a.example.com")
	b := mustLink(t, "b", "https://b.example.com")
	if err := s.Add(ctx, a); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := s.Add(ctx, b); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := s.Reorder(ctx, []string{b.ID, a.ID}); err != nil {
		t.Fatalf("Reorder error: %v", err)
	}

	// A fresh store reads the same ordering back from disk.
	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	links, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(links) != 2 || links[0].ID != b.ID || links[1].ID != a.ID {
		t.Fatalf("links = %+v", links)
	}

	if err := reopened.Remove(ctx, b.ID); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	links, _ = reopened.List(ctx)
	if len(links) != 1 || links[0].Order != 0 {
		t.Errorf("links after remove = %+v", links)
	}
}
