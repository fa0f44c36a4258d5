package social

import (
	"context"
	"sort"
	"sync"

	"github.com/skovert/folio/pkg/errors"
)

// MemoryStore is an in-process link store for tests and development.
// It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	links []Link
}

// NewMemoryStore creates an empty in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// List returns all links ordered by their Order field.
func (s *MemoryStore) List(ctx context.Context) ([]Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Link, len(s.links))
	copy(out, s.links)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// Add inserts a link at the end of the ordering.
func (s *MemoryStore) Add(ctx context.Context, link Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	link.Order = len(s.links)
	s.links = append(s.links, link)
	return nil
}

// Update replaces the stored link with the same ID.
func (s *MemoryStore) Update(ctx context.Context, link Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.links {
		if l.ID == link.ID {
			link.Order = l.Order // ordering changes only via Reorder
			s.links[i] = link
			return nil
		}
	}
	return errors.New(errors.ErrCodeLinkNotFound, "link %q not found", link.ID)
}

// Remove deletes a link by ID and re-numbers the remaining links.
func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.links {
		if l.ID == id {
			s.links = append(s.links[:i], s.links[i+1:]...)
			for j := range s.links {
				s.links[j].Order = j
			}
			return nil
		}
	}
	return errors.New(errors.ErrCodeLinkNotFound, "link %q not found", id)
}

// Reorder applies the given ID order.
func (s *MemoryStore) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := reorder(s.links, ids)
	if err != nil {
		return err
	}
	s.links = out
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
