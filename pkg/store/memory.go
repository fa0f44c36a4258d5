package store

import (
	"context"
	"sync"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
)

// Memory is an in-process document store for tests and development.
// It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]content.Node
	subs map[string][]chan content.Node
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]content.Node),
		subs: make(map[string][]chan content.Node),
	}
}

// Get retrieves a document by ID.
func (s *Memory) Get(ctx context.Context, id string) (content.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return content.Node{}, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	return doc, nil
}

// Set merges doc into the stored document, creating it if absent.
func (s *Memory) Set(ctx context.Context, id string, doc content.Node) error {
	s.mu.Lock()
	existing, ok := s.docs[id]
	if ok {
		doc = content.Merge(existing, doc)
	}
	s.docs[id] = doc
	s.mu.Unlock()

	s.notify(id, doc)
	return nil
}

// SetField writes a single value at path.
func (s *Memory) SetField(ctx context.Context, id string, path content.Path, value content.Node) error {
	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		doc = content.Map(nil)
	}
	updated, err := content.Set(doc, path, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.docs[id] = updated
	s.mu.Unlock()

	s.notify(id, updated)
	return nil
}

// DeleteField removes the field at path.
func (s *Memory) DeleteField(ctx context.Context, id string, path content.Path) error {
	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	updated, err := content.Delete(doc, path)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.docs[id] = updated
	s.mu.Unlock()

	s.notify(id, updated)
	return nil
}

// Watch subscribes to changes of a document.
func (s *Memory) Watch(ctx context.Context, id string) (<-chan content.Node, error) {
	ch := make(chan content.Node, 8)

	s.mu.Lock()
	s.subs[id] = append(s.subs[id], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		subs := s.subs[id]
		for i, c := range subs {
			if c == ch {
				s.subs[id] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Close is a no-op for the memory store.
func (s *Memory) Close(ctx context.Context) error {
	return nil
}

// notify fans out a changed document to subscribers.
// Slow subscribers are skipped rather than blocking writers.
func (s *Memory) notify(id string, doc content.Node) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs[id] {
		select {
		case ch <- doc:
		default:
		}
	}
}

// Ensure Memory implements Documents.
var _ Documents = (*Memory)(nil)
