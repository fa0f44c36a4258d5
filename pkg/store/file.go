package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
)

// File is a document store backed by YAML files in a directory, one file per
// document. It serves two purposes: a standalone backend for development, and
// the local fallback snapshot of remote content for offline reads.
//
// Watch is implemented with fsnotify, so edits made directly to the files
// (or by another process) are picked up.
type File struct {
	mu     sync.Mutex
	dir    string
	logger *log.Logger
}

// NewFile creates a file store rooted at dir, creating it if needed.
func NewFile(dir string, logger *log.Logger) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store dir %q", dir)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &File{dir: dir, logger: logger}, nil
}

// Get retrieves a document by ID.
func (s *File) Get(ctx context.Context, id string) (content.Node, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return content.Node{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// Set merges doc into the stored document, creating it if absent.
func (s *File) Set(ctx context.Context, id string, doc content.Node) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(id)
	if err == nil {
		doc = content.Merge(existing, doc)
	} else if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		return err
	}
	return s.save(id, doc)
}

// SetField writes a single value at path.
func (s *File) SetField(ctx context.Context, id string, path content.Path, value content.Node) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(id)
	if errors.Is(err, errors.ErrCodeDocumentNotFound) {
		doc = content.Map(nil)
	} else if err != nil {
		return err
	}
	updated, err := content.Set(doc, path, value)
	if err != nil {
		return err
	}
	return s.save(id, updated)
}

// DeleteField removes the field at path.
func (s *File) DeleteField(ctx context.Context, id string, path content.Path) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(id)
	if err != nil {
		return err
	}
	updated, err := content.Delete(doc, path)
	if err != nil {
		return err
	}
	return s.save(id, updated)
}

// Watch subscribes to changes of a document using fsnotify.
// The channel receives the full document after each observed file write and
// is closed when ctx is cancelled.
func (s *File) Watch(ctx context.Context, id string) (<-chan content.Node, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "watch dir %q", s.dir)
	}

	want := s.path(id)
	ch := make(chan content.Node, 8)

	go func() {
		defer close(ch)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Writes land via rename from a temp file.
				if event.Name != want || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				s.mu.Lock()
				doc, err := s.load(id)
				s.mu.Unlock()
				if err != nil {
					continue
				}
				select {
				case ch <- doc:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("file watch error", "doc", id, "err", err)
			}
		}
	}()

	return ch, nil
}

// Close is a no-op; per-Watch watchers are closed with their contexts.
func (s *File) Close(ctx context.Context) error {
	return nil
}

// Dir returns the store's root directory.
func (s *File) Dir() string { return s.dir }

func (s *File) path(id string) string {
	return filepath.Join(s.dir, id+".yaml")
}

// load reads and decodes a document. Callers must hold s.mu.
func (s *File) load(id string) (content.Node, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return content.Node{}, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	if err != nil {
		return content.Node{}, errors.Wrap(errors.ErrCodeInternal, err, "read document %q", id)
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return content.Node{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "parse document %q", id)
	}
	return content.FromValue(v)
}

// save writes a document atomically via a temp file rename.
// Callers must hold s.mu.
func (s *File) save(id string, doc content.Node) error {
	data, err := yaml.Marshal(doc.Value())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document %q", id)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write document %q", id)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write document %q", id)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write document %q", id)
	}
	if err := os.Rename(tmpName, s.path(id)); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write document %q", id)
	}
	return nil
}

// Ensure File implements Documents.
var _ Documents = (*File)(nil)
