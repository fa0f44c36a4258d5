package social

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/skovert/folio/pkg/errors"
)

// fileName is the YAML file the link list is stored in.
const fileName = "social.yaml"

// FileStore persists links as a YAML list next to the file document store.
// Writes are atomic via a temp file rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// fileLink is the on-disk link shape.
type fileLink struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon,omitempty"`
}

// NewFileStore creates a link store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store dir %q", dir)
	}
	return &FileStore{path: filepath.Join(dir, fileName)}, nil
}

// List returns all links ordered by their Order field.
func (s *FileStore) List(ctx context.Context) ([]Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add inserts a link at the end of the ordering.
func (s *FileStore) Add(ctx context.Context, link Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load()
	if err != nil {
		return err
	}
	link.Order = len(links)
	return s.save(append(links, link))
}

// Update replaces the stored link with the same ID.
func (s *FileStore) Update(ctx context.Context, link Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load()
	if err != nil {
		return err
	}
	for i, l := range links {
		if l.ID == link.ID {
			link.Order = l.Order
			links[i] = link
			return s.save(links)
		}
	}
	return errors.New(errors.ErrCodeLinkNotFound, "link %q not found", link.ID)
}

// Remove deletes a link by ID and re-numbers the remaining links.
func (s *FileStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load()
	if err != nil {
		return err
	}
	for i, l := range links {
		if l.ID == id {
			links = append(links[:i], links[i+1:]...)
			for j := range links {
				links[j].Order = j
			}
			return s.save(links)
		}
	}
	return errors.New(errors.ErrCodeLinkNotFound, "link %q not found", id)
}

// Reorder applies the given ID order.
func (s *FileStore) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.load()
	if err != nil {
		return err
	}
	out, err := reorder(links, ids)
	if err != nil {
		return err
	}
	return s.save(out)
}

// load reads the link list. A missing file is an empty list.
// Callers must hold s.mu.
func (s *FileStore) load() ([]Link, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", s.path)
	}

	var stored []fileLink
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidValue, err, "decode %s", s.path)
	}
	links := make([]Link, len(stored))
	for i, l := range stored {
		links[i] = Link{ID: l.ID, Label: l.Label, URL: l.URL, Icon: l.Icon, Order: i}
	}
	return links, nil
}

// save writes the link list atomically via a temp file rename.
// Callers must hold s.mu.
func (s *FileStore) save(links []Link) error {
	stored := make([]fileLink, len(links))
	for _, l := range links {
		stored[l.Order] = fileLink{ID: l.ID, Label: l.Label, URL: l.URL, Icon: l.Icon}
	}
	data, err := yaml.Marshal(stored)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode link list")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".social-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write link list")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write link list")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write link list")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write link list")
	}
	return nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
