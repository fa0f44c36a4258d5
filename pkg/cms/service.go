// Package cms is the application core tying the document store, cache and
// social-link store together behind one service type. The HTTP server and
// the CLI both drive this service; neither talks to a backend directly.
//
// Reads go cache-first and fall back to the primary store, then to the local
// snapshot, then to the built-in defaults, so the public site keeps serving
// content even when the database is unreachable. Writes go to the primary
// store and invalidate the affected cache keys.
package cms

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skovert/folio/pkg/cache"
	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/social"
	"github.com/skovert/folio/pkg/store"
	"github.com/skovert/folio/pkg/styles"
)

// DefaultCacheTTL is how long cached reads stay fresh when no TTL is
// configured. Writes invalidate eagerly, so this only bounds staleness
// introduced by out-of-band database edits.
const DefaultCacheTTL = 5 * time.Minute

// Options configures a Service.
type Options struct {
	// Docs is the primary document store. Required.
	Docs store.Documents

	// Social is the social-link store. Required.
	Social social.Store

	// Snapshot is an optional local file store that mirrors the content
	// document after each successful read and serves reads when the
	// primary store is unreachable.
	Snapshot *store.File

	// Cache fronts document reads. Defaults to [cache.NullCache].
	Cache cache.Cache

	// Keyer generates cache keys. Defaults to [cache.DefaultKeyer].
	Keyer cache.Keyer

	// CacheTTL bounds cache staleness. Defaults to [DefaultCacheTTL].
	CacheTTL time.Duration

	// Logger receives service-level logs. Defaults to a discard logger.
	Logger *log.Logger
}

func (o *Options) validateAndSetDefaults() error {
	if o.Docs == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "cms: document store is required")
	}
	if o.Social == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "cms: social-link store is required")
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Service exposes the CMS operations: reading and editing the content tree,
// the style settings, and the social links.
type Service struct {
	docs     store.Documents
	social   social.Store
	snapshot *store.File
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	logger   *log.Logger
}

// New creates a Service from the given options.
func New(opts Options) (*Service, error) {
	if err := opts.validateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Service{
		docs:     opts.Docs,
		social:   opts.Social,
		snapshot: opts.Snapshot,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.CacheTTL,
		logger:   opts.Logger,
	}, nil
}

// -----------------------------------------------------------------------------
// Content
// -----------------------------------------------------------------------------

// Content returns the site content tree.
//
// The read chain is cache, primary store, local snapshot, built-in defaults.
// A missing or malformed document never surfaces as an error to the public
// site; the defaults are served instead.
func (s *Service) Content(ctx context.Context) (content.Node, error) {
	key := s.keyer.DocKey(store.DocContent)
	if doc, ok := s.cacheGet(ctx, key); ok {
		return doc, nil
	}

	doc, err := s.docs.Get(ctx, store.DocContent)
	switch {
	case err == nil:
		s.cachePut(ctx, key, doc)
		s.writeSnapshot(store.DocContent, doc)
		return doc, nil
	case errors.Is(err, errors.ErrCodeDocumentNotFound):
		s.logger.Debug("content document missing, serving defaults")
		return content.Default(), nil
	default:
		s.logger.Warn("primary store unreachable, trying snapshot", "error", err)
	}

	if s.snapshot != nil {
		if doc, snapErr := s.snapshot.Get(ctx, store.DocContent); snapErr == nil {
			return doc, nil
		}
	}
	s.logger.Warn("no snapshot available, serving defaults")
	return content.Default(), nil
}

// ReplaceContent overwrites the whole content document.
func (s *Service) ReplaceContent(ctx context.Context, doc content.Node) error {
	if doc.Kind() != content.KindMap {
		return errors.New(errors.ErrCodeInvalidValue, "content document must be a mapping, got %s", doc.Kind())
	}
	// Set merges, so top-level keys absent from the replacement have to be
	// removed explicitly.
	if old, err := s.docs.Get(ctx, store.DocContent); err == nil {
		for _, key := range old.Keys() {
			if _, ok := doc.Child(key); !ok {
				path := content.Path{content.Key(key)}
				if err := s.docs.DeleteField(ctx, store.DocContent, path); err != nil && !errors.Is(err, errors.ErrCodePathNotFound) {
					return err
				}
			}
		}
	} else if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		return err
	}
	if err := s.docs.Set(ctx, store.DocContent, doc); err != nil {
		return err
	}
	s.invalidateContent(ctx)
	s.writeSnapshot(store.DocContent, doc)
	return nil
}

// MergeContent merges a partial document into the stored content.
// Mapping fields merge recursively; scalars and lists replace wholesale.
func (s *Service) MergeContent(ctx context.Context, patch content.Node) error {
	if patch.Kind() != content.KindMap {
		return errors.New(errors.ErrCodeInvalidValue, "content patch must be a mapping, got %s", patch.Kind())
	}
	if err := s.docs.Set(ctx, store.DocContent, patch); err != nil {
		return err
	}
	s.invalidateContent(ctx)
	return nil
}

// SetValue writes a single value at a dotted path in the content tree,
// creating intermediate containers as needed.
func (s *Service) SetValue(ctx context.Context, rawPath string, value content.Node) error {
	path, err := content.ParsePath(rawPath)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return errors.New(errors.ErrCodeInvalidPath, "path must not be empty")
	}
	if err := s.docs.SetField(ctx, store.DocContent, path, value); err != nil {
		return err
	}
	s.invalidateContent(ctx)
	return nil
}

// GetValue reads a single value at a dotted path in the content tree.
// Returns a PATH_NOT_FOUND error if the path doesn't resolve.
func (s *Service) GetValue(ctx context.Context, rawPath string) (content.Node, error) {
	path, err := content.ParsePath(rawPath)
	if err != nil {
		return content.Node{}, err
	}
	doc, err := s.Content(ctx)
	if err != nil {
		return content.Node{}, err
	}
	return content.Get(doc, path)
}

// DeleteValue removes the value at a dotted path in the content tree.
//
// Deletion from a list parent splices the element out and rewrites the whole
// list, so later elements shift down and no null holes are left behind.
// Deletion from a mapping parent removes the key directly in the store.
func (s *Service) DeleteValue(ctx context.Context, rawPath string) error {
	path, err := content.ParsePath(rawPath)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return errors.New(errors.ErrCodeInvalidPath, "path must not be empty")
	}

	parentPath := path.Parent()
	if path.Leaf().IsIndex() {
		// List splice: compute the updated parent list locally and write it
		// back wholesale. Field-level $unset on an array element would leave
		// a null hole instead of shifting the tail.
		doc, err := s.docs.Get(ctx, store.DocContent)
		if err != nil {
			return err
		}
		updated, err := content.Delete(doc, path)
		if err != nil {
			return err
		}
		parent, err := content.Get(updated, parentPath)
		if err != nil {
			return err
		}
		if err := s.docs.SetField(ctx, store.DocContent, parentPath, parent); err != nil {
			return err
		}
	} else {
		if err := s.docs.DeleteField(ctx, store.DocContent, path); err != nil {
			return err
		}
	}
	s.invalidateContent(ctx)
	return nil
}

// WatchContent subscribes to content changes. The returned channel receives
// the full tree after each change and is closed when ctx is cancelled.
func (s *Service) WatchContent(ctx context.Context) (<-chan content.Node, error) {
	return s.docs.Watch(ctx, store.DocContent)
}

// -----------------------------------------------------------------------------
// Styles
// -----------------------------------------------------------------------------

// Styles returns the style settings, merged over the built-in defaults so a
// partial document still yields a complete theme.
func (s *Service) Styles(ctx context.Context) (styles.Settings, error) {
	doc, err := s.docs.Get(ctx, store.DocStyles)
	if err != nil {
		if errors.Is(err, errors.ErrCodeDocumentNotFound) {
			return styles.Default(), nil
		}
		return nil, err
	}
	stored, err := styles.FromNode(doc)
	if err != nil {
		s.logger.Warn("styles document malformed, serving defaults", "error", err)
		return styles.Default(), nil
	}
	return styles.Default().Merge(stored), nil
}

// SaveStyles validates and merges a settings patch into the styles document.
func (s *Service) SaveStyles(ctx context.Context, patch styles.Settings) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := s.docs.Set(ctx, store.DocStyles, patch.Node()); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, s.keyer.CSSKey()); err != nil {
		s.logger.Warn("cache invalidation failed", "key", s.keyer.CSSKey(), "error", err)
	}
	if err := s.cache.Delete(ctx, s.keyer.DocKey(store.DocStyles)); err != nil {
		s.logger.Warn("cache invalidation failed", "key", s.keyer.DocKey(store.DocStyles), "error", err)
	}
	return nil
}

// CSS renders the current style settings as a cached stylesheet.
func (s *Service) CSS(ctx context.Context) (string, error) {
	key := s.keyer.CSSKey()
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return string(data), nil
	}
	settings, err := s.Styles(ctx)
	if err != nil {
		return "", err
	}
	css := settings.CSS()
	if err := s.cache.Set(ctx, key, []byte(css), s.ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return css, nil
}

// -----------------------------------------------------------------------------
// Social links
// -----------------------------------------------------------------------------

// SocialLinks returns all social links in display order, cache-first.
func (s *Service) SocialLinks(ctx context.Context) ([]social.Link, error) {
	key := s.keyer.SocialKey()
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var links []social.Link
		if err := json.Unmarshal(data, &links); err == nil {
			return links, nil
		}
		// Malformed cache entries are dropped, not served.
		_ = s.cache.Delete(ctx, key)
	}

	links, err := s.social.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(links); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return links, nil
}

// AddSocialLink creates and stores a new link at the end of the ordering.
func (s *Service) AddSocialLink(ctx context.Context, label, url, icon string) (social.Link, error) {
	link, err := social.NewLink(label, url, icon)
	if err != nil {
		return social.Link{}, err
	}
	if err := s.social.Add(ctx, link); err != nil {
		return social.Link{}, err
	}
	s.invalidateSocial(ctx)
	return link, nil
}

// UpdateSocialLink replaces the stored link with the same ID.
func (s *Service) UpdateSocialLink(ctx context.Context, link social.Link) error {
	if err := s.social.Update(ctx, link); err != nil {
		return err
	}
	s.invalidateSocial(ctx)
	return nil
}

// RemoveSocialLink deletes a link by ID.
func (s *Service) RemoveSocialLink(ctx context.Context, id string) error {
	if err := s.social.Remove(ctx, id); err != nil {
		return err
	}
	s.invalidateSocial(ctx)
	return nil
}

// ReorderSocialLinks applies the given ID order.
func (s *Service) ReorderSocialLinks(ctx context.Context, ids []string) error {
	if err := s.social.Reorder(ctx, ids); err != nil {
		return err
	}
	s.invalidateSocial(ctx)
	return nil
}

// -----------------------------------------------------------------------------
// Seeding
// -----------------------------------------------------------------------------

// Seed writes the default content and styles documents if they don't exist
// yet. Existing documents are left untouched.
func (s *Service) Seed(ctx context.Context) error {
	if _, err := s.docs.Get(ctx, store.DocContent); errors.Is(err, errors.ErrCodeDocumentNotFound) {
		s.logger.Info("seeding default content document")
		if err := s.docs.Set(ctx, store.DocContent, content.Default()); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if _, err := s.docs.Get(ctx, store.DocStyles); errors.Is(err, errors.ErrCodeDocumentNotFound) {
		s.logger.Info("seeding default styles document")
		if err := s.docs.Set(ctx, store.DocStyles, styles.Default().Node()); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}

// Close releases the underlying store resources.
func (s *Service) Close(ctx context.Context) error {
	var firstErr error
	if err := s.cache.Close(); err != nil {
		firstErr = err
	}
	if s.snapshot != nil {
		if err := s.snapshot.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.docs.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

func (s *Service) cacheGet(ctx context.Context, key string) (content.Node, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return content.Node{}, false
	}
	var doc content.Node
	if err := json.Unmarshal(data, &doc); err != nil {
		_ = s.cache.Delete(ctx, key)
		return content.Node{}, false
	}
	return doc, true
}

func (s *Service) cachePut(ctx context.Context, key string, doc content.Node) {
	data, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *Service) invalidateContent(ctx context.Context) {
	key := s.keyer.DocKey(store.DocContent)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}

func (s *Service) invalidateSocial(ctx context.Context) {
	key := s.keyer.SocialKey()
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}

func (s *Service) writeSnapshot(id string, doc content.Node) {
	if s.snapshot == nil {
		return
	}
	if err := s.snapshot.Set(context.Background(), id, doc); err != nil {
		s.logger.Warn("snapshot write failed", "doc", id, "error", err)
	}
}
