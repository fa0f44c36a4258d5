// Package store provides the document-store abstraction behind folio's
// content, styles and social-link persistence.
//
// Documents are JSON-shaped trees keyed by fixed IDs (a content document, a
// styles document). The interface supports point reads, merge-set writes,
// path-based partial updates, field-path deletion, and realtime subscription
// to document changes.
//
// Three backends are provided:
//   - [Mongo]: production backend on MongoDB (change streams for Watch)
//   - [File]: local YAML snapshots with fsnotify-driven Watch; used as the
//     offline fallback cache of the content tree and for development
//   - [Memory]: in-process store for tests
//
// Writes are last-write-wins; there is no locking or transaction discipline.
// Two concurrent editing sessions will clobber each other silently.
package store

import (
	"context"

	"github.com/skovert/folio/pkg/content"
)

// Well-known document IDs.
const (
	// DocContent is the site-copy content tree.
	DocContent = "content"

	// DocStyles is the flat style settings document.
	DocStyles = "styles"
)

// Documents is the interface for document storage backends.
type Documents interface {
	// Get retrieves a document by ID.
	// Returns a DOCUMENT_NOT_FOUND error if the document doesn't exist.
	Get(ctx context.Context, id string) (content.Node, error)

	// Set writes a document with merge semantics: mapping fields in doc are
	// merged into the stored document, scalars and lists replace wholesale.
	// The document is created if it doesn't exist.
	Set(ctx context.Context, id string, doc content.Node) error

	// SetField writes a single value at a field path, creating intermediate
	// containers as needed.
	SetField(ctx context.Context, id string, path content.Path, value content.Node) error

	// DeleteField removes the field at path.
	// Returns a PATH_NOT_FOUND error if the path doesn't resolve.
	DeleteField(ctx context.Context, id string, path content.Path) error

	// Watch subscribes to changes of a document. The returned channel
	// receives the full document after each change and is closed when ctx
	// is cancelled. Backends without change notification may return an
	// UNSUPPORTED error.
	Watch(ctx context.Context, id string) (<-chan content.Node, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
