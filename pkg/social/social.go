// Package social manages the site's social links: a flat record list
// persisted in its own collection and remotely ordered by an integer sort
// field.
package social

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skovert/folio/pkg/errors"
)

// Link is one social link shown on the public site.
type Link struct {
	ID    string `json:"id" bson:"_id"`
	Label string `json:"label" bson:"label"`
	URL   string `json:"url" bson:"url"`
	Icon  string `json:"icon" bson:"icon"`
	Order int    `json:"order" bson:"order"`
}

// Validate checks the link's user-supplied fields.
func (l Link) Validate() error {
	if err := errors.ValidateLabel(l.Label); err != nil {
		return err
	}
	if err := errors.ValidateURL(l.URL); err != nil {
		return err
	}
	if strings.ContainsAny(l.Icon, " /\\") {
		return errors.New(errors.ErrCodeInvalidLink, "icon %q is not an icon identifier", l.Icon)
	}
	return nil
}

// NewLink builds a validated link with a fresh ID.
// Order is assigned by the store on insert.
func NewLink(label, url, icon string) (Link, error) {
	l := Link{
		ID:    uuid.NewString(),
		Label: strings.TrimSpace(label),
		URL:   strings.TrimSpace(url),
		Icon:  strings.TrimSpace(icon),
	}
	if err := l.Validate(); err != nil {
		return Link{}, err
	}
	return l, nil
}

// Store is the interface for social-link persistence.
type Store interface {
	// List returns all links ordered by their Order field.
	List(ctx context.Context) ([]Link, error)

	// Add inserts a link at the end of the ordering.
	Add(ctx context.Context, link Link) error

	// Update replaces the stored link with the same ID.
	// Returns a LINK_NOT_FOUND error for unknown IDs.
	Update(ctx context.Context, link Link) error

	// Remove deletes a link by ID and re-numbers the remaining links
	// contiguously. Returns a LINK_NOT_FOUND error for unknown IDs.
	Remove(ctx context.Context, id string) error

	// Reorder applies the given ID order. Every stored link must appear
	// exactly once; unknown or missing IDs are an INVALID_INPUT error.
	Reorder(ctx context.Context, ids []string) error
}

// reorder computes the re-numbered link list for the given ID order.
// Shared by the store implementations.
func reorder(links []Link, ids []string) ([]Link, error) {
	if len(ids) != len(links) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reorder needs exactly %d ids, got %d", len(links), len(ids))
	}
	byID := make(map[string]Link, len(links))
	for _, l := range links {
		byID[l.ID] = l
	}
	out := make([]Link, 0, len(ids))
	for i, id := range ids {
		l, ok := byID[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown link id %q", id)
		}
		delete(byID, id)
		l.Order = i
		out = append(out, l)
	}
	return out, nil
}
