package content

import (
	"strconv"
	"strings"

	"github.com/skovert/folio/pkg/errors"
)

// Segment is one step of a Path: either a map key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key creates a segment addressing a mapping key.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index creates a segment addressing a list position.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment addresses a list position.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the mapping key, or "" for index segments.
func (s Segment) Key() string { return s.key }

// Index returns the list position, or 0 for key segments.
func (s Segment) Index() int { return s.index }

// String returns the text form of the segment.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path locates a node in a content tree as an ordered sequence of segments.
// The text form is dotted: "services.0.title". A purely numeric segment is
// always interpreted as a list index.
type Path []Segment

// ParsePath parses the dotted text form of a path.
//
// Empty paths and paths with empty segments ("a..b") are INVALID_PATH errors.
// Negative indices cannot occur: "-1" parses as the key "-1".
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path cannot be empty")
	}
	parts := strings.Split(s, ".")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path %q contains an empty segment", s)
		}
		if i, err := strconv.Atoi(part); err == nil && i >= 0 {
			path = append(path, Index(i))
			continue
		}
		path = append(path, Key(part))
	}
	return path, nil
}

// MustParsePath is like ParsePath but panics on error.
// Intended for constant paths in tests and defaults.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the dotted text form.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Parent returns the path without its final segment.
// The parent of a single-segment path is the empty path (the root).
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Leaf returns the final segment.
// Calling Leaf on an empty path panics; callers must check len first.
func (p Path) Leaf() Segment {
	return p[len(p)-1]
}

// Child returns a new path with seg appended. The receiver is not modified.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}
