// Package content implements the editable site-copy tree and the path-based
// operations used to mutate it.
//
// A content tree is a nested structure of string scalars, keyed mappings, and
// ordered lists (hero text, about section, a services list, a projects map,
// contact labels). The tree is represented by [Node], a tagged variant over
// the three shapes, instead of duck-typing over raw JSON values.
//
// All mutation helpers ([Set], [Delete]) are immutable: they return a new
// root and never modify their input. This makes trees safe to share between
// an in-memory editing session and a pending store write.
//
// # Paths
//
// Locations in the tree are addressed by [Path], an ordered sequence of
// string keys and list indices with a dotted text form:
//
//	hero.title        → root["hero"]["title"]
//	services.2.name   → root["services"][2]["name"]
//
// # Example
//
//	root := content.Map(map[string]content.Node{})
//	root, err := content.Set(root, content.MustParsePath("hero.title"), content.String("Hi"))
package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/skovert/folio/pkg/errors"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	// KindAbsent is the zero Kind: a node that does not exist.
	// Set auto-vivifies absent intermediate nodes into maps or lists.
	KindAbsent Kind = iota

	// KindString is a scalar leaf.
	KindString

	// KindMap is a keyed mapping of child nodes.
	KindMap

	// KindList is an ordered sequence of child nodes.
	KindList
)

// String returns the kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one node of a content tree: a string scalar, a mapping, or a list.
// The zero value is an absent node ([KindAbsent]).
//
// Node values are treated as immutable. The tree operations in this package
// never modify a Node in place; they build new nodes as needed.
type Node struct {
	kind Kind
	str  string
	m    map[string]Node
	l    []Node
}

// String creates a scalar leaf node.
func String(s string) Node {
	return Node{kind: KindString, str: s}
}

// Map creates a mapping node. The map is used as-is; callers must not
// modify it after handing it over.
func Map(m map[string]Node) Node {
	if m == nil {
		m = map[string]Node{}
	}
	return Node{kind: KindMap, m: m}
}

// List creates a list node. The slice is used as-is; callers must not
// modify it after handing it over.
func List(l []Node) Node {
	if l == nil {
		l = []Node{}
	}
	return Node{kind: KindList, l: l}
}

// Kind returns the shape of the node.
func (n Node) Kind() Kind { return n.kind }

// IsAbsent reports whether the node is the zero (absent) node.
func (n Node) IsAbsent() bool { return n.kind == KindAbsent }

// Scalar returns the string value of a scalar leaf.
// Returns "" for non-scalar nodes.
func (n Node) Scalar() string { return n.str }

// Len returns the number of children for maps and lists, 0 otherwise.
func (n Node) Len() int {
	switch n.kind {
	case KindMap:
		return len(n.m)
	case KindList:
		return len(n.l)
	}
	return 0
}

// Child returns the child at key for mapping nodes.
// The second return is false if the node is not a map or the key is missing.
func (n Node) Child(key string) (Node, bool) {
	if n.kind != KindMap {
		return Node{}, false
	}
	c, ok := n.m[key]
	return c, ok
}

// Index returns the child at position i for list nodes.
// The second return is false if the node is not a list or i is out of range.
func (n Node) Index(i int) (Node, bool) {
	if n.kind != KindList || i < 0 || i >= len(n.l) {
		return Node{}, false
	}
	return n.l[i], true
}

// Keys returns the sorted keys of a mapping node, nil otherwise.
// Keys are sorted so that iteration order is stable for rendering and tests.
func (n Node) Keys() []string {
	if n.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(n.m))
	for k := range n.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns a copy of the children of a list node, nil otherwise.
func (n Node) Items() []Node {
	if n.kind != KindList {
		return nil
	}
	out := make([]Node, len(n.l))
	copy(out, n.l)
	return out
}

// Value converts the node back to plain JSON-shaped data
// (string, map[string]any, []any). Absent nodes convert to nil.
func (n Node) Value() any {
	switch n.kind {
	case KindString:
		return n.str
	case KindMap:
		m := make(map[string]any, len(n.m))
		for k, v := range n.m {
			m[k] = v.Value()
		}
		return m
	case KindList:
		l := make([]any, len(n.l))
		for i, v := range n.l {
			l[i] = v.Value()
		}
		return l
	}
	return nil
}

// FromValue converts JSON-shaped data into a Node.
//
// Strings become scalars, map[string]any becomes a mapping, and []any becomes
// a list. Numbers and booleans are coerced to their string form since the
// content tree holds editable copy, not typed data. Any other type is an
// INVALID_VALUE error.
func FromValue(v any) (Node, error) {
	switch val := v.(type) {
	case nil:
		return Node{}, nil
	case string:
		return String(val), nil
	case bool:
		return String(strconv.FormatBool(val)), nil
	case float64:
		return String(strconv.FormatFloat(val, 'f', -1, 64)), nil
	case int:
		return String(strconv.Itoa(val)), nil
	case int32:
		return String(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return String(strconv.FormatInt(val, 10)), nil
	case json.Number:
		return String(val.String()), nil
	case map[string]any:
		m := make(map[string]Node, len(val))
		for k, child := range val {
			node, err := FromValue(child)
			if err != nil {
				return Node{}, err
			}
			m[k] = node
		}
		return Map(m), nil
	case map[any]any: // yaml.v2-style maps, just in case
		m := make(map[string]Node, len(val))
		for k, child := range val {
			key, ok := k.(string)
			if !ok {
				return Node{}, errors.New(errors.ErrCodeInvalidValue, "map key %v is not a string", k)
			}
			node, err := FromValue(child)
			if err != nil {
				return Node{}, err
			}
			m[key] = node
		}
		return Map(m), nil
	case []any:
		l := make([]Node, len(val))
		for i, child := range val {
			node, err := FromValue(child)
			if err != nil {
				return Node{}, err
			}
			l[i] = node
		}
		return List(l), nil
	}
	return Node{}, errors.New(errors.ErrCodeInvalidValue, "unsupported value type %T", v)
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value())
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	node, err := FromValue(v)
	if err != nil {
		return err
	}
	*n = node
	return nil
}

// Equal reports whether two trees have identical shape and values.
func (n Node) Equal(other Node) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindString:
		return n.str == other.str
	case KindMap:
		if len(n.m) != len(other.m) {
			return false
		}
		for k, v := range n.m {
			ov, ok := other.m[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case KindList:
		if len(n.l) != len(other.l) {
			return false
		}
		for i, v := range n.l {
			if !v.Equal(other.l[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// Clone returns a deep copy of the tree rooted at n.
func (n Node) Clone() Node {
	switch n.kind {
	case KindMap:
		m := make(map[string]Node, len(n.m))
		for k, v := range n.m {
			m[k] = v.Clone()
		}
		return Node{kind: KindMap, m: m}
	case KindList:
		l := make([]Node, len(n.l))
		for i, v := range n.l {
			l[i] = v.Clone()
		}
		return Node{kind: KindList, l: l}
	}
	return n
}
