package content

import (
	"github.com/skovert/folio/pkg/errors"
)

// Get returns the node at path, or a PATH_NOT_FOUND error if any segment
// fails to resolve. An empty path returns the root itself.
func Get(root Node, path Path) (Node, error) {
	node := root
	for i, seg := range path {
		var (
			child Node
			ok    bool
		)
		if seg.IsIndex() {
			child, ok = node.Index(seg.Index())
		} else {
			child, ok = node.Child(seg.Key())
		}
		if !ok {
			return Node{}, errors.New(errors.ErrCodePathNotFound, "path %q does not resolve at %q", path, path[:i+1])
		}
		node = child
	}
	return node, nil
}

// Set writes value at path and returns the new root. The input tree is never
// modified: nodes along the path are replaced, everything else is shared.
//
// Missing intermediate segments are auto-vivified: a list when the next
// segment is an index, a map otherwise. Setting a list index beyond the
// current length pads the gap with empty scalars. A non-container node in
// the middle of the path is an INVALID_PATH error and leaves the caller's
// tree untouched.
func Set(root Node, path Path, value Node) (Node, error) {
	if len(path) == 0 {
		return value, nil
	}
	return set(root, path, value)
}

func set(node Node, path Path, value Node) (Node, error) {
	if len(path) == 0 {
		return value, nil
	}
	seg := path[0]

	if seg.IsIndex() {
		switch node.Kind() {
		case KindAbsent:
			node = List(nil)
		case KindList:
		default:
			return Node{}, errors.New(errors.ErrCodeInvalidPath, "segment %q expects a list but found a %s", seg, node.Kind())
		}

		length := node.Len()
		size := length
		if seg.Index() >= size {
			size = seg.Index() + 1
		}
		items := make([]Node, size)
		copy(items, node.l)
		for i := length; i < size; i++ {
			items[i] = String("")
		}
		target := items[seg.Index()]
		if seg.Index() >= length {
			// Newly created slot: leave it absent so nested segments vivify.
			target = Node{}
		}
		child, err := set(target, path[1:], value)
		if err != nil {
			return Node{}, err
		}
		items[seg.Index()] = child
		return List(items), nil
	}

	switch node.Kind() {
	case KindAbsent:
		node = Map(nil)
	case KindMap:
	default:
		return Node{}, errors.New(errors.ErrCodeInvalidPath, "segment %q expects a map but found a %s", seg, node.Kind())
	}

	m := make(map[string]Node, node.Len()+1)
	for k, v := range node.m {
		m[k] = v
	}
	var existing Node
	if c, ok := node.Child(seg.Key()); ok {
		existing = c
	}
	child, err := set(existing, path[1:], value)
	if err != nil {
		return Node{}, err
	}
	m[seg.Key()] = child
	return Map(m), nil
}

// Delete removes the node at path and returns the new root. The rule is
// uniform for both container shapes: if the parent is a list and the leaf
// segment is an index, the element is spliced out and later elements shift
// down by one; if the parent is a map, the key is removed. Sibling entries
// are untouched and the input tree is never modified.
//
// A path that does not resolve is a PATH_NOT_FOUND error.
func Delete(root Node, path Path) (Node, error) {
	if len(path) == 0 {
		return Node{}, errors.New(errors.ErrCodeInvalidPath, "cannot delete the root")
	}
	return del(root, path)
}

func del(node Node, path Path) (Node, error) {
	seg := path[0]

	if seg.IsIndex() {
		if node.Kind() != KindList {
			return Node{}, errors.New(errors.ErrCodePathNotFound, "segment %q expects a list but found a %s", seg, node.Kind())
		}
		if seg.Index() >= node.Len() {
			return Node{}, errors.New(errors.ErrCodePathNotFound, "list index %d out of range (len %d)", seg.Index(), node.Len())
		}
		if len(path) == 1 {
			items := make([]Node, 0, node.Len()-1)
			items = append(items, node.l[:seg.Index()]...)
			items = append(items, node.l[seg.Index()+1:]...)
			return List(items), nil
		}
		items := make([]Node, node.Len())
		copy(items, node.l)
		child, err := del(items[seg.Index()], path[1:])
		if err != nil {
			return Node{}, err
		}
		items[seg.Index()] = child
		return List(items), nil
	}

	if node.Kind() != KindMap {
		return Node{}, errors.New(errors.ErrCodePathNotFound, "segment %q expects a map but found a %s", seg, node.Kind())
	}
	existing, ok := node.Child(seg.Key())
	if !ok {
		return Node{}, errors.New(errors.ErrCodePathNotFound, "key %q not found", seg.Key())
	}
	if len(path) == 1 {
		m := make(map[string]Node, node.Len())
		for k, v := range node.m {
			if k != seg.Key() {
				m[k] = v
			}
		}
		return Map(m), nil
	}
	child, err := del(existing, path[1:])
	if err != nil {
		return Node{}, err
	}
	m := make(map[string]Node, node.Len())
	for k, v := range node.m {
		m[k] = v
	}
	m[seg.Key()] = child
	return Map(m), nil
}
