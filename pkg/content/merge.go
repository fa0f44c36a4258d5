package content

// Merge deep-merges src into dst and returns the merged tree. Mapping nodes
// merge key-by-key; scalars and lists from src replace the dst value
// wholesale. Neither input is modified.
//
// This mirrors the document store's merge-set write: a partial document can
// be written without clobbering sibling fields.
func Merge(dst, src Node) Node {
	if dst.Kind() != KindMap || src.Kind() != KindMap {
		return src
	}
	m := make(map[string]Node, len(dst.m)+len(src.m))
	for k, v := range dst.m {
		m[k] = v
	}
	for k, v := range src.m {
		if existing, ok := m[k]; ok {
			m[k] = Merge(existing, v)
			continue
		}
		m[k] = v
	}
	return Map(m)
}
