// Package styles manages the site's theme settings: a flat mapping of named
// color and font values persisted as its own document and applied to the
// public site as CSS custom properties.
package styles

import (
	"sort"
	"strings"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
)

// Settings is the flat style-settings map, keyed by setting name.
type Settings map[string]string

// Default returns the built-in theme.
func Default() Settings {
	return Settings{
		"primary-color":    "#1a1a2e",
		"accent-color":     "#e94560",
		"background-color": "#fefefe",
		"text-color":       "#16213e",
		"muted-color":      "#8a8a9e",
		"heading-font":     "Inter, sans-serif",
		"body-font":        "Georgia, serif",
	}
}

// Validate checks every setting. Keys ending in "-color" must be hex colors;
// all keys must be valid CSS custom-property names (lowercase kebab-case).
func (s Settings) Validate() error {
	for key, value := range s {
		if err := validateKey(key); err != nil {
			return err
		}
		if strings.HasSuffix(key, "-color") {
			if err := errors.ValidateHexColor(value); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidColor, err, "setting %q", key)
			}
			continue
		}
		if strings.TrimSpace(value) == "" {
			return errors.New(errors.ErrCodeInvalidValue, "setting %q cannot be empty", key)
		}
		if strings.ContainsAny(value, ";{}") {
			return errors.New(errors.ErrCodeInvalidValue, "setting %q contains CSS delimiters", key)
		}
	}
	return nil
}

// validateKey accepts lowercase kebab-case names ("primary-color").
func validateKey(key string) error {
	if key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "setting name cannot be empty")
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return errors.New(errors.ErrCodeInvalidInput, "setting name %q contains invalid character %q", key, r)
		}
	}
	return nil
}

// CSS renders the settings as a :root block of CSS custom properties.
// Keys are emitted in sorted order so the output is stable.
func (s Settings) CSS() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range keys {
		b.WriteString("  --")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(s[k])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// Node converts the settings into a content tree for document storage.
func (s Settings) Node() content.Node {
	m := make(map[string]content.Node, len(s))
	for k, v := range s {
		m[k] = content.String(v)
	}
	return content.Map(m)
}

// FromNode converts a stored document back into settings.
// Non-scalar fields are an INVALID_VALUE error.
func FromNode(n content.Node) (Settings, error) {
	if n.Kind() != content.KindMap {
		return nil, errors.New(errors.ErrCodeInvalidValue, "styles document is not a map")
	}
	s := make(Settings, n.Len())
	for _, k := range n.Keys() {
		child, _ := n.Child(k)
		if child.Kind() != content.KindString {
			return nil, errors.New(errors.ErrCodeInvalidValue, "style setting %q is not a scalar", k)
		}
		s[k] = child.Scalar()
	}
	return s, nil
}

// Merge overlays patch onto s and returns a new Settings.
// Neither input is modified.
func (s Settings) Merge(patch Settings) Settings {
	out := make(Settings, len(s)+len(patch))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
