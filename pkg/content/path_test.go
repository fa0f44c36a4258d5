package content

import (
	"testing"

	"github.com/skovert/folio/pkg/errors"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Path
	}{
		{"single key", "hero", Path{Key("hero")}},
		{"nested keys", "hero.title", Path{Key("hero"), Key("title")}},
		{"list index", "services.0", Path{Key("services"), Index(0)}},
		{"index mid-path", "services.2.title", Path{Key("services"), Index(2), Key("title")}},
		{"negative is a key", "a.-1", Path{Key("a"), Key("-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParsePath(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParsePathInvalid(t *testing.T) {
	for _, in := range []string{"", "a..b", ".a", "a."} {
		if _, err := ParsePath(in); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("ParsePath(%q) should fail with INVALID_PATH, got %v", in, err)
		}
	}
}

func TestPathRoundTrip(t *testing.T) {
	for _, s := range []string{"hero", "hero.title", "services.0.title", "projects.site.tags.2"} {
		p, err := ParsePath(s)
		if err != nil {
			t.Fatalf("ParsePath(%q) error: %v", s, err)
		}
		if p.String() != s {
			t.Errorf("round trip %q -> %q", s, p.String())
		}
	}
}

func TestPathParentLeaf(t *testing.T) {
	p := MustParsePath("services.1.title")

	if got := p.Parent().String(); got != "services.1" {
		t.Errorf("Parent = %q, want services.1", got)
	}
	if leaf := p.Leaf(); leaf.IsIndex() || leaf.Key() != "title" {
		t.Errorf("Leaf = %v, want key title", leaf)
	}

	leaf := MustParsePath("services.1").Leaf()
	if !leaf.IsIndex() || leaf.Index() != 1 {
		t.Errorf("Leaf = %v, want index 1", leaf)
	}
}

func TestPathChildDoesNotMutate(t *testing.T) {
	base := MustParsePath("a.b")
	child1 := base.Child(Key("c"))
	child2 := base.Child(Key("d"))

	if child1.String() != "a.b.c" || child2.String() != "a.b.d" {
		t.Errorf("Child paths diverged wrong: %q, %q", child1, child2)
	}
	if base.String() != "a.b" {
		t.Errorf("base mutated to %q", base)
	}
}
