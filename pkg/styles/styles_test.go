package styles

import (
	"strings"
	"testing"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
)

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default settings should validate: %v", err)
	}

	bad := Settings{"accent-color": "red"}
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("non-hex color should be INVALID_COLOR, got %v", err)
	}

	badKey := Settings{"Primary Color": "#fff"}
	if err := badKey.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad key should be INVALID_INPUT, got %v", err)
	}

	injection := Settings{"body-font": "serif; } body { display: none"}
	if err := injection.Validate(); !errors.Is(err, errors.ErrCodeInvalidValue) {
		t.Errorf("CSS delimiters should be INVALID_VALUE, got %v", err)
	}
}

func TestCSS(t *testing.T) {
	s := Settings{"accent-color": "#e94560", "body-font": "Georgia, serif"}
	css := s.CSS()

	if !strings.HasPrefix(css, ":root {\n") || !strings.HasSuffix(css, "}\n") {
		t.Errorf("css not wrapped in :root block:\n%s", css)
	}
	if !strings.Contains(css, "--accent-color: #e94560;") {
		t.Errorf("css missing accent color:\n%s", css)
	}
	// Sorted output: accent-color before body-font.
	if strings.Index(css, "--accent-color") > strings.Index(css, "--body-font") {
		t.Errorf("css keys not sorted:\n%s", css)
	}
}

func TestNodeRoundTrip(t *testing.T) {
	s := Default()
	back, err := FromNode(s.Node())
	if err != nil {
		t.Fatalf("FromNode error: %v", err)
	}
	if len(back) != len(s) {
		t.Fatalf("lost settings: %d != %d", len(back), len(s))
	}
	for k, v := range s {
		if back[k] != v {
			t.Errorf("setting %q = %q, want %q", k, back[k], v)
		}
	}
}

func TestFromNodeRejectsNonFlat(t *testing.T) {
	nested := content.Map(map[string]content.Node{
		"theme": content.Map(map[string]content.Node{"accent": content.String("#fff")}),
	})
	if _, err := FromNode(nested); !errors.Is(err, errors.ErrCodeInvalidValue) {
		t.Errorf("nested styles doc should be INVALID_VALUE, got %v", err)
	}
	if _, err := FromNode(content.String("nope")); !errors.Is(err, errors.ErrCodeInvalidValue) {
		t.Errorf("scalar styles doc should be INVALID_VALUE, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	base := Settings{"accent-color": "#111111", "body-font": "serif"}
	merged := base.Merge(Settings{"accent-color": "#222222"})

	if merged["accent-color"] != "#222222" {
		t.Errorf("patched value = %q", merged["accent-color"])
	}
	if merged["body-font"] != "serif" {
		t.Errorf("unpatched value = %q", merged["body-font"])
	}
	if base["accent-color"] != "#111111" {
		t.Error("Merge mutated its receiver")
	}
}
