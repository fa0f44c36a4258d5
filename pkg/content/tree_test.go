package content

import (
	"testing"

	"github.com/skovert/folio/pkg/errors"
)

func TestSetCreatesIntermediates(t *testing.T) {
	root := Map(nil)

	got, err := Set(root, MustParsePath("hero.title"), String("Hello"))
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}

	v, err := Get(got, MustParsePath("hero.title"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v.Scalar() != "Hello" {
		t.Errorf("value = %q, want Hello", v.Scalar())
	}

	hero, _ := got.Child("hero")
	if hero.Kind() != KindMap {
		t.Errorf("intermediate hero should be a map, got %s", hero.Kind())
	}
}

func TestSetVivifiesListForIndexSegment(t *testing.T) {
	root := Map(nil)

	got, err := Set(root, MustParsePath("services.0.title"), String("Design"))
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}

	services, _ := got.Child("services")
	if services.Kind() != KindList {
		t.Fatalf("services should be a list, got %s", services.Kind())
	}
	v, err := Get(got, MustParsePath("services.0.title"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v.Scalar() != "Design" {
		t.Errorf("value = %q", v.Scalar())
	}
}

func TestSetPadsListGaps(t *testing.T) {
	root := Map(nil)

	got, err := Set(root, MustParsePath("tags.2"), String("go"))
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}

	tags, _ := got.Child("tags")
	if tags.Len() != 3 {
		t.Fatalf("tags length = %d, want 3", tags.Len())
	}
	for i := 0; i < 2; i++ {
		v, _ := tags.Index(i)
		if v.Kind() != KindString || v.Scalar() != "" {
			t.Errorf("gap slot %d = %v, want empty scalar", i, v)
		}
	}
}

func TestSetIdempotent(t *testing.T) {
	root := Default()
	path := MustParsePath("hero.title")

	once, err := Set(root, path, String("New"))
	if err != nil {
		t.Fatalf("first Set error: %v", err)
	}
	twice, err := Set(once, path, String("New"))
	if err != nil {
		t.Fatalf("second Set error: %v", err)
	}
	if !once.Equal(twice) {
		t.Error("repeated identical Set should produce an equal tree")
	}
}

func TestSetDoesNotMutateInput(t *testing.T) {
	root := Default()
	snapshot := root.Clone()

	if _, err := Set(root, MustParsePath("about.body"), String("changed")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, err := Set(root, MustParsePath("brand.new.path"), String("x")); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	if !root.Equal(snapshot) {
		t.Error("Set mutated its input tree")
	}
}

func TestSetReturnsNewRoot(t *testing.T) {
	root := Default()
	got, err := Set(root, MustParsePath("hero.title"), String("changed"))
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got.Equal(root) {
		t.Error("changed tree should not equal input")
	}
}

func TestSetThroughScalarFails(t *testing.T) {
	root := Map(map[string]Node{"hero": String("just text")})

	_, err := Set(root, MustParsePath("hero.title"), String("x"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("setting through a scalar should be INVALID_PATH, got %v", err)
	}

	// The input must be unchanged even on failure.
	hero, _ := root.Child("hero")
	if hero.Scalar() != "just text" {
		t.Error("failed Set mutated its input")
	}
}

func TestSetRoundTrip(t *testing.T) {
	root := Default()
	paths := []string{
		"hero.title",
		"services.1.description",
		"projects.portfolio.tags.0",
		"fresh.nested.0.leaf",
	}

	for _, s := range paths {
		path := MustParsePath(s)
		updated, err := Set(root, path, String("round-trip"))
		if err != nil {
			t.Fatalf("Set(%s) error: %v", s, err)
		}
		v, err := Get(updated, path)
		if err != nil {
			t.Fatalf("Get(%s) error: %v", s, err)
		}
		if v.Scalar() != "round-trip" {
			t.Errorf("Get(%s) = %q after Set", s, v.Scalar())
		}
	}
}

func TestDeleteListIndexShiftsElements(t *testing.T) {
	root := Map(map[string]Node{
		"tags": List([]Node{String("a"), String("b"), String("c")}),
	})

	got, err := Delete(root, MustParsePath("tags.1"))
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	tags, _ := got.Child("tags")
	if tags.Len() != 2 {
		t.Fatalf("length = %d, want 2", tags.Len())
	}
	first, _ := tags.Index(0)
	second, _ := tags.Index(1)
	if first.Scalar() != "a" || second.Scalar() != "c" {
		t.Errorf("after delete: [%q, %q], want [a, c]", first.Scalar(), second.Scalar())
	}

	// Input list still has three elements.
	orig, _ := root.Child("tags")
	if orig.Len() != 3 {
		t.Error("Delete mutated its input")
	}
}

func TestDeleteMapKeyKeepsSiblings(t *testing.T) {
	root := Default()

	got, err := Delete(root, MustParsePath("hero.subtitle"))
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	hero, _ := got.Child("hero")
	if _, ok := hero.Child("subtitle"); ok {
		t.Error("deleted key still present")
	}
	if _, ok := hero.Child("title"); !ok {
		t.Error("sibling key was removed")
	}
	if _, ok := hero.Child("cta"); !ok {
		t.Error("sibling key was removed")
	}
}

func TestDeleteMissingPath(t *testing.T) {
	root := Default()
	for _, s := range []string{"nope", "hero.nope", "services.9", "hero.title.deeper"} {
		if _, err := Delete(root, MustParsePath(s)); !errors.Is(err, errors.ErrCodePathNotFound) {
			t.Errorf("Delete(%s) should be PATH_NOT_FOUND, got %v", s, err)
		}
	}
}

func TestDeleteRoot(t *testing.T) {
	if _, err := Delete(Default(), nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("deleting the root should be INVALID_PATH, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	if _, err := Get(Default(), MustParsePath("no.such.path")); !errors.Is(err, errors.ErrCodePathNotFound) {
		t.Errorf("Get on missing path should be PATH_NOT_FOUND, got %v", err)
	}
}
