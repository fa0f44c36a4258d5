package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
)

func mustPath(t *testing.T, raw string) content.Path {
	t.Helper()
	p, err := content.ParsePath(raw)
	if err != nil {
		t.Fatalf("ParsePath(%q) failed: %v", raw, err)
	}
	return p
}

// backends returns one instance of each local backend for shared test cases.
func backends(t *testing.T) map[string]Documents {
	t.Helper()
	file, err := NewFile(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	return map[string]Documents{
		"memory": NewMemory(),
		"file":   file,
	}
}

func TestGetMissingDocument(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "absent")
			if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
				t.Errorf("expected DOCUMENT_NOT_FOUND, got %v", err)
			}
		})
	}
}

func TestSetMergesIntoExisting(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			first := content.Map(map[string]content.Node{
				"hero": content.Map(map[string]content.Node{
					"title": content.String("hello"),
				}),
			})
			if err := s.Set(ctx, DocContent, first); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			second := content.Map(map[string]content.Node{
				"hero": content.Map(map[string]content.Node{
					"subtitle": content.String("world"),
				}),
			})
			if err := s.Set(ctx, DocContent, second); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			doc, err := s.Get(ctx, DocContent)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			title, err := content.Get(doc, mustPath(t, "hero.title"))
			if err != nil || title.Scalar() != "hello" {
				t.Errorf("merge dropped hero.title: %v %v", title, err)
			}
			sub, err := content.Get(doc, mustPath(t, "hero.subtitle"))
			if err != nil || sub.Scalar() != "world" {
				t.Errorf("merge missed hero.subtitle: %v %v", sub, err)
			}
		})
	}
}

func TestSetFieldCreatesDocument(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.SetField(ctx, DocContent, mustPath(t, "projects.0.name"), content.String("folio"))
			if err != nil {
				t.Fatalf("SetField failed: %v", err)
			}
			doc, err := s.Get(ctx, DocContent)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			got, err := content.Get(doc, mustPath(t, "projects.0.name"))
			if err != nil || got.Scalar() != "folio" {
				t.Errorf("projects.0.name = %v, %v", got, err)
			}
		})
	}
}

func TestDeleteFieldSplicesList(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			doc := content.Map(map[string]content.Node{
				"tags": content.List([]content.Node{
					content.String("a"),
					content.String("b"),
					content.String("c"),
				}),
			})
			if err := s.Set(ctx, "doc", doc); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.DeleteField(ctx, "doc", mustPath(t, "tags.1")); err != nil {
				t.Fatalf("DeleteField failed: %v", err)
			}

			got, err := s.Get(ctx, "doc")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			tags, ok := got.Child("tags")
			if !ok || tags.Len() != 2 {
				t.Fatalf("expected 2 tags after splice, got %v", tags)
			}
			second, _ := tags.Index(1)
			if second.Scalar() != "c" {
				t.Errorf("expected later element to shift down, got %q", second.Scalar())
			}
		})
	}
}

func TestDeleteFieldMissingPath(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, "doc", content.Map(nil)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			err := s.DeleteField(ctx, "doc", mustPath(t, "nope"))
			if !errors.Is(err, errors.ErrCodePathNotFound) {
				t.Errorf("expected PATH_NOT_FOUND, got %v", err)
			}
		})
	}
}

func TestMemoryWatchReceivesWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewMemory()
	ch, err := s.Watch(ctx, DocContent)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	doc := content.Map(map[string]content.Node{"k": content.String("v")})
	if err := s.Set(ctx, DocContent, doc); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	select {
	case got := <-ch:
		v, ok := got.Child("k")
		if !ok || v.Scalar() != "v" {
			t.Errorf("watch delivered wrong document: %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for watch event")
	}

	cancel()
	select {
	case _, open := <-ch:
		if open {
			t.Error("expected channel closed after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestFileWatchSeesExternalWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir, nil)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx, DocContent)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Simulate another process editing the file directly.
	if err := os.WriteFile(filepath.Join(dir, DocContent+".yaml"), []byte("hero:\n  title: edited\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case doc := <-ch:
		got, err := content.Get(doc, mustPath(t, "hero.title"))
		if err != nil || got.Scalar() != "edited" {
			t.Errorf("hero.title = %v, %v", got, err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file watch event")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewFile(dir, nil)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	doc := content.Map(map[string]content.Node{"name": content.String("folio")})
	if err := s.Set(ctx, "doc", doc); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := NewFile(dir, nil)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	got, err := reopened.Get(ctx, "doc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	name, ok := got.Child("name")
	if !ok || name.Scalar() != "folio" {
		t.Errorf("reopened doc = %v", got)
	}
}

func TestFileStoreRejectsBadDocumentID(t *testing.T) {
	s, err := NewFile(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	_, err = s.Get(context.Background(), "../escape")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
