package cms

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/social"
	"github.com/skovert/folio/pkg/store"
	"github.com/skovert/folio/pkg/styles"
)

// recordingCache keeps values in a map and counts hits and invalidations.
type recordingCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	hits    int
	deletes int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: map[string][]byte{}}
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if ok {
		c.hits++
	}
	return data, ok, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes++
	return nil
}

func (c *recordingCache) Close() error { return nil }

func newTestService(t *testing.T) (*Service, *recordingCache) {
	t.Helper()
	rc := newRecordingCache()
	svc, err := New(Options{
		Docs:   store.NewMemory(),
		Social: social.NewMemoryStore(),
		Cache:  rc,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return svc, rc
}

func TestNewRequiresStores(t *testing.T) {
	if _, err := New(Options{Social: social.NewMemoryStore()}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing docs store: got %v", err)
	}
	if _, err := New(Options{Docs: store.NewMemory()}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing social store: got %v", err)
	}
}

func TestContentDefaultsWhenMissing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Content(ctx)
	if err != nil {
		t.Fatalf("Content error: %v", err)
	}
	if !doc.Equal(content.Default()) {
		t.Error("missing document should serve the built-in defaults")
	}
}

func TestSetValueAndGetValue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetValue(ctx, "hero.title", content.String("Hi there")); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	got, err := svc.GetValue(ctx, "hero.title")
	if err != nil {
		t.Fatalf("GetValue error: %v", err)
	}
	if v := got.Scalar(); v != "Hi there" {
		t.Errorf("value = %q", v)
	}

	if err := svc.SetValue(ctx, "", content.String("x")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("empty path should be INVALID_PATH, got %v", err)
	}
}

func TestContentCacheRoundTrip(t *testing.T) {
	svc, rc := newTestService(t)
	ctx := context.Background()

	if err := svc.SetValue(ctx, "about.body", content.String("words")); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}

	// First read fills the cache, second one hits it.
	if _, err := svc.Content(ctx); err != nil {
		t.Fatalf("Content error: %v", err)
	}
	if _, err := svc.Content(ctx); err != nil {
		t.Fatalf("Content error: %v", err)
	}
	if rc.hits == 0 {
		t.Error("second read should hit the cache")
	}

	// A write invalidates so the next read sees fresh data.
	if err := svc.SetValue(ctx, "about.body", content.String("new words")); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	got, err := svc.GetValue(ctx, "about.body")
	if err != nil {
		t.Fatalf("GetValue error: %v", err)
	}
	if v := got.Scalar(); v != "new words" {
		t.Errorf("stale read after write: %q", v)
	}
}

func TestDeleteValueFromList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.SetValue(ctx, "services.0", content.String("design"))
	svc.SetValue(ctx, "services.1", content.String("build"))
	svc.SetValue(ctx, "services.2", content.String("ship"))

	if err := svc.DeleteValue(ctx, "services.1"); err != nil {
		t.Fatalf("DeleteValue error: %v", err)
	}

	// Later elements shift down, no hole is left.
	list, err := svc.GetValue(ctx, "services")
	if err != nil {
		t.Fatalf("GetValue error: %v", err)
	}
	if list.Len() != 2 {
		t.Fatalf("len = %d, want 2", list.Len())
	}
	first, _ := list.Index(0)
	second, _ := list.Index(1)
	if first.Scalar() != "design" || second.Scalar() != "ship" {
		t.Errorf("list = [%q, %q]", first.Scalar(), second.Scalar())
	}
}

func TestDeleteValueFromMap(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.SetValue(ctx, "hero.title", content.String("Hi"))
	svc.SetValue(ctx, "hero.subtitle", content.String("there"))

	if err := svc.DeleteValue(ctx, "hero.subtitle"); err != nil {
		t.Fatalf("DeleteValue error: %v", err)
	}
	if _, err := svc.GetValue(ctx, "hero.subtitle"); !errors.Is(err, errors.ErrCodePathNotFound) {
		t.Errorf("deleted key should be PATH_NOT_FOUND, got %v", err)
	}
	if _, err := svc.GetValue(ctx, "hero.title"); err != nil {
		t.Errorf("sibling should survive: %v", err)
	}

	if err := svc.DeleteValue(ctx, "hero.missing"); !errors.Is(err, errors.ErrCodePathNotFound) {
		t.Errorf("missing key should be PATH_NOT_FOUND, got %v", err)
	}
}

func TestReplaceContentDropsStaleKeys(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.SetValue(ctx, "hero.title", content.String("Hi"))
	svc.SetValue(ctx, "legacy.field", content.String("old"))

	replacement := content.Map(map[string]content.Node{
		"hero": content.Map(map[string]content.Node{
			"title": content.String("New"),
		}),
	})
	if err := svc.ReplaceContent(ctx, replacement); err != nil {
		t.Fatalf("ReplaceContent error: %v", err)
	}

	if _, err := svc.GetValue(ctx, "legacy.field"); !errors.Is(err, errors.ErrCodePathNotFound) {
		t.Errorf("stale key should be gone, got %v", err)
	}
	got, err := svc.GetValue(ctx, "hero.title")
	if err != nil {
		t.Fatalf("GetValue error: %v", err)
	}
	if v := got.Scalar(); v != "New" {
		t.Errorf("title = %q", v)
	}

	if err := svc.ReplaceContent(ctx, content.String("nope")); !errors.Is(err, errors.ErrCodeInvalidValue) {
		t.Errorf("scalar replacement should be INVALID_VALUE, got %v", err)
	}
}

func TestStylesDefaultsAndSave(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	settings, err := svc.Styles(ctx)
	if err != nil {
		t.Fatalf("Styles error: %v", err)
	}
	if !settingsEqual(settings, styles.Default()) {
		t.Error("missing styles document should serve defaults")
	}

	if err := svc.SaveStyles(ctx, styles.Settings{"accent-color": "#ff0000"}); err != nil {
		t.Fatalf("SaveStyles error: %v", err)
	}
	settings, err = svc.Styles(ctx)
	if err != nil {
		t.Fatalf("Styles error: %v", err)
	}
	if settings["accent-color"] != "#ff0000" {
		t.Errorf("accent-color = %q", settings["accent-color"])
	}
	// Untouched defaults survive a partial save.
	if _, ok := settings["background-color"]; !ok {
		t.Error("defaults should merge under the saved patch")
	}

	if err := svc.SaveStyles(ctx, styles.Settings{"accent-color": "red"}); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("non-hex color should be INVALID_COLOR, got %v", err)
	}
}

func TestCSSCachesRendered(t *testing.T) {
	svc, rc := newTestService(t)
	ctx := context.Background()

	css, err := svc.CSS(ctx)
	if err != nil {
		t.Fatalf("CSS error: %v", err)
	}
	if css == "" {
		t.Fatal("CSS should render the default theme")
	}
	if _, err := svc.CSS(ctx); err != nil {
		t.Fatalf("CSS error: %v", err)
	}
	if rc.hits == 0 {
		t.Error("second render should come from cache")
	}

	// Saving styles invalidates, so the new value is rendered.
	if err := svc.SaveStyles(ctx, styles.Settings{"accent-color": "#123456"}); err != nil {
		t.Fatalf("SaveStyles error: %v", err)
	}
	css, err = svc.CSS(ctx)
	if err != nil {
		t.Fatalf("CSS error: %v", err)
	}
	if !strings.Contains(css, "#123456") {
		t.Errorf("stylesheet missing new color:\n%s", css)
	}
}

func TestSocialLinksThroughService(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.AddSocialLink(ctx, "GitHub", "https://github.com/someone", "github")
	if err != nil {
		t.Fatalf("AddSocialLink error: %v", err)
	}
	b, err := svc.AddSocialLink(ctx, "Email", "https://example.com/contact", "mail")
	if err != nil {
		t.Fatalf("AddSocialLink error: %v", err)
	}

	links, err := svc.SocialLinks(ctx)
	if err != nil {
		t.Fatalf("SocialLinks error: %v", err)
	}
	if len(links) != 2 || links[0].ID != a.ID {
		t.Fatalf("links = %+v", links)
	}

	if err := svc.ReorderSocialLinks(ctx, []string{b.ID, a.ID}); err != nil {
		t.Fatalf("ReorderSocialLinks error: %v", err)
	}
	links, _ = svc.SocialLinks(ctx)
	if links[0].ID != b.ID {
		t.Error("reorder should be visible on the next read")
	}

	if err := svc.RemoveSocialLink(ctx, a.ID); err != nil {
		t.Fatalf("RemoveSocialLink error: %v", err)
	}
	links, _ = svc.SocialLinks(ctx)
	if len(links) != 1 || links[0].ID != b.ID {
		t.Errorf("links after remove = %+v", links)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("Seed error: %v", err)
	}
	if err := svc.SetValue(ctx, "hero.title", content.String("customized")); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("second Seed error: %v", err)
	}

	got, err := svc.GetValue(ctx, "hero.title")
	if err != nil {
		t.Fatalf("GetValue error: %v", err)
	}
	if v := got.Scalar(); v != "customized" {
		t.Errorf("seed overwrote an existing document: %q", v)
	}
}

func settingsEqual(a, b styles.Settings) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func TestWatchContentDeliversWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, _ := newTestService(t)
	ch, err := svc.WatchContent(ctx)
	if err != nil {
		t.Fatalf("WatchContent error: %v", err)
	}

	if err := svc.SetValue(ctx, "hero.title", content.String("watched")); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}

	select {
	case doc := <-ch:
		hero, _ := doc.Child("hero")
		title, ok := hero.Child("title")
		if !ok || title.Scalar() != "watched" {
			t.Errorf("watch delivered wrong document: %v", doc)
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
