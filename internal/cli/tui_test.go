package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skovert/folio/pkg/content"
)

func sampleTree() content.Node {
	return content.Map(map[string]content.Node{
		"hero": content.Map(map[string]content.Node{
			"title":    content.String("Hi"),
			"subtitle": content.String("there"),
		}),
		"services": content.List([]content.Node{
			content.String("design"),
			content.String("build"),
		}),
	})
}

func TestFlattenRows(t *testing.T) {
	rows := flattenRows(sampleTree())

	var paths []string
	for _, r := range rows {
		paths = append(paths, r.path.String())
	}
	want := []string{"hero", "hero.subtitle", "hero.title", "services", "services.0", "services.1"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths = %v, want %v", paths, want)
		}
	}

	// Containers carry no value, leaves do.
	if rows[0].kind != content.KindMap || rows[0].value != "" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[2].kind != content.KindString || rows[2].value != "Hi" {
		t.Errorf("rows[2] = %+v", rows[2])
	}
	if rows[4].depth != 1 {
		t.Errorf("list element depth = %d, want 1", rows[4].depth)
	}
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{}
}

func apply(m EditorModel, msgs ...tea.Msg) EditorModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(EditorModel)
	}
	return m
}

func TestEditorDeleteListElementShifts(t *testing.T) {
	m := NewEditorModel(sampleTree())

	// Move to services.0 and delete it.
	m = apply(m, key("down"), key("down"), key("down"), key("down"))
	if row, _ := m.currentRow(); row.path.String() != "services.0" {
		t.Fatalf("cursor on %s", row.path.String())
	}
	m = apply(m, key("d"))

	services, err := content.Get(m.Tree(), content.MustParsePath("services"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if services.Len() != 1 {
		t.Fatalf("len = %d, want 1", services.Len())
	}
	item, _ := services.Index(0)
	if v := item.Scalar(); v != "build" {
		t.Errorf("remaining element = %q", v)
	}
	if !m.dirty {
		t.Error("delete should mark the editor dirty")
	}
}

func TestEditorEditValue(t *testing.T) {
	m := NewEditorModel(sampleTree())

	// hero.subtitle is the second row.
	m = apply(m, key("down"), key("enter"))
	if m.mode != modeEditValue {
		t.Fatalf("mode = %d, want edit", m.mode)
	}

	// Type a replacement value and commit.
	m.input.SetValue("welcome")
	m = apply(m, key("enter"))

	got, err := content.Get(m.Tree(), content.MustParsePath("hero.subtitle"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v := got.Scalar(); v != "welcome" {
		t.Errorf("subtitle = %q", v)
	}
}

func TestEditorAddMapKey(t *testing.T) {
	m := NewEditorModel(sampleTree())

	// Cursor starts on the hero container.
	m = apply(m, key("a"))
	if m.mode != modeAddKey {
		t.Fatalf("mode = %d, want add-key", m.mode)
	}
	m.input.SetValue("cta")
	m = apply(m, key("enter"))
	if m.mode != modeAddValue {
		t.Fatalf("mode = %d, want add-value", m.mode)
	}
	m.input.SetValue("Get in touch")
	m = apply(m, key("enter"))

	got, err := content.Get(m.Tree(), content.MustParsePath("hero.cta"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v := got.Scalar(); v != "Get in touch" {
		t.Errorf("cta = %q", v)
	}
}

func TestEditorAppendListElement(t *testing.T) {
	m := NewEditorModel(sampleTree())

	// services container is the fourth row.
	m = apply(m, key("down"), key("down"), key("down"))
	if row, _ := m.currentRow(); row.path.String() != "services" {
		t.Fatalf("cursor on %s", row.path.String())
	}
	m = apply(m, key("a"))

	services, _ := content.Get(m.Tree(), content.MustParsePath("services"))
	if services.Len() != 3 {
		t.Fatalf("len = %d, want 3", services.Len())
	}
}

func TestEditorSaveFlag(t *testing.T) {
	m := NewEditorModel(sampleTree())
	m = apply(m, key("s"))
	if !m.Save {
		t.Error("'s' should set the save flag")
	}

	m = NewEditorModel(sampleTree())
	m = apply(m, key("q"))
	if m.Save {
		t.Error("'q' should not set the save flag")
	}
}

func TestParseValueArg(t *testing.T) {
	if v := parseValueArg("plain words").Scalar(); v != "plain words" {
		t.Errorf("plain string = %q", v)
	}
	if parseValueArg(`["a", "b"]`).Kind() != content.KindList {
		t.Error("JSON list should parse as a list")
	}
	if parseValueArg(`{"k": "v"}`).Kind() != content.KindMap {
		t.Error("JSON object should parse as a map")
	}
	// Bare numbers are valid JSON and coerce to scalar strings.
	if v := parseValueArg("42").Scalar(); v != "42" {
		t.Errorf("number = %q", v)
	}
}
