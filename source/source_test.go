package source_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/tinyskema/source"
)

func TestJSON_KeepsNumbers(t *testing.T) {
	m, err := source.JSON([]byte(`{"x": 10, "y": "20", "ps": [{"x": 1.5}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, ok := m["x"].(interface{ Int64() (int64, error) })
	if !ok {
		t.Fatalf("expected a number literal, got %T", m["x"])
	}
	if i, err := n.Int64(); err != nil || i != 10 {
		t.Fatalf("expected 10, got %v (%v)", i, err)
	}
	ps, ok := m["ps"].([]any)
	if !ok || len(ps) != 1 {
		t.Fatalf("expected one element list, got %#v", m["ps"])
	}
	if _, ok := ps[0].(map[string]any); !ok {
		t.Fatalf("expected nested mapping, got %T", ps[0])
	}
}

func TestJSON_Errors(t *testing.T) {
	if _, err := source.JSON([]byte(`[1,2]`)); !errors.Is(err, source.ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
	if _, err := source.JSON([]byte(`{"x":`)); err == nil {
		t.Fatalf("expected syntax error")
	}
	if _, err := source.JSON([]byte(`{} {}`)); err == nil {
		t.Fatalf("expected trailing data error")
	}
}

func TestYAML_Normalizes(t *testing.T) {
	m, err := source.YAML([]byte("l:\n  x: \"10\"\n  y: 20\nps:\n  - x: 1\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"l":  map[string]any{"x": "10", "y": 20},
		"ps": []any{map[string]any{"x": 1}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
	if _, err := source.YAML([]byte("- a\n- b\n")); !errors.Is(err, source.ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
}

func TestNormalize_NonStringKeys(t *testing.T) {
	got := source.Normalize(map[any]any{1: "a", "b": []any{map[any]any{"c": true}}})
	want := map[string]any{"1": "a", "b": []any{map[string]any{"c": true}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestForm(t *testing.T) {
	got := source.Form(map[string][]string{
		"x":    {"10"},
		"tags": {"a", "b"},
		"none": {},
	})
	want := map[string]any{"x": "10", "tags": []any{"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestKeys(t *testing.T) {
	doc := []byte(`
name: Survey
fields:
  second: {type: select}
  first: {type: select}
`)
	got, err := source.Keys(doc, "fields")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if diff := cmp.Diff([]string{"second", "first"}, got); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if got, _ := source.Keys(doc); len(got) != 2 || got[0] != "name" {
		t.Fatalf("root keys = %v", got)
	}
	if got, _ := source.Keys(doc, "name"); got != nil {
		t.Fatalf("scalar has no keys, got %v", got)
	}
	if got, _ := source.Keys([]byte(`{"b": 1, "a": 2}`)); len(got) != 2 || got[0] != "b" {
		t.Fatalf("json keys = %v", got)
	}
	if _, err := source.Keys([]byte("a: [")); err == nil {
		t.Fatalf("broken yaml should fail")
	}
}
