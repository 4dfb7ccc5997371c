package jsonschema_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	j "github.com/goccy/go-json"

	ts "github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/jsonschema"
)

func TestOpenAPI(t *testing.T) {
	s := jsonschema.OpenAPI(plot)
	if err := s.Validate(context.Background()); err != nil {
		t.Fatalf("exported schema is invalid: %v", err)
	}
	ps := s.Properties["ps"].Value
	if !ps.Type.Is(openapi3.TypeArray) || ps.Items.Value.Title != "Point" {
		t.Fatalf("unexpected ps schema %+v", ps)
	}
	x := ps.Items.Value.Properties["x"].Value
	if !x.Type.Is(openapi3.TypeInteger) {
		t.Fatalf("x should be an integer, got %v", x.Type)
	}
}

func TestOpenAPI_AcceptsValidatedRecords(t *testing.T) {
	rec, err := plot.FromUntrusted(map[string]any{
		"ps": []any{map[string]any{"x": "1", "y": 2}},
	}).Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	data, err := j.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc any
	if err := j.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s := jsonschema.OpenAPI(plot)
	if err := s.VisitJSON(doc); err != nil {
		t.Fatalf("validated record should satisfy its schema: %v", err)
	}
	if err := s.VisitJSON(map[string]any{"ps": []any{map[string]any{"x": "one"}}}); err == nil {
		t.Fatalf("raw input with a string x and no y should not satisfy the schema")
	}
}

func TestOpenAPI_Enum(t *testing.T) {
	s := ts.MustBuild("Signal",
		ts.Col("color", ts.Text().Option(ts.OptChoices, []ts.Choice{{Value: "red"}, {Value: "blue"}})),
	)
	color := jsonschema.OpenAPI(s).Properties["color"].Value
	if err := color.VisitJSON("red"); err != nil {
		t.Fatalf("red is a choice: %v", err)
	}
	if err := color.VisitJSON("green"); err == nil {
		t.Fatalf("green is not a choice")
	}
}
