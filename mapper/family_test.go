package mapper_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	ts "github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/mapper"
	"github.com/reoring/tinyskema/validation"
)

var choices = []any{[]any{"0", "good"}, []any{"1", "so-so"}, []any{"2", "bad"}}

func demoEntries() []mapper.Entry {
	return []mapper.Entry{
		{Name: "foo", Kind: "select", Values: map[string]any{"required": true, "choices": choices, "description": "--"}},
		{Name: "bar", Kind: "radio", Values: map[string]any{"required": false, "choices": choices, "description": "--"}},
		{Name: "boo", Kind: "checkbox", Values: map[string]any{"choices": choices, "description": "--"}},
	}
}

func TestChoiceFamily_Build(t *testing.T) {
	s, err := mapper.ChoiceFamily().Build("S", demoEntries())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff([]string{"foo", "bar", "boo"}, s.Fieldnames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	def, _ := s.Def("bar")
	opts := def.Options()
	if opts.Widget() != "radio" || opts.Label() != "--" || opts.Required() {
		t.Fatalf("unexpected options %v", opts)
	}
	wantChoices := []ts.Choice{{Value: "0", Label: "good"}, {Value: "1", Label: "so-so"}, {Value: "2", Label: "bad"}}
	if diff := cmp.Diff(wantChoices, opts[ts.OptChoices]); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}

	// foo is required
	_, err = s.MustNew(nil).Validate()
	f, ok := ts.AsFailure(err)
	if !ok || !cmp.Equal(f.Errors.Messages(ts.PathOf("foo")), []string{"required"}) {
		t.Fatalf("expected foo required, got %v", err)
	}

	_, err = s.MustNew(map[string]any{"foo": "10"}).Validate()
	f, ok = ts.AsFailure(err)
	if !ok || !cmp.Equal(f.Errors.Messages(ts.PathOf("foo")), []string{"10 is not in 0, 1, 2"}) {
		t.Fatalf("expected invalid_enum on foo, got %v", err)
	}

	rec, err := s.MustNew(map[string]any{"foo": "0", "boo": []any{"1", "2"}}).Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"foo": "0", "bar": nil, "boo": []any{"1", "2"}}
	if diff := cmp.Diff(want, rec.Map()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFamily_AggregatesEntryFailures(t *testing.T) {
	entries := []mapper.Entry{
		{Name: "foo", Kind: "select", Values: map[string]any{"choices": choices}},
		{Name: "bar", Kind: "slider", Values: map[string]any{}},
		{Name: "ok", Kind: "radio", Values: map[string]any{"choices": choices, "description": "fine"}},
	}
	_, err := mapper.ChoiceFamily().Build("S", entries)
	f, ok := ts.AsFailure(err)
	if !ok {
		t.Fatalf("expected failure, got %v", err)
	}
	want := map[string][]string{
		"/foo/description": {"required"},
		"/bar":             {"unknown kind slider"},
	}
	if diff := cmp.Diff(want, f.Errors.Flatten()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestFamily_CustomMapperAndAggregate(t *testing.T) {
	params := ts.MustBuild("IntParams", ts.Col("min", ts.Integer()), ts.Col("max", ts.Integer()))
	var aggregated string
	f := mapper.NewFamily(mapper.WithAggregate(func(name string, cols ...ts.Column) (*ts.Type, error) {
		aggregated = name
		return ts.Build(name, cols...)
	}))
	f.Add("int", mapper.NewMapper(params, func(_ string, _ *ts.Instance, rec *ts.Record) (*ts.Def, error) {
		return ts.Integer(ts.Range(float64(rec.Get("min").(int)), float64(rec.Get("max").(int)))), nil
	}))
	if diff := cmp.Diff([]string{"int"}, f.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch: %s", diff)
	}

	s, err := f.Build("Age", []mapper.Entry{{Name: "age", Kind: "int", Values: map[string]any{"min": "0", "max": "150"}}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if aggregated != "Age" {
		t.Fatalf("custom aggregate not used")
	}
	_, err = s.MustNew(map[string]any{"age": "200"}).Validate()
	fail, ok := ts.AsFailure(err)
	if !ok || !cmp.Equal(fail.Errors.Messages(ts.PathOf("age")), []string{"200 is larger than 150"}) {
		t.Fatalf("unexpected result %v", err)
	}
}

const surveyYAML = `
name: Survey
fields:
  - name: first
    type: select
    values:
      description: First choice
      choices: [[a, A], [b, B], [c, C]]
      required: true
  - name: second
    type: select
    values:
      description: Second choice
      choices: [[a, A], [b, B], [c, C]]
rules:
  - rule: distinct
    fields: [first, second]
    msg: pick two different answers
`

func TestConfig_Compile(t *testing.T) {
	cfg, err := mapper.LoadConfig([]byte(surveyYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, obj, err := cfg.Compile(mapper.ChoiceFamily(), validation.NewRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if s.Name() != "Survey" {
		t.Fatalf("name = %q", s.Name())
	}

	if _, err := obj.Validate(s.FromUntrusted(map[string]any{"first": "a", "second": "b"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = obj.Validate(s.FromUntrusted(map[string]any{"first": "a", "second": "a"}))
	f, ok := ts.AsFailure(err)
	if !ok || !cmp.Equal(f.Errors.Messages(ts.PathOf("second")), []string{"pick two different answers"}) {
		t.Fatalf("expected distinct failure, got %v", err)
	}
}

func TestConfig_Errors(t *testing.T) {
	if _, err := mapper.LoadConfig([]byte("fields: []")); err == nil {
		t.Fatalf("config without name should fail")
	}
	cfg := &mapper.Config{Name: "S", Rules: []mapper.Rule{{Rule: "equals", Fields: []string{"a", "b"}}}}
	if _, _, err := cfg.Compile(mapper.ChoiceFamily(), validation.NewRegistry()); err == nil {
		t.Fatalf("rules over undeclared fields should fail")
	}
}
