package tinyskema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	ts "github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/i18n"
)

var point = ts.MustBuild("Point",
	ts.Col("x", ts.PositiveInteger()),
	ts.Col("y", ts.PositiveInteger()),
	ts.Col("z", ts.PositiveInteger().Required(false).Default(0)),
)

var settings = ts.MustBuild("Settings",
	ts.Col("size", ts.Integer(ts.Range(5, 50)).Required(false).Default(0)),
	ts.Col("flag", ts.Boolean().Required(false).Default("yes")),
	ts.Col("origin", ts.ContainerOf(point).Required(false)),
	ts.Col("points", ts.CollectionOf(point)),
)

func flatten(t *testing.T, err error) map[string][]string {
	t.Helper()
	f, ok := ts.AsFailure(err)
	if !ok {
		t.Fatalf("expected *Failure, got %v", err)
	}
	return f.Errors.Flatten()
}

func TestInstance_Validate(t *testing.T) {
	in := point.MustNew(map[string]any{"x": "1", "y": 2})
	if in.State() != ts.Constructed {
		t.Fatalf("state = %v", in.State())
	}
	rec, err := in.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := map[string]any{"x": 1, "y": 2, "z": 0}
	if diff := cmp.Diff(want, rec.Map()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if in.State() != ts.Validated || in.Field("x").Value() != 1 || in.Field("x").Raw() != "1" {
		t.Fatalf("instance should be renewed: %v %v", in.State(), in.Field("x").Value())
	}
	if diff := cmp.Diff([]string{"x", "y"}, in.Consumed()); diff != "" {
		t.Fatalf("consumed mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_ErrorsAreIsolated(t *testing.T) {
	in := point.MustNew(map[string]any{"x": "aa"})
	_, err := in.Validate()
	want := map[string][]string{"/x": {"aa is not int"}, "/y": {"required"}}
	if diff := cmp.Diff(want, flatten(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if in.State() != ts.Failed {
		t.Fatalf("state = %v", in.State())
	}
}

func TestInstance_NoPartialRenewal(t *testing.T) {
	in := point.MustNew(map[string]any{"x": "1", "y": "bad"})
	if _, err := in.Validate(); err == nil {
		t.Fatalf("expected failure")
	}
	if in.Field("x").Value() != "1" {
		t.Fatalf("valid fields keep their raw value when the instance fails, got %v", in.Field("x").Value())
	}
}

func TestInstance_FailFast(t *testing.T) {
	_, err := point.MustNew(map[string]any{"x": "aa", "y": "bb"}).Validate(ts.ValidateOpt{FailFast: true})
	want := map[string][]string{"/x": {"aa is not int"}}
	if diff := cmp.Diff(want, flatten(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_Translator(t *testing.T) {
	_, err := point.MustNew(map[string]any{"x": -1, "y": 1}).Validate(ts.ValidateOpt{Translator: i18n.New("ja")})
	want := map[string][]string{"/x": {"-1 は0より小さいです"}}
	if diff := cmp.Diff(want, flatten(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownPolicies(t *testing.T) {
	values := map[string]any{"x": 1, "y": 2, "w": 3, "a": 4}

	if _, err := point.New(values); err == nil || err.Error() != `tinyskema: Point has no field "a"` {
		t.Fatalf("New should reject undeclared keys, got %v", err)
	}

	in := point.FromUntrusted(values)
	if diff := cmp.Diff([]string{"a", "w"}, in.Unknown()); diff != "" {
		t.Fatalf("unknown mismatch (-want +got):\n%s", diff)
	}
	if in.Extra() != nil {
		t.Fatalf("strip drops undeclared values")
	}

	in, err := point.Parse(values, ts.UnknownPassthrough)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"w": 3, "a": 4}, in.Extra()); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}
	if ts.UnknownPassthrough.String() != "passthrough" {
		t.Fatalf("policy name = %s", ts.UnknownPassthrough)
	}
}

func TestInstance_FromJSONAndYAML(t *testing.T) {
	in, err := point.FromJSON([]byte(`{"x": 3, "y": 4, "extra": true}`))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	rec, err := in.Validate()
	if err != nil || rec.Get("x") != 3 {
		t.Fatalf("validate = %v, %v", rec, err)
	}

	in, err = point.FromYAML([]byte("x: 5\ny: \"6\"\n"))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	rec, err = in.Validate()
	if err != nil || rec.Get("y") != 6 {
		t.Fatalf("validate = %v, %v", rec, err)
	}

	if _, err := point.FromJSON([]byte(`[1, 2]`)); err == nil {
		t.Fatalf("non-object JSON should fail")
	}
}

func TestInstance_Replace(t *testing.T) {
	in := point.MustNew(map[string]any{"x": 20, "y": 1})
	if err := in.Replace(in.Field("x").Bind(ts.Range(0, 10))); err != nil {
		t.Fatalf("replace: %v", err)
	}
	_, err := in.Validate()
	want := map[string][]string{"/x": {"20 is larger than 10"}}
	if diff := cmp.Diff(want, flatten(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if err := in.Replace(ts.NewField("nope", 1, nil, nil)); err == nil {
		t.Fatalf("undeclared member should be rejected")
	}
	var names []string
	for m := range in.All() {
		names = append(names, m.Name())
	}
	if diff := cmp.Diff([]string{"x", "y", "z"}, names); diff != "" {
		t.Fatalf("member order mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_ValidateTwice(t *testing.T) {
	in := settings.FromUntrusted(map[string]any{
		"points": []any{map[string]any{"x": "1", "y": 2}},
	})
	want := map[string]any{
		"size":   0,
		"flag":   "yes",
		"origin": nil,
		"points": []any{map[string]any{"x": 1, "y": 2, "z": 0}},
	}
	for i := 0; i < 2; i++ {
		rec, err := in.Validate()
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if diff := cmp.Diff(want, rec.Map()); diff != "" {
			t.Fatalf("run %d: record mismatch (-want +got):\n%s", i, diff)
		}
	}
	if v := in.Field("size").Value(); v != nil {
		t.Fatalf("defaults should not be stored, size = %v", v)
	}
	el := in.Collection("points").At(0)
	if el.Field("x").Value() != 1 || el.Field("z").Value() != nil {
		t.Fatalf("element renewal: x = %v, z = %v", el.Field("x").Value(), el.Field("z").Value())
	}
}

func TestInstance_ValidateThen(t *testing.T) {
	in := point.MustNew(map[string]any{"x": "1", "y": "2"})
	refuse := errors.New("refused")
	_, err := in.ValidateThen(ts.ValidateOpt{}, func(rec *ts.Record) error {
		if rec.Get("x") != 1 {
			t.Fatalf("then should see the coerced record, got %v", rec.Map())
		}
		return refuse
	})
	if !errors.Is(err, refuse) {
		t.Fatalf("err = %v", err)
	}
	if in.State() != ts.Failed || in.Field("x").Value() != "1" {
		t.Fatalf("rejected record should not be renewed: %v %v", in.State(), in.Field("x").Value())
	}
	if _, err := in.ValidateThen(ts.ValidateOpt{}, nil); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if in.State() != ts.Validated || in.Field("x").Value() != 1 {
		t.Fatalf("accepted record should be renewed: %v %v", in.State(), in.Field("x").Value())
	}
}
