package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/go-cmp/cmp"
	j "github.com/goccy/go-json"

	ts "github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/mapper"
	"github.com/reoring/tinyskema/validation"
)

// scripted answers prompts by message.
func scripted(t *testing.T, answers map[string]any) asker {
	return func(p survey.Prompt, response any, _ ...survey.AskOpt) error {
		var msg string
		switch q := p.(type) {
		case *survey.Select:
			msg = q.Message
		case *survey.MultiSelect:
			msg = q.Message
		case *survey.Input:
			msg = q.Message
		default:
			t.Fatalf("unexpected prompt %T", p)
		}
		ans, ok := answers[msg]
		if !ok {
			return nil
		}
		switch r := response.(type) {
		case *string:
			*r = ans.(string)
		case *[]string:
			*r = ans.([]string)
		}
		return nil
	}
}

func TestPromptFor(t *testing.T) {
	cfg, err := mapper.LoadConfig([]byte(surveyYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	typ, _, err := cfg.Compile(mapper.ChoiceFamily(), validation.NewRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	in := typ.FromUntrusted(nil)

	first, ok := promptFor(in.Field("first")).(*survey.Select)
	if !ok || first.Message != "First" {
		t.Fatalf("first should be a select, got %#v", first)
	}
	if diff := cmp.Diff([]string{"a", "b"}, first.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if first.Description("b", 1) != "B" {
		t.Fatalf("description should show the choice label")
	}

	second := promptFor(in.Field("second")).(*survey.Select)
	if diff := cmp.Diff([]string{"", "a", "b"}, second.Options); diff != "" {
		t.Fatalf("optional selects can stay empty (-want +got):\n%s", diff)
	}
	if second.Description("a", 1) != "A" {
		t.Fatalf("labels stay aligned with options")
	}

	free := ts.NewField("age", nil, ts.Integer().Convertors(), ts.Options{ts.OptLabel: "Age"})
	if p, ok := promptFor(free).(*survey.Input); !ok || p.Message != "Age" {
		t.Fatalf("fields without choices get an input, got %#v", p)
	}
	if err := fieldValidator(free)("aa"); err == nil || err.Error() != "aa is not int" {
		t.Fatalf("validator error = %v", err)
	}
}

func TestPromptCmd(t *testing.T) {
	cfg := writeConfig(t)
	run := func(answers map[string]any) (map[string]any, error) {
		var out bytes.Buffer
		cmd := newRootCmd(scripted(t, answers))
		cmd.SetArgs([]string{"prompt", "-c", cfg})
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		err := cmd.Execute()
		var got map[string]any
		if out.Len() > 0 {
			if jerr := j.Unmarshal(out.Bytes(), &got); jerr != nil {
				t.Fatalf("stdout is not JSON: %q", out.String())
			}
		}
		return got, err
	}

	got, err := run(map[string]any{"First": "a", "Second": "b"})
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"first": "a", "second": "b"}, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	got, err = run(map[string]any{"First": "b", "Second": "b"})
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	want := map[string]any{"errors": map[string]any{"second": []any{"pick two different answers"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	got, err = run(map[string]any{})
	if !errors.Is(err, errInvalid) || got["errors"].(map[string]any)["first"] == nil {
		t.Fatalf("unanswered required field should fail: %v %v", got, err)
	}
}
