package tinyskema_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	j "github.com/goccy/go-json"

	ts "github.com/reoring/tinyskema"
)

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   any
		want any
		err  string
	}{
		{in: 12, want: 12},
		{in: " 7 ", want: 7},
		{in: int64(9), want: 9},
		{in: uint8(4), want: 4},
		{in: 3.0, want: 3},
		{in: j.Number("5"), want: 5},
		{in: 3.5, err: "3.5 is not int"},
		{in: "aa", err: "aa is not int"},
		{in: true, err: "true is not int"},
	}
	for _, tc := range cases {
		got, err := ts.Run(tc.in, nil, []ts.Convertor{ts.ParseInt})
		if tc.err != "" {
			if err == nil || err.Error() != tc.err {
				t.Fatalf("ParseInt(%v) error = %v, want %q", tc.in, err, tc.err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseInt(%v) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	// float64(MaxInt64) rounds up to 2^63, one past the largest int
	if got, err := ts.Run(float64(math.MaxInt64), nil, []ts.Convertor{ts.ParseInt}); err == nil {
		t.Fatalf("ParseInt(2^63) should overflow, got %v", got)
	}
	if got, err := ts.Run(float64(math.MinInt64), nil, []ts.Convertor{ts.ParseInt}); err != nil || got != math.MinInt64 {
		t.Fatalf("ParseInt(-2^63) = %v, %v", got, err)
	}
}

func TestParseBoolAndText(t *testing.T) {
	for in, want := range map[any]bool{"on": true, "No": false, "true": true, 0: false, 1: true} {
		got, err := ts.Run(in, nil, []ts.Convertor{ts.ParseBool})
		if err != nil || got != want {
			t.Fatalf("ParseBool(%v) = %v, %v", in, got, err)
		}
	}
	if _, err := ts.Run(2, nil, []ts.Convertor{ts.ParseBool}); err == nil {
		t.Fatalf("2 is not a bool")
	}
	if got, _ := ts.Run(42, nil, []ts.Convertor{ts.ParseText}); got != "42" {
		t.Fatalf("ParseText(42) = %v", got)
	}
	if _, err := ts.Run(map[string]any{}, nil, []ts.Convertor{ts.ParseText}); err == nil {
		t.Fatalf("mappings are not text")
	}
}

func TestRequireValue(t *testing.T) {
	convs := ts.Integer().Convertors()

	_, err := ts.Run("", nil, convs)
	var ce *ts.ConvertError
	if !errors.As(err, &ce) || ce.Code != ts.CodeRequired {
		t.Fatalf("empty required value: %v", err)
	}

	got, err := ts.Run(nil, ts.Options{ts.OptRequired: false, ts.OptDefault: 3}, convs)
	if err != nil || got != 3 {
		t.Fatalf("optional default = %v, %v", got, err)
	}
	got, err = ts.Run(nil, ts.Options{ts.OptRequired: false}, convs)
	if err != nil || got != nil {
		t.Fatalf("optional without default = %v, %v", got, err)
	}
}

func TestBoundsAndPatterns(t *testing.T) {
	cases := []struct {
		name string
		conv ts.Convertor
		in   any
		err  string
	}{
		{"range ok", ts.Range(0, 10), 10, ""},
		{"range low", ts.Range(0, 10), -1, "-1 is smaller than 0"},
		{"range high", ts.Range(0, 10), 10.5, "10.5 is larger than 10"},
		{"range open", ts.Range(math.Inf(-1), 0), -1e9, ""},
		{"negative", ts.NonNegative, -2, "-2 is negative"},
		{"length ok", ts.Length(2, 3), "日本語", ""},
		{"too short", ts.Length(2, 0), "a", "a is shorter than 2"},
		{"too long", ts.Length(0, 1), []any{1, 2}, "1, 2 is longer than 1"},
		{"regex anchored at start", ts.Regex("ab"), "abc", ""},
		{"regex not at start", ts.Regex("ab"), "xab", "xab does not match ab"},
		{"email", ts.EMail, "gopher@example.com", ""},
		{"email bad", ts.EMail, "gopher@", "gopher@ does not match " + `(?i)^[A-Z0-9._%!#$&'*+\-/=?^_` + "`" + `{|}~()]+@[A-Z0-9]+([.-][A-Z0-9]+)*\.[A-Z]{2,22}$`},
		{"url", ts.URL, "https://example.com/a", ""},
		{"one of", ts.OneOf("a", "b"), "b", ""},
		{"one of numbers", ts.OneOf(1, 2), 2.0, ""},
		{"not one of", ts.OneOf("a", "b"), "c", "c is not in a, b"},
		{"subset", ts.ContainsOnly("a", "b"), []any{"b", "a"}, ""},
		{"not subset", ts.ContainsOnly("a"), []any{"a", "z"}, "a, z is not a subset of a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ts.Run(tc.in, nil, []ts.Convertor{tc.conv})
			if tc.err == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.err {
				t.Fatalf("error = %v, want %q", err, tc.err)
			}
		})
	}
}

func TestContainsOnlyWrapsScalars(t *testing.T) {
	got, err := ts.Run("a", nil, []ts.Convertor{ts.ContainsOnly("a", "b")})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if diff := cmp.Diff([]any{"a"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAnyOf(t *testing.T) {
	conv := ts.AnyOf(ts.ParseInt, ts.ParseBool)
	if got, _ := ts.Run("yes", nil, []ts.Convertor{conv}); got != true {
		t.Fatalf("AnyOf should fall through to ParseBool, got %v", got)
	}
	if _, err := ts.Run("maybe", nil, []ts.Convertor{conv}); err == nil || err.Error() != "maybe is not int" {
		t.Fatalf("AnyOf reports the first failure, got %v", err)
	}
}

func TestParseChoices(t *testing.T) {
	want := []ts.Choice{{Value: "a", Label: "A"}, {Value: "b", Label: "b"}}
	got, err := ts.Run([]any{[]any{"a", "A"}, "b"}, nil, []ts.Convertor{ts.ParseChoices})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	got, _ = ts.Run(map[string]any{"b": "B", "a": "A"}, nil, []ts.Convertor{ts.ParseChoices})
	if diff := cmp.Diff([]ts.Choice{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}, got); diff != "" {
		t.Fatalf("mapping choices are sorted by value (-want +got):\n%s", diff)
	}
	if _, err := ts.Run([]any{[]any{"a"}}, nil, []ts.Convertor{ts.ParseChoices}); err == nil {
		t.Fatalf("pairs need two elements")
	}
}

func TestBreakStopsPipeline(t *testing.T) {
	called := false
	convs := []ts.Convertor{
		ts.ConvertorFunc(func(v any, _ ts.Options) ts.Outcome { return ts.Break("done") }),
		ts.Transform(func(v any) (any, error) { called = true; return v, nil }),
	}
	got, err := ts.Run("x", nil, convs)
	if err != nil || got != "done" || called {
		t.Fatalf("Break should end the pipeline: %v %v %v", got, err, called)
	}
}
