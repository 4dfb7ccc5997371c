// Package codec holds convertors translating between wire strings and Go
// domain values.
package codec

import (
	"time"

	"github.com/reoring/tinyskema"
)

// CodeInvalidFormat is reported when a string does not parse in the expected
// layout.
const CodeInvalidFormat = "invalid_format"

// TimeRFC3339 parses RFC3339 strings (fractional seconds optional) into
// time.Time. time.Time input passes through.
func TimeRFC3339() tinyskema.Convertor {
	return tinyskema.ConvertorFunc(func(v any, _ tinyskema.Options) tinyskema.Outcome {
		switch t := v.(type) {
		case time.Time:
			return tinyskema.Continue(t)
		case string:
			parsed, err := parseRFC3339(t)
			if err != nil {
				ce := tinyskema.NewConvertError(CodeInvalidFormat, "value", t, "format", "RFC3339")
				ce.Err = err
				return tinyskema.Fail(ce)
			}
			return tinyskema.Continue(parsed)
		}
		return tinyskema.Fail(tinyskema.NewConvertError(tinyskema.CodeInvalidType, "value", v, "type", "time"))
	})
}

// Layout parses strings in a time.Parse layout, in loc (UTC when nil).
func Layout(layout string, loc *time.Location) tinyskema.Convertor {
	if loc == nil {
		loc = time.UTC
	}
	return tinyskema.ConvertorFunc(func(v any, _ tinyskema.Options) tinyskema.Outcome {
		switch t := v.(type) {
		case time.Time:
			return tinyskema.Continue(t)
		case string:
			parsed, err := time.ParseInLocation(layout, t, loc)
			if err != nil {
				ce := tinyskema.NewConvertError(CodeInvalidFormat, "value", t, "format", layout)
				ce.Err = err
				return tinyskema.Fail(ce)
			}
			return tinyskema.Continue(parsed)
		}
		return tinyskema.Fail(tinyskema.NewConvertError(tinyskema.CodeInvalidType, "value", v, "type", "time"))
	})
}

// FormatRFC3339 renders time.Time values in canonical RFC3339 (UTC,
// trailing zeros trimmed). Other values pass through.
func FormatRFC3339() tinyskema.Convertor {
	return tinyskema.Transform(func(v any) (any, error) {
		if t, ok := v.(time.Time); ok {
			return formatRFC3339Canonical(t), nil
		}
		return v, nil
	})
}

// DateTime declares an RFC3339 timestamp field.
func DateTime(convs ...tinyskema.Convertor) *tinyskema.Def {
	return tinyskema.Atom(append([]tinyskema.Convertor{TimeRFC3339()}, convs...)...).
		Option(tinyskema.OptType, "string").
		Option("format", "date-time")
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
