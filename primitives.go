package tinyskema

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Built-in convertors. The stateless ones are comparable values so callers
// can look them up in a pipeline.
var (
	RequireValue Convertor = requireValue{}
	ParseInt     Convertor = parseInt{}
	ParseFloat   Convertor = parseFloat{}
	ParseBool    Convertor = parseBool{}
	ParseText    Convertor = parseText{}
	ParseChoices Convertor = parseChoices{}
	NonNegative  Convertor = nonNegative{}
)

// IsAbsent reports whether v counts as missing input: nil or the empty string.
func IsAbsent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

func invalidType(v any, typ string) Outcome {
	return Fail(NewConvertError(CodeInvalidType, "value", v, "type", typ))
}

type requireValue struct{}

// Convert fails with "required" when v is absent and the field is required;
// an absent optional field short-circuits to its default (or nil).
func (requireValue) Convert(v any, opts Options) Outcome {
	if !IsAbsent(v) {
		return Continue(v)
	}
	if opts.Required() {
		return Fail(NewConvertError(CodeRequired))
	}
	if d, ok := opts.Default(); ok {
		return Break(d)
	}
	return Break(nil)
}

type parseInt struct{}

func (parseInt) Convert(v any, _ Options) Outcome {
	switch t := v.(type) {
	case int:
		return Continue(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return invalidType(v, "int")
		}
		return Continue(n)
	case bool:
		return invalidType(v, "int")
	case interface{ Int64() (int64, error) }:
		if n, err := t.Int64(); err == nil && n >= math.MinInt && n <= math.MaxInt {
			return Continue(int(n))
		}
		return invalidType(v, "int")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt || n > math.MaxInt {
			return invalidType(v, "int")
		}
		return Continue(int(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n > math.MaxInt {
			return invalidType(v, "int")
		}
		return Continue(int(n))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt || f >= -math.MinInt {
			return invalidType(v, "int")
		}
		return Continue(int(f))
	}
	return invalidType(v, "int")
}

type parseFloat struct{}

func (parseFloat) Convert(v any, _ Options) Outcome {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return invalidType(v, "float")
		}
		return Continue(f)
	}
	if f, ok := toFloat(v); ok {
		return Continue(f)
	}
	return invalidType(v, "float")
}

type parseBool struct{}

func (parseBool) Convert(v any, _ Options) Outcome {
	switch t := v.(type) {
	case bool:
		return Continue(t)
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "on", "yes", "y":
			return Continue(true)
		case "off", "no", "n":
			return Continue(false)
		}
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return invalidType(v, "bool")
		}
		return Continue(b)
	}
	if f, ok := toFloat(v); ok {
		switch f {
		case 0:
			return Continue(false)
		case 1:
			return Continue(true)
		}
	}
	return invalidType(v, "bool")
}

type parseText struct{}

func (parseText) Convert(v any, _ Options) Outcome {
	switch t := v.(type) {
	case string:
		return Continue(t)
	case []byte:
		return Continue(string(t))
	case fmt.Stringer:
		return Continue(t.String())
	case bool:
		return Continue(strconv.FormatBool(t))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return Continue(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Continue(fmt.Sprint(v))
	}
	return invalidType(v, "text")
}

type nonNegative struct{}

func (nonNegative) Convert(v any, _ Options) Outcome {
	f, ok := toFloat(v)
	if !ok {
		return invalidType(v, "number")
	}
	if f < 0 {
		return Fail(NewConvertError(CodeNegative, "value", v))
	}
	return Continue(v)
}

type oneOf struct{ choices []any }

// OneOf accepts values equal to one of choices.
func OneOf[T any](choices ...T) Convertor {
	cs := make([]any, len(choices))
	for i, c := range choices {
		cs[i] = c
	}
	return oneOf{choices: cs}
}

func (c oneOf) Convert(v any, _ Options) Outcome {
	for _, choice := range c.choices {
		if equalValues(v, choice) {
			return Continue(v)
		}
	}
	return Fail(NewConvertError(CodeInvalidEnum, "value", v, "choices", c.choices))
}

type containsOnly struct{ choices []any }

// ContainsOnly accepts sequences whose every element is one of choices. A
// single scalar is treated as a one-element sequence.
func ContainsOnly[T any](choices ...T) Convertor {
	cs := make([]any, len(choices))
	for i, c := range choices {
		cs[i] = c
	}
	return containsOnly{choices: cs}
}

func (c containsOnly) Convert(v any, _ Options) Outcome {
	seq, ok := asSequence(v)
	if !ok {
		if _, isMap := asMapping(v); isMap {
			return invalidType(v, "list")
		}
		seq = []any{v}
	}
	for _, elem := range seq {
		found := false
		for _, choice := range c.choices {
			if equalValues(elem, choice) {
				found = true
				break
			}
		}
		if !found {
			return Fail(NewConvertError(CodeNotSubset, "value", seq, "choices", c.choices))
		}
	}
	return Continue(seq)
}

type rangeCheck struct{ min, max float64 }

// Range bounds numeric values to [min, max]. Use math.Inf for an open side.
func Range(min, max float64) Convertor { return rangeCheck{min: min, max: max} }

func (r rangeCheck) Convert(v any, _ Options) Outcome {
	f, ok := toFloat(v)
	if !ok {
		return invalidType(v, "number")
	}
	if f < r.min {
		return Fail(NewConvertError(CodeTooSmall, "value", v, "min", r.min))
	}
	if f > r.max {
		return Fail(NewConvertError(CodeTooBig, "value", v, "max", r.max))
	}
	return Continue(v)
}

type lengthCheck struct{ min, max int }

// Length bounds the length of strings (in runes), slices and maps. A max of
// zero leaves the upper side open.
func Length(min, max int) Convertor { return lengthCheck{min: min, max: max} }

func (l lengthCheck) Convert(v any, _ Options) Outcome {
	n, ok := sizeOf(v)
	if !ok {
		return invalidType(v, "sized")
	}
	if n < l.min {
		return Fail(NewConvertError(CodeTooShort, "value", v, "min", l.min, "length", n))
	}
	if l.max > 0 && n > l.max {
		return Fail(NewConvertError(CodeTooLong, "value", v, "max", l.max, "length", n))
	}
	return Continue(v)
}

type regexCheck struct{ rx *regexp.Regexp }

// Regex accepts strings matching pattern at their start. It panics when
// pattern does not compile, like regexp.MustCompile.
func Regex(pattern string) Convertor { return RegexOf(regexp.MustCompile(pattern)) }

// RegexOf is Regex for an already compiled expression.
func RegexOf(rx *regexp.Regexp) Convertor { return regexCheck{rx: rx} }

func (r regexCheck) Convert(v any, _ Options) Outcome {
	s, ok := v.(string)
	if !ok {
		return invalidType(v, "text")
	}
	loc := r.rx.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return Fail(NewConvertError(CodePattern, "value", v, "pattern", r.rx.String()))
	}
	return Continue(v)
}

const (
	emailPattern = "(?i)^[A-Z0-9._%!#$&'*+\\-/=?^_`{|}~()]+@[A-Z0-9]+([.-][A-Z0-9]+)*\\.[A-Z]{2,22}$"
	urlPattern   = `(?i)^((?:[a-z][\w-]+:(?:/{1,3}|[a-z0-9%])|www\d{0,3}[.]|[a-z0-9.\-]+[.][a-z]{2,4}/)(?:[^\s()<>]+|\(([^\s()<>]+|(\([^\s()<>]+\)))*\))+(?:\(([^\s()<>]+|(\([^\s()<>]+\)))*\)|[^\s` + "`" + `!()\[\]{};:'".,<>?«»“”‘’]))`
)

// EMail and URL are Regex convertors for common formats.
var (
	EMail = Regex(emailPattern)
	URL   = Regex(urlPattern)
)

type anyOf struct{ convs []Convertor }

// AnyOf tries convs in order and takes the first that does not fail. When
// all fail, the first failure is reported.
func AnyOf(convs ...Convertor) Convertor { return anyOf{convs: convs} }

func (a anyOf) Convert(v any, opts Options) Outcome {
	var first Outcome
	for i, c := range a.convs {
		out := c.Convert(v, opts)
		if !out.IsFailed() {
			return out
		}
		if i == 0 {
			first = out
		}
	}
	if len(a.convs) == 0 {
		return Continue(v)
	}
	return first
}

// Choice is one (value, label) option of a choice list.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type parseChoices struct{}

// Convert normalizes [[value, label], ...], [value, ...] or {value: label}
// into []Choice.
func (parseChoices) Convert(v any, _ Options) Outcome {
	if cs, ok := v.([]Choice); ok {
		return Continue(cs)
	}
	if m, ok := asMapping(v); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Choice, 0, len(keys))
		for _, k := range keys {
			out = append(out, Choice{Value: k, Label: fmt.Sprint(m[k])})
		}
		return Continue(out)
	}
	seq, ok := asSequence(v)
	if !ok {
		return invalidType(v, "choices")
	}
	out := make([]Choice, 0, len(seq))
	for _, elem := range seq {
		if c, ok := elem.(Choice); ok {
			out = append(out, c)
			continue
		}
		if pair, ok := asSequence(elem); ok {
			if len(pair) != 2 {
				return invalidType(v, "choices")
			}
			out = append(out, Choice{Value: fmt.Sprint(pair[0]), Label: fmt.Sprint(pair[1])})
			continue
		}
		if _, isMap := asMapping(elem); isMap || elem == nil {
			return invalidType(v, "choices")
		}
		s := fmt.Sprint(elem)
		out = append(out, Choice{Value: s, Label: s})
	}
	return Continue(out)
}

// ChoiceValues returns the values of cs, in order.
func ChoiceValues(cs []Choice) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Value
	}
	return out
}
