package mapper

import (
	"fmt"

	"github.com/reoring/tinyskema"
)

// Kinds of ChoiceFamily. The kind also becomes the widget option of the
// built field.
const (
	KindSelect      = "select"
	KindMultiSelect = "multiselect"
	KindRadio       = "radio"
	KindCheckbox    = "checkbox"
)

// ChoiceParams is the parameter schema of choice fields: a description used
// as label, the choices as [[value, label], ...] and an optional required
// flag (false by default).
var ChoiceParams = tinyskema.MustBuild("ChoiceParams",
	tinyskema.Col("description", tinyskema.Text()),
	tinyskema.Col("choices", tinyskema.Choices()),
	tinyskema.Col("required", tinyskema.Boolean().Required(false).Default(false)),
)

// ChoiceField returns the transformer of one choice kind. Single-value kinds
// accept one of the choice values; multiselect and checkbox accept any
// subset of them.
func ChoiceField(kind string) Transformer {
	multiple := kind == KindMultiSelect || kind == KindCheckbox
	return func(name string, _ *tinyskema.Instance, rec *tinyskema.Record) (*tinyskema.Def, error) {
		choices, ok := rec.Get("choices").([]tinyskema.Choice)
		if !ok {
			return nil, fmt.Errorf("mapper: %s has no choices", name)
		}
		values := tinyskema.ChoiceValues(choices)
		member := tinyskema.OneOf(values...)
		if multiple {
			member = tinyskema.ContainsOnly(values...)
		}
		required, _ := rec.Get("required").(bool)
		label, _ := rec.Get("description").(string)
		return tinyskema.Atom(member).
			Label(label).
			Widget(kind).
			Option(tinyskema.OptChoices, choices).
			Required(required), nil
	}
}

// ChoiceFamily returns a family mapping the select, multiselect, radio and
// checkbox kinds.
func ChoiceFamily(opts ...Option) *Family {
	f := NewFamily(opts...)
	for _, kind := range []string{KindSelect, KindMultiSelect, KindRadio, KindCheckbox} {
		f.Add(kind, NewMapper(ChoiceParams, ChoiceField(kind)))
	}
	return f
}
