// Package jsonschema projects tinyskema types onto JSON Schema documents.
package jsonschema

import (
	j "github.com/goccy/go-json"

	"github.com/reoring/tinyskema"
)

// OptFormat is the option key read as the JSON Schema "format" of an atom.
const OptFormat = "format"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}

// FromType projects t as an object schema titled with the type name.
// Atoms use their "type" option ("string" when unset), containers nest the
// sub-schema and collections become arrays of it.
func FromType(t *tinyskema.Type) *Schema {
	s := &Schema{
		Title:      t.Name(),
		Type:       "object",
		Required:   t.Required(),
		Properties: make(map[string]*Schema, t.Len()),
	}
	for _, c := range t.Columns() {
		s.Properties[c.Name] = property(c.Def)
	}
	return s
}

func property(d *tinyskema.Def) *Schema {
	switch d.Kind() {
	case tinyskema.KindObject:
		sub, _ := d.Subschema()
		return FromType(sub)
	case tinyskema.KindArray:
		sub, _ := d.Subschema()
		return &Schema{Type: "array", Items: FromType(sub)}
	}
	opts := d.Options()
	p := &Schema{Type: opts.String(tinyskema.OptType), Format: opts.String(OptFormat), Description: opts.Label()}
	if p.Type == "" {
		p.Type = "string"
	}
	if v, ok := opts.Default(); ok && v != nil {
		p.Default = v
	}
	if cs, ok := opts[tinyskema.OptChoices].([]tinyskema.Choice); ok {
		for _, v := range tinyskema.ChoiceValues(cs) {
			p.Enum = append(p.Enum, v)
		}
	}
	return p
}

// Marshal encodes the schema of t as JSON.
func Marshal(t *tinyskema.Type) ([]byte, error) {
	return j.Marshal(FromType(t))
}
