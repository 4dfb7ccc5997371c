// Package mapper builds schema types at runtime from declarative field
// descriptions.
//
// A Mapper validates the parameters of one field description against a
// parameter schema and turns them into a *tinyskema.Def. A Family groups
// mappers by kind name and assembles a whole Type from a list of entries,
// typically loaded from YAML or JSON configuration.
package mapper

import (
	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/i18n"
)

// Transformer turns validated field parameters into a field definition.
// inst is the parameter instance (for option lookups), rec its validated
// record.
type Transformer func(name string, inst *tinyskema.Instance, rec *tinyskema.Record) (*tinyskema.Def, error)

// Mapper validates field parameters against a schema and transforms them
// into a Def.
type Mapper struct {
	schema    *tinyskema.Type
	transform Transformer
}

// NewMapper returns a Mapper validating parameters with schema.
func NewMapper(schema *tinyskema.Type, transform Transformer) *Mapper {
	return &Mapper{schema: schema, transform: transform}
}

// Schema returns the parameter schema.
func (m *Mapper) Schema() *tinyskema.Type { return m.schema }

// Map validates params and builds the field definition for name. Parameter
// failures are returned as a *tinyskema.Failure keyed by parameter name.
func (m *Mapper) Map(name string, params map[string]any) (*tinyskema.Def, error) {
	return m.mapWith(name, params, i18n.Default())
}

func (m *Mapper) mapWith(name string, params map[string]any, tr i18n.Translator) (*tinyskema.Def, error) {
	inst := m.schema.FromUntrusted(params)
	rec, err := inst.Validate(tinyskema.ValidateOpt{Translator: tr})
	if err != nil {
		return nil, err
	}
	return m.transform(name, inst, rec)
}
