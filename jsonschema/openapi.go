package jsonschema

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/reoring/tinyskema"
)

// OpenAPI projects t onto an OpenAPI 3 schema object, with the same mapping
// as FromType, for embedding in API documents built with kin-openapi.
func OpenAPI(t *tinyskema.Type) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.Title = t.Name()
	s.Required = t.Required()
	s.Properties = make(openapi3.Schemas, t.Len())
	for _, c := range t.Columns() {
		s.Properties[c.Name] = openapi3.NewSchemaRef("", openAPIProperty(c.Def))
	}
	return s
}

func openAPIProperty(d *tinyskema.Def) *openapi3.Schema {
	var out *openapi3.Schema
	switch d.Kind() {
	case tinyskema.KindObject:
		sub, _ := d.Subschema()
		out = OpenAPI(sub)
	case tinyskema.KindArray:
		sub, _ := d.Subschema()
		out = openapi3.NewArraySchema().WithItems(OpenAPI(sub))
	default:
		p := property(d)
		out = &openapi3.Schema{
			Type:        &openapi3.Types{p.Type},
			Format:      p.Format,
			Description: p.Description,
			Default:     p.Default,
			Enum:        p.Enum,
		}
	}
	// absent optional fields validate to null
	out.Nullable = !d.Options().Required()
	return out
}
