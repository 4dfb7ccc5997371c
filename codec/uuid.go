package codec

import (
	"github.com/google/uuid"

	"github.com/reoring/tinyskema"
)

// UUID parses UUID strings in any form uuid.Parse accepts (hyphenated,
// braced or urn:uuid:) into uuid.UUID. uuid.UUID input passes through.
func UUID() tinyskema.Convertor {
	return tinyskema.ConvertorFunc(func(v any, _ tinyskema.Options) tinyskema.Outcome {
		switch t := v.(type) {
		case uuid.UUID:
			return tinyskema.Continue(t)
		case string:
			id, err := uuid.Parse(t)
			if err != nil {
				ce := tinyskema.NewConvertError(CodeInvalidFormat, "value", t, "format", "uuid")
				ce.Err = err
				return tinyskema.Fail(ce)
			}
			return tinyskema.Continue(id)
		}
		return tinyskema.Fail(tinyskema.NewConvertError(tinyskema.CodeInvalidType, "value", v, "type", "uuid"))
	})
}

// FormatUUID renders uuid.UUID values in canonical hyphenated form.
func FormatUUID() tinyskema.Convertor {
	return tinyskema.Transform(func(v any) (any, error) {
		if id, ok := v.(uuid.UUID); ok {
			return id.String(), nil
		}
		return v, nil
	})
}

// ID declares a UUID field. With FormatUUID appended the validated value is
// the canonical string instead of uuid.UUID.
func ID(convs ...tinyskema.Convertor) *tinyskema.Def {
	return tinyskema.Atom(append([]tinyskema.Convertor{UUID()}, convs...)...).
		Option(tinyskema.OptType, "string").
		Option("format", "uuid")
}
