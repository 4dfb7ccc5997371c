// Package tinyskema provides:
//
// - Declarative record schemas built from ordered field definitions (Def)
// - Convertor pipelines that coerce and validate untrusted values per field
// - Container/Collection fields composing nested schemas
// - A path-addressed error tree (Failure) covering nested containers and
//   indexed collections
//
// Design policy:
//   - Keep the public model in the root package; the cross-field orchestrator
//     lives in validation/, the runtime schema factory in mapper/, input
//     decoding in source/, message catalogs in i18n/, schema export in
//     jsonschema/, ready-made rules in rules/, extra field kinds in codec/
//     and HTTP binding in middleware/.
//   - Field order is declaration order, captured by a sequence number assigned
//     when each Def is created.
//   - Messages stay translatable until a Failure is assembled; the translator
//     is passed through ValidateOpt.
//
// Typical usage:
//
//	point := tinyskema.MustBuild("Point",
//		tinyskema.Col("x", tinyskema.PositiveInteger()),
//		tinyskema.Col("y", tinyskema.PositiveInteger()),
//		tinyskema.Col("z", tinyskema.PositiveInteger().Required(false)),
//	)
//	rec, err := point.FromUntrusted(map[string]any{"x": "10", "y": "20"}).Validate()
//	if f, ok := tinyskema.AsFailure(err); ok {
//		_ = f.Errors.Flatten() // {"/x": [...], ...}
//	}
package tinyskema
