// Package validation composes cross-field validators on top of schema
// validation.
//
// An Object first validates the instance against its schema; when that
// succeeds it runs its validators over the resulting record in creation
// order. A validator whose fields are absent is skipped. Failures are added
// to a tinyskema.Tree at the validator's position, so errors raised inside
// Container and Collection validators land at [outer, ...] and
// [outer, index, ...].
//
//	limit := func(v any) error {
//		if v.(int) > 100 {
//			return validation.Invalidf("too large")
//		}
//		return nil
//	}
//	obj := validation.New(
//		validation.Multi([]string{"x", "z"}, equal, validation.Msg("not equal")),
//		validation.Share(limit, validation.OnSingle("x"), validation.OnSingle("y")),
//	)
//	rec, err := obj.Validate(inst)
package validation
