package validation

import (
	"fmt"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/i18n"
)

// Invalid is returned by validator functions to report a failure. Msg is a
// message code or free text; it is rendered through the translator with
// Params. Position, when set, overrides where the message is recorded
// (relative to the record the validator reads).
type Invalid struct {
	Msg      string
	Params   map[string]any
	Position tinyskema.Path
}

// Invalidf builds an Invalid from a message and key/value params.
func Invalidf(msg string, kv ...any) *Invalid {
	return &Invalid{Msg: msg, Params: params(kv)}
}

// At sets the position of the failure.
func (e *Invalid) At(parts ...any) *Invalid {
	e.Position = tinyskema.PathOf(parts...)
	return e
}

func (e *Invalid) Error() string { return i18n.Interpolate(e.Msg, e.Params) }

func (e *Invalid) detail() *Invalid { return e }

// Interrupt is an Invalid that also stops every remaining validator.
type Interrupt struct {
	Invalid
}

// Interruptf builds an Interrupt from a message and key/value params.
func Interruptf(msg string, kv ...any) *Interrupt {
	return &Interrupt{Invalid: Invalid{Msg: msg, Params: params(kv)}}
}

// At sets the position of the failure.
func (e *Interrupt) At(parts ...any) *Interrupt {
	e.Position = tinyskema.PathOf(parts...)
	return e
}

func (e *Interrupt) Error() string { return "interrupted: " + e.Invalid.Error() }

func (e *Interrupt) detail() *Invalid { return &e.Invalid }

type detailed interface{ detail() *Invalid }

func params(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return m
}
