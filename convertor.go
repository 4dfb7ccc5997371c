package tinyskema

type outcomeKind uint8

const (
	outcomeContinue outcomeKind = iota
	outcomeBreak
	outcomeFail
)

// Outcome is the result of one pipeline step: continue with a value, stop the
// pipeline with a final value, or fail.
type Outcome struct {
	kind  outcomeKind
	value any
	err   error
}

// Continue passes v to the next convertor.
func Continue(v any) Outcome { return Outcome{kind: outcomeContinue, value: v} }

// Break ends the pipeline with v as the final value.
func Break(v any) Outcome { return Outcome{kind: outcomeBreak, value: v} }

// Fail ends the pipeline with err.
func Fail(err error) Outcome { return Outcome{kind: outcomeFail, err: err} }

// Value returns the carried value (nil for failures).
func (o Outcome) Value() any { return o.value }

// Err returns the failure (nil otherwise).
func (o Outcome) Err() error { return o.err }

// IsBreak reports whether the pipeline stops with a value.
func (o Outcome) IsBreak() bool { return o.kind == outcomeBreak }

// IsFailed reports whether the step failed.
func (o Outcome) IsFailed() bool { return o.kind == outcomeFail }

// Convertor is one pipeline step. Implementations must not keep state
// between calls; everything they need comes from their declaration-time
// parameters and opts.
type Convertor interface {
	Convert(v any, opts Options) Outcome
}

// ConvertorFunc adapts a function to Convertor.
type ConvertorFunc func(v any, opts Options) Outcome

func (f ConvertorFunc) Convert(v any, opts Options) Outcome { return f(v, opts) }

// Transform adapts a (value, error) function to Convertor.
func Transform(fn func(v any) (any, error)) Convertor {
	return ConvertorFunc(func(v any, _ Options) Outcome {
		out, err := fn(v)
		if err != nil {
			return Fail(err)
		}
		return Continue(out)
	})
}

// Run applies convs in order to v.
func Run(v any, opts Options, convs []Convertor) (any, error) {
	out, _, verr := runPipeline("", v, opts, convs)
	if verr != nil {
		return nil, verr.Cause
	}
	return out, nil
}

// runPipeline applies convs to v. held reports that a Break ended the
// pipeline; the member then keeps its input instead of the break value, so
// validating again breaks to the same value.
func runPipeline(name string, v any, opts Options, convs []Convertor) (out any, held bool, verr *ValidationError) {
	if opts == nil {
		opts = Options{}
	}
	for _, c := range convs {
		o := c.Convert(v, opts)
		switch o.kind {
		case outcomeBreak:
			return o.value, true, nil
		case outcomeFail:
			return nil, false, wrapError(name, o.err)
		}
		v = o.value
	}
	return v, false, nil
}
