package tinyskema

// Recognized option keys. Any other key is passed through untouched for
// downstream consumers (renderers, exporters).
const (
	OptRequired = "required"
	OptDefault  = "default"
	OptLabel    = "label"
	OptWidget   = "widget"
	OptType     = "type"
	OptChoices  = "choices"
)

// Options is the per-field options bag. It is mutable after construction and
// re-read on every validation.
type Options map[string]any

// Required reports the "required" option; absent or non-bool means true.
func (o Options) Required() bool {
	v, ok := o[OptRequired].(bool)
	if !ok {
		return true
	}
	return v
}

// SetRequired toggles the "required" option.
func (o Options) SetRequired(required bool) { o[OptRequired] = required }

// Default returns the "default" option.
func (o Options) Default() (any, bool) {
	v, ok := o[OptDefault]
	return v, ok
}

// Label returns the "label" option or "".
func (o Options) Label() string { return o.String(OptLabel) }

// Widget returns the "widget" option or "".
func (o Options) Widget() string { return o.String(OptWidget) }

// String returns the option key when it holds a string.
func (o Options) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Get returns the raw option value.
func (o Options) Get(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Merge returns a copy of o overlaid with other.
func (o Options) Merge(other Options) Options {
	out := o.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}
