package tinyskema

// Member is the per-instance holder of one declared field: a *Field,
// *Container or *Collection.
type Member interface {
	Name() string
	Kind() Kind
	// Value returns the current value: the raw input until the owning
	// instance validates, the coerced value afterwards. Defaults of absent
	// optional fields are not stored.
	Value() any
	// Raw returns the input given at construction.
	Raw() any
	Options() Options
	Convertors() []Convertor
	// Lookup resolves key for renderers: nested members first (containers),
	// then the options bag.
	Lookup(key string) (any, bool)

	// check validates without renewing. held reports a value produced by a
	// Break, which renewal must not store.
	check(opt ValidateOpt) (v any, held bool, verr *ValidationError)
	renew(v any)
}

// Field is a named value with its convertor pipeline and options.
type Field struct {
	name       string
	value      any
	raw        any
	convertors []Convertor
	options    Options
}

var _ Member = (*Field)(nil)

// NewField builds a standalone field. Schemas create fields through Def.
func NewField(name string, value any, convs []Convertor, opts Options) *Field {
	if opts == nil {
		opts = Options{}
	}
	return &Field{name: name, value: value, raw: value, convertors: convs, options: opts}
}

func (f *Field) Name() string            { return f.name }
func (f *Field) Kind() Kind              { return KindAtom }
func (f *Field) Value() any              { return f.value }
func (f *Field) Raw() any                { return f.raw }
func (f *Field) Options() Options        { return f.options }
func (f *Field) Convertors() []Convertor { return append([]Convertor(nil), f.convertors...) }

// Label returns the "label" option.
func (f *Field) Label() string { return f.options.Label() }

// Widget returns the "widget" option.
func (f *Field) Widget() string { return f.options.Widget() }

func (f *Field) Lookup(key string) (any, bool) { return f.options.Get(key) }

// Bind returns a copy of the field with convs appended to its pipeline.
func (f *Field) Bind(convs ...Convertor) *Field {
	out := *f
	out.convertors = append(f.Convertors(), convs...)
	out.options = f.options.Clone()
	return &out
}

// WithOptions returns a copy of the field with opts merged into its options.
func (f *Field) WithOptions(opts Options) *Field {
	out := *f
	out.convertors = f.Convertors()
	out.options = f.options.Merge(opts)
	return &out
}

// Validate runs the pipeline and, on success, renews the stored value. A
// value produced by a Break (an absent optional field's default) is returned
// but not stored.
func (f *Field) Validate() (any, error) {
	v, held, verr := f.check(ValidateOpt{})
	if verr != nil {
		return nil, verr
	}
	if !held {
		f.renew(v)
	}
	return v, nil
}

func (f *Field) check(ValidateOpt) (any, bool, *ValidationError) {
	return runPipeline(f.name, f.value, f.options, f.convertors)
}

func (f *Field) renew(v any) { f.value = v }
