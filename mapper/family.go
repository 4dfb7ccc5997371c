package mapper

import (
	"sort"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/i18n"
	"github.com/reoring/tinyskema/logging"
)

// Aggregate assembles the mapped columns into a Type.
type Aggregate func(name string, cols ...tinyskema.Column) (*tinyskema.Type, error)

// Family maps entries of different kinds and aggregates them into a Type.
type Family struct {
	mappers    map[string]*Mapper
	aggregate  Aggregate
	logger     logging.Logger
	translator i18n.Translator
}

// Option configures a Family.
type Option func(*Family)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(f *Family) { f.logger = logging.OrNoOp(l) }
}

// WithAggregate replaces tinyskema.Build as the aggregation step.
func WithAggregate(a Aggregate) Option {
	return func(f *Family) {
		if a != nil {
			f.aggregate = a
		}
	}
}

// WithTranslator sets the translator used for entry failures.
func WithTranslator(tr i18n.Translator) Option {
	return func(f *Family) {
		if tr != nil {
			f.translator = tr
		}
	}
}

// NewFamily returns an empty family.
func NewFamily(opts ...Option) *Family {
	f := &Family{
		mappers:    map[string]*Mapper{},
		aggregate:  tinyskema.Build,
		logger:     logging.NoOp(),
		translator: i18n.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Add registers m under kind, replacing any previous mapper.
func (f *Family) Add(kind string, m *Mapper) {
	f.mappers[kind] = m
}

// Mapper returns the mapper registered for kind.
func (f *Family) Mapper(kind string) (*Mapper, bool) {
	m, ok := f.mappers[kind]
	return m, ok
}

// Kinds returns the registered kinds, sorted.
func (f *Family) Kinds() []string {
	out := make([]string, 0, len(f.mappers))
	for k := range f.mappers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build maps every entry and aggregates the results, in entry order, into a
// Type named root. Failures of all entries are collected into one
// *tinyskema.Failure keyed by entry name; an entry of an unregistered kind
// fails with tinyskema.CodeUnknownKind.
func (f *Family) Build(root string, entries []Entry) (*tinyskema.Type, error) {
	errs := tinyskema.Tree{}
	cols := make([]tinyskema.Column, 0, len(entries))
	for _, e := range entries {
		at := tinyskema.PathOf(e.Name)
		m, ok := f.mappers[e.Kind]
		if !ok {
			errs.Add(at, f.translator.Message(tinyskema.CodeUnknownKind, map[string]any{"kind": e.Kind}))
			f.logger.Warn("unknown field kind", "schema", root, "field", e.Name, "kind", e.Kind)
			continue
		}
		def, err := m.mapWith(e.Name, e.Values, f.translator)
		if err != nil {
			if fail, ok := tinyskema.AsFailure(err); ok {
				errs.Merge(tinyskema.Tree{e.Name: {Fields: fail.Errors}})
			} else {
				errs.Add(at, err.Error())
			}
			f.logger.Debug("field mapping failed", "schema", root, "field", e.Name, "error", err)
			continue
		}
		cols = append(cols, tinyskema.Col(e.Name, def))
	}
	if err := tinyskema.NewFailure(errs); err != nil {
		return nil, err
	}
	t, err := f.aggregate(root, cols...)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("schema built", "schema", root, "fields", t.Fieldnames())
	return t, nil
}
