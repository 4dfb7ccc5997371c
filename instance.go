package tinyskema

import (
	"fmt"
	"iter"
	"sort"

	"github.com/reoring/tinyskema/source"
)

// State is the lifecycle of an Instance.
type State uint8

const (
	Constructed State = iota
	Validated
	Failed
)

func (s State) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case Validated:
		return "validated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Instance holds one member per declared field of its Type.
type Instance struct {
	typ      *Type
	members  map[string]Member
	consumed []string
	unknown  []string
	extra    map[string]any
	state    State
}

func (t *Type) construct(values map[string]any) *Instance {
	in := &Instance{typ: t, members: make(map[string]Member, len(t.fieldnames))}
	for _, name := range t.fieldnames {
		v, ok := values[name]
		if ok {
			in.consumed = append(in.consumed, name)
		}
		in.members[name] = t.defs[name].member(name, v)
	}
	return in
}

// Parse builds an instance from values, handling undeclared keys by policy.
func (t *Type) Parse(values map[string]any, policy UnknownPolicy) (*Instance, error) {
	var unknown []string
	for k := range values {
		if _, ok := t.defs[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	if policy == UnknownStrict && len(unknown) > 0 {
		return nil, fmt.Errorf("tinyskema: %s has no field %q", t.name, unknown[0])
	}
	in := t.construct(values)
	in.unknown = unknown
	if policy == UnknownPassthrough && len(unknown) > 0 {
		in.extra = make(map[string]any, len(unknown))
		for _, k := range unknown {
			in.extra[k] = values[k]
		}
	}
	return in, nil
}

// New builds an instance from trusted values; undeclared keys are an error.
// Missing keys are treated as absent.
func (t *Type) New(values map[string]any) (*Instance, error) {
	return t.Parse(values, UnknownStrict)
}

// MustNew is New that panics on error.
func (t *Type) MustNew(values map[string]any) *Instance {
	in, err := t.New(values)
	if err != nil {
		panic(err)
	}
	return in
}

// FromUntrusted builds an instance from an arbitrary mapping. It never
// fails: declared keys are picked, the rest are recorded as unknown.
func (t *Type) FromUntrusted(m map[string]any) *Instance {
	in, _ := t.Parse(m, UnknownStrip)
	return in
}

// FromJSON decodes a JSON object and builds an instance from it.
func (t *Type) FromJSON(data []byte) (*Instance, error) {
	m, err := source.JSON(data)
	if err != nil {
		return nil, err
	}
	return t.FromUntrusted(m), nil
}

// FromYAML decodes a YAML mapping and builds an instance from it.
func (t *Type) FromYAML(data []byte) (*Instance, error) {
	m, err := source.YAML(data)
	if err != nil {
		return nil, err
	}
	return t.FromUntrusted(m), nil
}

// Type returns the schema type.
func (in *Instance) Type() *Type { return in.typ }

// State returns the lifecycle state.
func (in *Instance) State() State { return in.state }

// Consumed returns the declared keys present in the input, in declaration
// order.
func (in *Instance) Consumed() []string { return append([]string(nil), in.consumed...) }

// Unknown returns the undeclared input keys, sorted.
func (in *Instance) Unknown() []string { return append([]string(nil), in.unknown...) }

// Extra returns undeclared values kept by UnknownPassthrough.
func (in *Instance) Extra() map[string]any { return in.extra }

// Get returns the member for name.
func (in *Instance) Get(name string) (Member, bool) {
	m, ok := in.members[name]
	return m, ok
}

// Field returns the named member when it is a plain field, else nil.
func (in *Instance) Field(name string) *Field {
	f, _ := in.members[name].(*Field)
	return f
}

// Container returns the named member when it is a container, else nil.
func (in *Instance) Container(name string) *Container {
	c, _ := in.members[name].(*Container)
	return c
}

// Collection returns the named member when it is a collection, else nil.
func (in *Instance) Collection(name string) *Collection {
	c, _ := in.members[name].(*Collection)
	return c
}

// Members returns the members in declaration order.
func (in *Instance) Members() []Member {
	out := make([]Member, len(in.typ.fieldnames))
	for i, name := range in.typ.fieldnames {
		out[i] = in.members[name]
	}
	return out
}

// All iterates the members in declaration order.
func (in *Instance) All() iter.Seq[Member] {
	return func(yield func(Member) bool) {
		for _, name := range in.typ.fieldnames {
			if !yield(in.members[name]) {
				return
			}
		}
	}
}

// Replace swaps in a member built elsewhere (for example a rebound Field).
// The name must be declared.
func (in *Instance) Replace(m Member) error {
	if _, ok := in.members[m.Name()]; !ok {
		return fmt.Errorf("tinyskema: %s has no field %q", in.typ.name, m.Name())
	}
	in.members[m.Name()] = m
	return nil
}

// Validate runs every member and returns the coerced record, or a *Failure
// keyed by field name. Members are renewed only when all of them succeed.
func (in *Instance) Validate(opts ...ValidateOpt) (*Record, error) {
	rec, errs := in.check(lastOpt(opts))
	if errs != nil {
		in.state = Failed
		return nil, &Failure{Errors: errs}
	}
	in.renew(rec)
	return rec, nil
}

// ValidateThen validates like Validate and passes the record to then before
// anything is renewed. An error from then leaves the members untouched and
// the instance Failed.
func (in *Instance) ValidateThen(opt ValidateOpt, then func(*Record) error) (*Record, error) {
	rec, errs := in.check(lastOpt([]ValidateOpt{opt}))
	if errs != nil {
		in.state = Failed
		return nil, &Failure{Errors: errs}
	}
	if then != nil {
		if err := then(rec); err != nil {
			in.state = Failed
			return nil, err
		}
	}
	in.renew(rec)
	return rec, nil
}

// check validates without renewing; errs is nil on success.
func (in *Instance) check(opt ValidateOpt) (*Record, Tree) {
	rec := newRecord(len(in.typ.fieldnames))
	errs := Tree{}
	for _, name := range in.typ.fieldnames {
		v, held, verr := in.members[name].check(opt)
		if verr != nil {
			if verr.Nested != nil {
				errs.node(name).merge(verr.Nested)
			} else {
				errs.Add(Path{{Name: name}}, verr.Render(opt.Translator))
			}
			if opt.FailFast {
				break
			}
			continue
		}
		rec.Set(name, v)
		if held {
			rec.hold(name)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

func (in *Instance) renew(rec *Record) {
	for _, name := range in.typ.fieldnames {
		if v, ok := rec.Lookup(name); ok && !rec.held[name] {
			in.members[name].renew(v)
		}
	}
	in.state = Validated
}
