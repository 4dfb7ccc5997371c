package tinyskema

import (
	"iter"

	"github.com/reoring/tinyskema/i18n"
)

// Container is a field whose value is one instance of a nested schema.
type Container struct {
	name       string
	schema     *Type
	inner      *Instance
	absent     bool
	malformed  bool
	raw        any
	convertors []Convertor
	options    Options
}

var _ Member = (*Container)(nil)

// newContainer adopts an *Instance of schema as-is and builds one from
// mappings through schema.FromUntrusted. Absent input yields an empty
// instance flagged absent; any other input is kept as malformed.
func newContainer(name string, schema *Type, value any, convs []Convertor, opts Options) *Container {
	c := &Container{name: name, schema: schema, raw: value, convertors: convs, options: opts}
	if in, ok := value.(*Instance); ok && in.typ == schema {
		c.inner = in
		return c
	}
	if IsAbsent(value) {
		c.absent = true
		c.inner = schema.construct(nil)
		return c
	}
	if m, ok := asMapping(value); ok {
		c.inner = schema.FromUntrusted(m)
		return c
	}
	c.malformed = true
	c.inner = schema.construct(nil)
	return c
}

func (c *Container) Name() string            { return c.name }
func (c *Container) Kind() Kind              { return KindObject }
func (c *Container) Value() any              { return c.inner }
func (c *Container) Raw() any                { return c.raw }
func (c *Container) Options() Options        { return c.options }
func (c *Container) Convertors() []Convertor { return append([]Convertor(nil), c.convertors...) }

// Schema returns the nested schema type.
func (c *Container) Schema() *Type { return c.schema }

// Instance returns the nested instance.
func (c *Container) Instance() *Instance { return c.inner }

// Absent reports whether no input was given for the container.
func (c *Container) Absent() bool { return c.absent }

// Lookup checks the nested instance's members first, then the container's
// own options, so presentation options the nested schema lacks (a CSS class)
// stay reachable.
func (c *Container) Lookup(key string) (any, bool) {
	if m, ok := c.inner.Get(key); ok {
		return m, true
	}
	return c.options.Get(key)
}

// Validate validates the nested instance and renews it on success.
func (c *Container) Validate(opts ...ValidateOpt) (any, error) {
	v, held, verr := c.check(lastOpt(opts))
	if verr != nil {
		return nil, verr
	}
	if !held {
		c.renew(v)
	}
	return v, nil
}

func (c *Container) check(opt ValidateOpt) (any, bool, *ValidationError) {
	if c.malformed {
		return nil, false, malformedError(c.name, c.raw, "object")
	}
	if c.absent {
		return runPipeline(c.name, nil, c.options, c.convertors)
	}
	rec, errs := c.inner.check(opt)
	if errs != nil {
		return nil, false, &ValidationError{Field: c.name, Cause: &Failure{Errors: errs}, Nested: &Node{Fields: errs}}
	}
	return runPipeline(c.name, rec, c.options, c.convertors)
}

func (c *Container) renew(v any) {
	if rec, ok := v.(*Record); ok && !c.absent {
		c.inner.renew(rec)
	}
}

// Collection is a field whose value is an ordered sequence of instances of a
// nested schema.
type Collection struct {
	name       string
	schema     *Type
	items      []*Instance
	raws       []any
	absent     bool
	malformed  bool
	raw        any
	convertors []Convertor
	options    Options
}

var _ Member = (*Collection)(nil)

// newCollection applies the Container wrap rule to each element
// independently. Elements that are neither instances nor mappings are kept
// as nil items and reported at their index.
func newCollection(name string, schema *Type, value any, convs []Convertor, opts Options) *Collection {
	c := &Collection{name: name, schema: schema, raw: value, convertors: convs, options: opts}
	if IsAbsent(value) {
		c.absent = true
		return c
	}
	seq, ok := value.([]*Instance)
	if ok {
		for _, in := range seq {
			c.appendElem(in)
		}
		return c
	}
	elems, ok := asSequence(value)
	if !ok {
		c.malformed = true
		return c
	}
	for _, e := range elems {
		c.appendElem(e)
	}
	return c
}

func (c *Collection) appendElem(e any) {
	c.raws = append(c.raws, e)
	if in, ok := e.(*Instance); ok && in != nil && in.typ == c.schema {
		c.items = append(c.items, in)
		return
	}
	if m, ok := asMapping(e); ok {
		c.items = append(c.items, c.schema.FromUntrusted(m))
		return
	}
	c.items = append(c.items, nil)
}

func (c *Collection) Name() string            { return c.name }
func (c *Collection) Kind() Kind              { return KindArray }
func (c *Collection) Value() any              { return c.Items() }
func (c *Collection) Raw() any                { return c.raw }
func (c *Collection) Options() Options        { return c.options }
func (c *Collection) Convertors() []Convertor { return append([]Convertor(nil), c.convertors...) }

// Schema returns the element schema type.
func (c *Collection) Schema() *Type { return c.schema }

// Len returns the number of elements fixed at construction.
func (c *Collection) Len() int { return len(c.items) }

// At returns element i; malformed elements are nil.
func (c *Collection) At(i int) *Instance { return c.items[i] }

// Items returns a copy of the element slice.
func (c *Collection) Items() []*Instance { return append([]*Instance(nil), c.items...) }

// All iterates elements in order.
func (c *Collection) All() iter.Seq2[int, *Instance] {
	return func(yield func(int, *Instance) bool) {
		for i, in := range c.items {
			if !yield(i, in) {
				return
			}
		}
	}
}

// Absent reports whether no input was given for the collection.
func (c *Collection) Absent() bool { return c.absent }

func (c *Collection) Lookup(key string) (any, bool) { return c.options.Get(key) }

// Validate validates every element and renews them on success. The value is
// a []*Record in element order.
func (c *Collection) Validate(opts ...ValidateOpt) (any, error) {
	v, held, verr := c.check(lastOpt(opts))
	if verr != nil {
		return nil, verr
	}
	if !held {
		c.renew(v)
	}
	return v, nil
}

// check validates every element. The error node lists items up to the last
// failing index; valid elements before it get empty nodes, later ones none.
func (c *Collection) check(opt ValidateOpt) (any, bool, *ValidationError) {
	if c.malformed {
		return nil, false, malformedError(c.name, c.raw, "array")
	}
	if c.absent {
		return runPipeline(c.name, nil, c.options, c.convertors)
	}
	recs := make([]*Record, len(c.items))
	nested := &Node{}
	for i, in := range c.items {
		if in == nil {
			msg := NewConvertError(CodeInvalidType, "value", c.raws[i], "type", "object").Msg()
			nested.item(i).Messages = append(nested.item(i).Messages, msg.Render(opt.Translator))
		} else if rec, errs := in.check(opt); errs != nil {
			nested.item(i).Fields = errs
		} else {
			recs[i] = rec
			continue
		}
		if opt.FailFast {
			break
		}
	}
	if len(nested.Items) > 0 {
		return nil, false, &ValidationError{Field: c.name, Cause: &Failure{Errors: Tree{"": nested}}, Nested: nested}
	}
	return runPipeline(c.name, recs, c.options, c.convertors)
}

func (c *Collection) renew(v any) {
	recs, ok := v.([]*Record)
	if !ok || len(recs) != len(c.items) {
		return
	}
	for i, in := range c.items {
		if in != nil && recs[i] != nil {
			in.renew(recs[i])
		}
	}
}

func malformedError(name string, raw any, typ string) *ValidationError {
	ce := NewConvertError(CodeInvalidType, "value", raw, "type", typ)
	msg := ce.Msg()
	return &ValidationError{Field: name, Cause: ce, Message: &msg}
}

// renderIn is the translator used when none is configured.
func renderIn(opt ValidateOpt) i18n.Translator {
	if opt.Translator == nil {
		return i18n.Default()
	}
	return opt.Translator
}
