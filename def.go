package tinyskema

import "sync/atomic"

// Kind classifies a field definition for introspection.
type Kind uint8

const (
	KindAtom   Kind = iota // plain Field
	KindObject             // Container of a nested schema
	KindArray              // Collection of a nested schema
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// declaration order across every Def in the process
var defSeq atomic.Uint64

// Def is a field definition: a kind, its convertor pipeline and options. Each
// Def receives a sequence number when it is created; schemas order their
// fields by it.
type Def struct {
	kind       Kind
	schema     *Type
	convertors []Convertor
	options    Options
	seq        uint64
}

func newDef(kind Kind, schema *Type, convs []Convertor) *Def {
	pipeline := make([]Convertor, 0, len(convs)+1)
	pipeline = append(pipeline, RequireValue)
	pipeline = append(pipeline, convs...)
	return &Def{kind: kind, schema: schema, convertors: pipeline, options: Options{}, seq: defSeq.Add(1)}
}

// Atom declares an untyped field running RequireValue followed by convs.
func Atom(convs ...Convertor) *Def { return newDef(KindAtom, nil, convs) }

// Integer declares an int field.
func Integer(convs ...Convertor) *Def {
	return newDef(KindAtom, nil, append([]Convertor{ParseInt}, convs...)).Option(OptType, "integer")
}

// PositiveInteger declares an int field rejecting negative values.
func PositiveInteger(convs ...Convertor) *Def {
	return newDef(KindAtom, nil, append([]Convertor{ParseInt, NonNegative}, convs...)).Option(OptType, "integer")
}

// Float declares a float64 field.
func Float(convs ...Convertor) *Def {
	return newDef(KindAtom, nil, append([]Convertor{ParseFloat}, convs...)).Option(OptType, "number")
}

// Boolean declares a bool field.
func Boolean(convs ...Convertor) *Def {
	return newDef(KindAtom, nil, append([]Convertor{ParseBool}, convs...)).Option(OptType, "boolean")
}

// Text declares a string field.
func Text(convs ...Convertor) *Def {
	return newDef(KindAtom, nil, append([]Convertor{ParseText}, convs...)).Option(OptType, "string")
}

// Choices declares a choice-list field producing []Choice.
func Choices(convs ...Convertor) *Def {
	return newDef(KindAtom, nil, append([]Convertor{ParseChoices}, convs...)).Option(OptType, "array")
}

// ContainerOf declares a field holding one instance of t. convs run on the
// nested validated record.
func ContainerOf(t *Type, convs ...Convertor) *Def { return newDef(KindObject, t, convs) }

// CollectionOf declares a field holding a sequence of instances of t. convs
// run on the validated []*Record.
func CollectionOf(t *Type, convs ...Convertor) *Def { return newDef(KindArray, t, convs) }

// Kind returns the definition kind.
func (d *Def) Kind() Kind { return d.kind }

// Subschema returns the nested schema of a container or collection.
func (d *Def) Subschema() (*Type, bool) { return d.schema, d.schema != nil }

// Seq returns the declaration sequence number.
func (d *Def) Seq() uint64 { return d.seq }

// Options returns a copy of the declared options.
func (d *Def) Options() Options { return d.options.Clone() }

// Convertors returns a copy of the pipeline.
func (d *Def) Convertors() []Convertor { return append([]Convertor(nil), d.convertors...) }

// Then appends convertors to the pipeline.
func (d *Def) Then(convs ...Convertor) *Def {
	d.convertors = append(d.convertors, convs...)
	return d
}

// Option sets an arbitrary option.
func (d *Def) Option(key string, v any) *Def {
	d.options[key] = v
	return d
}

// With merges opts into the declared options.
func (d *Def) With(opts Options) *Def {
	for k, v := range opts {
		d.options[k] = v
	}
	return d
}

// Required sets the "required" option.
func (d *Def) Required(required bool) *Def { return d.Option(OptRequired, required) }

// Default sets the value used when the field is optional and absent.
func (d *Def) Default(v any) *Def { return d.Option(OptDefault, v) }

// Label sets the "label" option.
func (d *Def) Label(s string) *Def { return d.Option(OptLabel, s) }

// Widget sets the "widget" presentation hint.
func (d *Def) Widget(s string) *Def { return d.Option(OptWidget, s) }

// member builds the per-instance Field/Container/Collection bound to name.
// Options are copied so runtime edits stay local to the instance.
func (d *Def) member(name string, value any) Member {
	opts := d.options.Clone()
	convs := d.Convertors()
	switch d.kind {
	case KindObject:
		return newContainer(name, d.schema, value, convs, opts)
	case KindArray:
		return newCollection(name, d.schema, value, convs, opts)
	default:
		return NewField(name, value, convs, opts)
	}
}
