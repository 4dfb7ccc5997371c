package tinyskema

import (
	"bytes"
	"iter"

	j "github.com/goccy/go-json"
)

// Record is the validated value of an instance: field values keyed by name,
// in declaration order. Container values are *Record, collection values
// []*Record.
type Record struct {
	names  []string
	values map[string]any
	held   map[string]bool // values from a Break; never renewed into members
}

func newRecord(n int) *Record {
	return &Record{names: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set stores v under name, appending name when it is new. Cross-field
// converters use it to rewrite validated values.
func (r *Record) Set(name string, v any) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
	delete(r.held, name)
}

func (r *Record) hold(name string) {
	if r.held == nil {
		r.held = map[string]bool{}
	}
	r.held[name] = true
}

// Get returns the value of name, or nil.
func (r *Record) Get(name string) any { return r.values[name] }

// Lookup returns the value of name and whether it is present.
func (r *Record) Lookup(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in order.
func (r *Record) Names() []string { return append([]string(nil), r.names...) }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.names) }

// All iterates (name, value) pairs in order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, name := range r.names {
			if !yield(name, r.values[name]) {
				return
			}
		}
	}
}

// Map converts the record into plain maps and slices, recursively.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.names))
	for _, name := range r.names {
		out[name] = plainValue(r.values[name])
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Record:
		if t == nil {
			return nil
		}
		return t.Map()
	case []*Record:
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = plainValue(r)
		}
		return out
	}
	return v
}

// MarshalJSON encodes the record as an object with keys in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := j.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := j.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
