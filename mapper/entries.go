package mapper

import (
	"errors"
	"fmt"
	"sort"

	"github.com/reoring/tinyskema/source"
)

// Entry describes one field to build: its name, the kind of mapper to use
// and the parameters passed to it.
type Entry struct {
	Name   string
	Kind   string
	Values map[string]any
}

// Accepted keys of an entry mapping.
const (
	KeyName   = "name"
	KeyKind   = "type"
	KeyValues = "values"
	KeyOrder  = "order"
)

// EntriesFrom reads entries from a decoded document, in one of three shapes:
//
//	- a list of {name, type, values} mappings, in list order
//	- a mapping of name to {type, values} with an "order" list naming the fields
//	- a mapping of name to {type, values}, in sorted name order
//
// A decoded mapping has no key order, hence the sorting; LoadYAML, LoadJSON
// and LoadConfig read the raw document and keep its order instead.
func EntriesFrom(v any) ([]Entry, error) { return entriesIn(v, nil) }

// entriesIn is EntriesFrom with the document order of a plain mapping's keys,
// when known.
func entriesIn(v any, keys []string) ([]Entry, error) {
	switch t := source.Normalize(v).(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]Entry, 0, len(t))
		for i, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("mapper: entry %d is not a mapping", i)
			}
			name, _ := m[KeyName].(string)
			if name == "" {
				return nil, fmt.Errorf("mapper: entry %d has no name", i)
			}
			e, err := entryOf(name, m)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case map[string]any:
		var names []string
		if order, ok := t[KeyOrder]; ok {
			list, ok := order.([]any)
			if !ok {
				return nil, errors.New("mapper: order must be a list of names")
			}
			for _, n := range list {
				names = append(names, fmt.Sprint(n))
			}
		} else if keys != nil {
			names = keys
		} else {
			for k := range t {
				names = append(names, k)
			}
			sort.Strings(names)
		}
		out := make([]Entry, 0, len(names))
		for _, name := range names {
			m, ok := t[name].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("mapper: entry %q is not a mapping", name)
			}
			e, err := entryOf(name, m)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("mapper: unsupported entries document %T", v)
	}
}

func entryOf(name string, m map[string]any) (Entry, error) {
	kind, _ := m[KeyKind].(string)
	if kind == "" {
		return Entry{}, fmt.Errorf("mapper: entry %q has no type", name)
	}
	e := Entry{Name: name, Kind: kind, Values: map[string]any{}}
	switch vs := m[KeyValues].(type) {
	case nil:
	case map[string]any:
		e.Values = vs
	default:
		return Entry{}, fmt.Errorf("mapper: values of %q must be a mapping", name)
	}
	return e, nil
}

// LoadYAML decodes entries from a YAML document. Plain mappings keep the
// document order.
func LoadYAML(data []byte) ([]Entry, error) {
	v, err := source.YAMLValue(data)
	if err != nil {
		return nil, err
	}
	keys, err := source.Keys(data)
	if err != nil {
		return nil, err
	}
	return entriesIn(v, keys)
}

// LoadJSON decodes entries from a JSON document. Plain mappings keep the
// document order.
func LoadJSON(data []byte) ([]Entry, error) {
	v, err := source.JSONValue(data)
	if err != nil {
		return nil, err
	}
	// a document YAML cannot parse keeps sorted order
	keys, _ := source.Keys(data)
	return entriesIn(v, keys)
}
