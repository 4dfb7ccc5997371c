// Package source decodes untrusted input (JSON, YAML, form values) into the
// plain mapping shape accepted by tinyskema.Type.FromUntrusted.
//
// Decoded mappings are always map[string]any, sequences []any. JSON numbers
// are kept as json.Number so that field convertors decide how to coerce them.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrNotMapping indicates the decoded document root is not a mapping.
var ErrNotMapping = errors.New("source: document root is not a mapping")

// JSON decodes a single JSON document whose root must be an object.
func JSON(data []byte) (map[string]any, error) {
	v, err := JSONValue(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotMapping
	}
	return m, nil
}

// JSONValue decodes a single JSON document of any shape.
func JSONValue(data []byte) (any, error) {
	return JSONReader(bytes.NewReader(data))
}

// JSONReader decodes one JSON document from r. Trailing data is an error.
func JSONReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("source: unexpected data after json document")
	}
	return v, nil
}

// YAML decodes the first YAML document whose root must be a mapping.
func YAML(data []byte) (map[string]any, error) {
	v, err := YAMLValue(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotMapping
	}
	return m, nil
}

// YAMLValue decodes the first YAML document of any shape, converting nested
// mappings into map[string]any.
func YAMLValue(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	return Normalize(node), nil
}

// Keys returns the keys of the mapping at path (a chain of mapping keys from
// the document root) in document order. Decoding into maps loses that order;
// Keys recovers it. JSON input works too, as YAML accepts it. The result is
// nil when path does not lead to a mapping.
func Keys(data []byte, path ...string) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	n := doc.Content[0]
	for _, key := range path {
		n = mappingValue(n, key)
		if n == nil {
			return nil, nil
		}
	}
	if n.Kind != yaml.MappingNode {
		return nil, nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// Normalize converts decoded values (which may contain map[any]any) into the
// JSON-like shape: map[string]any and []any. Non-string keys are formatted
// with fmt.Sprint.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = Normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = Normalize(t[i])
		}
		return arr
	default:
		return v
	}
}

// Form flattens submitted form values (for example url.Values): keys with a
// single value map to that string, keys with several values map to []any.
// Keys with no values are dropped.
func Form(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			out[k] = vs[0]
		default:
			arr := make([]any, len(vs))
			for i, s := range vs {
				arr[i] = s
			}
			out[k] = arr
		}
	}
	return out
}
