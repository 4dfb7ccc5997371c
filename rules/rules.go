// Package rules provides ready-made cross-field validators: conditional
// execution over record values and checks on collections of records.
package rules

import (
	"fmt"
	"strings"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/validation"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional is a predicate over a validated record.
type Conditional struct {
	path tinyskema.Path
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional comparing the value at path with want. path is a
// dotted field path ("shipping.country") or a JSON Pointer ("/shipping/country").
func If(path string, op Op, want any) Conditional {
	return Conditional{path: parsePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the conditional against rec. A missing value never
// satisfies a simple predicate.
func (c Conditional) Holds(rec *tinyskema.Record) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(rec) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(rec) {
				return true
			}
		}
		return false
	}
	cur, ok := ValueAt(rec, c.path)
	if !ok || cur == nil {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then returns a validator running validators only when the condition holds.
func (c Conditional) Then(validators ...validation.Validator) validation.Validator {
	return validation.When(c.Holds, validators...)
}

// RequiredIf reports names as required when the condition holds.
func (c Conditional) RequiredIf(names ...string) validation.Validator {
	return c.Then(validation.Convert(nil, func(rec *tinyskema.Record) error {
		for _, n := range names {
			if v, ok := rec.Lookup(n); !ok || tinyskema.IsAbsent(v) {
				return validation.Invalidf(tinyskema.CodeRequired).At(n)
			}
		}
		return nil
	}))
}

// AtLeastOne ensures the collection field name holds at least one element.
func AtLeastOne(name string) validation.Validator {
	return validation.Single(name, func(v any) error {
		if recs, ok := v.([]*tinyskema.Record); ok && len(recs) == 0 {
			return validation.Invalidf(CodeMinItems, "min", 1)
		}
		return nil
	})
}

// CodeMinItems is the message code of AtLeastOne.
const CodeMinItems = "min_items"

// UniqueBy ensures the elements of the collection field name have distinct
// values at key (a field path inside each element). The first duplicate is
// reported at [name, index, key...].
func UniqueBy(name, key string) validation.Validator {
	kp := parsePath(key)
	return validation.Single(name, func(v any) error {
		recs, ok := v.([]*tinyskema.Record)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		for i, r := range recs {
			kv, ok := ValueAt(r, kp)
			if !ok || kv == nil {
				continue
			}
			k := fmt.Sprint(kv)
			if first, dup := seen[k]; dup {
				inv := validation.Invalidf("not_distinct", "value", kv, "first", first, "dup", i)
				inv.Position = tinyskema.PathOf(name, i).Concat(kp)
				return inv
			}
			seen[k] = i
		}
		return nil
	})
}

// ValueAt navigates rec along p through nested records and collections.
func ValueAt(rec *tinyskema.Record, p tinyskema.Path) (any, bool) {
	var cur any = rec
	for _, s := range p {
		switch t := cur.(type) {
		case *tinyskema.Record:
			if s.IsIndex || t == nil {
				return nil, false
			}
			v, ok := t.Lookup(s.Name)
			if !ok {
				return nil, false
			}
			cur = v
		case []*tinyskema.Record:
			if !s.IsIndex || s.Index < 0 || s.Index >= len(t) {
				return nil, false
			}
			cur = t[s.Index]
		default:
			return nil, false
		}
	}
	return cur, true
}

// parsePath accepts "a.b", "a/0/b", "/a/b" and "items[0].sku".
func parsePath(p string) tinyskema.Path {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	p = strings.NewReplacer("[", ".", "]", "", "/", ".").Replace(p)
	var parts []any
	for _, seg := range strings.Split(p, ".") {
		if seg == "" {
			continue
		}
		if n, ok := tryParseInt(seg); ok {
			parts = append(parts, n)
			continue
		}
		parts = append(parts, seg)
	}
	return tinyskema.PathOf(parts...)
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return fmt.Sprint(cur) == fmt.Sprint(want)
	case Ne:
		return fmt.Sprint(cur) != fmt.Sprint(want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

func compareOrdered(cur any, op Op, want any) bool {
	a, ok := toFloat64(cur)
	if !ok {
		return false
	}
	b, ok := toFloat64(want)
	if !ok {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

func tryParseInt(s string) (int, bool) {
	n := 0
	if s == "" || s == "-" {
		return 0, false
	}
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
