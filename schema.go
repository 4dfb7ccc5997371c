package tinyskema

import (
	"fmt"
	"slices"
	"sort"
)

// Column pairs a field name with its definition.
type Column struct {
	Name string
	Def  *Def
}

// Col is shorthand for Column{name, def}.
func Col(name string, def *Def) Column { return Column{Name: name, Def: def} }

// Type is an immutable schema: named field definitions in declaration order.
type Type struct {
	name       string
	fieldnames []string
	defs       map[string]*Def
}

// Build creates a schema type. Fields are ordered by the creation order of
// their Defs, not by argument order, so the declaration site decides.
func Build(name string, cols ...Column) (*Type, error) {
	t := &Type{name: name, defs: make(map[string]*Def, len(cols))}
	if err := t.add(cols); err != nil {
		return nil, err
	}
	return t, nil
}

// MustBuild is Build that panics on error.
func MustBuild(name string, cols ...Column) *Type {
	t, err := Build(name, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Extend derives a type from t. Base fields keep their positions; a column
// reusing a base name replaces that definition in place, new names follow in
// creation order.
func (t *Type) Extend(name string, cols ...Column) (*Type, error) {
	out := &Type{name: name, fieldnames: slices.Clone(t.fieldnames), defs: make(map[string]*Def, len(t.defs)+len(cols))}
	for k, d := range t.defs {
		out.defs[k] = d
	}
	var fresh []Column
	seen := map[string]bool{}
	for _, c := range cols {
		if err := checkColumn(c, seen); err != nil {
			return nil, err
		}
		if _, ok := t.defs[c.Name]; ok {
			out.defs[c.Name] = c.Def
			continue
		}
		fresh = append(fresh, c)
	}
	if err := out.add(fresh); err != nil {
		return nil, err
	}
	return out, nil
}

// MustExtend is Extend that panics on error.
func (t *Type) MustExtend(name string, cols ...Column) *Type {
	out, err := t.Extend(name, cols...)
	if err != nil {
		panic(err)
	}
	return out
}

func checkColumn(c Column, seen map[string]bool) error {
	if c.Name == "" {
		return fmt.Errorf("tinyskema: empty field name")
	}
	if c.Def == nil {
		return fmt.Errorf("tinyskema: field %q has no definition", c.Name)
	}
	if seen[c.Name] {
		return fmt.Errorf("tinyskema: duplicate field %q", c.Name)
	}
	seen[c.Name] = true
	return nil
}

func (t *Type) add(cols []Column) error {
	seen := map[string]bool{}
	for _, name := range t.fieldnames {
		seen[name] = true
	}
	for _, c := range cols {
		if err := checkColumn(c, seen); err != nil {
			return err
		}
	}
	sorted := slices.Clone(cols)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Def.seq < sorted[j].Def.seq })
	for _, c := range sorted {
		t.fieldnames = append(t.fieldnames, c.Name)
		t.defs[c.Name] = c.Def
	}
	return nil
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Fieldnames returns the field names in declaration order.
func (t *Type) Fieldnames() []string { return slices.Clone(t.fieldnames) }

// Def returns the definition of a field.
func (t *Type) Def(name string) (*Def, bool) {
	d, ok := t.defs[name]
	return d, ok
}

// Columns returns the (name, def) pairs in declaration order.
func (t *Type) Columns() []Column {
	out := make([]Column, len(t.fieldnames))
	for i, name := range t.fieldnames {
		out[i] = Column{Name: name, Def: t.defs[name]}
	}
	return out
}

// Len returns the number of fields.
func (t *Type) Len() int { return len(t.fieldnames) }

// Required returns the names of fields whose "required" option holds.
func (t *Type) Required() []string {
	var out []string
	for _, name := range t.fieldnames {
		if t.defs[name].options.Required() {
			out = append(out, name)
		}
	}
	return out
}

func (t *Type) String() string { return "tinyskema.Type(" + t.name + ")" }
