package tinyskema

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a field name or a collection index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Path locates an error inside a nested record: field names, and indices for
// collection elements. The zero Path is the root.
type Path []Segment

// PathOf builds a Path from names and indices; ints become index segments,
// anything else a name.
func PathOf(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case int:
			p = append(p, Segment{Index: v, IsIndex: true})
		case string:
			p = append(p, Segment{Name: v})
		default:
			p = append(p, Segment{Name: fmt.Sprint(v)})
		}
	}
	return p
}

// Field returns a new Path with a name segment appended.
func (p Path) Field(name string) Path {
	return append(append(Path{}, p...), Segment{Name: name})
}

// Index returns a new Path with an index segment appended.
func (p Path) Index(i int) Path {
	return append(append(Path{}, p...), Segment{Index: i, IsIndex: true})
}

// Concat returns p followed by q.
func (p Path) Concat(q Path) Path {
	return append(append(Path{}, p...), q...)
}

// Pointer renders the path as a JSON Pointer (RFC 6901); the root is "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.Name, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// String renders the path in dotted form, e.g. points[1].y.
func (p Path) String() string {
	b := &strings.Builder{}
	for i, s := range p {
		if s.IsIndex {
			fmt.Fprintf(b, "[%d]", s.Index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Name)
	}
	return b.String()
}
