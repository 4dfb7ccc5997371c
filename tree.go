package tinyskema

import (
	j "github.com/goccy/go-json"
)

// Node is one entry of an error tree. Messages are the errors addressed to
// the node itself, Fields the errors of a nested container and Items the
// index-aligned errors of a collection.
type Node struct {
	Messages []string
	Fields   Tree
	Items    []*Node
}

// Tree maps field names to error nodes.
type Tree map[string]*Node

func (t Tree) node(name string) *Node {
	n, ok := t[name]
	if !ok {
		n = &Node{}
		t[name] = n
	}
	return n
}

func (n *Node) field(name string) *Node {
	if n.Fields == nil {
		n.Fields = Tree{}
	}
	return n.Fields.node(name)
}

// item returns the node of element i, growing Items to i+1. i must not be
// negative.
func (n *Node) item(i int) *Node {
	for len(n.Items) <= i {
		n.Items = append(n.Items, &Node{})
	}
	return n.Items[i]
}

// Add appends msg at the position p, creating intermediate nodes: a nested
// tree for name segments and an item list (grown to at least index+1) for
// index segments. An empty path, or one starting with an index, addresses
// the "" entry. A negative index cannot name an element and is kept as a
// name segment ("-1").
func (t Tree) Add(p Path, msg string) {
	var n *Node
	rest := p
	if len(p) == 0 || p[0].IsIndex {
		n = t.node("")
	} else {
		n = t.node(p[0].Name)
		rest = p[1:]
	}
	for _, s := range rest {
		if s.IsIndex && s.Index >= 0 {
			n = n.item(s.Index)
		} else {
			n = n.field(s.String())
		}
	}
	n.Messages = append(n.Messages, msg)
}

// Merge copies every message of other into t.
func (t Tree) Merge(other Tree) {
	for name, src := range other {
		t.node(name).merge(src)
	}
}

func (n *Node) merge(src *Node) {
	if src == nil {
		return
	}
	n.Messages = append(n.Messages, src.Messages...)
	for name, child := range src.Fields {
		n.field(name).merge(child)
	}
	for i, child := range src.Items {
		n.item(i).merge(child)
	}
}

// Lookup returns the node at p.
func (t Tree) Lookup(p Path) (*Node, bool) {
	if len(p) == 0 || p[0].IsIndex {
		return nil, false
	}
	n, ok := t[p[0].Name]
	for _, s := range p[1:] {
		if !ok {
			return nil, false
		}
		if s.IsIndex && s.Index >= 0 {
			if s.Index >= len(n.Items) {
				return nil, false
			}
			n = n.Items[s.Index]
			continue
		}
		n, ok = n.Fields[s.String()]
	}
	return n, ok
}

// Messages returns the messages addressed exactly to p.
func (t Tree) Messages(p Path) []string {
	if n, ok := t.Lookup(p); ok {
		return n.Messages
	}
	return nil
}

// Len counts all messages in the tree.
func (t Tree) Len() int {
	total := 0
	for _, n := range t {
		total += n.Len()
	}
	return total
}

// Len counts all messages below and at n.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	total := len(n.Messages)
	total += n.Fields.Len()
	for _, it := range n.Items {
		total += it.Len()
	}
	return total
}

// Flatten maps JSON Pointers to their messages; nodes without messages are
// omitted.
func (t Tree) Flatten() map[string][]string {
	out := map[string][]string{}
	t.flatten(nil, out)
	return out
}

func (t Tree) flatten(prefix Path, out map[string][]string) {
	for name, n := range t {
		var p Path
		if name == "" {
			p = prefix
		} else {
			p = prefix.Field(name)
		}
		n.flatten(p, out)
	}
}

func (n *Node) flatten(p Path, out map[string][]string) {
	if len(n.Messages) > 0 {
		key := p.Pointer()
		out[key] = append(out[key], n.Messages...)
	}
	n.Fields.flatten(p, out)
	for i, it := range n.Items {
		it.flatten(p.Index(i), out)
	}
}

// Plain converts the tree into plain values: a messages-only node becomes
// []string, a container node a map and a collection node a []any of maps.
// Messages of a node that also has children are kept under the "" key and
// items under "[]".
func (t Tree) Plain() map[string]any {
	out := make(map[string]any, len(t))
	for name, n := range t {
		out[name] = n.plain()
	}
	return out
}

func (n *Node) plain() any {
	switch {
	case len(n.Fields) == 0 && len(n.Items) == 0:
		return append([]string{}, n.Messages...)
	case len(n.Fields) == 0 && len(n.Messages) == 0:
		return n.plainItems()
	default:
		return n.plainObject()
	}
}

func (n *Node) plainItems() []any {
	items := make([]any, len(n.Items))
	for i, it := range n.Items {
		items[i] = it.plainObject()
	}
	return items
}

func (n *Node) plainObject() map[string]any {
	out := n.Fields.Plain()
	if len(n.Messages) > 0 {
		out[""] = append([]string{}, n.Messages...)
	}
	if len(n.Items) > 0 {
		out["[]"] = n.plainItems()
	}
	return out
}

// MarshalJSON encodes the Plain form.
func (t Tree) MarshalJSON() ([]byte, error) { return j.Marshal(t.Plain()) }
