package validation

import (
	"slices"
	"sort"
	"sync/atomic"

	"github.com/reoring/tinyskema"
)

// creation order of validators; Object and nested validators run in it
var validatorSeq atomic.Uint64

// Validator is one cross-field check. Construct validators with Multi,
// Single, Matched, Convert, Container, Collection, Share or Group.
type Validator interface {
	// Names returns the fields the validator reads.
	Names() []string
	// Seq returns the creation sequence number.
	Seq() uint64

	run(r *runner, prefix tinyskema.Path, rec *tinyskema.Record) error
}

// Option configures a validator.
type Option func(*base)

// Msg replaces the failure message with text.
func Msg(text string) Option { return func(b *base) { b.msg = text } }

// MsgFunc computes the failure message from the record the validator reads.
func MsgFunc(fn func(rec *tinyskema.Record) string) Option {
	return func(b *base) { b.msgFunc = fn }
}

// At records failures at parts (names and indices) instead of the first
// field name.
func At(parts ...any) Option {
	return func(b *base) { b.at = tinyskema.PathOf(parts...) }
}

type base struct {
	names   []string
	seq     uint64
	msg     string
	msgFunc func(*tinyskema.Record) string
	at      tinyskema.Path
}

func newBase(names []string, opts []Option) base {
	b := base{names: slices.Clone(names), seq: validatorSeq.Add(1)}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func (b *base) Names() []string { return slices.Clone(b.names) }
func (b *base) Seq() uint64     { return b.seq }

// position is where a failure of this validator is recorded when the error
// carries none.
func (b *base) position() tinyskema.Path {
	if b.at != nil {
		return b.at
	}
	if len(b.names) > 0 {
		return tinyskema.PathOf(b.names[0])
	}
	return nil
}

func present(rec *tinyskema.Record, name string) bool {
	v, ok := rec.Lookup(name)
	return ok && v != nil
}

type leaf struct {
	base
	ready func(rec *tinyskema.Record) bool
	call  func(rec *tinyskema.Record) error
}

func (l *leaf) run(r *runner, prefix tinyskema.Path, rec *tinyskema.Record) error {
	if !l.ready(rec) {
		r.skipped(prefix, l.names)
		return nil
	}
	if err := l.call(rec); err != nil {
		return r.catch(prefix, &l.base, rec, err)
	}
	return nil
}

func allPresent(names []string) func(*tinyskema.Record) bool {
	return func(rec *tinyskema.Record) bool {
		for _, n := range names {
			if !present(rec, n) {
				return false
			}
		}
		return true
	}
}

// Multi runs fn with the values of names, in order. It is skipped when any of
// them is absent.
func Multi(names []string, fn func(values ...any) error, opts ...Option) Validator {
	l := &leaf{base: newBase(names, opts), ready: allPresent(names)}
	l.call = func(rec *tinyskema.Record) error {
		values := make([]any, len(l.names))
		for i, n := range l.names {
			values[i] = rec.Get(n)
		}
		return fn(values...)
	}
	return l
}

// Single runs fn with the value of name. It is skipped when the value is
// absent.
func Single(name string, fn func(value any) error, opts ...Option) Validator {
	return Multi([]string{name}, func(values ...any) error { return fn(values[0]) }, opts...)
}

// Pair is a (name, value) entry passed to Matched validators.
type Pair struct {
	Name  string
	Value any
}

// Matched runs fn with the present fields among names. It is skipped only
// when none of them is present.
func Matched(names []string, fn func(pairs []Pair) error, opts ...Option) Validator {
	l := &leaf{base: newBase(names, opts)}
	l.ready = func(rec *tinyskema.Record) bool {
		for _, n := range l.names {
			if present(rec, n) {
				return true
			}
		}
		return false
	}
	l.call = func(rec *tinyskema.Record) error {
		var pairs []Pair
		for _, n := range l.names {
			if present(rec, n) {
				pairs = append(pairs, Pair{Name: n, Value: rec.Get(n)})
			}
		}
		return fn(pairs)
	}
	return l
}

// Convert runs fn with the whole record, which it may rewrite with
// Record.Set. With no names it always runs; otherwise it is skipped when any
// of names is absent.
func Convert(names []string, fn func(rec *tinyskema.Record) error, opts ...Option) Validator {
	return &leaf{base: newBase(names, opts), ready: allPresent(names), call: fn}
}

type nested struct {
	base
	children   []Validator
	collection bool
}

func sortedBySeq(vs []Validator) []Validator {
	out := slices.Clone(vs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq() < out[j].Seq() })
	return out
}

// Container applies children to the nested record of the container field
// name. Failures are recorded under [name, ...].
func Container(name string, children ...Validator) Validator {
	return &nested{base: newBase([]string{name}, nil), children: sortedBySeq(children)}
}

// Collection applies children to every element record of the collection
// field name. Failures are recorded under [name, index, ...].
func Collection(name string, children ...Validator) Validator {
	return &nested{base: newBase([]string{name}, nil), children: sortedBySeq(children), collection: true}
}

func (n *nested) run(r *runner, prefix tinyskema.Path, rec *tinyskema.Record) error {
	name := n.names[0]
	v, ok := rec.Lookup(name)
	if !ok || v == nil {
		r.skipped(prefix, n.names)
		return nil
	}
	at := prefix.Field(name)
	if !n.collection {
		sub, ok := v.(*tinyskema.Record)
		if !ok {
			return nil
		}
		return runAll(r, at, sub, n.children)
	}
	subs, ok := v.([]*tinyskema.Record)
	if !ok {
		return nil
	}
	for i, sub := range subs {
		if sub == nil {
			continue
		}
		if err := runAll(r, at.Index(i), sub, n.children); err != nil {
			return err
		}
	}
	return nil
}

type when struct {
	base
	pred     func(*tinyskema.Record) bool
	children []Validator
}

// When runs children only when pred holds for the record.
func When(pred func(rec *tinyskema.Record) bool, children ...Validator) Validator {
	var names []string
	for _, c := range children {
		names = append(names, c.Names()...)
	}
	return &when{base: newBase(names, nil), pred: pred, children: sortedBySeq(children)}
}

func (w *when) run(r *runner, prefix tinyskema.Path, rec *tinyskema.Record) error {
	if !w.pred(rec) {
		return nil
	}
	return runAll(r, prefix, rec, w.children)
}

type group struct {
	base
	members []Validator
}

// Group bundles validators so they can be passed around as one. Members keep
// their own positions and run in creation order.
func Group(validators ...Validator) Validator {
	var names []string
	for _, v := range validators {
		names = append(names, v.Names()...)
	}
	g := &group{base: newBase(names, nil), members: sortedBySeq(validators)}
	if len(g.members) > 0 {
		g.seq = g.members[0].Seq()
	}
	return g
}

func (g *group) run(r *runner, prefix tinyskema.Path, rec *tinyskema.Record) error {
	return runAll(r, prefix, rec, g.members)
}

// Factory builds a validator around a function of type F; OnSingle and
// OnMulti return factories for Share.
type Factory[F any] func(fn F) Validator

// OnSingle returns a factory applying a single-value function to name.
func OnSingle(name string, opts ...Option) Factory[func(any) error] {
	return func(fn func(any) error) Validator { return Single(name, fn, opts...) }
}

// OnMulti returns a factory applying a multi-value function to names.
func OnMulti(names []string, opts ...Option) Factory[func(...any) error] {
	return func(fn func(...any) error) Validator { return Multi(names, fn, opts...) }
}

// Share registers the same function under several validators, one per
// factory, each recording failures at its own position.
func Share[F any](fn F, factories ...Factory[F]) Validator {
	vs := make([]Validator, len(factories))
	for i, f := range factories {
		vs[i] = f(fn)
	}
	return Group(vs...)
}

func runAll(r *runner, prefix tinyskema.Path, rec *tinyskema.Record, vs []Validator) error {
	for _, v := range vs {
		if err := v.run(r, prefix, rec); err != nil {
			return err
		}
	}
	return nil
}
