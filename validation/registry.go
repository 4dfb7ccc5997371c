package validation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reoring/tinyskema"
)

// Builder creates a validator over names.
type Builder func(names []string, opts ...Option) (Validator, error)

// Registry maps rule names to Builders so validators can be declared from
// configuration. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// Rule names registered by NewRegistry.
const (
	RuleEquals    = "equals"
	RuleDistinct  = "distinct"
	RuleAscending = "ascending"
)

// NewRegistry returns a registry holding the built-in rules:
//
//	equals     all present values are equal (at least two names)
//	distinct   all present values differ
//	ascending  values are in non-decreasing numeric order
func NewRegistry() *Registry {
	r := &Registry{builders: map[string]Builder{}}
	r.Register(RuleEquals, equalsRule)
	r.Register(RuleDistinct, distinctRule)
	r.Register(RuleAscending, ascendingRule)
	return r
}

// Register adds or replaces a rule.
func (r *Registry) Register(name string, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = b
}

// Names returns the registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builders))
	for k := range r.builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup builds the rule name over names. Unknown rules fail with
// tinyskema.CodeUnknownRule.
func (r *Registry) Lookup(name string, names []string, opts ...Option) (Validator, error) {
	r.mu.RLock()
	b, ok := r.builders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, tinyskema.NewConvertError(tinyskema.CodeUnknownRule, "rule", name)
	}
	return b(names, opts...)
}

func needNames(rule string, names []string, n int) error {
	if len(names) < n {
		return fmt.Errorf("validation: rule %s needs at least %d names, got %d", rule, n, len(names))
	}
	return nil
}

func equalsRule(names []string, opts ...Option) (Validator, error) {
	if err := needNames(RuleEquals, names, 2); err != nil {
		return nil, err
	}
	return Multi(names, func(values ...any) error {
		for _, v := range values[1:] {
			if fmt.Sprint(v) != fmt.Sprint(values[0]) {
				return Invalidf("not_equal", "value", v)
			}
		}
		return nil
	}, opts...), nil
}

func distinctRule(names []string, opts ...Option) (Validator, error) {
	if err := needNames(RuleDistinct, names, 2); err != nil {
		return nil, err
	}
	return Matched(names, func(pairs []Pair) error {
		seen := map[string]bool{}
		for _, p := range pairs {
			k := fmt.Sprint(p.Value)
			if seen[k] {
				return Invalidf("not_distinct", "value", p.Value).At(p.Name)
			}
			seen[k] = true
		}
		return nil
	}, opts...), nil
}

func ascendingRule(names []string, opts ...Option) (Validator, error) {
	if err := needNames(RuleAscending, names, 2); err != nil {
		return nil, err
	}
	return Matched(names, func(pairs []Pair) error {
		for i := 1; i < len(pairs); i++ {
			prev, ok1 := number(pairs[i-1].Value)
			cur, ok2 := number(pairs[i].Value)
			if ok1 && ok2 && cur < prev {
				return Invalidf("not_ascending", "value", pairs[i].Value).At(pairs[i].Name)
			}
		}
		return nil
	}, opts...), nil
}

func number(v any) (float64, bool) {
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
