package mapper

import (
	"errors"
	"fmt"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/source"
	"github.com/reoring/tinyskema/validation"
)

// Rule names a cross-field rule of a validation.Registry and the fields it
// applies to.
type Rule struct {
	Rule   string
	Fields []string
	Msg    string
}

// Config is a complete form description: the schema name, its fields and
// the cross-field rules checked after schema validation.
//
//	name: Survey
//	fields:
//	  - {name: first, type: select, values: {description: First, choices: [[a, A], [b, B]]}}
//	  - {name: second, type: select, values: {description: Second, choices: [[a, A], [b, B]]}}
//	rules:
//	  - {rule: distinct, fields: [first, second], msg: pick two different answers}
type Config struct {
	Name   string
	Fields []Entry
	Rules  []Rule
}

// LoadConfig decodes a Config from YAML (or JSON, which YAML accepts).
func LoadConfig(data []byte) (*Config, error) {
	doc, err := source.YAML(data)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	cfg.Name, _ = doc["name"].(string)
	if cfg.Name == "" {
		return nil, errors.New("mapper: config has no name")
	}
	keys, err := source.Keys(data, "fields")
	if err != nil {
		return nil, err
	}
	if cfg.Fields, err = entriesIn(doc["fields"], keys); err != nil {
		return nil, err
	}
	rules, _ := doc["rules"].([]any)
	for i, r := range rules {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("mapper: rule %d is not a mapping", i)
		}
		rule := Rule{}
		rule.Rule, _ = m["rule"].(string)
		rule.Msg, _ = m["msg"].(string)
		fields, _ := m["fields"].([]any)
		for _, f := range fields {
			rule.Fields = append(rule.Fields, fmt.Sprint(f))
		}
		if rule.Rule == "" {
			return nil, fmt.Errorf("mapper: rule %d has no name", i)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}
	return cfg, nil
}

// Compile builds the schema with f and the validation object with rules
// resolved from reg. Rules naming undeclared fields are rejected.
func (c *Config) Compile(f *Family, reg *validation.Registry) (*tinyskema.Type, *validation.Object, error) {
	t, err := f.Build(c.Name, c.Fields)
	if err != nil {
		return nil, nil, err
	}
	validators := make([]validation.Validator, 0, len(c.Rules))
	for _, r := range c.Rules {
		for _, name := range r.Fields {
			if _, ok := t.Def(name); !ok {
				return nil, nil, fmt.Errorf("mapper: rule %s refers to unknown field %q", r.Rule, name)
			}
		}
		var opts []validation.Option
		if r.Msg != "" {
			opts = append(opts, validation.Msg(r.Msg))
		}
		v, err := reg.Lookup(r.Rule, r.Fields, opts...)
		if err != nil {
			return nil, nil, err
		}
		validators = append(validators, v)
	}
	return t, validation.New(validators...).WithLogger(f.logger).WithTranslator(f.translator), nil
}
