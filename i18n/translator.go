package i18n

import (
	"fmt"
	"reflect"
	"strings"
)

// Translator renders localized messages for error codes.
// params provides values substituted into "{name}" placeholders of the
// message template (for example "value", "min" or "choices").
type Translator interface {
	Message(code string, params map[string]any) string
}

// TranslatorFunc adapts a plain function to Translator.
type TranslatorFunc func(code string, params map[string]any) string

func (f TranslatorFunc) Message(code string, params map[string]any) string { return f(code, params) }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":       "required",
		"invalid_type":   "{value} is not {type}",
		"invalid_enum":   "{value} is not in {choices}",
		"not_subset":     "{value} is not a subset of {choices}",
		"too_small":      "{value} is smaller than {min}",
		"too_big":        "{value} is larger than {max}",
		"too_short":      "{value} is shorter than {min}",
		"too_long":       "{value} is longer than {max}",
		"negative":       "{value} is negative",
		"pattern":        "{value} does not match {pattern}",
		"unknown_kind":   "unknown kind {kind}",
		"unknown_rule":   "unknown rule {rule}",
		"not_equal":      "not equal",
		"not_distinct":   "duplicated value {value}",
		"not_ascending":  "{value} is not in ascending order",
		"min_items":      "at least {min} item(s) required",
		"invalid_format": "{value} is not a valid {format}",
	},
	"ja": {
		"required":       "必須です",
		"invalid_type":   "{value} は {type} ではありません",
		"invalid_enum":   "{value} は {choices} のいずれでもありません",
		"not_subset":     "{value} は {choices} に含まれない値を持っています",
		"too_small":      "{value} は {min} より小さいです",
		"too_big":        "{value} は {max} より大きいです",
		"too_short":      "{value} は {min} より短いです",
		"too_long":       "{value} は {max} より長いです",
		"negative":       "{value} は0より小さいです",
		"pattern":        "{value} は {pattern} に一致しません",
		"unknown_kind":   "{kind} は未知の種類です",
		"unknown_rule":   "{rule} は未知のルールです",
		"not_equal":      "一致しません",
		"not_distinct":   "{value} が重複しています",
		"not_ascending":  "{value} は昇順ではありません",
		"min_items":      "{min} 件以上必要です",
		"invalid_format": "{value} は {format} 形式ではありません",
	},
}

// Catalog is the built-in dictionary-based Translator.
type Catalog struct {
	lang  string
	dict  map[string]string
	extra map[string]string
}

// New returns the built-in catalog for lang ("en" or "ja"). Unsupported
// languages fall back to "en".
func New(lang string) *Catalog {
	d, ok := dictionaries[lang]
	if !ok {
		lang = "en"
		d = dictionaries["en"]
	}
	return &Catalog{lang: lang, dict: d}
}

// Default returns the English catalog.
func Default() Translator { return New("en") }

// Lang reports the catalog language.
func (c *Catalog) Lang() string { return c.lang }

// With returns a copy of the catalog whose entries are overridden by templates.
func (c *Catalog) With(templates map[string]string) *Catalog {
	extra := make(map[string]string, len(c.extra)+len(templates))
	for k, v := range c.extra {
		extra[k] = v
	}
	for k, v := range templates {
		extra[k] = v
	}
	return &Catalog{lang: c.lang, dict: c.dict, extra: extra}
}

// Message renders code. Codes without a template are treated as the
// template itself, so free-form text passes through with substitution.
func (c *Catalog) Message(code string, params map[string]any) string {
	tmpl, ok := c.extra[code]
	if !ok {
		tmpl, ok = c.dict[code]
	}
	if !ok {
		tmpl = code
	}
	return Interpolate(tmpl, params)
}

// Interpolate replaces "{name}" placeholders in tmpl with params. Unknown
// placeholders are left untouched.
func Interpolate(tmpl string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	b := &strings.Builder{}
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			break
		}
		end += open
		name := tmpl[open+1 : end]
		b.WriteString(tmpl[:open])
		if v, ok := params[name]; ok {
			b.WriteString(Format(v))
		} else {
			b.WriteString(tmpl[open : end+1])
		}
		tmpl = tmpl[end+1:]
	}
	b.WriteString(tmpl)
	return b.String()
}

// Format renders a parameter value. Slices and arrays are joined with ", ".
func Format(v any) string {
	if v == nil {
		return "None"
	}
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return fmt.Sprint(v)
		}
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = Format(rv.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
