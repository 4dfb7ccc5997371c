package tinyskema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/tinyskema/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeInvalidEnum = "invalid_enum"
	CodeNotSubset   = "not_subset"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodeNegative    = "negative"
	CodePattern     = "pattern"
	// Schema factory and rule registry
	CodeUnknownKind = "unknown_kind"
	CodeUnknownRule = "unknown_rule"
)

// Message is a translatable message. Text, when set, is already rendered and
// wins over Code/Params.
type Message struct {
	Code   string
	Params map[string]any
	Text   string
}

// Render resolves the message with tr (i18n.Default when nil).
func (m Message) Render(tr i18n.Translator) string {
	if m.Text != "" {
		return m.Text
	}
	if tr == nil {
		tr = i18n.Default()
	}
	return tr.Message(m.Code, m.Params)
}

// ConvertError is the typed failure returned by built-in convertors.
type ConvertError struct {
	Code   string
	Params map[string]any
	Err    error // Optional: underlying error (strconv, regexp...).
}

// NewConvertError builds a ConvertError from a code and key/value params.
func NewConvertError(code string, kv ...any) *ConvertError {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return &ConvertError{Code: code, Params: m}
}

func (e *ConvertError) Error() string { return e.Msg().Render(nil) }
func (e *ConvertError) Unwrap() error { return e.Err }

// Msg returns the translatable message of the error.
func (e *ConvertError) Msg() Message { return Message{Code: e.Code, Params: e.Params} }

// ValidationError is the failure of a single field. Nested is set when a
// container or collection failed; it holds the already rendered subtree.
type ValidationError struct {
	Field   string
	Cause   error
	Message *Message
	Nested  *Node
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Render(nil))
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Render returns the human message: Message when present, the cause otherwise.
func (e *ValidationError) Render(tr i18n.Translator) string {
	if e.Message != nil {
		return e.Message.Render(tr)
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return CodeInvalidType
}

// wrapError converts a convertor failure into a ValidationError, keeping the
// translatable message when the cause carries one.
func wrapError(name string, err error) *ValidationError {
	ve := &ValidationError{Field: name, Cause: err}
	var m interface{ Msg() Message }
	if errors.As(err, &m) {
		msg := m.Msg()
		ve.Message = &msg
	}
	return ve
}

// Failure is the aggregate, path-addressed validation error.
type Failure struct {
	Errors Tree
}

// Error summarizes the first few entries in pointer order.
func (f *Failure) Error() string {
	flat := f.Errors.Flatten()
	if len(flat) == 0 {
		return "validation failed"
	}
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	const maxShown = 3
	b := &strings.Builder{}
	for i, p := range paths {
		if i == maxShown {
			fmt.Fprintf(b, "; ... (total %d)", len(paths))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", p, strings.Join(flat[p], ", "))
	}
	return b.String()
}

// NewFailure returns a *Failure for a non-empty tree and nil otherwise, so an
// empty error set is never raised.
func NewFailure(t Tree) error {
	if t.Len() == 0 {
		return nil
	}
	return &Failure{Errors: t}
}

// AsFailure extracts a *Failure from an error using errors.As internally.
func AsFailure(err error) (*Failure, bool) {
	if err == nil {
		return nil, false
	}
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
