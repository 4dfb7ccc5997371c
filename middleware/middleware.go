// Package middleware binds HTTP request input to tinyskema schemas.
//
// Bind decodes a request (JSON body, or form and query values), validates it
// against a schema and optional cross-field validators, and returns the
// validated record. Handler wraps a net/http handler with that step; the gin
// and echo subpackages do the same for those routers.
package middleware

import (
	"context"
	"errors"
	"mime"
	"net/http"

	j "github.com/goccy/go-json"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/source"
	"github.com/reoring/tinyskema/validation"
)

// RecordKey is the key routers store the validated record under.
const RecordKey = "tinyskema.record"

type ctxKeyRecord struct{}

// ContextWithRecord attaches a validated record to the context.
func ContextWithRecord(ctx context.Context, rec *tinyskema.Record) context.Context {
	return context.WithValue(ctx, ctxKeyRecord{}, rec)
}

// RecordFromContext retrieves the validated record from context.
func RecordFromContext(ctx context.Context) (*tinyskema.Record, bool) {
	rec, ok := ctx.Value(ctxKeyRecord{}).(*tinyskema.Record)
	return rec, ok
}

// ErrBadInput wraps request decoding failures.
var ErrBadInput = errors.New("middleware: bad input")

// Decode reads the request input: a JSON object body when the content type
// is JSON, form and query values otherwise.
func Decode(r *http.Request) (map[string]any, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		v, err := source.JSONReader(r.Body)
		if err != nil {
			return nil, errors.Join(ErrBadInput, err)
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, errors.Join(ErrBadInput, source.ErrNotMapping)
		}
		return m, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, errors.Join(ErrBadInput, err)
	}
	return source.Form(r.Form), nil
}

// Bind decodes r into an instance of t and validates it, with obj when
// non-nil and against the schema alone otherwise.
func Bind(r *http.Request, t *tinyskema.Type, obj *validation.Object) (*tinyskema.Record, error) {
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	inst := t.FromUntrusted(m)
	if obj != nil {
		return obj.Validate(inst)
	}
	return inst.Validate()
}

// Status maps a Bind error to an HTTP status: 422 for validation failures,
// 400 otherwise.
func Status(err error) int {
	if _, ok := tinyskema.AsFailure(err); ok {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// ErrorPayload shapes a Bind error for JSON responses.
func ErrorPayload(err error) map[string]any {
	if f, ok := tinyskema.AsFailure(err); ok {
		return map[string]any{"errors": f.Errors.Plain()}
	}
	return map[string]any{"error": err.Error()}
}

// Handler validates every request before calling next, which finds the
// record with RecordFromContext. Failures are answered with ErrorPayload.
func Handler(t *tinyskema.Type, obj *validation.Object, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, err := Bind(r, t, obj)
		if err != nil {
			WriteJSON(w, Status(err), ErrorPayload(err))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithRecord(r.Context(), rec)))
	})
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	data, err := j.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
