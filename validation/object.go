package validation

import (
	"errors"

	"github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/i18n"
	"github.com/reoring/tinyskema/logging"
)

// Object runs cross-field validators over a validated instance and collects
// their failures into the same error tree the schema produces.
type Object struct {
	validators []Validator
	logger     logging.Logger
	translator i18n.Translator
}

// New returns an Object running validators in creation order.
func New(validators ...Validator) *Object {
	return &Object{validators: sortedBySeq(validators), logger: logging.NoOp(), translator: i18n.Default()}
}

// WithLogger returns a copy of o that logs skips and failures to l.
func (o *Object) WithLogger(l logging.Logger) *Object {
	out := *o
	out.logger = logging.OrNoOp(l)
	return &out
}

// WithTranslator returns a copy of o rendering messages with tr, for both
// the schema step and validator failures.
func (o *Object) WithTranslator(tr i18n.Translator) *Object {
	out := *o
	if tr == nil {
		tr = i18n.Default()
	}
	out.translator = tr
	return &out
}

// Validators returns the validators in run order.
func (o *Object) Validators() []Validator { return append([]Validator(nil), o.validators...) }

// Validate validates inst against its schema, then runs the validators on
// the resulting record. A schema failure is returned as is and no validator
// runs. Validator failures are returned as a *tinyskema.Failure; an Interrupt
// stops the remaining validators. inst is renewed only when both stages pass.
func (o *Object) Validate(inst *tinyskema.Instance) (*tinyskema.Record, error) {
	schemaOK := false
	rec, err := inst.ValidateThen(tinyskema.ValidateOpt{Translator: o.translator}, func(rec *tinyskema.Record) error {
		schemaOK = true
		return o.Check(rec)
	})
	if err != nil && !schemaOK {
		o.logger.Debug("schema validation failed", "schema", inst.Type().Name(), "error", err)
	}
	return rec, err
}

// Check runs the validators on an already validated record.
func (o *Object) Check(rec *tinyskema.Record) error {
	r := &runner{errs: tinyskema.Tree{}, translator: o.translator, logger: o.logger}
	if err := runAll(r, nil, rec, o.validators); err != nil {
		o.logger.Info("validation interrupted", "error", err)
	}
	return tinyskema.NewFailure(r.errs)
}

type runner struct {
	errs       tinyskema.Tree
	translator i18n.Translator
	logger     logging.Logger
}

func (r *runner) skipped(prefix tinyskema.Path, names []string) {
	r.logger.Debug("validator skipped", "at", prefix.String(), "names", names)
}

// catch records err for the validator b. It returns err when the run must
// stop.
func (r *runner) catch(prefix tinyskema.Path, b *base, rec *tinyskema.Record, err error) error {
	var (
		msg string
		pos tinyskema.Path
	)
	var d detailed
	if errors.As(err, &d) {
		inv := d.detail()
		msg = r.translator.Message(inv.Msg, inv.Params)
		pos = inv.Position
	} else {
		msg = err.Error()
	}
	switch {
	case b.msgFunc != nil:
		msg = b.msgFunc(rec)
	case b.msg != "":
		msg = r.translator.Message(b.msg, nil)
	}
	if pos == nil {
		pos = b.position()
	}
	at := prefix.Concat(pos)
	r.errs.Add(at, msg)
	r.logger.Debug("validator failed", "at", at.Pointer(), "message", msg)

	var stop *Interrupt
	if errors.As(err, &stop) {
		return err
	}
	return nil
}
