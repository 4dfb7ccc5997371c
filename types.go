package tinyskema

import "github.com/reoring/tinyskema/i18n"

// UnknownPolicy controls how undeclared input keys are handled at
// construction.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject undeclared keys with an error.
	UnknownStrip                            // Drop undeclared keys (they are still listed by Instance.Unknown).
	UnknownPassthrough                      // Keep undeclared values, reachable through Instance.Extra.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownStrip:
		return "strip"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	// Translator renders messages into the error tree. Nil means i18n.Default.
	Translator i18n.Translator
	// FailFast stops at the first failing field (or collection element).
	FailFast bool
}

// lastOpt returns the last option given, defaulting the translator.
func lastOpt(opts []ValidateOpt) ValidateOpt {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	opt.Translator = renderIn(opt)
	return opt
}
