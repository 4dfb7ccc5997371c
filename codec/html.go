package codec

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/reoring/tinyskema"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
	ugcOnce      sync.Once
	ugcPolicy    *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	strictOnce.Do(func() { strictPolicy = bluemonday.StrictPolicy() })
	return strictPolicy
}

func ugc() *bluemonday.Policy {
	ugcOnce.Do(func() { ugcPolicy = bluemonday.UGCPolicy() })
	return ugcPolicy
}

// StripHTML removes every tag from string values and trims the result.
// Run it after ParseText; a value that is only markup becomes "" and then
// reads as absent to later required checks.
func StripHTML() tinyskema.Convertor { return Sanitize(strict()) }

// SafeHTML keeps the markup bluemonday's user-generated-content policy
// allows (links, emphasis, lists) and drops the rest.
func SafeHTML() tinyskema.Convertor { return Sanitize(ugc()) }

// Sanitize cleans string values with policy. Non-strings pass through.
func Sanitize(policy *bluemonday.Policy) tinyskema.Convertor {
	return tinyskema.ConvertorFunc(func(v any, _ tinyskema.Options) tinyskema.Outcome {
		s, ok := v.(string)
		if !ok {
			return tinyskema.Continue(v)
		}
		return tinyskema.Continue(strings.TrimSpace(policy.Sanitize(s)))
	})
}
