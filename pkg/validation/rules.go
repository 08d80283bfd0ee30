package validation

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-stockform/pkg/model"
)

// Rules is the compiled form of a field's validation list. Evaluation order
// is fixed: required first, then length bounds, then pattern, so an empty
// value always reports the required message.
type Rules struct {
	required    string
	minLen      *int
	minLenMsg   string
	maxLen      *int
	maxLenMsg   string
	pattern     *regexp.Regexp
	patternMsg  string
	hasRequired bool
}

var (
	patternCacheMu sync.Mutex
	patternCache   = make(map[string]*regexp.Regexp)
)

// Compile translates model rules into an evaluator. Unknown rule kinds and
// patterns that fail to compile are ignored.
func Compile(field model.Field) Rules {
	var rules Rules
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleRequired:
			rules.hasRequired = true
			rules.required = messageOr(v.Message, "required")
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.minLen = &val
				rules.minLenMsg = messageOr(v.Message, "min length "+v.Params["value"])
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.maxLen = &val
				rules.maxLenMsg = messageOr(v.Message, "max length "+v.Params["value"])
			}
		case model.ValidationRulePattern:
			if re := compilePattern(v.Params["pattern"]); re != nil {
				rules.pattern = re
				rules.patternMsg = messageOr(v.Message, "does not match required pattern")
			}
		}
	}
	return rules
}

// Required reports whether the compiled rules include a required constraint.
func (r Rules) Required() bool {
	return r.hasRequired
}

// Check returns the message of the first failing rule. Optional fields left
// empty pass without evaluating the remaining rules. Whitespace is a value.
func (r Rules) Check(value string) (string, bool) {
	if value == "" {
		if r.hasRequired {
			return r.required, false
		}
		return "", true
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return r.minLenMsg, false
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return r.maxLenMsg, false
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return r.patternMsg, false
	}
	return "", true
}

// CheckField compiles and evaluates in one step.
func CheckField(field model.Field, value string) (string, bool) {
	return Compile(field).Check(value)
}

func compilePattern(expr string) *regexp.Regexp {
	if expr == "" {
		return nil
	}
	patternCacheMu.Lock()
	defer patternCacheMu.Unlock()
	if re, ok := patternCache[expr]; ok {
		return re
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	patternCache[expr] = re
	return re
}

func messageOr(message, fallback string) string {
	if msg := strings.TrimSpace(message); msg != "" {
		return msg
	}
	return fallback
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
