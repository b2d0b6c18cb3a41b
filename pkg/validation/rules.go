package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-signupform/pkg/model"
)

// Rule is a single pure check bound to one field. Check returns the failure
// message and true when the values violate the rule.
type Rule interface {
	Field() string
	Check(values model.Values) (string, bool)
}

// Condition decides whether a conditional rule applies to the given values.
type Condition func(values model.Values) bool

// RuleFunc adapts a predicate into a Rule. The predicate reports failure.
func RuleFunc(field, message string, fails func(values model.Values) bool) Rule {
	return funcRule{field: field, message: message, fails: fails}
}

type funcRule struct {
	field   string
	message string
	fails   func(values model.Values) bool
}

func (r funcRule) Field() string { return r.field }

func (r funcRule) Check(values model.Values) (string, bool) {
	if r.fails(values) {
		return r.message, true
	}
	return "", false
}

// Required fails when the field is missing, blank, or an empty set.
func Required(field, message string) Rule {
	return RuleFunc(field, message, func(values model.Values) bool {
		if isSet(values[field]) {
			return len(values.Strings(field)) == 0
		}
		return strings.TrimSpace(values.String(field)) == ""
	})
}

// Email fails when a non-empty value is not a bare address of the form
// local@domain.tld. Empty values pass; pair with Required to reject them.
func Email(field, message string) Rule {
	return RuleFunc(field, message, func(values model.Values) bool {
		value := values.String(field)
		if value == "" {
			return false
		}
		return !IsEmail(value)
	})
}

// MinLength fails when the value holds fewer than n characters. Empty values
// fail too.
func MinLength(field string, n int, message string) Rule {
	return RuleFunc(field, message, func(values model.Values) bool {
		return utf8.RuneCountInString(values.String(field)) < n
	})
}

// MinItems fails when the set holds fewer than n tokens.
func MinItems(field string, n int, message string) Rule {
	return RuleFunc(field, message, func(values model.Values) bool {
		return len(values.Strings(field)) < n
	})
}

// When makes rule conditional. The condition is evaluated against the values
// of each Check call, never cached.
func When(cond Condition, rule Rule) Rule {
	return conditionalRule{cond: cond, rule: rule}
}

type conditionalRule struct {
	cond Condition
	rule Rule
}

func (r conditionalRule) Field() string { return r.rule.Field() }

func (r conditionalRule) Check(values model.Values) (string, bool) {
	if r.cond != nil && !r.cond(values) {
		return "", false
	}
	return r.rule.Check(values)
}

// IsEmail reports whether value parses as a single RFC 5322 address without a
// display name and its domain carries at least one dot.
func IsEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	if at <= 0 {
		return false
	}
	domain := value[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func isSet(value any) bool {
	switch value.(type) {
	case []string, []any:
		return true
	default:
		return false
	}
}
