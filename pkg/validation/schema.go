package validation

import (
	"github.com/goliatone/go-signupform/pkg/model"
)

// Schema is an ordered list of independent rules.
type Schema struct {
	rules      []Rule
	abortEarly bool
}

// Option configures a Schema.
type Option func(*Schema)

// WithAbortEarly stops at the first failing rule instead of reporting every
// failing field.
func WithAbortEarly(enabled bool) Option {
	return func(s *Schema) {
		s.abortEarly = enabled
	}
}

// New builds a Schema from rules, kept in the given order.
func New(rules []Rule, options ...Option) *Schema {
	s := &Schema{rules: append([]Rule(nil), rules...)}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Rules returns the rules in evaluation order.
func (s *Schema) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Validate runs every rule against values. On success it returns values
// unchanged. On failure it returns a *Error holding one issue per failing
// field: the first failing rule, in declaration order, wins. values is never
// modified.
func (s *Schema) Validate(values model.Values) (model.Values, error) {
	var issues []Issue
	failed := make(map[string]struct{})

	for _, rule := range s.rules {
		field := rule.Field()
		if _, done := failed[field]; done {
			continue
		}
		message, bad := rule.Check(values)
		if !bad {
			continue
		}
		failed[field] = struct{}{}
		issues = append(issues, Issue{Field: field, Message: message})
		if s.abortEarly {
			break
		}
	}

	if len(issues) > 0 {
		return nil, &Error{Issues: issues}
	}
	return values, nil
}

// Errors returns the field to message map for values, or nil when valid.
func (s *Schema) Errors(values model.Values) map[string]string {
	if _, err := s.Validate(values); err != nil {
		return err.(*Error).Fields()
	}
	return nil
}
