package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/visibility"
)

// syntaxChecker is implemented by evaluators that can parse a rule without
// evaluating it.
type syntaxChecker interface {
	Check(rule string) error
}

// Compile turns the validation rules declared on form fields into a Schema,
// preserving field and rule declaration order. Rules carrying a When
// expression become conditional rules evaluated with eval on every call; an
// expression that fails to evaluate at validation time keeps the rule active.
func Compile(form model.FormModel, eval visibility.Evaluator, options ...Option) (*Schema, error) {
	var rules []Rule
	for _, field := range form.Fields() {
		for idx, spec := range field.Validations {
			rule, err := compileRule(field, spec)
			if err != nil {
				return nil, fmt.Errorf("validation: field %q rule %d: %w", field.Name, idx, err)
			}
			if spec.When != "" {
				if eval == nil {
					return nil, fmt.Errorf("validation: field %q rule %d: conditional rule needs an evaluator", field.Name, idx)
				}
				if checker, ok := eval.(syntaxChecker); ok {
					if err := checker.Check(spec.When); err != nil {
						return nil, fmt.Errorf("validation: field %q rule %d: %w", field.Name, idx, err)
					}
				}
				rule = When(expressionCondition(eval, field.Name, spec.When), rule)
			}
			rules = append(rules, rule)
		}
	}
	return New(rules, options...), nil
}

// MustCompile is like Compile but panics on error. Useful for embedded
// definitions.
func MustCompile(form model.FormModel, eval visibility.Evaluator, options ...Option) *Schema {
	schema, err := Compile(form, eval, options...)
	if err != nil {
		panic(err)
	}
	return schema
}

func compileRule(field model.Field, spec model.ValidationRule) (Rule, error) {
	message := strings.TrimSpace(spec.Message)
	if message == "" {
		message = defaultMessage(spec)
	}

	switch spec.Kind {
	case model.ValidationRuleRequired:
		return Required(field.Name, message), nil
	case model.ValidationRuleEmail:
		return Email(field.Name, message), nil
	case model.ValidationRuleMinLength:
		n, err := intParam(spec)
		if err != nil {
			return nil, err
		}
		return MinLength(field.Name, n, message), nil
	case model.ValidationRuleMinItems:
		n, err := intParam(spec)
		if err != nil {
			return nil, err
		}
		return MinItems(field.Name, n, message), nil
	default:
		return nil, fmt.Errorf("unknown rule kind %q", spec.Kind)
	}
}

func intParam(spec model.ValidationRule) (int, error) {
	raw := strings.TrimSpace(spec.Params["value"])
	if raw == "" {
		return 0, fmt.Errorf("%s requires params.value", spec.Kind)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s params.value must be a non-negative integer, got %q", spec.Kind, raw)
	}
	return n, nil
}

func defaultMessage(spec model.ValidationRule) string {
	switch spec.Kind {
	case model.ValidationRuleRequired:
		return "required"
	case model.ValidationRuleEmail:
		return "must be a valid email address"
	case model.ValidationRuleMinLength:
		return "must be " + spec.Params["value"] + " characters or more"
	case model.ValidationRuleMinItems:
		return "must select at least " + spec.Params["value"]
	default:
		return "invalid"
	}
}

func expressionCondition(eval visibility.Evaluator, field, expr string) Condition {
	return func(values model.Values) bool {
		ok, err := eval.Eval(field, expr, visibility.Context{Values: values})
		if err != nil {
			return true
		}
		return ok
	}
}
