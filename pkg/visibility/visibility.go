package visibility

import (
	"github.com/goliatone/go-signupform/pkg/model"
)

// Evaluator determines whether a field should be visible based on a rule
// string and optional context such as current values or scope metadata.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values comes from the form state
// while Extras allows callers to inject arbitrary context such as feature
// flags.
type Context struct {
	Values model.Values
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Visible reports whether field should be rendered for values. Fields without
// a rule are always visible.
func Visible(eval Evaluator, field model.Field, values model.Values) (bool, error) {
	if field.VisibleWhen == "" || eval == nil {
		return true, nil
	}
	return eval.Eval(field.Name, field.VisibleWhen, Context{Values: values})
}

// Derive computes visibility for every field of form. It is a pure function of
// values; evaluation errors are collected per field and the field is reported
// visible so no input silently disappears.
func Derive(eval Evaluator, form model.FormModel, values model.Values) (map[string]bool, map[string]error) {
	visible := make(map[string]bool)
	var failures map[string]error
	for _, field := range form.Fields() {
		ok, err := Visible(eval, field, values)
		if err != nil {
			if failures == nil {
				failures = make(map[string]error)
			}
			failures[field.Name] = err
			ok = true
		}
		visible[field.Name] = ok
	}
	return visible, failures
}
