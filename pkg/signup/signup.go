// Package signup holds the concrete signup form: its embedded definition,
// default values, compiled validation schema, and typed view of submitted
// values.
package signup

import (
	_ "embed"
	"sync"

	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/validation"
	"github.com/goliatone/go-signupform/pkg/visibility/expr"
)

// Field names.
const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldColour    = "colour"
	FieldAnimal    = "animal"
	FieldTigerType = "tiger_type"
)

// StorageKey is the slot initial values are read from.
const StorageKey = "signup-form-values"

//go:embed signup.yaml
var source []byte

var (
	loadOnce   sync.Once
	definition model.FormModel
	loadErr    error
)

// Form returns the signup form definition.
func Form() model.FormModel {
	loadOnce.Do(func() {
		definition, loadErr = model.LoadYAML(source)
	})
	if loadErr != nil {
		panic("signup: embedded definition: " + loadErr.Error())
	}
	return definition
}

// Defaults returns the values used when nothing was persisted:
// {email:"", password:"", colour:"", animal:[], tiger_type:""}.
func Defaults() model.Values {
	return Form().ZeroValues()
}

// Schema compiles the validation schema for the signup form.
func Schema(options ...validation.Option) *validation.Schema {
	return validation.MustCompile(Form(), expr.New(), options...)
}

// NewForm builds a state container for the signup form with visibility rules
// enabled. Options are applied after the defaults.
func NewForm(options ...form.Option) (*form.Form, error) {
	opts := append([]form.Option{form.WithEvaluator(expr.New())}, options...)
	return form.New(Form(), Schema(), opts...)
}
