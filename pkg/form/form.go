// Package form implements the signup form state container. A Form owns the
// current values and the last reported validation errors; renderers only read
// from it.
//
// A Form is owned by a single caller and is not safe for concurrent use.
package form

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/validation"
	"github.com/goliatone/go-signupform/pkg/visibility"
)

const (
	// Banner is shown above the form whenever the error map is non-empty.
	Banner = "There is a problem with this form!"
	// Acknowledgement is logged by the default submit handler; there is no
	// backend yet.
	Acknowledgement = "Let's submit that form! Backend left as an exercise to the reader"
)

var (
	// ErrUnknownField is returned when a name does not match any field.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrNotMultiChoice is returned by Toggle for single value fields.
	ErrNotMultiChoice = errors.New("form: field is not multi-choice")
)

// SubmitFunc receives the validated values after a successful submit.
type SubmitFunc func(ctx context.Context, values model.Values) error

// Form is the state container for one fill-in session.
type Form struct {
	def      model.FormModel
	schema   *validation.Schema
	eval     visibility.Evaluator
	values   model.Values
	errors   map[string]string
	onSubmit SubmitFunc
	logger   *zap.Logger
}

// New creates a container for def. Values start from the form's zero values
// unless WithValues supplies initial ones.
func New(def model.FormModel, schema *validation.Schema, options ...Option) (*Form, error) {
	if schema == nil {
		return nil, errors.New("form: schema is required")
	}
	f := &Form{
		def:    def,
		schema: schema,
		values: def.ZeroValues(),
		errors: map[string]string{},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.onSubmit == nil {
		f.onSubmit = acknowledge(f.logger)
	}
	return f, nil
}

// Definition returns the form description the container was built from.
func (f *Form) Definition() model.FormModel {
	return f.def
}

// Values returns a copy of the current values.
func (f *Form) Values() model.Values {
	return f.values.Clone()
}

// Value returns the current value of name.
func (f *Form) Value(name string) any {
	return model.NormalizeValue(f.values[name])
}

// Errors returns a copy of the error map from the last submit.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for field, message := range f.errors {
		out[field] = message
	}
	return out
}

// Error returns the message attached to name, or "".
func (f *Form) Error(name string) string {
	return f.errors[name]
}

// HasErrors reports whether the last submit failed.
func (f *Form) HasErrors() bool {
	return len(f.errors) > 0
}

// Banner returns the form-level banner, or "" when there are no errors.
func (f *Form) Banner() string {
	if f.HasErrors() {
		return Banner
	}
	return ""
}

// SetField replaces the value of one field. It never validates and leaves the
// error map untouched.
func (f *Form) SetField(name string, value any) error {
	if _, ok := f.def.Field(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.values = f.values.With(name, value)
	return nil
}

// Toggle adds token to a multi-choice field when absent, or removes it when
// present.
func (f *Form) Toggle(name, token string) error {
	field, ok := f.def.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if !field.MultiChoice() {
		return fmt.Errorf("%w: %q", ErrNotMultiChoice, name)
	}
	f.values = f.values.Toggle(name, token)
	return nil
}

// Visible reports whether name should be shown for the current values.
// Hidden fields keep their values. Unknown names are never visible.
func (f *Form) Visible(name string) bool {
	return f.Visibility()[name]
}

// Visibility derives the visible flag of every field from the current
// values. Rules that fail to evaluate leave the field visible.
func (f *Form) Visibility() map[string]bool {
	visible, failures := visibility.Derive(f.eval, f.def, f.values)
	for name, err := range failures {
		field, _ := f.def.Field(name)
		f.logger.Debug("visibility rule failed",
			zap.String("field", name),
			zap.String("rule", field.VisibleWhen),
			zap.Error(err),
		)
	}
	return visible
}

// Submit validates the current values. On failure the error map is replaced
// wholesale and Submit returns false with a nil error. On success errors are
// cleared and the completion handler runs with the values; its error, if any,
// is returned alongside true.
func (f *Form) Submit(ctx context.Context) (bool, error) {
	values, err := f.schema.Validate(f.values)
	if err != nil {
		var verr *validation.Error
		if !errors.As(err, &verr) {
			return false, fmt.Errorf("form: validate: %w", err)
		}
		f.errors = verr.Fields()
		f.logger.Debug("submit rejected", zap.Int("issues", len(verr.Issues)))
		return false, nil
	}

	f.errors = map[string]string{}
	if err := f.onSubmit(ctx, values.Clone()); err != nil {
		return true, fmt.Errorf("form: submit handler: %w", err)
	}
	return true, nil
}

func acknowledge(logger *zap.Logger) SubmitFunc {
	return func(context.Context, model.Values) error {
		logger.Info(Acknowledgement)
		return nil
	}
}
