package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/visibility"
)

// Option customises a Form.
type Option func(*Form)

// WithValues seeds the container. Keys missing from values keep their zero
// value.
func WithValues(values model.Values) Option {
	return func(f *Form) {
		f.values = model.Merge(f.values, values)
	}
}

// WithErrors seeds the error map, for example with errors reported by an
// earlier request.
func WithErrors(errs map[string]string) Option {
	return func(f *Form) {
		next := make(map[string]string, len(errs))
		for field, message := range errs {
			next[field] = message
		}
		f.errors = next
	}
}

// WithSubmitHandler replaces the default acknowledgment handler.
func WithSubmitHandler(fn SubmitFunc) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// WithEvaluator sets the evaluator used for visibility rules. Without one
// every field is visible.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(f *Form) {
		f.eval = eval
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}
