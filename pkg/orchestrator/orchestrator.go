package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/render"
	"github.com/goliatone/go-signupform/pkg/renderers/html"
	"github.com/goliatone/go-signupform/pkg/renderers/tui"
	"github.com/goliatone/go-signupform/pkg/signup"
	"github.com/goliatone/go-signupform/pkg/storage"
	"github.com/goliatone/go-signupform/pkg/validation"
	"github.com/goliatone/go-signupform/pkg/visibility"
	"github.com/goliatone/go-signupform/pkg/visibility/expr"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithDefinition replaces the built-in signup form with def validated by
// schema.
func WithDefinition(def model.FormModel, schema *validation.Schema) Option {
	return func(o *Orchestrator) {
		o.def = def
		o.schema = schema
		o.definitionSet = true
	}
}

// WithStore sets the store holding persisted values.
func WithStore(store storage.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithStorageKey overrides the slot name read from the store.
func WithStorageKey(key string) Option {
	return func(o *Orchestrator) {
		if key != "" {
			o.key = key
		}
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithEvaluator sets the visibility evaluator handed to every form.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(o *Orchestrator) {
		o.eval = eval
	}
}

// WithSubmitHandler sets the completion handler handed to every form.
func WithSubmitHandler(fn form.SubmitFunc) Option {
	return func(o *Orchestrator) {
		o.onSubmit = fn
	}
}

// WithTranslator localises every render that does not bring its own
// Translator.
func WithTranslator(locale string, translator render.Translator) Option {
	return func(o *Orchestrator) {
		o.locale = locale
		o.translator = translator
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates store → form → view → renderer. It defaults to the
// embedded signup form, the expression evaluator and a registry holding the
// html and tui renderers.
type Orchestrator struct {
	def             model.FormModel
	schema          *validation.Schema
	definitionSet   bool
	eval            visibility.Evaluator
	store           storage.Store
	key             string
	registry        *render.Registry
	defaultRenderer string
	onSubmit        form.SubmitFunc
	locale          string
	translator      render.Translator
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		key:             signup.StorageKey,
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if !o.definitionSet {
		o.def = signup.Form()
		o.schema = signup.Schema()
	}
	if o.schema == nil {
		o.initialiseErr = errors.New("orchestrator: validation schema is required")
		return
	}
	if o.eval == nil {
		o.eval = expr.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: init html renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
		o.registry.MustRegister(tui.New())
	}
}

// Request describes one render.
type Request struct {
	// Renderer names the renderer to use; empty selects the default.
	Renderer string

	// Values are overlaid on the persisted values.
	Values model.Values

	// Errors seeds the container's error map.
	Errors map[string]string

	RenderOptions render.RenderOptions
}

// Definition returns the form definition in use.
func (o *Orchestrator) Definition() model.FormModel {
	return o.def
}

// Schema returns the validation schema in use.
func (o *Orchestrator) Schema() *validation.Schema {
	return o.schema
}

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// LoadValues reads the initial values from the store, falling back to the
// form's zero values.
func (o *Orchestrator) LoadValues(ctx context.Context) model.Values {
	return storage.LoadValues(ctx, o.store, o.key, o.def.ZeroValues(), o.logger)
}

// NewForm builds a container seeded from the store. Extra options apply after
// the stored values, so WithValues overrides them.
func (o *Orchestrator) NewForm(ctx context.Context, options ...form.Option) (*form.Form, error) {
	return o.FormFor(o.LoadValues(ctx), options...)
}

// FormFor builds a container holding values without reading the store.
func (o *Orchestrator) FormFor(values model.Values, options ...form.Option) (*form.Form, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	opts := []form.Option{
		form.WithEvaluator(o.eval),
		form.WithLogger(o.logger),
		form.WithValues(values),
	}
	if o.onSubmit != nil {
		opts = append(opts, form.WithSubmitHandler(o.onSubmit))
	}
	opts = append(opts, options...)
	f, err := form.New(o.def, o.schema, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build form: %w", err)
	}
	return f, nil
}

// SaveDraft persists values, leaving password fields out.
func (o *Orchestrator) SaveDraft(ctx context.Context, values model.Values) error {
	if o.store == nil {
		return errors.New("orchestrator: no store configured")
	}
	return storage.SaveValues(ctx, o.store, o.key, values, o.secretFields()...)
}

func (o *Orchestrator) secretFields() []string {
	var out []string
	for _, field := range o.def.Fields() {
		if field.Format == model.FormatPassword {
			out = append(out, field.Name)
		}
	}
	return out
}

// Render projects f and renders it with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, f *form.Form, rendererName string, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if f == nil {
		return nil, errors.New("orchestrator: form is required")
	}
	renderer, err := o.rendererFor(rendererName)
	if err != nil {
		return nil, err
	}
	if opts.Translator == nil && o.translator != nil {
		opts.Locale = o.locale
		opts.Translator = o.translator
	}
	output, err := renderer.Render(ctx, render.Project(f, opts))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render %s: %w", renderer.Name(), err)
	}
	return output, nil
}

// Generate builds a form from the store plus req and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var opts []form.Option
	if req.Values != nil {
		opts = append(opts, form.WithValues(req.Values))
	}
	if req.Errors != nil {
		opts = append(opts, form.WithErrors(req.Errors))
	}
	f, err := o.NewForm(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, f, req.Renderer, req.RenderOptions)
}

// Negotiate picks a registered renderer for an HTTP Accept header, falling
// back to the default renderer.
func (o *Orchestrator) Negotiate(accept string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	renderer, err := o.registry.Negotiate(accept, o.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}
