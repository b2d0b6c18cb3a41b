package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-signupform/pkg/model"
)

// ErrUnknownOperation is returned when a path/method pair is not described.
var ErrUnknownOperation = errors.New("openapi: unknown operation")

// Document is a loaded and validated OpenAPI document.
type Document struct {
	raw  []byte
	spec *openapi3.T
}

// Operation summarises one described endpoint.
type Operation struct {
	ID     string
	Method string
	Path   string
}

// New builds the document for def and loads it.
func New(ctx context.Context, def model.FormModel, options ...Option) (*Document, error) {
	raw, err := Build(def, options...)
	if err != nil {
		return nil, err
	}
	return Load(ctx, raw)
}

// Load parses raw (JSON or YAML) and validates it against the OpenAPI 3
// rules.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return &Document{raw: append([]byte(nil), raw...), spec: spec}, nil
}

// Raw returns the document bytes as loaded.
func (d *Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Title returns info.title.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Operations lists the described endpoints sorted by path then method.
func (d *Document) Operations() []Operation {
	var out []Operation
	if d.spec.Paths == nil {
		return out
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			out = append(out, Operation{ID: op.OperationID, Method: strings.ToUpper(method), Path: path})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// CheckBody validates a decoded JSON body (maps, slices, strings, float64,
// bool, nil) against the request schema of method+path. Only structure is
// checked; field rules are left to the validation package.
func (d *Document) CheckBody(method, path string, body any) error {
	schema, err := d.requestSchema(method, path)
	if err != nil {
		return err
	}
	if err := schema.VisitJSON(body, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("openapi: request body: %w", err)
	}
	return nil
}

func (d *Document) requestSchema(method, path string) (*openapi3.Schema, error) {
	if d.spec.Paths == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	item := d.spec.Paths.Find(path)
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, fmt.Errorf("openapi: %s %s has no JSON request schema", method, path)
	}
	return media.Schema.Value, nil
}
