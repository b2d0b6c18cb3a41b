// Package signupform is the top-level entry point: it builds the signup form
// container from a store and renders it.
package signupform

import (
	"context"

	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/orchestrator"
	"github.com/goliatone/go-signupform/pkg/render"
	"github.com/goliatone/go-signupform/pkg/storage"
)

// RenderOptions describes per-request data such as the form action and a
// notice to show above the form.
type RenderOptions = render.RenderOptions

// Request describes one render through the orchestrator.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewForm builds the signup form container with initial values read from
// store (nil for defaults).
func NewForm(ctx context.Context, store storage.Store, options ...form.Option) (*form.Form, error) {
	return orchestrator.New(orchestrator.WithStore(store)).NewForm(ctx, options...)
}

// GenerateHTML renders the signup form page with values from store.
func GenerateHTML(ctx context.Context, store storage.Store, opts RenderOptions) ([]byte, error) {
	return orchestrator.New(orchestrator.WithStore(store)).Generate(ctx, orchestrator.Request{
		Renderer:      "html",
		RenderOptions: opts,
	})
}
