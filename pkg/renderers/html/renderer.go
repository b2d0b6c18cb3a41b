// Package html renders the signup form as a server-side HTML page using
// pongo2 templates and go-theme tokens.
package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-signupform/pkg/render"
	rendertemplate "github.com/goliatone/go-signupform/pkg/render/template"
	"github.com/goliatone/go-signupform/pkg/render/template/pongo"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
	manifest         *theme.Manifest
	themeName        string
	themeVariant     string
	assetURLPrefix   string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme uses manifest with the given variant ("" for the base theme).
func WithTheme(manifest *theme.Manifest, variant string) Option {
	return func(cfg *config) {
		cfg.manifest = manifest
		cfg.themeVariant = variant
	}
}

// WithThemeSelector resolves the theme through selector at construction.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithAssetURLPrefix prefixes relative asset paths (e.g. "/static").
func WithAssetURLPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetURLPrefix = prefix
	}
}

// Renderer draws a render.View as a complete HTML document.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	theme          *theme.RendererConfig
	assetURLPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer. Without theme options it uses
// DefaultManifest.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	selection, err := resolveTheme(cfg)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}

	return &Renderer{
		templates:      templates,
		theme:          ThemeConfig(selection),
		assetURLPrefix: cfg.assetURLPrefix,
	}, nil
}

func resolveTheme(cfg config) (*theme.Selection, error) {
	if cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("select theme %q: %w", cfg.themeName, err)
		}
		return selection, nil
	}

	manifest := cfg.manifest
	if manifest == nil {
		manifest = DefaultManifest()
	}
	if cfg.themeVariant != "" {
		if _, ok := manifest.Variants[cfg.themeVariant]; !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", manifest.Name, cfg.themeVariant)
		}
	}
	if err := theme.NewRegistry().Register(manifest); err != nil {
		return nil, fmt.Errorf("register theme %q: %w", manifest.Name, err)
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  cfg.themeVariant,
		Manifest: manifest,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the theme's page template (templates/form.tmpl unless the
// theme overrides forms.page) for view.
func (r *Renderer) Render(_ context.Context, view render.View) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}
	page := defaultPageTemplate
	if r.theme != nil && r.theme.Partials[ThemePartialPage] != "" {
		page = r.theme.Partials[ThemePartialPage]
	}
	result, err := r.templates.RenderTemplate(page, r.templateData(view))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) templateData(view render.View) map[string]any {
	data := map[string]any{
		"form":  formData(view),
		"theme": map[string]any{},
	}
	stylesheet := StylesheetName
	if r.theme != nil {
		data["theme"] = map[string]any{
			"name":           r.theme.Theme,
			"variant":        r.theme.Variant,
			"css_vars_style": cssVarsStyle(r.theme.CSSVars),
		}
		if r.theme.AssetURL != nil {
			if resolved := r.theme.AssetURL(ThemeAssetStylesheet); resolved != "" {
				stylesheet = resolved
			}
		}
	}
	data["stylesheet"] = expandAssetURL(r.assetURLPrefix, stylesheet)
	return data
}

func formData(view render.View) map[string]any {
	sections := make([]any, 0, len(view.Sections))
	for _, section := range view.Sections {
		fields := make([]any, 0, len(section.Fields))
		for _, field := range section.Fields {
			options := make([]any, 0, len(field.Options))
			for _, opt := range field.Options {
				options = append(options, map[string]any{
					"value":    opt.Value,
					"label":    opt.Label,
					"selected": opt.Selected,
				})
			}
			fields = append(fields, map[string]any{
				"name":        field.Name,
				"label":       field.Label,
				"kind":        field.Kind,
				"placeholder": field.Placeholder,
				"value":       field.Value,
				"options":     options,
				"error":       field.Error,
				"visible":     field.Visible,
			})
		}
		sections = append(sections, map[string]any{
			"title":  section.Title,
			"fields": fields,
		})
	}

	hidden := make([]any, 0, len(view.Hidden))
	for _, field := range view.Hidden {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	return map[string]any{
		"id":           view.ID,
		"title":        view.Title,
		"submit_label": view.SubmitLabel,
		"action":       view.Action,
		"banner":       view.Banner,
		"notice":       view.Notice,
		"sections":     sections,
		"hidden":       hidden,
	}
}
