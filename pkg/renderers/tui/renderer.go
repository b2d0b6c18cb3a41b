package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-signupform/pkg/render"
)

// Renderer prints a render.View for terminals and logs. Hidden fields are
// left out and passwords are masked.
type Renderer struct {
	outputFormat OutputFormat
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer (pretty output by default).
func New(options ...Option) *Renderer {
	r := &Renderer{outputFormat: OutputFormatPrettyText}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Render serializes view.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch r.outputFormat {
	case OutputFormatJSON:
		return renderJSON(view)
	default:
		return []byte(renderPretty(view)), nil
	}
}

func renderPretty(view render.View) string {
	var b strings.Builder
	b.WriteString(view.Title)
	b.WriteString("\n")
	if view.Notice != "" {
		fmt.Fprintf(&b, "%s\n", view.Notice)
	}
	if view.Banner != "" {
		fmt.Fprintf(&b, "! %s\n", view.Banner)
	}
	for _, section := range view.Sections {
		fmt.Fprintf(&b, "\n%s\n", section.Title)
		for _, field := range section.Fields {
			if !field.Visible {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", field.Label, displayValue(field))
			if field.Error != "" {
				fmt.Fprintf(&b, "    ! %s\n", field.Error)
			}
		}
	}
	return b.String()
}

func displayValue(field render.FieldView) string {
	switch field.Kind {
	case render.KindPassword:
		return strings.Repeat("*", len([]rune(field.Value)))
	case render.KindCheckboxes, render.KindSelect:
		var labels []string
		for _, opt := range field.Options {
			if opt.Selected {
				labels = append(labels, opt.Label)
			}
		}
		if field.Kind == render.KindCheckboxes {
			for _, token := range field.Selected {
				if !hasOption(field.Options, token) {
					labels = append(labels, token)
				}
			}
		} else if len(labels) == 0 && field.Value != "" {
			labels = append(labels, field.Value)
		}
		return strings.Join(labels, ", ")
	default:
		return field.Value
	}
}

func hasOption(options []render.Choice, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func renderJSON(view render.View) ([]byte, error) {
	type fieldJSON struct {
		Value any    `json:"value"`
		Error string `json:"error,omitempty"`
	}
	payload := struct {
		Banner string               `json:"banner,omitempty"`
		Fields map[string]fieldJSON `json:"fields"`
	}{
		Banner: view.Banner,
		Fields: make(map[string]fieldJSON),
	}
	for _, field := range view.Fields() {
		if !field.Visible || field.Kind == render.KindPassword {
			continue
		}
		var value any = field.Value
		if field.Kind == render.KindCheckboxes {
			value = append([]string{}, field.Selected...)
		}
		payload.Fields[field.Name] = fieldJSON{Value: value, Error: field.Error}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode json: %w", err)
	}
	return data, nil
}
