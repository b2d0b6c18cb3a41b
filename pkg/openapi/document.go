package openapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goliatone/go-signupform/pkg/model"
)

// Endpoint paths described by the document.
const (
	PathSubmit   = "/api/submit"
	PathValidate = "/api/validate"

	OperationSubmit   = "submitForm"
	OperationValidate = "validateForm"
)

// Option customises the generated document.
type Option func(*buildConfig)

type buildConfig struct {
	version string
	servers []string
}

// WithVersion sets info.version (default "1.0.0").
func WithVersion(version string) Option {
	return func(cfg *buildConfig) {
		if version != "" {
			cfg.version = version
		}
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(cfg *buildConfig) {
		if url != "" {
			cfg.servers = append(cfg.servers, url)
		}
	}
}

// Build renders the OpenAPI document for def as JSON.
func Build(def model.FormModel, options ...Option) ([]byte, error) {
	cfg := buildConfig{version: "1.0.0"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	title := def.Title
	if title == "" {
		title = def.ID
	}
	doc := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   title,
			"version": cfg.version,
		},
		"paths": map[string]any{
			PathSubmit: map[string]any{
				"post": operation(OperationSubmit, "Submit the form", map[string]any{
					"200": jsonResponse("Submission accepted", ref("SubmitResponse")),
					"400": jsonResponse("Malformed request body", ref("ErrorResponse")),
					"422": jsonResponse("Validation failed", ref("ValidationResult")),
				}),
			},
			PathValidate: map[string]any{
				"post": operation(OperationValidate, "Validate values without submitting", map[string]any{
					"200": jsonResponse("Validation outcome", ref("ValidationResult")),
					"400": jsonResponse("Malformed request body", ref("ErrorResponse")),
				}),
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"FormValues":       valuesSchema(def),
				"ValidationResult": validationResultSchema(),
				"SubmitResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ok":      map[string]any{"type": "boolean"},
						"message": map[string]any{"type": "string"},
					},
				},
				"ErrorResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
	if len(cfg.servers) > 0 {
		servers := make([]any, 0, len(cfg.servers))
		for _, url := range cfg.servers {
			servers = append(servers, map[string]any{"url": url})
		}
		doc["servers"] = servers
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}
	return data, nil
}

func operation(id, summary string, responses map[string]any) map[string]any {
	return map[string]any{
		"operationId": id,
		"summary":     summary,
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": ref("FormValues")},
			},
		},
		"responses": responses,
	}
}

func jsonResponse(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{"schema": schema},
		},
	}
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func valuesSchema(def model.FormModel) map[string]any {
	properties := make(map[string]any)
	for _, field := range def.Fields() {
		properties[field.Name] = fieldSchema(field)
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func fieldSchema(field model.Field) map[string]any {
	schema := map[string]any{"title": field.Label}
	if field.Description != "" {
		schema["description"] = field.Description
	}

	if field.MultiChoice() {
		schema["type"] = "array"
		items := map[string]any{"type": "string"}
		if examples := optionValues(field); len(examples) > 0 {
			items["example"] = examples[0]
		}
		schema["items"] = items
	} else {
		schema["type"] = "string"
		// Format is a rendering hint; syntax is enforced by x-validations.
		if field.Format != "" {
			schema["x-format"] = field.Format
		}
	}

	if values := optionValues(field); len(values) > 0 {
		schema["x-options"] = values
	}
	if field.VisibleWhen != "" {
		schema["x-visible-when"] = field.VisibleWhen
	}
	if len(field.Validations) > 0 {
		rules := make([]any, 0, len(field.Validations))
		for _, rule := range field.Validations {
			entry := map[string]any{"kind": rule.Kind}
			if rule.Message != "" {
				entry["message"] = rule.Message
			}
			if rule.When != "" {
				entry["when"] = rule.When
			}
			if raw, ok := rule.Params["value"]; ok {
				if n, err := strconv.Atoi(raw); err == nil {
					entry["value"] = n
				}
			}
			rules = append(rules, entry)
		}
		schema["x-validations"] = rules
	}
	return schema
}

func optionValues(field model.Field) []string {
	if len(field.Options) == 0 {
		return nil
	}
	out := make([]string, 0, len(field.Options))
	for _, opt := range field.Options {
		out = append(out, opt.Value)
	}
	return out
}

func validationResultSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"valid"},
		"properties": map[string]any{
			"valid": map[string]any{"type": "boolean"},
			"issues": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"field", "message"},
					"properties": map[string]any{
						"field":   map[string]any{"type": "string"},
						"message": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}
