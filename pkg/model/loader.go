package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	errNoFields       = errors.New("model: form defines no fields")
	errFieldNameEmpty = errors.New("model: field name is required")
)

// LoadFS reads a JSON or YAML form definition from fsys.
func LoadFS(fsys fs.FS, path string) (FormModel, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return FormModel{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data)
	default:
		return LoadYAML(data)
	}
}

// LoadYAML parses and normalises a YAML form definition.
func LoadYAML(data []byte) (FormModel, error) {
	var form FormModel
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&form); err != nil {
		return FormModel{}, fmt.Errorf("model: decode yaml: %w", err)
	}
	return Normalize(form)
}

// LoadJSON parses and normalises a JSON form definition.
func LoadJSON(data []byte) (FormModel, error) {
	var form FormModel
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&form); err != nil {
		return FormModel{}, fmt.Errorf("model: decode json: %w", err)
	}
	return Normalize(form)
}

// Normalize trims identifiers, fills default types and labels, and rejects
// empty or duplicate field names.
func Normalize(form FormModel) (FormModel, error) {
	form.ID = strings.TrimSpace(form.ID)
	seen := make(map[string]struct{})
	total := 0

	sections := make([]Section, 0, len(form.Sections))
	for _, section := range form.Sections {
		fields := make([]Field, 0, len(section.Fields))
		for _, field := range section.Fields {
			normalized, err := normalizeField(field)
			if err != nil {
				return FormModel{}, err
			}
			if _, exists := seen[normalized.Name]; exists {
				return FormModel{}, fmt.Errorf("model: duplicate field %q", normalized.Name)
			}
			seen[normalized.Name] = struct{}{}
			fields = append(fields, normalized)
		}
		total += len(fields)
		section.Title = strings.TrimSpace(section.Title)
		section.Fields = fields
		sections = append(sections, section)
	}
	if total == 0 {
		return FormModel{}, errNoFields
	}
	form.Sections = sections
	return form, nil
}

func normalizeField(field Field) (Field, error) {
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		return Field{}, errFieldNameEmpty
	}

	switch field.Type {
	case "":
		field.Type = FieldTypeString
	case FieldTypeString, FieldTypeArray:
	default:
		return Field{}, fmt.Errorf("model: field %q has unsupported type %q", field.Name, field.Type)
	}

	if strings.TrimSpace(field.Label) == "" {
		field.Label = DefaultLabeler(field.Name)
	}
	field.VisibleWhen = strings.TrimSpace(field.VisibleWhen)

	options := make([]Option, 0, len(field.Options))
	for _, opt := range field.Options {
		if opt.Label == "" {
			opt.Label = DefaultLabeler(opt.Value)
		}
		options = append(options, opt)
	}
	if len(options) > 0 {
		field.Options = options
	} else {
		field.Options = nil
	}

	for i := range field.Validations {
		field.Validations[i].Kind = strings.TrimSpace(field.Validations[i].Kind)
		field.Validations[i].When = strings.TrimSpace(field.Validations[i].When)
	}
	return field, nil
}
