package render

import (
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-signupform/pkg/model"
)

// HiddenField represents a hidden form input emitted alongside the visible
// fields.
type HiddenField struct {
	Name  string
	Value string
}

// SortedHiddenFields sorts hidden fields by name for deterministic output.
// Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return result
}

// DecodeSubmission converts an urlencoded HTML form post into values for
// def. Multi-choice fields collect every submitted token (an unchecked group
// submits nothing and yields an empty set); other fields take the first
// value. Keys that are not fields are ignored.
func DecodeSubmission(def model.FormModel, form url.Values) model.Values {
	values := def.ZeroValues()
	for _, field := range def.Fields() {
		submitted, ok := form[field.Name]
		if field.MultiChoice() {
			tokens := make([]string, 0, len(submitted))
			for _, token := range submitted {
				if token != "" {
					tokens = append(tokens, token)
				}
			}
			values[field.Name] = tokens
			continue
		}
		if ok && len(submitted) > 0 {
			values[field.Name] = submitted[0]
		}
	}
	return values
}
