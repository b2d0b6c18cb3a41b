package model_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signupform/pkg/model"
)

const sampleYAML = `
id: sample
sections:
  - title: " Details "
    fields:
      - name: " first_name "
      - name: pets
        type: array
        options:
          - value: guinea_pig
        validations:
          - kind: " minItems "
            params:
              value: "1"
            message: pick one
`

func TestLoadYAMLNormalizes(t *testing.T) {
	form, err := model.LoadYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := model.FormModel{
		ID: "sample",
		Sections: []model.Section{{
			Title: "Details",
			Fields: []model.Field{
				{Name: "first_name", Type: model.FieldTypeString, Label: "First Name"},
				{
					Name:    "pets",
					Type:    model.FieldTypeArray,
					Label:   "Pets",
					Options: []model.Option{{Value: "guinea_pig", Label: "Guinea Pig"}},
					Validations: []model.ValidationRule{{
						Kind:    model.ValidationRuleMinItems,
						Params:  map[string]string{"value": "1"},
						Message: "pick one",
					}},
				},
			},
		}},
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Values{"first_name": "", "pets": []string{}}, form.ZeroValues()); diff != "" {
		t.Fatalf("zero values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSPicksDecoderByExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"form.json": {Data: []byte(`{"id":"j","sections":[{"fields":[{"name":"email","format":"email"}]}]}`)},
	}
	form, err := model.LoadFS(fsys, "form.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	field, ok := form.Field("email")
	if !ok || field.Format != model.FormatEmail || field.Label != "Email" {
		t.Fatalf("unexpected field: %+v", field)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"no fields", "id: x\nsections: []\n", "no fields"},
		{"empty name", "sections:\n  - fields:\n      - name: \" \"\n", "field name is required"},
		{"duplicate", "sections:\n  - fields:\n      - name: a\n  - fields:\n      - name: a\n", `duplicate field "a"`},
		{"bad type", "sections:\n  - fields:\n      - name: a\n        type: number\n", "unsupported type"},
		{"unknown key", "sections:\n  - fields:\n      - name: a\n        colour: red\n", "decode yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.LoadYAML([]byte(tc.doc))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"tiger_type": "Tiger Type",
		"firstName":  "First Name",
		"address2":   "Address 2",
		"":           "",
	}
	for input, want := range cases {
		if got := model.DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
