package model

// FieldType is the simplified enum for form-friendly value kinds.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeArray  FieldType = "array"
)

const (
	FormatEmail    = "email"
	FormatPassword = "password"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleEmail     = "email"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMinItems  = "minItems"
)

// ValidationRule represents a single constraint applied to a field. Length and
// count limits encode their threshold in Params["value"]. Message is the text
// surfaced to the user when the rule fails. When holds an optional visibility
// style expression; the rule only applies while it evaluates to true.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message" yaml:"message"`
	When    string            `json:"when,omitempty" yaml:"when,omitempty"`
}

// Option is a selectable choice for select and multi-choice fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Field models an individual input inside a form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	VisibleWhen string            `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// MultiChoice reports whether the field holds a set of tokens.
func (f Field) MultiChoice() bool {
	return f.Type == FieldTypeArray
}

// Section groups related fields, rendered as a fieldset.
type Section struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// FormModel is the top-level representation renderers and the state container
// consume.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Sections    []Section         `json:"sections" yaml:"sections"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Fields flattens the sections into declaration order.
func (m FormModel) Fields() []Field {
	var out []Field
	for _, section := range m.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field looks up a field by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, section := range m.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}

// ZeroValues returns the empty value for every field: "" for strings and an
// empty set for multi-choice fields.
func (m FormModel) ZeroValues() Values {
	out := make(Values)
	for _, field := range m.Fields() {
		if field.MultiChoice() {
			out[field.Name] = []string{}
			continue
		}
		out[field.Name] = ""
	}
	return out
}
