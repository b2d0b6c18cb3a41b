// Package model defines the declarative form description shared by the
// validation, visibility, and render packages. A FormModel groups fields into
// sections (fieldsets); each Field carries its label, input format, choice
// options, validation rules, and an optional visibility expression in
// `VisibleWhen`. Validation rules use canonical kinds (required, email,
// minLength, minItems) with string parameters so definitions round-trip
// through YAML and JSON unchanged. A rule with a `When` expression only
// applies while that expression holds for the current values.
//
// Values is the mapping from field name to current input. Strings back text
// and select inputs, []string backs multi-choice inputs. Values are treated as
// immutable: With returns a new mapping sharing every other entry.
package model
