// Package openapi describes the form's JSON endpoints as an OpenAPI 3
// document built from the form model, and checks request bodies against the
// document's structural schema using kin-openapi. Field rules (required,
// email, lengths) are published under the x-validations extension and are
// enforced by the validation package, not by the schema.
package openapi
