package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Issue is a single field validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	return i.Field + ": " + i.Message
}

// Error aggregates every issue found in one validation pass, in rule
// declaration order with at most one issue per field.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "validation: no issues"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Error())
	}
	return fmt.Sprintf("validation: %d issue(s): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Fields maps each failing field to its message.
func (e *Error) Fields() map[string]string {
	if e == nil {
		return nil
	}
	out := make(map[string]string, len(e.Issues))
	for _, issue := range e.Issues {
		out[issue.Field] = issue.Message
	}
	return out
}

// Result captures validation outcomes for JSON responses.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// ResultOf converts the error returned by Schema.Validate into a Result.
// Errors that are not validation errors are reported as a single form-level
// issue with an empty field.
func ResultOf(err error) Result {
	if err == nil {
		return Result{Valid: true}
	}
	var verr *Error
	if errors.As(err, &verr) {
		return Result{Valid: false, Issues: append([]Issue(nil), verr.Issues...)}
	}
	return Result{Valid: false, Issues: []Issue{{Message: err.Error()}}}
}
