package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/validation"
)

func accountSchema(options ...validation.Option) *validation.Schema {
	hasPet := func(values model.Values) bool { return values.Contains("pets", "cat") }
	return validation.New([]validation.Rule{
		validation.Required("email", "required"),
		validation.Email("email", "must be a valid email address"),
		validation.MinLength("password", 8, "must be 8 characters or more"),
		validation.MinItems("pets", 1, "pick one"),
		validation.When(hasPet, validation.Required("cat_name", "name your cat")),
	}, options...)
}

func TestSchemaValidate_ReportsEveryFailingField(t *testing.T) {
	values := model.Values{
		"email":    "nope",
		"password": "short",
		"pets":     []string{},
		"cat_name": "",
	}

	_, err := accountSchema().Validate(values)
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}

	want := []validation.Issue{
		{Field: "email", Message: "must be a valid email address"},
		{Field: "password", Message: "must be 8 characters or more"},
		{Field: "pets", Message: "pick one"},
	}
	if diff := cmp.Diff(want, verr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaValidate_FirstFailingRuleWinsPerField(t *testing.T) {
	values := model.Values{"email": "", "password": "12345678", "pets": []string{"dog"}}

	got := accountSchema().Errors(values)
	want := map[string]string{"email": "required"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaValidate_AbortEarly(t *testing.T) {
	values := model.Values{"email": "nope", "password": "short", "pets": []string{}}

	got := accountSchema(validation.WithAbortEarly(true)).Errors(values)
	want := map[string]string{"email": "must be a valid email address"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaValidate_ConditionalRuleReadsCurrentValues(t *testing.T) {
	schema := accountSchema()
	base := model.Values{"email": "a@example.com", "password": "12345678", "cat_name": ""}

	withCat := base.With("pets", []string{"dog", "cat"})
	if diff := cmp.Diff(map[string]string{"cat_name": "name your cat"}, schema.Errors(withCat)); diff != "" {
		t.Fatalf("expected conditional failure (-want +got):\n%s", diff)
	}

	withoutCat := withCat.Toggle("pets", "cat")
	if got := schema.Errors(withoutCat); got != nil {
		t.Fatalf("expected no errors once the condition no longer holds, got %v", got)
	}
}

func TestSchemaValidate_SuccessReturnsInputUntouched(t *testing.T) {
	values := model.Values{
		"email":    "a@example.com",
		"password": "12345678",
		"pets":     []string{"cat"},
		"cat_name": "Mog",
	}
	snapshot := values.Clone()

	for i := 0; i < 2; i++ {
		got, err := accountSchema().Validate(values)
		if err != nil {
			t.Fatalf("validate #%d: %v", i, err)
		}
		if diff := cmp.Diff(snapshot, got); diff != "" {
			t.Fatalf("returned values changed (-want +got):\n%s", diff)
		}
	}
	if diff := cmp.Diff(snapshot, values); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestResultOf(t *testing.T) {
	if got := validation.ResultOf(nil); !got.Valid || len(got.Issues) != 0 {
		t.Fatalf("expected valid result, got %+v", got)
	}

	_, err := accountSchema().Validate(model.Values{"email": "", "password": "12345678", "pets": []string{"dog"}})
	got := validation.ResultOf(err)
	want := validation.Result{Valid: false, Issues: []validation.Issue{{Field: "email", Message: "required"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	other := validation.ResultOf(errors.New("boom"))
	if other.Valid || len(other.Issues) != 1 || other.Issues[0].Field != "" {
		t.Fatalf("unexpected result for plain error: %+v", other)
	}
}
