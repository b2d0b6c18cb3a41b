package signup_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/signup"
	"github.com/goliatone/go-signupform/pkg/validation"
)

func validValues() model.Values {
	return model.Values{
		"email":      "foo@example.com",
		"password":   "12345678",
		"colour":     "blue",
		"animal":     []string{"bear", "tiger"},
		"tiger_type": "sneaky",
	}
}

func issuesOf(t *testing.T, values model.Values) map[string]string {
	t.Helper()
	_, err := signup.Schema().Validate(values)
	if err == nil {
		return nil
	}
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %T", err)
	}
	return verr.Fields()
}

func TestFormDefinition(t *testing.T) {
	form := signup.Form()

	if form.Title != "Fill out this awesome form" || form.SubmitLabel != "Create account" {
		t.Fatalf("unexpected form chrome: %q / %q", form.Title, form.SubmitLabel)
	}
	var names []string
	for _, field := range form.Fields() {
		names = append(names, field.Name)
	}
	want := []string{"email", "password", "colour", "animal", "tiger_type"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	animal, _ := form.Field(signup.FieldAnimal)
	if !animal.MultiChoice() || len(animal.Options) != 4 || animal.Options[1].Label != "Tiger" {
		t.Fatalf("unexpected animal field: %+v", animal)
	}
}

func TestDefaults(t *testing.T) {
	want := model.Values{
		"email":      "",
		"password":   "",
		"colour":     "",
		"animal":     []string{},
		"tiger_type": "",
	}
	if diff := cmp.Diff(want, signup.Defaults()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ScenarioValid(t *testing.T) {
	values := validValues()
	got, err := signup.Schema().Validate(values)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if diff := cmp.Diff(validValues(), got); diff != "" {
		t.Fatalf("values changed (-want +got):\n%s", diff)
	}
}

func TestSchema_OriginalFixtureWithUnlistedAnimals(t *testing.T) {
	values := model.Values{
		"email":      "foo@example.com",
		"password":   "12345678",
		"colour":     "perriwinkle blue",
		"animal":     []string{"liger", "wholphin", "tiger"},
		"tiger_type": "sneaky",
	}
	if got := issuesOf(t, values); got != nil {
		t.Fatalf("expected success, got %v", got)
	}
}

func TestSchema_ScenarioInvalidEmail(t *testing.T) {
	got := issuesOf(t, validValues().With("email", "nodomain"))
	want := map[string]string{"email": "must be a valid email address"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ScenarioMissingTigerType(t *testing.T) {
	got := issuesOf(t, validValues().With("tiger_type", ""))
	want := map[string]string{"tiger_type": `required when choosing "Tiger"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ScenarioTooFewAnimals(t *testing.T) {
	values := validValues().With("animal", []string{"bear"}).With("tiger_type", "")
	got := issuesOf(t, values)
	want := map[string]string{"animal": "must select at least two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_EachSingleViolation(t *testing.T) {
	cases := []struct {
		field string
		value any
		want  string
	}{
		{"email", "", "required"},
		{"email", "foo@bar", "must be a valid email address"},
		{"password", "1234567", "must be 8 characters or more"},
		{"password", "", "must be 8 characters or more"},
		{"colour", "", "required"},
		{"animal", []string{}, "must select at least two"},
		{"tiger_type", "", `required when choosing "Tiger"`},
	}
	for _, tc := range cases {
		got := issuesOf(t, validValues().With(tc.field, tc.value))
		want := map[string]string{tc.field: tc.want}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s=%v mismatch (-want +got):\n%s", tc.field, tc.value, diff)
		}
	}
}

func TestSchema_EmptyAnimalSetWithTigerTypeEmpty(t *testing.T) {
	got := issuesOf(t, validValues().With("animal", []string{}).With("tiger_type", ""))
	want := map[string]string{"animal": "must select at least two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_TigerTypeOptionalWithoutTiger(t *testing.T) {
	values := validValues().With("animal", []string{"bear", "snake"}).With("tiger_type", "")
	if got := issuesOf(t, values); got != nil {
		t.Fatalf("expected success without tiger, got %v", got)
	}
}

func TestSchema_TigerAmongManyStillRequiresType(t *testing.T) {
	values := validValues().
		With("animal", []string{"bear", "snake", "donkey", "tiger"}).
		With("tiger_type", "")
	if _, ok := issuesOf(t, values)["tiger_type"]; !ok {
		t.Fatalf("expected tiger_type error")
	}
}

func TestSchema_PlainStringAnimalIsOneToken(t *testing.T) {
	values := validValues().With("animal", "tigers").With("tiger_type", "")
	got := issuesOf(t, values)
	want := map[string]string{"animal": "must select at least two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	f, err := signup.NewForm(form.WithValues(values))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if f.Visible(signup.FieldTigerType) {
		t.Fatalf("tiger_type should stay hidden for animal=%q", "tigers")
	}
}

func TestSchema_ReportsAllFieldsAtOnce(t *testing.T) {
	values := model.Values{
		"email":      "",
		"password":   "",
		"colour":     "",
		"animal":     []string{"tiger"},
		"tiger_type": "",
	}
	want := map[string]string{
		"email":      "required",
		"password":   "must be 8 characters or more",
		"colour":     "required",
		"animal":     "must select at least two",
		"tiger_type": `required when choosing "Tiger"`,
	}
	if diff := cmp.Diff(want, issuesOf(t, values)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_Idempotent(t *testing.T) {
	values := validValues().With("email", "nodomain").With("tiger_type", "")
	first := issuesOf(t, values)
	second := issuesOf(t, values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated validation differs (-first +second):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	got, err := signup.Decode(model.Values{
		"email":      "foo@example.com",
		"password":   "12345678",
		"colour":     "blue",
		"animal":     []any{"bear", "snake"},
		"tiger_type": "left over",
		"extra":      true,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := signup.Signup{
		Email:    "foo@example.com",
		Password: "12345678",
		Colour:   "blue",
		Animal:   []string{"bear", "snake"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}

	tiger, err := signup.Decode(validValues())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !tiger.HasTiger() || tiger.TigerType != "sneaky" {
		t.Fatalf("expected tiger type kept, got %+v", tiger)
	}
}
