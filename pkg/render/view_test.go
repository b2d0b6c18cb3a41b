package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/render"
	"github.com/goliatone/go-signupform/pkg/signup"
	"github.com/goliatone/go-signupform/pkg/widgets"
)

func TestProjectInitialForm(t *testing.T) {
	f, err := signup.NewForm()
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	view := render.Project(f, render.RenderOptions{Action: "/"})

	if view.Title != "Fill out this awesome form" || view.SubmitLabel != "Create account" || view.Banner != "" {
		t.Fatalf("unexpected chrome: %+v", view)
	}
	var titles []string
	for _, section := range view.Sections {
		titles = append(titles, section.Title)
	}
	if diff := cmp.Diff([]string{"Your details", "Your animal"}, titles); diff != "" {
		t.Fatalf("section titles mismatch (-want +got):\n%s", diff)
	}

	kinds := map[string]string{}
	for _, field := range view.Fields() {
		kinds[field.Name] = field.Kind
	}
	wantKinds := map[string]string{
		"email":      render.KindEmail,
		"password":   render.KindPassword,
		"colour":     render.KindSelect,
		"animal":     render.KindCheckboxes,
		"tiger_type": render.KindText,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	tiger, _ := view.Field("tiger_type")
	if tiger.Visible {
		t.Fatalf("tiger_type should be hidden without tiger")
	}
}

func TestProjectAfterFailedSubmit(t *testing.T) {
	f, err := signup.NewForm(form.WithValues(model.Values{
		"email":  "nodomain",
		"colour": "red",
		"animal": []string{"tiger"},
	}))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if ok, _ := f.Submit(context.Background()); ok {
		t.Fatalf("expected rejected submit")
	}

	view := render.Project(f, render.RenderOptions{})
	if view.Banner != form.Banner {
		t.Fatalf("expected banner, got %q", view.Banner)
	}

	email, _ := view.Field("email")
	if email.Value != "nodomain" || email.Error != "must be a valid email address" {
		t.Fatalf("unexpected email view: %+v", email)
	}

	animal, _ := view.Field("animal")
	wantChoices := []render.Choice{
		{Value: "bear", Label: "Bear"},
		{Value: "tiger", Label: "Tiger", Selected: true},
		{Value: "snake", Label: "Snake"},
		{Value: "donkey", Label: "Donkey"},
	}
	if diff := cmp.Diff(wantChoices, animal.Options); diff != "" {
		t.Fatalf("animal choices mismatch (-want +got):\n%s", diff)
	}

	colour, _ := view.Field("colour")
	if colour.Value != "red" || !colour.Options[2].Selected {
		t.Fatalf("unexpected colour view: %+v", colour)
	}

	tiger, _ := view.Field("tiger_type")
	if !tiger.Visible || tiger.Error != `required when choosing "Tiger"` {
		t.Fatalf("unexpected tiger_type view: %+v", tiger)
	}
}

func TestProjectTranslates(t *testing.T) {
	f, err := signup.NewForm(form.WithErrors(map[string]string{"colour": "required"}))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	catalog := render.Catalog{"fr": {
		"Colour":   "Couleur",
		"required": "obligatoire",
	}}
	view := render.Project(f, render.RenderOptions{Locale: "fr", Translator: catalog})

	colour, _ := view.Field("colour")
	if colour.Label != "Couleur" || colour.Error != "obligatoire" {
		t.Fatalf("unexpected translation: %+v", colour)
	}
	email, _ := view.Field("email")
	if email.Label != "Email" {
		t.Fatalf("untranslated strings should fall back, got %q", email.Label)
	}
}

func TestProjectCustomWidgets(t *testing.T) {
	f, err := signup.NewForm()
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	reg := widgets.NewRegistry()
	reg.Register(widgets.WidgetTextarea, 100, func(field model.Field) bool {
		return field.Name == "tiger_type"
	})

	view := render.Project(f, render.RenderOptions{Widgets: reg})
	tiger, _ := view.Field("tiger_type")
	if tiger.Kind != render.KindTextarea {
		t.Fatalf("expected textarea, got %q", tiger.Kind)
	}
	email, _ := view.Field("email")
	if email.Kind != render.KindEmail {
		t.Fatalf("expected email kind to be untouched, got %q", email.Kind)
	}
}

func TestParseCatalog(t *testing.T) {
	catalog, err := render.ParseCatalog([]byte("fr:\n  Email: Courriel\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, ok := catalog.Translate("fr", "Email"); !ok || got != "Courriel" {
		t.Fatalf("unexpected translation %q %v", got, ok)
	}
	if _, ok := catalog.Translate("de", "Email"); ok {
		t.Fatalf("missing locale should not translate")
	}
	if _, err := render.ParseCatalog([]byte("fr: [nope]\n")); err == nil {
		t.Fatalf("expected error for a malformed catalog")
	}
}
