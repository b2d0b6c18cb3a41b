package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/render"
	"github.com/goliatone/go-signupform/pkg/signup"
	"github.com/goliatone/go-signupform/pkg/storage/memory"
)

func TestNewFormUsesStoredValues(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if err := store.Set(ctx, signup.StorageKey, []byte(`{"email":"a@example.com","animal":["bear"]}`)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	gen := New(WithStore(store))
	f, err := gen.NewForm(ctx)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	want := model.Values{
		"email":      "a@example.com",
		"password":   "",
		"colour":     "",
		"animal":     []string{"bear"},
		"tiger_type": "",
	}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFormWithoutStoreUsesDefaults(t *testing.T) {
	f, err := New().NewForm(context.Background())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if diff := cmp.Diff(signup.Defaults(), f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveDraftOmitsPassword(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	gen := New(WithStore(store), WithStorageKey("drafts"))

	values := signup.Defaults().With("email", "a@example.com").With("password", "secret123")
	if err := gen.SaveDraft(ctx, values); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	raw, err := store.Get(ctx, "drafts")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := stored["password"]; ok {
		t.Fatalf("password should not be persisted: %s", raw)
	}
	if stored["email"] != "a@example.com" {
		t.Fatalf("email not persisted: %s", raw)
	}
}

func TestSaveDraftRequiresStore(t *testing.T) {
	if err := New().SaveDraft(context.Background(), signup.Defaults()); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestGenerateHTMLDefault(t *testing.T) {
	output, err := New().Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	for _, want := range []string{"Fill out this awesome form", "Create account", `name="email"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestGenerateTUIWithErrors(t *testing.T) {
	output, err := New().Generate(context.Background(), Request{
		Renderer: "tui",
		Values:   model.Values{"email": "nope"},
		Errors:   map[string]string{"email": "must be a valid email address"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	text := string(output)
	if !strings.Contains(text, "! There is a problem with this form!") {
		t.Fatalf("expected banner, got:\n%s", text)
	}
	if !strings.Contains(text, "  Email: nope\n    ! must be a valid email address") {
		t.Fatalf("expected email error, got:\n%s", text)
	}
	if strings.Contains(text, "Type of tiger") {
		t.Fatalf("tiger_type should be hidden, got:\n%s", text)
	}
}

func TestGenerateUnknownRenderer(t *testing.T) {
	_, err := New().Generate(context.Background(), Request{Renderer: "pdf"})
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestDefaultRendererOverride(t *testing.T) {
	output, err := New(WithDefaultRenderer("tui")).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(string(output), "Fill out this awesome form\n") {
		t.Fatalf("expected text output, got:\n%s", output)
	}
}

func TestNegotiatePicksByAccept(t *testing.T) {
	gen := New()
	renderer, err := gen.Negotiate("text/plain")
	if err != nil || renderer.Name() != "tui" {
		t.Fatalf("expected tui for text/plain, got %v %v", renderer, err)
	}
	renderer, err = gen.Negotiate("")
	if err != nil || renderer.Name() != "html" {
		t.Fatalf("expected html fallback, got %v %v", renderer, err)
	}
	if _, err := gen.Negotiate("image/png"); !errors.Is(err, render.ErrNotAcceptable) {
		t.Fatalf("expected ErrNotAcceptable, got %v", err)
	}
}

func TestTranslatorAppliesToRenders(t *testing.T) {
	catalog := render.Catalog{"fr": {"Create account": "Créer un compte"}}
	gen := New(WithTranslator("fr", catalog))

	output, err := gen.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), "Créer un compte") {
		t.Fatalf("expected translated submit label, got:\n%s", output)
	}

	output, err = gen.Generate(context.Background(), Request{
		RenderOptions: render.RenderOptions{Translator: render.Catalog{}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), "Create account") {
		t.Fatalf("request translator should win, got:\n%s", output)
	}
}

func TestSubmitHandlerIsPassedToForms(t *testing.T) {
	var got model.Values
	gen := New(WithSubmitHandler(func(_ context.Context, values model.Values) error {
		got = values
		return nil
	}))
	f, err := gen.NewForm(context.Background(), signupValues())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	ok, err := f.Submit(context.Background())
	if err != nil || !ok {
		t.Fatalf("submit: ok=%v err=%v errors=%v", ok, err, f.Errors())
	}
	if got.String("email") != "a@example.com" {
		t.Fatalf("handler not called with values: %v", got)
	}
}

func TestNilSchemaIsReported(t *testing.T) {
	gen := New(WithDefinition(signup.Form(), nil))
	if _, err := gen.NewForm(context.Background()); err == nil {
		t.Fatalf("expected error for missing schema")
	}
}
