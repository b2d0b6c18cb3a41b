package signupform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-signupform/pkg/renderers/html"
	"github.com/goliatone/go-signupform/pkg/signup"
	"github.com/goliatone/go-signupform/pkg/storage/memory"
)

func TestAssetsFSContainsStylesheet(t *testing.T) {
	if _, err := fs.ReadFile(AssetsFS(), html.StylesheetName); err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
}

func TestNewFormReadsStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if err := store.Set(ctx, signup.StorageKey, []byte(`{"colour":"red"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	f, err := NewForm(ctx, store)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if got := f.Value("colour"); got != "red" {
		t.Fatalf("expected stored colour, got %v", got)
	}
}

func TestGenerateHTMLWithNotice(t *testing.T) {
	out, err := GenerateHTML(context.Background(), nil, RenderOptions{Action: "/signup", Notice: "Welcome back"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	page := string(out)
	if !strings.Contains(page, `action="/signup"`) || !strings.Contains(page, "Welcome back") {
		t.Fatalf("unexpected page:\n%s", page)
	}
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument(context.Background())
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.Title() != "Fill out this awesome form" {
		t.Fatalf("unexpected title %q", doc.Title())
	}
}
