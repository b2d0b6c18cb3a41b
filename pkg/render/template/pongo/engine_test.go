package pongo_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-signupform/pkg/render/template/pongo"
)

func TestEngineRequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}

func TestEngineRenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"templates/greet.tmpl": {Data: []byte(`Hello {{ name }}{% if admin %} (admin){% endif %}`)},
	}
	engine, err := pongo.New(pongo.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var buf bytes.Buffer
	got, err := engine.RenderTemplate("templates/greet", map[string]any{"name": "Ada", "admin": true}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada (admin)" || buf.String() != got {
		t.Fatalf("unexpected output %q / %q", got, buf.String())
	}
}

func TestEngineEscapesByDefault(t *testing.T) {
	files := fstest.MapFS{"value.tmpl": {Data: []byte(`{{ value }}`)}}
	engine, err := pongo.New(pongo.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderTemplate("value", map[string]any{"value": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestEngineStructDataAndExtension(t *testing.T) {
	files := fstest.MapFS{"list.html": {Data: []byte(`{% for i in items %}{{ i }},{% endfor %}`)}}
	engine, err := pongo.New(pongo.WithFS(files), pongo.WithExtension("html"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	type payload struct {
		Items []string `json:"items"`
	}
	got, err := engine.RenderTemplate("list", payload{Items: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "a,b," {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineMissingTemplate(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatalf("expected error for a missing template")
	}
}
