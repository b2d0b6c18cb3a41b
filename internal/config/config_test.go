package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signupform/pkg/storage/file"
	"github.com/goliatone/go-signupform/pkg/storage/memory"
	"github.com/goliatone/go-signupform/pkg/storage/redis"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func missingEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", missingEnv(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "signupform.yaml", `
server:
  addr: ":9090"
  persist_drafts: true
storage:
  driver: redis
  redis:
    addr: "redis:6379"
    ttl: 24h
theme:
  variant: dark
log:
  level: debug
`)

	cfg, err := Load(path, missingEnv(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Server.Addr = ":9090"
	want.Server.PersistDrafts = true
	want.Storage.Driver = DriverRedis
	want.Storage.Redis.Addr = "redis:6379"
	want.Storage.Redis.TTL = 24 * time.Hour
	want.Theme.Variant = "dark"
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "signupform.yaml", "server:\n  addr: \":9090\"\n")
	t.Setenv("SIGNUPFORM_ADDR", ":7070")
	t.Setenv("SIGNUPFORM_STORAGE", "memory")
	t.Setenv("SIGNUPFORM_PERSIST_DRAFTS", "true")
	t.Setenv("SIGNUPFORM_REDIS_DB", "3")

	cfg, err := Load(path, missingEnv(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" || cfg.Storage.Driver != DriverMemory || !cfg.Server.PersistDrafts || cfg.Storage.Redis.DB != 3 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "SIGNUPFORM_STORAGE_KEY=from-dotenv\n")
	t.Setenv("SIGNUPFORM_STORAGE_KEY", "")
	os.Unsetenv("SIGNUPFORM_STORAGE_KEY")

	cfg, err := Load("", envPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Key != "from-dotenv" {
		t.Fatalf("expected key from .env, got %q", cfg.Storage.Key)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]struct {
		yaml string
		env  map[string]string
	}{
		"unknown key":       {yaml: "server:\n  port: 80\n"},
		"unknown driver":    {yaml: "storage:\n  driver: s3\n"},
		"blank key":         {yaml: "storage:\n  key: \" \"\n"},
		"bad bool env":      {env: map[string]string{"SIGNUPFORM_PERSIST_DRAFTS": "maybe"}},
		"bad ttl env":       {env: map[string]string{"SIGNUPFORM_REDIS_TTL": "soon"}},
		"negative ttl":      {yaml: "storage:\n  redis:\n    ttl: -1s\n"},
		"redis no addr":     {yaml: "storage:\n  driver: redis\n  redis:\n    addr: \"\"\n"},
		"catalog no locale": {env: map[string]string{"SIGNUPFORM_CATALOG": "messages.yaml"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			path := ""
			if tc.yaml != "" {
				path = writeFile(t, dir, "bad.yaml", tc.yaml)
			}
			if _, err := Load(path, missingEnv(t)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), missingEnv(t)); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := StorageConfig{Driver: DriverMemory}.OpenStore(ctx)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
	_ = closeFn()

	store, _, err = StorageConfig{Driver: DriverFile, Dir: t.TempDir()}.OpenStore(ctx)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, ok := store.(*file.Store); !ok {
		t.Fatalf("expected file store, got %T", store)
	}

	mr := miniredis.RunT(t)
	store, closeFn, err = StorageConfig{Driver: DriverRedis, Redis: RedisConfig{Addr: mr.Addr()}}.OpenStore(ctx)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	if _, ok := store.(*redis.Store); !ok {
		t.Fatalf("expected redis store, got %T", store)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, _, err := (StorageConfig{Driver: "s3"}).OpenStore(ctx); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "messages.yaml", `
fr:
  Colour: Couleur
  required: obligatoire
`)
	t.Setenv("SIGNUPFORM_LOCALE", "fr")
	t.Setenv("SIGNUPFORM_CATALOG", path)

	cfg, err := Load("", missingEnv(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	catalog, err := cfg.Form.LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if got, ok := catalog.Translate("fr", "Colour"); !ok || got != "Couleur" {
		t.Fatalf("unexpected translation %q %v", got, ok)
	}

	missing := FormConfig{Locale: "de", Catalog: path}
	if _, err := missing.LoadCatalog(); err == nil {
		t.Fatalf("expected error for locale without a table")
	}
	if catalog, err := (FormConfig{}).LoadCatalog(); err != nil || catalog != nil {
		t.Fatalf("expected no catalog, got %v %v", catalog, err)
	}
}
