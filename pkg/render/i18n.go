package render

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Translator resolves a message key for a locale. Implementations return
// ok=false when no translation exists.
type Translator interface {
	Translate(locale, key string) (string, bool)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string) (string, bool)

// Translate delegates to the underlying function.
func (fn TranslatorFunc) Translate(locale, key string) (string, bool) {
	return fn(locale, key)
}

// Catalog is a static Translator keyed by locale then message.
type Catalog map[string]map[string]string

// Translate looks key up in the locale's table.
func (c Catalog) Translate(locale, key string) (string, bool) {
	table, ok := c[locale]
	if !ok {
		return "", false
	}
	out, ok := table[key]
	return out, ok
}

// ParseCatalog decodes a YAML (or JSON) document mapping locale to message
// to translation.
func ParseCatalog(data []byte) (Catalog, error) {
	catalog := Catalog{}
	if len(bytes.TrimSpace(data)) == 0 {
		return catalog, nil
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("render: parse catalog: %w", err)
	}
	return catalog, nil
}

func translate(opts RenderOptions, text string) string {
	if opts.Translator == nil || strings.TrimSpace(text) == "" {
		return text
	}
	if out, ok := opts.Translator.Translate(opts.Locale, text); ok && strings.TrimSpace(out) != "" {
		return out
	}
	return text
}
