package html

import (
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	// ThemeAssetStylesheet is the manifest asset key for the page stylesheet.
	ThemeAssetStylesheet = "html.stylesheet"
	// ThemePartialPage is the manifest template key for the page template.
	ThemePartialPage = "forms.page"

	defaultPageTemplate = "templates/form.tmpl"
)

// DefaultManifest describes the built-in look: the embedded stylesheet plus
// a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "signupform",
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":     "#1d70b8",
			"error":      "#d4351c",
			"text":       "#0b0c0c",
			"background": "#ffffff",
		},
		Templates: map[string]string{
			ThemePartialPage: defaultPageTemplate,
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				ThemeAssetStylesheet: StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"text":       "#f3f2f1",
					"background": "#0b0c0c",
				},
			},
		},
	}
}

// ThemeConfig resolves a selection into the tokens, CSS variables, partials
// and asset resolver the renderer uses. Variant values override the base
// manifest.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return expandAssetURL(prefix, file)
		},
	}
}

func mergeStrings(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func expandAssetURL(prefix, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") ||
		strings.HasPrefix(name, "https://") ||
		strings.HasPrefix(name, "//") ||
		strings.HasPrefix(name, "/") {
		return name
	}
	if strings.TrimRight(prefix, "/") == "" {
		return name
	}
	return path.Join(prefix, name)
}
