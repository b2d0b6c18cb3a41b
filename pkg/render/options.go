package render

import "github.com/goliatone/go-signupform/pkg/widgets"

// RenderOptions describe per-request data used when projecting a form into a
// View.
type RenderOptions struct {
	// Action is the URL the HTML form posts to. Defaults to "".
	Action string
	// Hidden fields are emitted alongside the visible inputs, sorted by name.
	Hidden map[string]string
	// Locale and Translator localise labels, headings and messages. Each
	// string is looked up using its English text as the key.
	Locale     string
	Translator Translator
	// Notice is an informational message shown above the form, such as the
	// submit acknowledgment.
	Notice string
	// Widgets picks each field's Kind. Nil uses the built-in registry.
	Widgets *widgets.Registry
}
