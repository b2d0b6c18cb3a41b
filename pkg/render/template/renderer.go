package template

import (
	"io"
)

// TemplateRenderer is the seam HTML renderers depend on. The pongo package
// provides the default implementation.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
