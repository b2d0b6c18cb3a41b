package render

import (
	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/widgets"
)

// Field kinds understood by renderers.
const (
	KindText       = widgets.WidgetText
	KindEmail      = widgets.WidgetEmail
	KindPassword   = widgets.WidgetPassword
	KindSelect     = widgets.WidgetSelect
	KindCheckboxes = widgets.WidgetCheckboxes
	KindTextarea   = widgets.WidgetTextarea
)

var defaultWidgets = widgets.NewRegistry()

// View is the read-only projection of a form container that renderers
// consume. Building a View never changes the container.
type View struct {
	ID          string
	Title       string
	SubmitLabel string
	Action      string
	Banner      string
	Notice      string
	Sections    []SectionView
	Hidden      []HiddenField
}

// SectionView is a fieldset with a heading.
type SectionView struct {
	Title  string
	Fields []FieldView
}

// FieldView carries everything needed to draw one input.
type FieldView struct {
	Name        string
	Label       string
	Kind        string
	Placeholder string
	Value       string
	Selected    []string
	Options     []Choice
	Error       string
	Visible     bool
}

// Choice is one option of a select or checkbox group.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// Fields flattens the sections.
func (v View) Fields() []FieldView {
	var out []FieldView
	for _, section := range v.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field returns the view of name.
func (v View) Field(name string) (FieldView, bool) {
	for _, section := range v.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return FieldView{}, false
}

// Project builds the View for f. Hidden fields are included with
// Visible=false so renderers decide whether to omit or collapse them.
func Project(f *form.Form, opts RenderOptions) View {
	def := f.Definition()
	values := f.Values()
	visible := f.Visibility()

	view := View{
		ID:          def.ID,
		Title:       translate(opts, def.Title),
		SubmitLabel: translate(opts, def.SubmitLabel),
		Action:      opts.Action,
		Banner:      translate(opts, f.Banner()),
		Notice:      translate(opts, opts.Notice),
		Hidden:      SortedHiddenFields(opts.Hidden),
	}
	for _, section := range def.Sections {
		sv := SectionView{Title: translate(opts, section.Title)}
		for _, field := range section.Fields {
			fv := projectField(f, field, values, opts)
			fv.Visible = visible[field.Name]
			sv.Fields = append(sv.Fields, fv)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

func projectField(f *form.Form, field model.Field, values model.Values, opts RenderOptions) FieldView {
	fv := FieldView{
		Name:        field.Name,
		Label:       translate(opts, field.Label),
		Kind:        kindOf(opts, field),
		Placeholder: translate(opts, field.Placeholder),
		Error:       translate(opts, f.Error(field.Name)),
	}
	if field.MultiChoice() {
		fv.Selected = values.Strings(field.Name)
	} else {
		fv.Value = values.String(field.Name)
	}
	for _, opt := range field.Options {
		selected := fv.Value == opt.Value
		if field.MultiChoice() {
			selected = values.Contains(field.Name, opt.Value)
		}
		fv.Options = append(fv.Options, Choice{
			Value:    opt.Value,
			Label:    translate(opts, opt.Label),
			Selected: selected,
		})
	}
	return fv
}

func kindOf(opts RenderOptions, field model.Field) string {
	if opts.Widgets != nil {
		return opts.Widgets.Resolve(field)
	}
	return defaultWidgets.Resolve(field)
}
