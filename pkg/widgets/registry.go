// Package widgets picks the input widget a renderer uses for each field.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-signupform/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText       = "text"
	WidgetEmail      = "email"
	WidgetPassword   = "password"
	WidgetSelect     = "select"
	WidgetCheckboxes = "checkboxes"
	WidgetTextarea   = "textarea"
)

// MetadataKey is the field metadata entry that forces a widget.
const MetadataKey = "widget"

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order.
// Fields no rule matches get WidgetText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. The
// latest registration wins among equal names and priorities only by order.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. Metadata["widget"] is honoured
// before matcher evaluation.
func (r *Registry) Resolve(field model.Field) string {
	if explicit := strings.TrimSpace(field.Metadata[MetadataKey]); explicit != "" {
		return explicit
	}
	if r == nil {
		return WidgetText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return WidgetText
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckboxes, 90, func(field model.Field) bool {
		return field.MultiChoice()
	})
	r.Register(WidgetSelect, 80, func(field model.Field) bool {
		return len(field.Options) > 0
	})
	r.Register(WidgetEmail, 70, func(field model.Field) bool {
		return strings.EqualFold(field.Format, model.FormatEmail)
	})
	r.Register(WidgetPassword, 60, func(field model.Field) bool {
		return strings.EqualFold(field.Format, model.FormatPassword)
	})
}
