package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/render"
)

// Session fills a form interactively: it prompts for every visible field,
// submits, and on failure reports the errors and asks again for the fields
// that failed or that became visible.
type Session struct {
	form        *form.Form
	driver      PromptDriver
	theme       Theme
	maxAttempts int
	logger      *zap.Logger
}

// NewSession prepares a session for f. The survey driver writing to stdout
// is used unless WithPromptDriver overrides it.
func NewSession(f *form.Form, options ...SessionOption) (*Session, error) {
	if f == nil {
		return nil, errors.New("tui: form is required")
	}
	s := &Session{
		form:   f,
		theme:  Theme{ErrorPrefix: "  ! "},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run prompts until a submit succeeds and returns the submitted values. The
// form keeps every answer, so a caller can persist a partial session after
// ErrAborted or ErrTooManyAttempts.
func (s *Session) Run(ctx context.Context) (model.Values, error) {
	prompted := make(map[string]bool)
	first := true

	for attempt := 1; ; attempt++ {
		if err := s.pass(ctx, first, prompted); err != nil {
			return nil, err
		}
		first = false

		ok, err := s.form.Submit(ctx)
		if ok {
			if err != nil {
				return nil, err
			}
			return s.form.Values(), nil
		}
		if err != nil {
			return nil, err
		}

		s.logger.Debug("submit rejected", zap.Int("attempt", attempt), zap.Any("errors", s.form.Errors()))
		if err := s.reportErrors(ctx); err != nil {
			return nil, err
		}
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return nil, fmt.Errorf("%w (%d)", ErrTooManyAttempts, attempt)
		}
	}
}

// pass prompts every field that should be asked in this round. Visibility
// is re-derived before each field so answers earlier in the pass can reveal
// later fields.
func (s *Session) pass(ctx context.Context, first bool, prompted map[string]bool) error {
	for _, field := range s.form.Definition().Fields() {
		if !s.form.Visibility()[field.Name] {
			continue
		}
		if !first && prompted[field.Name] && s.form.Error(field.Name) == "" {
			continue
		}
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
		prompted[field.Name] = true
	}
	return nil
}

func (s *Session) reportErrors(ctx context.Context) error {
	if err := s.driver.Info(ctx, s.theme.InfoPrefix+s.form.Banner()); err != nil {
		return err
	}
	view := render.Project(s.form, render.RenderOptions{})
	for _, field := range view.Fields() {
		if field.Error == "" {
			continue
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("%s%s: %s", s.theme.ErrorPrefix, field.Label, field.Error)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field model.Field) error {
	help := s.form.Error(field.Name)
	current := s.form.Values()

	switch {
	case field.MultiChoice():
		return s.promptChoices(ctx, field, current, help)
	case len(field.Options) > 0:
		return s.promptSelect(ctx, field, current, help)
	case field.Format == model.FormatPassword:
		answer, err := s.driver.Password(ctx, InputConfig{
			Message: field.Label,
			Default: current.String(field.Name),
			Help:    help,
		})
		if err != nil {
			return err
		}
		return s.form.SetField(field.Name, answer)
	default:
		answer, err := s.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current.String(field.Name),
			Help:    help,
		})
		if err != nil {
			return err
		}
		return s.form.SetField(field.Name, answer)
	}
}

func (s *Session) promptSelect(ctx context.Context, field model.Field, current model.Values, help string) error {
	labels := optionLabels(field)
	defaultIdx := 0
	for i, opt := range field.Options {
		if opt.Value == current.String(field.Name) {
			defaultIdx = i
		}
	}
	message := field.Label
	if field.Placeholder != "" {
		message = field.Label + " (" + field.Placeholder + ")"
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         help,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return s.form.SetField(field.Name, "")
	}
	return s.form.SetField(field.Name, field.Options[idx].Value)
}

// promptChoices asks for the full selection, then toggles the difference so
// the container sees the same add/remove edits a checkbox group produces.
func (s *Session) promptChoices(ctx context.Context, field model.Field, current model.Values, help string) error {
	var defaults []int
	for i, opt := range field.Options {
		if current.Contains(field.Name, opt.Value) {
			defaults = append(defaults, i)
		}
	}

	indices, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  field.Label,
		Options:  optionLabels(field),
		Defaults: defaults,
		Help:     help,
	})
	if err != nil {
		return err
	}

	var wanted []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(field.Options) {
			wanted = append(wanted, field.Options[idx].Value)
		}
	}
	for _, token := range current.Strings(field.Name) {
		if !slices.Contains(wanted, token) {
			if err := s.form.Toggle(field.Name, token); err != nil {
				return err
			}
		}
	}
	for _, token := range wanted {
		if !current.Contains(field.Name, token) {
			if err := s.form.Toggle(field.Name, token); err != nil {
				return err
			}
		}
	}
	return nil
}

func optionLabels(field model.Field) []string {
	labels := make([]string, 0, len(field.Options))
	for _, opt := range field.Options {
		labels = append(labels, opt.Label)
	}
	return labels
}
