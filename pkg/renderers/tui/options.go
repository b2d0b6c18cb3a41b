package tui

import (
	"go.uber.org/zap"
)

// OutputFormat controls how the text renderer serializes a view.
type OutputFormat string

const (
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits the visible field values as JSON.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional message prefixes. Keep minimal to avoid coupling
// session logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) SessionOption {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) SessionOption {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithMaxAttempts bounds the number of submit attempts. Zero or less means
// keep asking until the form is valid or the user aborts.
func WithMaxAttempts(n int) SessionOption {
	return func(s *Session) {
		s.maxAttempts = n
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Option configures the text Renderer.
type Option func(*Renderer)

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}
