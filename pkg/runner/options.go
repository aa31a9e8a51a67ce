package runner

import (
	"log/slog"

	"github.com/solacelabs/arbor/pkg/library"
	"github.com/solacelabs/arbor/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithHandler configures a custom IOHandler.
func WithHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLibrary configures result persistence.
func WithLibrary(lib *library.Manager) Option {
	return func(r *Runner) {
		r.Library = lib
	}
}

// WithPreview runs sessions without persisting results.
func WithPreview(preview bool) Option {
	return func(r *Runner) {
		r.Preview = preview
	}
}

// WithMoodSource replaces the interactive mood capture with a custom
// collaborator, e.g. a fixed rating in automated runs.
func WithMoodSource(source ports.MoodSource) Option {
	return func(r *Runner) {
		r.Mood = source
	}
}

// WithRenderer configures the content renderer (e.g. markdown to ANSI).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}
