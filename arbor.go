package arbor

import (
	"context"
	"log/slog"
	"time"

	"github.com/solacelabs/arbor/internal/runtime"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/ports"
)

// Version is the library version reported by adapters and the CLI.
var Version = "0.3.0"

// Engine is the high-level entry point for the Arbor library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
}

var _ ports.SessionEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithClock injects the time source used to stamp results. Intended for
// tests and replay tooling.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithClock(now))
	}
}

// WithIDGenerator injects the session id generator.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithIDGenerator(newID))
	}
}

// New initializes a new Arbor Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	runtimeOpts := eng.runtimeOpts
	if eng.logger != nil {
		runtimeOpts = append([]runtime.EngineOption{runtime.WithLogger(eng.logger)}, runtimeOpts...)
	}

	eng.runtime = runtime.NewEngine(runtimeOpts...)
	return eng
}

// Start creates the initial state for a session over the given template.
func (e *Engine) Start(ctx context.Context, template *domain.Template) (*domain.State, error) {
	return e.runtime.Start(ctx, template)
}

// RecordAnswer overwrites the answer for a question without moving the pointer.
func (e *Engine) RecordAnswer(ctx context.Context, state *domain.State, questionID string, value any) (*domain.State, error) {
	return e.runtime.RecordAnswer(ctx, state, questionID, value)
}

// Advance resolves the next question (branch-aware) and moves the pointer,
// or parks the session in the terminal capture phase at the end of the path.
func (e *Engine) Advance(ctx context.Context, template *domain.Template, state *domain.State) (*domain.State, error) {
	return e.runtime.Advance(ctx, template, state)
}

// Back returns to the previously visited question, trusting the recorded
// history as the realized path.
func (e *Engine) Back(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Back(ctx, state)
}

// CompleteCapture merges the terminal mood capture and emits the session result.
func (e *Engine) CompleteCapture(ctx context.Context, template *domain.Template, state *domain.State, mood int, note string) (*domain.SessionResult, *domain.State, error) {
	return e.runtime.CompleteCapture(ctx, template, state, mood, note)
}

// Exit validates that a non-completed session may be abandoned.
func (e *Engine) Exit(ctx context.Context, state *domain.State) error {
	return e.runtime.Exit(ctx, state)
}
