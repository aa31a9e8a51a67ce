package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/solacelabs/arbor/internal/logging"
	"github.com/solacelabs/arbor/pkg/domain"
)

// Engine is the core session state machine. It is stateless: every operation
// takes the current state and returns a fresh one, so a single Engine can
// serve any number of sessions and adapters can carry state per-request.
//
// A State instance is owned by one session flow at a time; the Engine itself
// holds no mutable session data and is safe to share.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
	newID  func() string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock injects the time source used to stamp results.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator injects the session id generator.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine creates a new engine. By default it logs nowhere, stamps results
// with the wall clock, and generates session ids with uuid.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates the initial state for a session over the given template.
// Returns domain.ErrEmptyTemplate if the template has no questions.
func (e *Engine) Start(ctx context.Context, template *domain.Template) (*domain.State, error) {
	if template == nil || len(template.Questions) == 0 {
		return nil, domain.ErrEmptyTemplate
	}

	first := &template.Questions[0]
	state := domain.NewState(template.ID, first.ID)

	e.logger.Debug("session started", "template_id", template.ID, "first_question", first.ID)
	e.emitQuestionEnter(ctx, template.ID, first)

	return state, nil
}

// Exit validates that a session may be abandoned. The caller discards the
// state afterwards; nothing is persisted and no result is emitted.
func (e *Engine) Exit(ctx context.Context, state *domain.State) error {
	if state.Phase == domain.PhaseCompleted {
		return domain.ErrInvalidState
	}
	e.logger.Debug("session abandoned",
		"template_id", state.TemplateID,
		"questions_visited", len(state.History),
	)
	return nil
}

func (e *Engine) emitQuestionEnter(ctx context.Context, templateID string, q *domain.Question) {
	if e.hooks.OnQuestionEnter == nil {
		return
	}
	e.hooks.OnQuestionEnter(ctx, &domain.QuestionEvent{
		Timestamp:    e.now(),
		TemplateID:   templateID,
		QuestionID:   q.ID,
		QuestionType: q.Type,
	})
}

func (e *Engine) emitQuestionLeave(ctx context.Context, templateID string, q *domain.Question) {
	if e.hooks.OnQuestionLeave == nil {
		return
	}
	e.hooks.OnQuestionLeave(ctx, &domain.QuestionEvent{
		Timestamp:    e.now(),
		TemplateID:   templateID,
		QuestionID:   q.ID,
		QuestionType: q.Type,
	})
}

func (e *Engine) emitSessionComplete(ctx context.Context, result *domain.SessionResult) {
	if e.hooks.OnSessionComplete == nil {
		return
	}
	e.hooks.OnSessionComplete(ctx, &domain.SessionEvent{
		Timestamp:  e.now(),
		TemplateID: result.TemplateID,
		SessionID:  result.SessionID,
		PathLength: len(result.PathTaken),
	})
}
