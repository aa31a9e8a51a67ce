// Package runner drives an interactive questionnaire session over an
// IOHandler, wiring the stateless engine to a console-style front end.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/solacelabs/arbor/internal/logging"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/library"
	"github.com/solacelabs/arbor/pkg/ports"
)

// Runner executes the session loop: present question, read answer,
// advance, until the path is exhausted, then runs the mood capture.
type Runner struct {
	Handler IOHandler
	Logger  *slog.Logger

	// Library persists the result at completion. Nil means ephemeral.
	Library *library.Manager

	// Preview runs the full session but never persists the result.
	Preview bool

	// Mood overrides the handler's interactive mood capture. Nil means
	// the IOHandler collects the rating and note itself.
	Mood ports.MoodSource

	// Renderer is applied by the default TextHandler.
	Renderer ContentRenderer
}

// NewRunner creates a Runner with default stdin/stdout interaction.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil, WithTextHandlerRenderer(r.Renderer))
	}
	return r
}

// Run walks the template until completion or exit. It returns the final
// result, or nil if the user quit before the mood capture.
func (r *Runner) Run(ctx context.Context, engine ports.SessionEngine, template *domain.Template) (*domain.SessionResult, error) {
	state, err := engine.Start(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	for state.Phase == domain.PhaseInProgress {
		q, ok := template.FindQuestion(state.CurrentQuestionID)
		if !ok {
			return nil, fmt.Errorf("template '%s' has no question '%s'", template.ID, state.CurrentQuestionID)
		}

		if err := r.Handler.PresentQuestion(ctx, q, state.Answers[q.ID]); err != nil {
			return nil, fmt.Errorf("output error: %w", err)
		}

		value, err := r.Handler.ReadAnswer(ctx, q)
		switch {
		case err == io.EOF:
			return nil, r.exit(ctx, engine, state)
		case err == ErrBack:
			state, err = engine.Back(ctx, state)
			if err != nil {
				return nil, fmt.Errorf("back error: %w", err)
			}
			continue
		case err != nil:
			return nil, fmt.Errorf("input error: %w", err)
		}

		if value != nil {
			state, err = engine.RecordAnswer(ctx, state, q.ID, value)
			if err != nil {
				return nil, fmt.Errorf("answer error: %w", err)
			}
		}

		next, err := engine.Advance(ctx, template, state)
		if err != nil {
			return nil, fmt.Errorf("navigation error: %w", err)
		}

		// The engine refuses to move past an unanswered required
		// question; surface that instead of silently re-asking.
		if next.Phase == domain.PhaseInProgress && next.CurrentQuestionID == state.CurrentQuestionID {
			if q.Required && !domain.IsAnswered(next.Answers[q.ID]) {
				if err := r.Handler.Notify(ctx, "This question requires an answer."); err != nil {
					return nil, err
				}
			}
		}
		state = next
	}

	mood, note, err := r.captureMood(ctx)
	if err == io.EOF {
		return nil, r.exit(ctx, engine, state)
	}
	if err != nil {
		return nil, fmt.Errorf("capture error: %w", err)
	}

	result, _, err := engine.CompleteCapture(ctx, template, state, mood, note)
	if err != nil {
		return nil, fmt.Errorf("completion error: %w", err)
	}

	if r.Library != nil && !r.Preview {
		if err := r.Library.SaveResult(ctx, result); err != nil {
			return nil, fmt.Errorf("critical persistence error: %w", err)
		}
		r.Logger.Debug("result saved", "session_id", result.SessionID, "template_id", result.TemplateID)
	}

	return result, nil
}

func (r *Runner) captureMood(ctx context.Context) (int, string, error) {
	if r.Mood != nil {
		return r.Mood.Capture(ctx)
	}
	return r.Handler.CaptureMood(ctx)
}

func (r *Runner) exit(ctx context.Context, engine ports.SessionEngine, state *domain.State) error {
	if err := engine.Exit(ctx, state); err != nil {
		return fmt.Errorf("exit error: %w", err)
	}
	r.Logger.Debug("session abandoned", "template_id", state.TemplateID, "question_id", state.CurrentQuestionID)
	return nil
}
