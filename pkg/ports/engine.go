package ports

import (
	"context"

	"github.com/solacelabs/arbor/pkg/domain"
)

// SessionEngine defines the stateless operation surface of the session
// runtime. Operations never mutate the passed state; they return a fresh
// state, which lets adapters (HTTP, MCP) carry state per-request.
type SessionEngine interface {
	// Start creates the initial state positioned at the template's first
	// question. Returns domain.ErrEmptyTemplate for a template with no
	// questions.
	Start(ctx context.Context, template *domain.Template) (*domain.State, error)

	// RecordAnswer overwrites the answer for a question without moving the
	// pointer. No validation happens here; validation happens at Advance.
	RecordAnswer(ctx context.Context, state *domain.State, questionID string, value any) (*domain.State, error)

	// Advance resolves the next question (branch-aware) and moves the
	// pointer, or transitions to the terminal capture phase at the end of
	// the path. Advancing an unanswered required question is a no-op.
	Advance(ctx context.Context, template *domain.Template, state *domain.State) (*domain.State, error)

	// Back pops the history stack. A no-op when history is empty.
	Back(ctx context.Context, state *domain.State) (*domain.State, error)

	// CompleteCapture merges the terminal mood capture into the answers and
	// emits the immutable session result. Only valid in the awaiting
	// capture phase; a second call returns domain.ErrInvalidState.
	CompleteCapture(ctx context.Context, template *domain.Template, state *domain.State, mood int, note string) (*domain.SessionResult, *domain.State, error)

	// Exit validates that a non-completed session may be abandoned. The
	// caller discards the state; no result is emitted or persisted.
	Exit(ctx context.Context, state *domain.State) error
}
