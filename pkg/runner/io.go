package runner

import (
	"context"
	"errors"

	"github.com/solacelabs/arbor/pkg/domain"
)

// ErrBack is returned by ReadAnswer when the user asks to revisit the
// previous question.
var ErrBack = errors.New("back requested")

// IOHandler defines the strategy for interacting with the user. This
// allows swapping the plain text interface for a TUI or a scripted
// handler in tests.
type IOHandler interface {
	// PresentQuestion renders the question. prior is the previously
	// recorded answer when the user navigated back, nil otherwise.
	PresentQuestion(ctx context.Context, q *domain.Question, prior any) error

	// ReadAnswer collects an answer typed for the question: string for
	// text/mcq, float64 for slider, []string for checkbox, nil for an
	// empty/skipped answer. Returns ErrBack for back navigation and
	// io.EOF when the user quits.
	ReadAnswer(ctx context.Context, q *domain.Question) (any, error)

	// CaptureMood collects the terminal mood rating and optional note.
	CaptureMood(ctx context.Context) (int, string, error)

	// Notify shows an out-of-band message (required gate, summaries).
	Notify(ctx context.Context, msg string) error
}

// ContentRenderer transforms prompt text before output. This is how
// the TUI layer injects markdown rendering without coupling it here.
type ContentRenderer func(string) (string, error)
