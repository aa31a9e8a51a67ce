package ports

import (
	"context"

	"github.com/solacelabs/arbor/pkg/domain"
)

// TemplateStore defines the interface for persisting questionnaire templates.
// Templates are authored externally; the runtime only ever reads them.
type TemplateStore interface {
	// SaveTemplate creates or replaces a template by its ID.
	SaveTemplate(ctx context.Context, template *domain.Template) error

	// GetTemplate retrieves a template by ID.
	// Returns domain.ErrTemplateNotFound if it does not exist.
	GetTemplate(ctx context.Context, id string) (*domain.Template, error)

	// ListTemplates returns all stored templates.
	ListTemplates(ctx context.Context) ([]*domain.Template, error)

	// DeleteTemplate removes a template by ID.
	DeleteTemplate(ctx context.Context, id string) error
}

// ResultStore defines the interface for persisting completed session results.
// The runtime writes a result exactly once per completed session and never
// retries on its own; results are immutable after the write.
type ResultStore interface {
	// SaveResult persists a completed session result.
	SaveResult(ctx context.Context, result *domain.SessionResult) error

	// GetResult retrieves a result by session ID.
	// Returns domain.ErrResultNotFound if it does not exist.
	GetResult(ctx context.Context, sessionID string) (*domain.SessionResult, error)

	// ListResults returns all stored results.
	ListResults(ctx context.Context) ([]*domain.SessionResult, error)
}

// Store combines template and result persistence. Adapters implement both
// so a single backend serves the whole library surface.
type Store interface {
	TemplateStore
	ResultStore
}
