// Package memory provides an in-memory Store, used for tests and ephemeral
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/solacelabs/arbor/pkg/domain"
)

// Store implements ports.Store in memory.
// Safe for concurrent use.
type Store struct {
	templates map[string]*domain.Template
	results   map[string]*domain.SessionResult
	mu        sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		templates: make(map[string]*domain.Template),
		results:   make(map[string]*domain.SessionResult),
	}
}

// copyTemplate isolates stored data from caller mutation, mirroring what
// serialization would do in a durable backend.
func copyTemplate(t *domain.Template) *domain.Template {
	c := *t
	c.Questions = make([]domain.Question, len(t.Questions))
	for i, q := range t.Questions {
		cq := q
		cq.Options = append([]domain.Option(nil), q.Options...)
		cq.Branches = append([]domain.Branch(nil), q.Branches...)
		c.Questions[i] = cq
	}
	return &c
}

func copyResult(r *domain.SessionResult) *domain.SessionResult {
	c := *r
	c.Answers = make(map[string]any, len(r.Answers))
	for k, v := range r.Answers {
		c.Answers[k] = v
	}
	c.PathTaken = append([]string(nil), r.PathTaken...)
	return &c
}

// SaveTemplate stores a copy of the template.
func (s *Store) SaveTemplate(ctx context.Context, template *domain.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[template.ID] = copyTemplate(template)
	return nil
}

// GetTemplate retrieves a template copy.
func (s *Store) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return copyTemplate(tpl), nil
}

// ListTemplates returns copies of all stored templates.
func (s *Store) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make([]*domain.Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		templates = append(templates, copyTemplate(tpl))
	}
	return templates, nil
}

// DeleteTemplate removes a template.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.templates, id)
	return nil
}

// SaveResult stores a copy of the result.
func (s *Store) SaveResult(ctx context.Context, result *domain.SessionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.SessionID] = copyResult(result)
	return nil
}

// GetResult retrieves a result copy.
func (s *Store) GetResult(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[sessionID]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return copyResult(res), nil
}

// ListResults returns copies of all stored results.
func (s *Store) ListResults(ctx context.Context) ([]*domain.SessionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.SessionResult, 0, len(s.results))
	for _, res := range s.results {
		results = append(results, copyResult(res))
	}
	return results, nil
}
