// Package library orchestrates access to the template and result store,
// ensuring safe concurrent operations from the authoring surface and from
// completing sessions.
package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/solacelabs/arbor/internal/logging"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu     sync.Mutex
	refs   int
	unlock ports.UnlockFunc
}

// Manager serializes writes to the underlying store per key.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.Store

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker ports.DistributedLocker // Optional distributed locker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new library Manager over the given store.
func NewManager(store ports.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes a function while holding the lock for the key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, 30*time.Second)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func templateKey(id string) string { return "template:" + id }
func resultKey(id string) string   { return "result:" + id }

// SaveTemplate persists a template, serialized per template id.
func (m *Manager) SaveTemplate(ctx context.Context, template *domain.Template) error {
	return m.WithLock(ctx, templateKey(template.ID), func(ctx context.Context) error {
		return m.store.SaveTemplate(ctx, template)
	})
}

// GetTemplate retrieves a template from the store.
func (m *Manager) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	var tpl *domain.Template
	err := m.WithLock(ctx, templateKey(id), func(ctx context.Context) error {
		var err error
		tpl, err = m.store.GetTemplate(ctx, id)
		return err
	})
	return tpl, err
}

// ListTemplates delegates to the store.
func (m *Manager) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	return m.store.ListTemplates(ctx)
}

// DeleteTemplate removes a template from the store.
func (m *Manager) DeleteTemplate(ctx context.Context, id string) error {
	return m.WithLock(ctx, templateKey(id), func(ctx context.Context) error {
		return m.store.DeleteTemplate(ctx, id)
	})
}

// SaveResult persists a completed session result.
//
// The runtime's state is already terminal when this is called, so a failed
// write never corrupts a session; the caller may simply retry with the same
// result.
func (m *Manager) SaveResult(ctx context.Context, result *domain.SessionResult) error {
	return m.WithLock(ctx, resultKey(result.SessionID), func(ctx context.Context) error {
		return m.store.SaveResult(ctx, result)
	})
}

// GetResult retrieves a session result from the store.
func (m *Manager) GetResult(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	var res *domain.SessionResult
	err := m.WithLock(ctx, resultKey(sessionID), func(ctx context.Context) error {
		var err error
		res, err = m.store.GetResult(ctx, sessionID)
		return err
	})
	return res, err
}

// ListResults delegates to the store.
func (m *Manager) ListResults(ctx context.Context) ([]*domain.SessionResult, error) {
	return m.store.ListResults(ctx)
}

// Store returns the underlying store.
func (m *Manager) Store() ports.Store {
	return m.store
}
