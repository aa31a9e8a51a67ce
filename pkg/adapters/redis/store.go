// Package redis provides a Store and a DistributedLocker backed by Redis,
// for deployments where several replicas share the template library.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/solacelabs/arbor/pkg/domain"
)

// Store implements ports.Store using Redis. Documents are stored as JSON
// strings, with one ZSET index per document kind for listing and lazy
// expiry cleanup.
type Store struct {
	client    *backend.Client
	prefix    string
	resultTTL time.Duration
}

type Option func(*Store)

// WithResultTTL sets the expiration for stored session results.
// Templates never expire.
func WithResultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.resultTTL = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "arbor:",
		// No expiration by default
		resultTTL: 0,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) templateKey(id string) string { return s.prefix + "template:" + id }
func (s *Store) resultKey(id string) string   { return s.prefix + "result:" + id }
func (s *Store) templateIndex() string        { return s.prefix + "template:index" }
func (s *Store) resultIndex() string          { return s.prefix + "result:index" }

// 2100-01-01; effectively "never" for index scores without a TTL.
const farFuture = 4102444800

func (s *Store) save(ctx context.Context, key, indexKey, member string, doc any, ttl time.Duration) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, ttl)

	// Index score mirrors the expiry so List can prune lazily.
	score := float64(farFuture)
	if ttl > 0 {
		score = float64(time.Now().Add(ttl).Unix())
	}
	pipe.ZAdd(ctx, indexKey, backend.Z{Score: score, Member: member})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, key string, notFound error, v any) error {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == backend.Nil {
			return notFound
		}
		return fmt.Errorf("failed to get from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(val), v); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

func (s *Store) listMembers(ctx context.Context, indexKey string) ([]string, error) {
	// Lazy cleanup: drop index entries whose score (expiry) has passed.
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, indexKey, "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired entries: %w", err)
	}

	members, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list index: %w", err)
	}
	return members, nil
}

func (s *Store) delete(ctx context.Context, key, indexKey, member string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.ZRem(ctx, indexKey, member)
	_, err := pipe.Exec(ctx)
	return err
}

// SaveTemplate persists the template.
func (s *Store) SaveTemplate(ctx context.Context, template *domain.Template) error {
	return s.save(ctx, s.templateKey(template.ID), s.templateIndex(), template.ID, template, 0)
}

// GetTemplate retrieves a template.
func (s *Store) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	var tpl domain.Template
	if err := s.load(ctx, s.templateKey(id), domain.ErrTemplateNotFound, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListTemplates returns all templates in the index.
func (s *Store) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	ids, err := s.listMembers(ctx, s.templateIndex())
	if err != nil {
		return nil, err
	}

	templates := make([]*domain.Template, 0, len(ids))
	for _, id := range ids {
		tpl, err := s.GetTemplate(ctx, id)
		if err == domain.ErrTemplateNotFound {
			continue // index lagging behind an expired/deleted key
		}
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// DeleteTemplate removes the template and its index entry.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	return s.delete(ctx, s.templateKey(id), s.templateIndex(), id)
}

// SaveResult persists the result, honoring the configured result TTL.
func (s *Store) SaveResult(ctx context.Context, result *domain.SessionResult) error {
	return s.save(ctx, s.resultKey(result.SessionID), s.resultIndex(), result.SessionID, result, s.resultTTL)
}

// GetResult retrieves a result.
func (s *Store) GetResult(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	var res domain.SessionResult
	if err := s.load(ctx, s.resultKey(sessionID), domain.ErrResultNotFound, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListResults returns all non-expired results in the index.
func (s *Store) ListResults(ctx context.Context) ([]*domain.SessionResult, error) {
	ids, err := s.listMembers(ctx, s.resultIndex())
	if err != nil {
		return nil, err
	}

	results := make([]*domain.SessionResult, 0, len(ids))
	for _, id := range ids {
		res, err := s.GetResult(ctx, id)
		if err == domain.ErrResultNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Client exposes the underlying redis client, e.g. for sharing it with
// a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
