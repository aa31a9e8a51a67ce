package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacelabs/arbor/pkg/adapters/redis"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	ports.RunStoreContract(t, store)
}

func TestRedisStore_ResultTTL(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithResultTTL(1*time.Second))
	ctx := context.Background()

	result := &domain.SessionResult{
		SessionID:  "sess-ttl",
		TemplateID: "tpl-1",
		Answers:    map[string]any{"q1": "fine"},
		PathTaken:  []string{"q1"},
	}

	err := store.SaveResult(ctx, result)
	assert.NoError(t, err)

	results, err := store.ListResults(ctx)
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	// Expire the key in miniredis.
	mr.FastForward(2 * time.Second)

	_, err = store.GetResult(ctx, "sess-ttl")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)

	// Lazy index cleanup uses time.Now() for the score cutoff, so wait
	// past the TTL in wall-clock time too.
	time.Sleep(1200 * time.Millisecond)

	results, err = store.ListResults(ctx)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestRedisStore_TemplatesNeverExpire(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithResultTTL(1*time.Second))
	ctx := context.Background()

	err := store.SaveTemplate(ctx, &domain.Template{
		ID:    "tpl-keep",
		Title: "Check-in",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionTypeText, Prompt: "How are you?"},
		},
	})
	assert.NoError(t, err)

	mr.FastForward(10 * time.Second)

	tpl, err := store.GetTemplate(ctx, "tpl-keep")
	assert.NoError(t, err)
	assert.Equal(t, "Check-in", tpl.Title)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.SaveTemplate(ctx, &domain.Template{
		ID: "tpl-a",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionTypeText, Prompt: "Hi"},
		},
	})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:template:tpl-a"), "expected key with custom prefix")
	assert.True(t, mr.Exists("custom:app:template:index"), "expected index with custom prefix")

	templates, err := store.ListTemplates(ctx)
	assert.NoError(t, err)
	assert.Len(t, templates, 1)
	assert.Equal(t, "tpl-a", templates[0].ID)
}
