package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacelabs/arbor/pkg/domain"
)

// RunStoreContract runs a suite of tests to verify that a Store
// implementation adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405")

	t.Run("SaveTemplate and GetTemplate", func(t *testing.T) {
		tpl := &domain.Template{
			ID:    "contract-tpl-" + suffix,
			Title: "Evening Check-in",
			Questions: []domain.Question{
				{ID: "q1", Type: domain.QuestionTypeText, Prompt: "How was your day?", Required: true},
				{ID: "q2", Type: domain.QuestionTypeSlider, Prompt: "Rate your energy", Min: 1, Max: 10, Step: 1},
			},
		}

		err := store.SaveTemplate(ctx, tpl)
		require.NoError(t, err, "SaveTemplate should not return error")

		loaded, err := store.GetTemplate(ctx, tpl.ID)
		require.NoError(t, err, "GetTemplate should not return error")
		assert.Equal(t, tpl.Title, loaded.Title)
		require.Len(t, loaded.Questions, 2)
		assert.Equal(t, "q1", loaded.Questions[0].ID)
		assert.True(t, loaded.Questions[0].Required)
	})

	t.Run("GetTemplate Non-Existent", func(t *testing.T) {
		_, err := store.GetTemplate(ctx, "non-existent-"+suffix)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("SaveTemplate Overwrites", func(t *testing.T) {
		id := "contract-overwrite-" + suffix
		v1 := &domain.Template{ID: id, Title: "v1", Questions: []domain.Question{{ID: "q1", Type: domain.QuestionTypeText}}}
		v2 := &domain.Template{ID: id, Title: "v2", Version: 2, Questions: []domain.Question{{ID: "q1", Type: domain.QuestionTypeText}}}

		require.NoError(t, store.SaveTemplate(ctx, v1))
		require.NoError(t, store.SaveTemplate(ctx, v2))

		loaded, err := store.GetTemplate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "v2", loaded.Title)
		assert.Equal(t, 2, loaded.Version)

		_ = store.DeleteTemplate(ctx, id)
	})

	t.Run("DeleteTemplate", func(t *testing.T) {
		id := "contract-del-" + suffix
		tpl := &domain.Template{ID: id, Title: "To delete", Questions: []domain.Question{{ID: "q1", Type: domain.QuestionTypeText}}}
		require.NoError(t, store.SaveTemplate(ctx, tpl))

		require.NoError(t, store.DeleteTemplate(ctx, id))

		_, err := store.GetTemplate(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound, "GetTemplate after DeleteTemplate should return ErrTemplateNotFound")
	})

	t.Run("ListTemplates", func(t *testing.T) {
		id1 := "contract-ls-1-" + suffix
		id2 := "contract-ls-2-" + suffix
		_ = store.SaveTemplate(ctx, &domain.Template{ID: id1, Title: "A", Questions: []domain.Question{{ID: "q1", Type: domain.QuestionTypeText}}})
		_ = store.SaveTemplate(ctx, &domain.Template{ID: id2, Title: "B", Questions: []domain.Question{{ID: "q1", Type: domain.QuestionTypeText}}})
		defer func() {
			_ = store.DeleteTemplate(ctx, id1)
			_ = store.DeleteTemplate(ctx, id2)
		}()

		templates, err := store.ListTemplates(ctx)
		require.NoError(t, err)

		ids := make(map[string]bool)
		for _, tpl := range templates {
			ids[tpl.ID] = true
		}
		assert.True(t, ids[id1])
		assert.True(t, ids[id2])
	})

	t.Run("SaveResult and GetResult", func(t *testing.T) {
		result := &domain.SessionResult{
			SessionID:     "contract-res-" + suffix,
			TemplateID:    "tpl-1",
			TemplateTitle: "Evening Check-in",
			CompletedAt:   time.Now().UTC().Truncate(time.Second),
			Answers: map[string]any{
				"q1":                     "fine",
				domain.MoodAnswerKey:     4,
				domain.MoodNoteAnswerKey: "felt okay",
			},
			PathTaken: []string{"q1", "q2"},
		}

		err := store.SaveResult(ctx, result)
		require.NoError(t, err, "SaveResult should not return error")

		loaded, err := store.GetResult(ctx, result.SessionID)
		require.NoError(t, err, "GetResult should not return error")
		assert.Equal(t, result.TemplateID, loaded.TemplateID)
		assert.Equal(t, result.PathTaken, loaded.PathTaken)
		assert.Equal(t, "fine", loaded.Answers["q1"])
		// JSON persistence may widen numeric answer types, so only check presence.
		assert.NotNil(t, loaded.Answers[domain.MoodAnswerKey])
	})

	t.Run("GetResult Non-Existent", func(t *testing.T) {
		_, err := store.GetResult(ctx, "non-existent-"+suffix)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("ListResults", func(t *testing.T) {
		id1 := "contract-res-ls-1-" + suffix
		id2 := "contract-res-ls-2-" + suffix
		_ = store.SaveResult(ctx, &domain.SessionResult{SessionID: id1, TemplateID: "tpl-1", CompletedAt: time.Now(), Answers: map[string]any{}, PathTaken: []string{"q1"}})
		_ = store.SaveResult(ctx, &domain.SessionResult{SessionID: id2, TemplateID: "tpl-1", CompletedAt: time.Now(), Answers: map[string]any{}, PathTaken: []string{"q1"}})

		results, err := store.ListResults(ctx)
		require.NoError(t, err)

		ids := make(map[string]bool)
		for _, r := range results {
			ids[r.SessionID] = true
		}
		assert.True(t, ids[id1])
		assert.True(t, ids[id2])
	})
}
