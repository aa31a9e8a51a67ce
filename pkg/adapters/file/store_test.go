package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacelabs/arbor/pkg/adapters/file"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunStoreContract(t, store)
}

func TestFileStore_RejectsPathSeparators(t *testing.T) {
	store := file.New(t.TempDir())
	err := store.SaveTemplate(context.Background(), &domain.Template{ID: "../escape"})
	assert.Error(t, err)
}

func TestFileStore_LayoutOnDisk(t *testing.T) {
	base := t.TempDir()
	store := file.New(base)
	ctx := context.Background()

	require.NoError(t, store.SaveTemplate(ctx, &domain.Template{ID: "tpl-1", Title: "T"}))
	require.NoError(t, store.SaveResult(ctx, &domain.SessionResult{SessionID: "sess-1", Answers: map[string]any{}}))

	if _, err := os.Stat(filepath.Join(base, "templates", "tpl-1.json")); err != nil {
		t.Errorf("expected template file on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "results", "sess-1.json")); err != nil {
		t.Errorf("expected result file on disk: %v", err)
	}
}

func TestFileStore_IgnoresStrayFiles(t *testing.T) {
	base := t.TempDir()
	store := file.New(base)
	ctx := context.Background()

	require.NoError(t, store.SaveTemplate(ctx, &domain.Template{ID: "tpl-1", Title: "T"}))
	// Leftover temp files and non-JSON files must not show up in listings.
	require.NoError(t, os.WriteFile(filepath.Join(base, "templates", "tmp-x-123.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "templates", "notes.txt"), []byte("hi"), 0644))

	templates, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "tpl-1", templates[0].ID)
}
