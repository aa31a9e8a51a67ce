// Package file provides a Store backed by JSON files on the local
// filesystem, one file per template or result.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/solacelabs/arbor/pkg/domain"
)

// Store implements ports.Store using the local filesystem.
// Templates live under <base>/templates, results under <base>/results.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".arbor".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = ".arbor"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) templatesDir() string { return filepath.Join(s.BasePath, "templates") }
func (s *Store) resultsDir() string   { return filepath.Join(s.BasePath, "results") }

// writeAtomic persists data to dir/<id>.json via a temp file, fsync, and
// rename, so a crash mid-write never leaves a partial document behind.
func writeAtomic(dir, id string, v any) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("id %q contains path separators", id)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	// Temp file in the same directory to guarantee same-filesystem rename.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+id+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // No-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := filepath.Join(dir, id+".json")

	// On Windows, os.Rename fails if dest exists; remove first. The small
	// delete-then-rename window is acceptable compared to partial writes.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

func readJSON(dir, id string, notFound error, v any) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return notFound
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

func listIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && filepath.Ext(name) == ".json" && !strings.HasPrefix(name, "tmp-") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// SaveTemplate persists the template atomically.
func (s *Store) SaveTemplate(ctx context.Context, template *domain.Template) error {
	return writeAtomic(s.templatesDir(), template.ID, template)
}

// GetTemplate reads a template from disk.
func (s *Store) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	var tpl domain.Template
	if err := readJSON(s.templatesDir(), id, domain.ErrTemplateNotFound, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListTemplates reads every template in the templates directory.
func (s *Store) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	ids, err := listIDs(s.templatesDir())
	if err != nil {
		return nil, err
	}

	templates := make([]*domain.Template, 0, len(ids))
	for _, id := range ids {
		tpl, err := s.GetTemplate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %q: %w", id, err)
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// DeleteTemplate removes the template file. Deleting a missing template is
// not an error.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	err := os.Remove(filepath.Join(s.templatesDir(), id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete template file: %w", err)
	}
	return nil
}

// SaveResult persists the result atomically.
func (s *Store) SaveResult(ctx context.Context, result *domain.SessionResult) error {
	return writeAtomic(s.resultsDir(), result.SessionID, result)
}

// GetResult reads a result from disk.
func (s *Store) GetResult(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	var res domain.SessionResult
	if err := readJSON(s.resultsDir(), sessionID, domain.ErrResultNotFound, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListResults reads every result in the results directory.
func (s *Store) ListResults(ctx context.Context) ([]*domain.SessionResult, error) {
	ids, err := listIDs(s.resultsDir())
	if err != nil {
		return nil, err
	}

	results := make([]*domain.SessionResult, 0, len(ids))
	for _, id := range ids {
		res, err := s.GetResult(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load result %q: %w", id, err)
		}
		results = append(results, res)
	}
	return results, nil
}
