package templatefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solacelabs/arbor/pkg/domain"
)

const sampleYAML = `
title: Evening Reflection
description: A short end-of-day check-in.
version: "2"
created_at: 2026-01-10T08:00:00Z
questions:
  - id: q1
    type: mcq
    prompt: How was your day?
    options:
      - id: opt-good
        label: Good
        value: good
      - id: opt-bad
        label: Bad
        value: bad
    branches:
      - option: opt-bad
        target: q3
  - id: q2
    prompt: What went well?
  - id: q3
    type: slider
    prompt: Stress level?
    min: 0
    max: 10
    step: 1
    min_label: Calm
    max_label: Overwhelmed
    required: true
`

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "evening.yaml", sampleYAML)

	template, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// ID falls back to the file name.
	if template.ID != "evening" {
		t.Errorf("expected id 'evening', got %q", template.ID)
	}
	if template.Title != "Evening Reflection" {
		t.Errorf("unexpected title %q", template.Title)
	}
	// Quoted version still decodes as an int.
	if template.Version != 2 {
		t.Errorf("expected version 2, got %d", template.Version)
	}
	if template.CreatedAt.IsZero() {
		t.Error("expected created_at parsed")
	}
	if len(template.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(template.Questions))
	}

	q1 := template.Questions[0]
	if q1.Type != domain.QuestionTypeMCQ || len(q1.Options) != 2 {
		t.Errorf("unexpected q1: %+v", q1)
	}
	if len(q1.Branches) != 1 || q1.Branches[0].OptionID != "opt-bad" || q1.Branches[0].TargetQuestionID != "q3" {
		t.Errorf("unexpected branches: %+v", q1.Branches)
	}

	// Omitted type defaults to text.
	if template.Questions[1].Type != domain.QuestionTypeText {
		t.Errorf("expected default text type, got %q", template.Questions[1].Type)
	}

	q3 := template.Questions[2]
	if q3.Min != 0 || q3.Max != 10 || q3.MinLabel != "Calm" || !q3.Required {
		t.Errorf("unexpected slider config: %+v", q3)
	}
}

func TestLoad_ExplicitID(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "whatever.yaml", "id: morning\ntitle: Morning\nquestions:\n  - id: q1\n    prompt: Hi\n")

	template, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if template.ID != "morning" {
		t.Errorf("explicit id must win over the file name, got %q", template.ID)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "broken.yaml", "questions: [unclosed")

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "b.yaml", "title: B\nquestions:\n  - id: q1\n    prompt: Hi\n")
	writeTemplate(t, dir, "a.yml", "title: A\nquestions:\n  - id: q1\n    prompt: Hi\n")
	writeTemplate(t, dir, "notes.txt", "not a template")

	templates, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}
	// Sorted by file name.
	if templates[0].ID != "a" || templates[1].ID != "b" {
		t.Errorf("unexpected order: %s, %s", templates[0].ID, templates[1].ID)
	}
}
