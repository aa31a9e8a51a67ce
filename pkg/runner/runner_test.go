package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/solacelabs/arbor"
	"github.com/solacelabs/arbor/pkg/adapters/memory"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/library"
)

func reflectionTemplate() *domain.Template {
	return &domain.Template{
		ID:    "reflect",
		Title: "Evening Reflection",
		Questions: []domain.Question{
			{
				ID:     "q1",
				Type:   domain.QuestionTypeMCQ,
				Prompt: "How was your day?",
				Options: []domain.Option{
					{ID: "opt-good", Label: "Good", Value: "good"},
					{ID: "opt-bad", Label: "Bad", Value: "bad"},
				},
				Branches: []domain.Branch{
					{OptionID: "opt-bad", TargetQuestionID: "q3"},
				},
			},
			{ID: "q2", Type: domain.QuestionTypeText, Prompt: "What went well?"},
			{ID: "q3", Type: domain.QuestionTypeText, Prompt: "What was hard?", Required: true},
		},
	}
}

func scriptedRunner(input string, opts ...Option) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	opts = append(opts, WithHandler(NewTextHandler(strings.NewReader(input), &out)))
	return NewRunner(opts...), &out
}

func TestRunner_LinearFlow(t *testing.T) {
	engine := arbor.New(arbor.WithIDGenerator(func() string { return "sess-1" }))
	// good -> q2 -> q3 -> capture mood 4 with note
	r, out := scriptedRunner("1\nSlept well\nWork stuff\n4\nbetter now\n")

	result, err := r.Run(context.Background(), engine, reflectionTemplate())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}

	if result.Answers["q1"] != "good" {
		t.Errorf("expected q1 answer 'good', got %v", result.Answers["q1"])
	}
	if result.Answers[domain.MoodAnswerKey] != 4 {
		t.Errorf("expected mood 4, got %v", result.Answers[domain.MoodAnswerKey])
	}
	if result.Answers[domain.MoodNoteAnswerKey] != "better now" {
		t.Errorf("expected note, got %v", result.Answers[domain.MoodNoteAnswerKey])
	}

	wantPath := []string{"q1", "q2", "q3"}
	if len(result.PathTaken) != len(wantPath) {
		t.Fatalf("expected path %v, got %v", wantPath, result.PathTaken)
	}
	for i, id := range wantPath {
		if result.PathTaken[i] != id {
			t.Errorf("path[%d]: expected %s, got %s", i, id, result.PathTaken[i])
		}
	}

	if !strings.Contains(out.String(), "How was your day?") {
		t.Error("expected first prompt in output")
	}
}

func TestRunner_BranchSkipsQuestion(t *testing.T) {
	engine := arbor.New()
	// bad -> branches to q3, skipping q2
	r, _ := scriptedRunner("2\nDeadlines\n3\n\n")

	result, err := r.Run(context.Background(), engine, reflectionTemplate())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, ok := result.Answers["q2"]; ok {
		t.Error("q2 should have been skipped by the branch")
	}
	if len(result.PathTaken) != 2 || result.PathTaken[0] != "q1" || result.PathTaken[1] != "q3" {
		t.Errorf("expected path [q1 q3], got %v", result.PathTaken)
	}
}

func TestRunner_BackPreservesAnswer(t *testing.T) {
	engine := arbor.New()
	// answer q1, go back from q2, re-answer, continue
	r, out := scriptedRunner("1\nback\n1\nFine\nHard parts\n5\n\n")

	result, err := r.Run(context.Background(), engine, reflectionTemplate())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}

	if !strings.Contains(out.String(), "(previous answer: good)") {
		t.Error("expected previous answer shown after back navigation")
	}
}

func TestRunner_RequiredGateRetries(t *testing.T) {
	engine := arbor.New()
	// empty answer on required q3 re-asks before accepting a value
	r, out := scriptedRunner("2\n\nDeadlines\n3\n\n")

	result, err := r.Run(context.Background(), engine, reflectionTemplate())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}

	if !strings.Contains(out.String(), "requires an answer") {
		t.Error("expected required notice in output")
	}
	if result.Answers["q3"] != "Deadlines" {
		t.Errorf("expected retried answer, got %v", result.Answers["q3"])
	}
}

func TestRunner_ExitBeforeCompletion(t *testing.T) {
	engine := arbor.New()
	store := memory.NewStore()
	lib := library.NewManager(store)
	r, _ := scriptedRunner("1\nexit\n", WithLibrary(lib))

	result, err := r.Run(context.Background(), engine, reflectionTemplate())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result != nil {
		t.Error("abandoned sessions must not produce a result")
	}

	results, err := lib.ListResults(context.Background())
	if err != nil {
		t.Fatalf("ListResults() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("abandoned session must not be persisted, found %d results", len(results))
	}
}

func TestRunner_PersistsResult(t *testing.T) {
	engine := arbor.New(arbor.WithIDGenerator(func() string { return "sess-keep" }))
	lib := library.NewManager(memory.NewStore())
	r, _ := scriptedRunner("1\nok\nok\n3\n\n", WithLibrary(lib))

	if _, err := r.Run(context.Background(), engine, reflectionTemplate()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := lib.GetResult(context.Background(), "sess-keep"); err != nil {
		t.Errorf("expected result persisted: %v", err)
	}
}

func TestRunner_PreviewSkipsPersistence(t *testing.T) {
	engine := arbor.New()
	lib := library.NewManager(memory.NewStore())
	r, _ := scriptedRunner("1\nok\nok\n3\n\n", WithLibrary(lib), WithPreview(true))

	result, err := r.Run(context.Background(), engine, reflectionTemplate())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result == nil {
		t.Fatal("preview still returns the result")
	}

	results, _ := lib.ListResults(context.Background())
	if len(results) != 0 {
		t.Errorf("preview must not persist, found %d results", len(results))
	}
}

type fixedMood struct {
	mood int
	note string
}

func (f fixedMood) Capture(ctx context.Context) (int, string, error) {
	return f.mood, f.note, nil
}

func TestRunner_MoodSourceOverridesHandler(t *testing.T) {
	engine := arbor.New()
	// input stops after the questions; the mood comes from the source
	r, _ := scriptedRunner("1\nok\nok\n", WithMoodSource(fixedMood{mood: 2, note: "rough day"}))

	result, err := r.Run(context.Background(), engine, reflectionTemplate())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Answers[domain.MoodAnswerKey] != 2 {
		t.Errorf("expected mood 2, got %v", result.Answers[domain.MoodAnswerKey])
	}
	if result.Answers[domain.MoodNoteAnswerKey] != "rough day" {
		t.Errorf("expected note from source, got %v", result.Answers[domain.MoodNoteAnswerKey])
	}
}
