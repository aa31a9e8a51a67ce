package runtime_test

import (
	"context"
	"testing"

	"github.com/solacelabs/arbor/internal/runtime"
	"github.com/solacelabs/arbor/pkg/domain"
)

// branchingTemplate returns a template where q1 branches to q3 when option
// "a" is chosen, skipping q2.
func branchingTemplate() *domain.Template {
	return &domain.Template{
		ID:    "tpl-branch",
		Title: "Thought Record",
		Questions: []domain.Question{
			{
				ID:       "q1",
				Type:     domain.QuestionTypeMCQ,
				Prompt:   "Did you notice an automatic thought?",
				Required: true,
				Options: []domain.Option{
					{ID: "opt-a", Label: "Yes", Value: "A"},
					{ID: "opt-b", Label: "No", Value: "B"},
				},
				Branches: []domain.Branch{
					{OptionID: "opt-a", TargetQuestionID: "q3"},
				},
			},
			{
				ID:     "q2",
				Type:   domain.QuestionTypeText,
				Prompt: "What was happening instead?",
			},
			{
				ID:       "q3",
				Type:     domain.QuestionTypeText,
				Prompt:   "Write the thought down",
				Required: true,
			},
		},
	}
}

func linearTemplate() *domain.Template {
	return &domain.Template{
		ID:    "tpl-linear",
		Title: "Morning Check-in",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionTypeText, Prompt: "How did you sleep?"},
			{ID: "q2", Type: domain.QuestionTypeSlider, Prompt: "Energy level", Min: 1, Max: 10, Step: 1},
			{ID: "q3", Type: domain.QuestionTypeCheckbox, Prompt: "Symptoms today", Options: []domain.Option{
				{ID: "opt-h", Label: "Headache", Value: "headache"},
				{ID: "opt-t", Label: "Tension", Value: "tension"},
			}},
		},
	}
}

func TestEngine_Start(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()

	t.Run("Positions At First Question", func(t *testing.T) {
		state, err := engine.Start(ctx, linearTemplate())
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if state.CurrentQuestionID != "q1" {
			t.Errorf("expected current question 'q1', got %q", state.CurrentQuestionID)
		}
		if state.Phase != domain.PhaseInProgress {
			t.Errorf("expected phase in_progress, got %q", state.Phase)
		}
		if len(state.History) != 0 {
			t.Errorf("expected empty history, got %v", state.History)
		}
	})

	t.Run("Empty Template", func(t *testing.T) {
		_, err := engine.Start(ctx, &domain.Template{ID: "empty", Title: "Empty"})
		if err != domain.ErrEmptyTemplate {
			t.Errorf("expected ErrEmptyTemplate, got %v", err)
		}
	})
}

func TestEngine_DefaultOrder(t *testing.T) {
	// A template with no branches must be visited exactly once per question
	// in array order.
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := linearTemplate()

	state, err := engine.Start(ctx, tpl)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	visited := []string{state.CurrentQuestionID}
	for state.Phase == domain.PhaseInProgress {
		state, err = engine.Advance(ctx, tpl, state)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if state.Phase == domain.PhaseInProgress {
			visited = append(visited, state.CurrentQuestionID)
		}
	}

	want := []string{"q1", "q2", "q3"}
	if len(visited) != len(want) {
		t.Fatalf("expected to visit %v, visited %v", want, visited)
	}
	for i, id := range want {
		if visited[i] != id {
			t.Errorf("visit %d: expected %q, got %q", i, id, visited[i])
		}
	}

	// Advancing off the last question parks in awaiting-capture, not completed.
	if state.Phase != domain.PhaseAwaitingCapture {
		t.Errorf("expected phase awaiting_capture, got %q", state.Phase)
	}

	// The recorded history is the realized path in template order.
	for i, id := range want {
		if state.History[i] != id {
			t.Errorf("history %d: expected %q, got %q", i, id, state.History[i])
		}
	}
}

func TestEngine_BranchOverride(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := branchingTemplate()

	t.Run("Branch Match Jumps", func(t *testing.T) {
		// Scenario A: answering "A" on q1 jumps straight to q3.
		state, _ := engine.Start(ctx, tpl)
		state, err := engine.RecordAnswer(ctx, state, "q1", "A")
		if err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}

		state, err = engine.Advance(ctx, tpl, state)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if state.CurrentQuestionID != "q3" {
			t.Errorf("expected jump to 'q3', got %q", state.CurrentQuestionID)
		}
		if len(state.History) != 1 || state.History[0] != "q1" {
			t.Errorf("expected history [q1], got %v", state.History)
		}

		state, _ = engine.RecordAnswer(ctx, state, "q3", "hello")
		state, err = engine.Advance(ctx, tpl, state)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if state.Phase != domain.PhaseAwaitingCapture {
			t.Errorf("expected awaiting_capture, got %q", state.Phase)
		}
		if len(state.History) != 2 || state.History[0] != "q1" || state.History[1] != "q3" {
			t.Errorf("expected history [q1 q3], got %v", state.History)
		}
	})

	t.Run("No Branch Match Falls Through", func(t *testing.T) {
		// Scenario B: answering "B" has no branch rule, default order applies.
		state, _ := engine.Start(ctx, tpl)
		state, _ = engine.RecordAnswer(ctx, state, "q1", "B")

		state, err := engine.Advance(ctx, tpl, state)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if state.CurrentQuestionID != "q2" {
			t.Errorf("expected default order to 'q2', got %q", state.CurrentQuestionID)
		}
	})

	t.Run("Unresolvable Answer Falls Through", func(t *testing.T) {
		// A value matching no option (stale answer against an edited
		// template) must fall back to default order, never fail.
		state, _ := engine.Start(ctx, tpl)
		state, _ = engine.RecordAnswer(ctx, state, "q1", "Z")

		state, err := engine.Advance(ctx, tpl, state)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if state.CurrentQuestionID != "q2" {
			t.Errorf("expected fallback to 'q2', got %q", state.CurrentQuestionID)
		}
	})
}

func TestEngine_MissingBranchTarget(t *testing.T) {
	// An authoring error (branch target not in the template) degrades to
	// default order instead of failing the session.
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := branchingTemplate()
	tpl.Questions[0].Branches = []domain.Branch{
		{OptionID: "opt-a", TargetQuestionID: "ghost"},
	}

	state, _ := engine.Start(ctx, tpl)
	state, _ = engine.RecordAnswer(ctx, state, "q1", "A")

	state, err := engine.Advance(ctx, tpl, state)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if state.CurrentQuestionID != "q2" {
		t.Errorf("expected fallback to 'q2', got %q", state.CurrentQuestionID)
	}
}

func TestEngine_RequiredGate(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := branchingTemplate()

	state, _ := engine.Start(ctx, tpl)

	t.Run("Unanswered Required Blocks", func(t *testing.T) {
		next, err := engine.Advance(ctx, tpl, state)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if next.CurrentQuestionID != "q1" {
			t.Errorf("expected to stay at 'q1', got %q", next.CurrentQuestionID)
		}
		if len(next.History) != 0 {
			t.Errorf("expected history untouched, got %v", next.History)
		}
	})

	t.Run("Empty String Counts As Unanswered", func(t *testing.T) {
		withEmpty, _ := engine.RecordAnswer(ctx, state, "q1", "")
		next, err := engine.Advance(ctx, tpl, withEmpty)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if next.CurrentQuestionID != "q1" {
			t.Errorf("expected to stay at 'q1', got %q", next.CurrentQuestionID)
		}
	})
}

func TestEngine_BackPreservesAnswers(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := linearTemplate()

	state, _ := engine.Start(ctx, tpl)
	state, _ = engine.RecordAnswer(ctx, state, "q1", "well")
	state, _ = engine.Advance(ctx, tpl, state)
	state, _ = engine.RecordAnswer(ctx, state, "q2", 7.0)
	state, _ = engine.Advance(ctx, tpl, state)

	if state.CurrentQuestionID != "q3" {
		t.Fatalf("setup: expected to be at 'q3', got %q", state.CurrentQuestionID)
	}

	state, err := engine.Back(ctx, state)
	if err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	if state.CurrentQuestionID != "q2" {
		t.Errorf("expected to return to 'q2', got %q", state.CurrentQuestionID)
	}
	if state.Answers["q2"] != 7.0 {
		t.Errorf("expected answer for q2 preserved, got %v", state.Answers["q2"])
	}
	if state.Answers["q1"] != "well" {
		t.Errorf("expected answer for q1 preserved, got %v", state.Answers["q1"])
	}
}

func TestEngine_BackEdgeCases(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := linearTemplate()

	t.Run("Empty History NoOp", func(t *testing.T) {
		state, _ := engine.Start(ctx, tpl)
		next, err := engine.Back(ctx, state)
		if err != nil {
			t.Fatalf("Back failed: %v", err)
		}
		if next.CurrentQuestionID != "q1" {
			t.Errorf("expected to stay at 'q1', got %q", next.CurrentQuestionID)
		}
	})

	t.Run("Back From Awaiting Capture", func(t *testing.T) {
		state, _ := engine.Start(ctx, tpl)
		for state.Phase == domain.PhaseInProgress {
			state, _ = engine.Advance(ctx, tpl, state)
		}
		if state.Phase != domain.PhaseAwaitingCapture {
			t.Fatalf("setup: expected awaiting_capture, got %q", state.Phase)
		}

		next, err := engine.Back(ctx, state)
		if err != nil {
			t.Fatalf("Back failed: %v", err)
		}
		if next.Phase != domain.PhaseInProgress {
			t.Errorf("expected phase to revert to in_progress, got %q", next.Phase)
		}
		if next.CurrentQuestionID != "q3" {
			t.Errorf("expected to return to 'q3', got %q", next.CurrentQuestionID)
		}
	})
}

func TestEngine_CheckboxNeverBranches(t *testing.T) {
	// Branch tables are honored only for mcq questions; a checkbox with a
	// (mis-authored) branch table still follows default order.
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := &domain.Template{
		ID:    "tpl-cb",
		Title: "Checkbox",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Type: domain.QuestionTypeCheckbox,
				Options: []domain.Option{
					{ID: "opt-a", Label: "A", Value: "a"},
				},
				Branches: []domain.Branch{
					{OptionID: "opt-a", TargetQuestionID: "q3"},
				},
			},
			{ID: "q2", Type: domain.QuestionTypeText},
			{ID: "q3", Type: domain.QuestionTypeText},
		},
	}

	state, _ := engine.Start(ctx, tpl)
	state, _ = engine.RecordAnswer(ctx, state, "q1", []string{"a"})
	state, err := engine.Advance(ctx, tpl, state)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if state.CurrentQuestionID != "q2" {
		t.Errorf("expected default order to 'q2', got %q", state.CurrentQuestionID)
	}
}

func TestEngine_PhaseGuards(t *testing.T) {
	engine := runtime.NewEngine()
	ctx := context.Background()
	tpl := linearTemplate()

	completed := func(t *testing.T) (*domain.State, *domain.SessionResult) {
		t.Helper()
		state, _ := engine.Start(ctx, tpl)
		for state.Phase == domain.PhaseInProgress {
			state, _ = engine.Advance(ctx, tpl, state)
		}
		result, state, err := engine.CompleteCapture(ctx, tpl, state, 3, "")
		if err != nil {
			t.Fatalf("CompleteCapture failed: %v", err)
		}
		return state, result
	}

	t.Run("Advance After Completion", func(t *testing.T) {
		state, _ := completed(t)
		if _, err := engine.Advance(ctx, tpl, state); err != domain.ErrInvalidState {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("RecordAnswer While Awaiting Capture", func(t *testing.T) {
		state, _ := engine.Start(ctx, tpl)
		for state.Phase == domain.PhaseInProgress {
			state, _ = engine.Advance(ctx, tpl, state)
		}
		if _, err := engine.RecordAnswer(ctx, state, "q1", "late"); err != domain.ErrInvalidState {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("CompleteCapture While In Progress", func(t *testing.T) {
		state, _ := engine.Start(ctx, tpl)
		if _, _, err := engine.CompleteCapture(ctx, tpl, state, 3, ""); err != domain.ErrInvalidState {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("Exit After Completion", func(t *testing.T) {
		state, _ := completed(t)
		if err := engine.Exit(ctx, state); err != domain.ErrInvalidState {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("Exit Mid Session", func(t *testing.T) {
		state, _ := engine.Start(ctx, tpl)
		if err := engine.Exit(ctx, state); err != nil {
			t.Errorf("expected exit to succeed, got %v", err)
		}
	})
}
