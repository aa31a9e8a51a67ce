package runtime

import (
	"context"

	"github.com/solacelabs/arbor/pkg/domain"
)

// RecordAnswer overwrites the answer for a question without moving the
// pointer. Answers are not validated here; validation happens at Advance.
func (e *Engine) RecordAnswer(ctx context.Context, state *domain.State, questionID string, value any) (*domain.State, error) {
	if state.Phase != domain.PhaseInProgress {
		return nil, domain.ErrInvalidState
	}

	next := state.Clone()
	next.Answers[questionID] = value
	return next, nil
}

// Advance moves the session forward: it resolves the next question
// (branch-aware) and moves the pointer, or transitions to the terminal
// capture phase when the path is exhausted.
//
// Advancing past an unanswered required question is absorbed as a no-op.
// The UI is expected to gate this; the runtime re-checks so a misbehaving
// caller cannot corrupt the state.
func (e *Engine) Advance(ctx context.Context, template *domain.Template, state *domain.State) (*domain.State, error) {
	if state.Phase != domain.PhaseInProgress {
		return nil, domain.ErrInvalidState
	}

	q, ok := template.FindQuestion(state.CurrentQuestionID)
	if !ok {
		// Stale pointer against an edited template. Nothing sane to
		// resolve from; absorb rather than corrupt the session.
		e.logger.Warn("current question missing from template",
			"template_id", template.ID,
			"question_id", state.CurrentQuestionID,
		)
		return state.Clone(), nil
	}

	if q.Required && q.AcceptsInput() && !domain.IsAnswered(state.Answers[q.ID]) {
		e.logger.Debug("advance blocked by required question", "question_id", q.ID)
		return state.Clone(), nil
	}

	step := domain.ResolveNext(template, q, state.Answers[q.ID])

	next := state.Clone()
	next.History = append(next.History, q.ID)
	e.emitQuestionLeave(ctx, template.ID, q)

	if step.Kind == domain.NextEnd {
		// End of the realized path. The terminal capture is appended to
		// every session regardless of template content, so the session
		// parks in the awaiting phase instead of completing outright.
		// CurrentQuestionID keeps pointing at the last question so Back
		// can return to it.
		next.Phase = domain.PhaseAwaitingCapture
		e.logger.Debug("path exhausted, awaiting terminal capture",
			"template_id", template.ID,
			"last_question", q.ID,
		)
		return next, nil
	}

	next.CurrentQuestionID = step.QuestionID
	e.logger.Debug("advanced",
		"from", q.ID,
		"to", step.QuestionID,
		"resolution", step.Kind,
	)

	if target, ok := template.FindQuestion(step.QuestionID); ok {
		e.emitQuestionEnter(ctx, template.ID, target)
	}

	return next, nil
}

// Back pops the last visited question off the history stack and returns to
// it. A no-op when history is empty. Back from the awaiting-capture phase
// reverts the session to in-progress.
//
// Back trusts the recorded history as the ground truth of the realized path;
// it never re-derives branch logic in reverse. Answers are preserved so the
// prior input is shown again.
func (e *Engine) Back(ctx context.Context, state *domain.State) (*domain.State, error) {
	if state.Phase == domain.PhaseCompleted {
		return nil, domain.ErrInvalidState
	}

	if len(state.History) == 0 {
		return state.Clone(), nil
	}

	next := state.Clone()
	prev := next.History[len(next.History)-1]
	next.History = next.History[:len(next.History)-1]
	next.CurrentQuestionID = prev
	next.Phase = domain.PhaseInProgress

	e.logger.Debug("stepped back", "to", prev)
	return next, nil
}

// CompleteCapture merges the terminal mood capture into the answers under
// the reserved keys and emits the immutable session result. Only valid in
// the awaiting-capture phase; a second call returns domain.ErrInvalidState
// and does not touch the already-emitted result.
func (e *Engine) CompleteCapture(ctx context.Context, template *domain.Template, state *domain.State, mood int, note string) (*domain.SessionResult, *domain.State, error) {
	if state.Phase != domain.PhaseAwaitingCapture {
		return nil, nil, domain.ErrInvalidState
	}

	next := state.Clone()
	next.Answers[domain.MoodAnswerKey] = mood
	next.Answers[domain.MoodNoteAnswerKey] = note
	next.Phase = domain.PhaseCompleted

	answers := make(map[string]any, len(next.Answers))
	for k, v := range next.Answers {
		answers[k] = v
	}

	// History already ends with the last answered question (Advance pushes
	// before parking in awaiting-capture), so it is the full realized path.
	result := &domain.SessionResult{
		SessionID:     e.newID(),
		TemplateID:    template.ID,
		TemplateTitle: template.Title,
		CompletedAt:   e.now().UTC(),
		Answers:       answers,
		PathTaken:     append([]string(nil), next.History...),
	}

	e.logger.Info("session completed",
		"session_id", result.SessionID,
		"template_id", result.TemplateID,
		"path_length", len(result.PathTaken),
	)
	e.emitSessionComplete(ctx, result)

	return result, next, nil
}
