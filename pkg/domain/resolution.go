package domain

// NextStep kinds. The resolution is a tagged variant so the state machine
// itself stays branch-agnostic: it only acts on the outcome.
const (
	// NextDefault means the template's linear order decided the step.
	NextDefault = "default"
	// NextBranch means a branch rule overrode the linear order.
	NextBranch = "branch"
	// NextEnd means there is no next question; the session must move to
	// the terminal capture step.
	NextEnd = "end"
)

// NextStep is the outcome of resolving which question follows the current
// one. QuestionID is empty when Kind == NextEnd.
type NextStep struct {
	Kind       string `json:"kind"`
	QuestionID string `json:"question_id,omitempty"`
}

// ResolveNext computes the question that follows q given the recorded answer.
//
// Branch rules apply only to mcq questions. Any miss in the chain
// (unresolvable answer value, no matching rule, target not in the template)
// silently falls through to the default linear order. Authoring mistakes
// degrade to the default path instead of blocking a session; the validator
// surfaces them out-of-band.
func ResolveNext(t *Template, q *Question, answer any) NextStep {
	if q.Type == QuestionTypeMCQ && len(q.Branches) > 0 {
		if optID, ok := q.ResolveOption(answer); ok {
			for _, b := range q.Branches {
				if b.OptionID == optID && t.HasQuestion(b.TargetQuestionID) {
					return NextStep{Kind: NextBranch, QuestionID: b.TargetQuestionID}
				}
			}
		}
	}

	if nextID, ok := t.DefaultNext(q.ID); ok {
		return NextStep{Kind: NextDefault, QuestionID: nextID}
	}
	return NextStep{Kind: NextEnd}
}
