package domain

// Phase defines the lifecycle stage of a running session.
type Phase string

const (
	// PhaseInProgress means the session is walking template questions.
	PhaseInProgress Phase = "in_progress"
	// PhaseAwaitingCapture means the question path is exhausted and the
	// session is waiting for the terminal mood capture.
	PhaseAwaitingCapture Phase = "awaiting_capture"
	// PhaseCompleted is terminal; the result has been emitted.
	PhaseCompleted Phase = "completed"
)

// State is the snapshot of a running session.
type State struct {
	// TemplateID identifies the template this session is walking.
	TemplateID string `json:"template_id"`

	// CurrentQuestionID points into the template's question list.
	CurrentQuestionID string `json:"current_question_id"`

	// Answers maps question id to the recorded answer value (scalar for
	// text/mcq/slider, list for checkbox). Entries are overwritten per
	// question, never deleted by navigation, so stepping back shows the
	// prior input.
	Answers map[string]any `json:"answers"`

	// History is the ordered stack of question ids already advanced past.
	// It records the realized branch path and is the ground truth for
	// Back; the branch logic is never re-derived in reverse.
	History []string `json:"history"`

	Phase Phase `json:"phase"`
}

// NewState creates a clean in-progress state positioned at the first question.
func NewState(templateID, firstQuestionID string) *State {
	return &State{
		TemplateID:        templateID,
		CurrentQuestionID: firstQuestionID,
		Answers:           make(map[string]any),
		History:           []string{},
		Phase:             PhaseInProgress,
	}
}

// Clone returns a deep copy of the state. Answer values themselves are
// shared; only the containers are copied, which is enough because the
// runtime replaces values rather than mutating them in place.
func (s *State) Clone() *State {
	c := *s
	c.Answers = make(map[string]any, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	c.History = append([]string(nil), s.History...)
	return &c
}

// IsAnswered reports whether a recorded value counts as an answer for the
// required-question gate. Empty strings and empty lists do not count.
func IsAnswered(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}
