package domain

// QuestionType constants define the input behavior of a question.
const (
	// QuestionTypeText is an open-ended free text response.
	QuestionTypeText = "text"
	// QuestionTypeMCQ is a single-select multiple choice. Only this type
	// can carry branch rules.
	QuestionTypeMCQ = "mcq"
	// QuestionTypeSlider is a numeric scale bounded by Min/Max.
	QuestionTypeSlider = "slider"
	// QuestionTypeCheckbox is a multi-select; answers are stored as a list.
	QuestionTypeCheckbox = "checkbox"
	// QuestionTypeInfo displays content only and records no answer.
	QuestionTypeInfo = "info"
)

// Option is a selectable choice of an MCQ or checkbox question.
// Value is what gets recorded as the answer; ID is what branch rules key on.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Branch overrides the default linear order: if the option with OptionID is
// chosen, the session jumps to TargetQuestionID instead of the next question
// in the template array.
type Branch struct {
	OptionID         string `json:"option_id" yaml:"option"`
	TargetQuestionID string `json:"target_question_id" yaml:"target"`
}

// Question is a single step of a template.
type Question struct {
	ID          string `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"`
	Prompt      string `json:"prompt" yaml:"prompt"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Options is present for mcq and checkbox questions.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Slider Configuration (Optional)
	Min      float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step     float64 `json:"step,omitempty" yaml:"step,omitempty"`
	MinLabel string  `json:"min_label,omitempty" yaml:"min_label,omitempty"`
	MaxLabel string  `json:"max_label,omitempty" yaml:"max_label,omitempty"`

	// Required blocks advancing past this question without an answer.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Branches is only honored for mcq questions.
	Branches []Branch `json:"branches,omitempty" yaml:"branches,omitempty"`
}

// ResolveOption maps an answer value back to the option id that produced it.
// Branch rules key on option ids, while answers record option values, so the
// reverse lookup is needed before consulting the branch table.
// Returns false if the value matches no option (e.g. a stale answer recorded
// against an edited template).
func (q *Question) ResolveOption(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	for _, opt := range q.Options {
		if opt.Value == s {
			return opt.ID, true
		}
	}
	return "", false
}

// AcceptsInput reports whether the question records an answer at all.
func (q *Question) AcceptsInput() bool {
	return q.Type != QuestionTypeInfo
}
