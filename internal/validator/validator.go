// Package validator performs authoring-time checks on templates. The
// runtime deliberately tolerates broken branch rules by falling back to
// linear order, so this is where authors find out about them instead.
package validator

import (
	"fmt"
	"strings"

	"github.com/solacelabs/arbor/pkg/domain"
)

var questionTypes = map[string]bool{
	domain.QuestionTypeText:     true,
	domain.QuestionTypeMCQ:      true,
	domain.QuestionTypeSlider:   true,
	domain.QuestionTypeCheckbox: true,
	domain.QuestionTypeInfo:     true,
}

// ValidateTemplate checks structural integrity: duplicate ids, branch
// rules that cannot fire, slider bounds. All findings are reported at
// once rather than stopping at the first.
func ValidateTemplate(t *domain.Template) error {
	var errors []string

	if t.ID == "" {
		errors = append(errors, "template has no id")
	}
	if len(t.Questions) == 0 {
		errors = append(errors, "template has no questions")
		return report(errors)
	}

	seen := make(map[string]bool, len(t.Questions))
	for i := range t.Questions {
		q := &t.Questions[i]

		if q.ID == "" {
			errors = append(errors, fmt.Sprintf("question #%d has no id", i))
			continue
		}
		if seen[q.ID] {
			errors = append(errors, fmt.Sprintf("duplicate question id: '%s'", q.ID))
		}
		seen[q.ID] = true

		errors = append(errors, validateQuestion(q)...)

		for _, br := range q.Branches {
			if _, ok := findOption(q, br.OptionID); !ok {
				errors = append(errors, fmt.Sprintf("question '%s': branch references unknown option '%s'", q.ID, br.OptionID))
			}
			if !t.HasQuestion(br.TargetQuestionID) {
				errors = append(errors, fmt.Sprintf("question '%s': branch target '%s' does not exist", q.ID, br.TargetQuestionID))
			}
			if br.TargetQuestionID == q.ID {
				errors = append(errors, fmt.Sprintf("question '%s': branch targets itself", q.ID))
			}
		}
	}

	return report(errors)
}

func validateQuestion(q *domain.Question) []string {
	var errors []string

	if !questionTypes[q.Type] {
		errors = append(errors, fmt.Sprintf("question '%s': unknown type '%s'", q.ID, q.Type))
	}
	if q.Prompt == "" {
		errors = append(errors, fmt.Sprintf("question '%s': empty prompt", q.ID))
	}

	switch q.Type {
	case domain.QuestionTypeMCQ, domain.QuestionTypeCheckbox:
		if len(q.Options) == 0 {
			errors = append(errors, fmt.Sprintf("question '%s': %s question has no options", q.ID, q.Type))
		}
		optSeen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if opt.ID == "" {
				errors = append(errors, fmt.Sprintf("question '%s': option with empty id", q.ID))
				continue
			}
			if optSeen[opt.ID] {
				errors = append(errors, fmt.Sprintf("question '%s': duplicate option id '%s'", q.ID, opt.ID))
			}
			optSeen[opt.ID] = true
		}
	case domain.QuestionTypeSlider:
		if q.Max <= q.Min {
			errors = append(errors, fmt.Sprintf("question '%s': slider max (%v) must exceed min (%v)", q.ID, q.Max, q.Min))
		}
		if q.Step < 0 {
			errors = append(errors, fmt.Sprintf("question '%s': negative slider step", q.ID))
		}
	case domain.QuestionTypeInfo:
		if q.Required {
			errors = append(errors, fmt.Sprintf("question '%s': info question cannot be required", q.ID))
		}
	}

	// Branch rules only fire on mcq answers.
	if q.Type != domain.QuestionTypeMCQ && len(q.Branches) > 0 {
		errors = append(errors, fmt.Sprintf("question '%s': branch rules on %s question will never fire", q.ID, q.Type))
	}

	return errors
}

func findOption(q *domain.Question, optionID string) (*domain.Option, bool) {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i], true
		}
	}
	return nil, false
}

func report(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
