package domain_test

import (
	"testing"

	"github.com/solacelabs/arbor/pkg/domain"
)

func TestResolveNext(t *testing.T) {
	tpl := &domain.Template{
		ID: "tpl-branch",
		Questions: []domain.Question{
			{
				ID:   "screen",
				Type: domain.QuestionTypeMCQ,
				Options: []domain.Option{
					{ID: "opt-low", Label: "Rarely", Value: "low"},
					{ID: "opt-high", Label: "Often", Value: "high"},
				},
				Branches: []domain.Branch{
					{OptionID: "opt-high", TargetQuestionID: "deep-dive"},
					{OptionID: "opt-low", TargetQuestionID: "missing"},
				},
			},
			{ID: "wrap-up", Type: domain.QuestionTypeText},
			{ID: "deep-dive", Type: domain.QuestionTypeText},
		},
	}

	q, _ := tpl.FindQuestion("screen")

	tests := []struct {
		name   string
		answer any
		want   domain.NextStep
	}{
		{
			name:   "Branch Hit",
			answer: "high",
			want:   domain.NextStep{Kind: domain.NextBranch, QuestionID: "deep-dive"},
		},
		{
			name:   "Branch Target Missing Falls Back",
			answer: "low",
			want:   domain.NextStep{Kind: domain.NextDefault, QuestionID: "wrap-up"},
		},
		{
			name:   "Unresolvable Value Falls Back",
			answer: "stale",
			want:   domain.NextStep{Kind: domain.NextDefault, QuestionID: "wrap-up"},
		},
		{
			name:   "Nil Answer Falls Back",
			answer: nil,
			want:   domain.NextStep{Kind: domain.NextDefault, QuestionID: "wrap-up"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ResolveNext(tpl, q, tc.answer)
			if got != tc.want {
				t.Errorf("ResolveNext = %+v, want %+v", got, tc.want)
			}
		})
	}

	t.Run("Last Question Ends", func(t *testing.T) {
		last, _ := tpl.FindQuestion("deep-dive")
		got := domain.ResolveNext(tpl, last, "anything")
		if got.Kind != domain.NextEnd {
			t.Errorf("expected NextEnd, got %+v", got)
		}
	})

	t.Run("Non MCQ Ignores Branches", func(t *testing.T) {
		text := &domain.Question{
			ID:       "wrap-up",
			Type:     domain.QuestionTypeText,
			Branches: []domain.Branch{{OptionID: "x", TargetQuestionID: "screen"}},
		}
		got := domain.ResolveNext(tpl, text, "anything")
		if got.Kind != domain.NextDefault || got.QuestionID != "deep-dive" {
			t.Errorf("expected default to deep-dive, got %+v", got)
		}
	})
}
