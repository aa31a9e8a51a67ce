// Package dto defines the wire representation of the HTTP API and the
// mapping to and from domain types.
package dto

import (
	"time"

	"github.com/solacelabs/arbor/pkg/domain"
)

type State struct {
	TemplateID        string         `json:"template_id"`
	CurrentQuestionID string         `json:"current_question_id"`
	Answers           map[string]any `json:"answers,omitempty"`
	History           []string       `json:"history,omitempty"`
	Phase             string         `json:"phase"`
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

type Question struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Min         float64  `json:"min,omitempty"`
	Max         float64  `json:"max,omitempty"`
	Step        float64  `json:"step,omitempty"`
	MinLabel    string   `json:"min_label,omitempty"`
	MaxLabel    string   `json:"max_label,omitempty"`
	Branches    []Branch `json:"branches,omitempty"`
}

type Branch struct {
	Option string `json:"option"`
	Target string `json:"target"`
}

type Template struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Version     int        `json:"version,omitempty"`
	Questions   []Question `json:"questions"`
}

type SessionResult struct {
	SessionID     string         `json:"session_id"`
	TemplateID    string         `json:"template_id"`
	TemplateTitle string         `json:"template_title"`
	CompletedAt   time.Time      `json:"completed_at"`
	Answers       map[string]any `json:"answers"`
	PathTaken     []string       `json:"path_taken"`
}

// -- Request / response envelopes --

type StartRequest struct {
	TemplateID string `json:"template_id"`
}

type SessionRequest struct {
	TemplateID string `json:"template_id"`
	State      State  `json:"state"`
}

type AnswerRequest struct {
	TemplateID string `json:"template_id"`
	State      State  `json:"state"`
	Value      any    `json:"value"`
}

type CompleteRequest struct {
	TemplateID string `json:"template_id"`
	State      State  `json:"state"`
	Mood       int    `json:"mood"`
	Note       string `json:"note,omitempty"`
}

type ExitRequest struct {
	State State `json:"state"`
}

type SessionResponse struct {
	State           State     `json:"state"`
	Question        *Question `json:"question,omitempty"`
	AwaitingCapture bool      `json:"awaiting_capture"`
}

type CompleteResponse struct {
	Result SessionResult `json:"result"`
	State  State         `json:"state"`
}

// -- Domain mapping --

func StateFromDomain(d *domain.State) State {
	return State{
		TemplateID:        d.TemplateID,
		CurrentQuestionID: d.CurrentQuestionID,
		Answers:           d.Answers,
		History:           d.History,
		Phase:             string(d.Phase),
	}
}

func StateToDomain(s State) *domain.State {
	d := &domain.State{
		TemplateID:        s.TemplateID,
		CurrentQuestionID: s.CurrentQuestionID,
		Answers:           s.Answers,
		History:           s.History,
		Phase:             domain.Phase(s.Phase),
	}
	if d.Answers == nil {
		d.Answers = make(map[string]any)
	}
	if d.History == nil {
		d.History = []string{}
	}
	if d.Phase == "" {
		d.Phase = domain.PhaseInProgress
	}
	return d
}

func QuestionFromDomain(q *domain.Question) Question {
	out := Question{
		ID:          q.ID,
		Type:        q.Type,
		Prompt:      q.Prompt,
		Description: q.Description,
		Required:    q.Required,
		Min:         q.Min,
		Max:         q.Max,
		Step:        q.Step,
		MinLabel:    q.MinLabel,
		MaxLabel:    q.MaxLabel,
	}
	for _, opt := range q.Options {
		out.Options = append(out.Options, Option{ID: opt.ID, Label: opt.Label, Value: opt.Value})
	}
	for _, br := range q.Branches {
		out.Branches = append(out.Branches, Branch{Option: br.OptionID, Target: br.TargetQuestionID})
	}
	return out
}

func questionToDomain(q Question) domain.Question {
	out := domain.Question{
		ID:          q.ID,
		Type:        q.Type,
		Prompt:      q.Prompt,
		Description: q.Description,
		Required:    q.Required,
		Min:         q.Min,
		Max:         q.Max,
		Step:        q.Step,
		MinLabel:    q.MinLabel,
		MaxLabel:    q.MaxLabel,
	}
	for _, opt := range q.Options {
		out.Options = append(out.Options, domain.Option{ID: opt.ID, Label: opt.Label, Value: opt.Value})
	}
	for _, br := range q.Branches {
		out.Branches = append(out.Branches, domain.Branch{OptionID: br.Option, TargetQuestionID: br.Target})
	}
	return out
}

func TemplateFromDomain(t *domain.Template) Template {
	out := Template{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Version:     t.Version,
		Questions:   make([]Question, 0, len(t.Questions)),
	}
	for i := range t.Questions {
		out.Questions = append(out.Questions, QuestionFromDomain(&t.Questions[i]))
	}
	return out
}

func TemplateToDomain(t *Template) *domain.Template {
	out := &domain.Template{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Version:     t.Version,
		Questions:   make([]domain.Question, 0, len(t.Questions)),
	}
	for _, q := range t.Questions {
		out.Questions = append(out.Questions, questionToDomain(q))
	}
	return out
}

func ResultFromDomain(r *domain.SessionResult) SessionResult {
	return SessionResult{
		SessionID:     r.SessionID,
		TemplateID:    r.TemplateID,
		TemplateTitle: r.TemplateTitle,
		CompletedAt:   r.CompletedAt,
		Answers:       r.Answers,
		PathTaken:     r.PathTaken,
	}
}
