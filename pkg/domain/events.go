package domain

import (
	"context"
	"time"
)

// QuestionEvent represents entry to or exit from a question.
type QuestionEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	TemplateID   string    `json:"template_id"`
	QuestionID   string    `json:"question_id"`
	QuestionType string    `json:"question_type"`
}

// SessionEvent represents a session reaching completion.
type SessionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	TemplateID string    `json:"template_id"`
	SessionID  string    `json:"session_id"`
	PathLength int       `json:"path_length"`
}

// LifecycleHooks defines callbacks for runtime observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnQuestionEnter   func(context.Context, *QuestionEvent)
	OnQuestionLeave   func(context.Context, *QuestionEvent)
	OnSessionComplete func(context.Context, *SessionEvent)
}
