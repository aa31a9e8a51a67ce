package domain

import "time"

// Reserved answer keys for the terminal capture. The underscore prefix keeps
// them out of the question id namespace.
const (
	// MoodAnswerKey stores the 1..5 mood rating captured at session end.
	MoodAnswerKey = "_sessionMood"
	// MoodNoteAnswerKey stores the optional free-text note.
	MoodNoteAnswerKey = "_moodNote"
)

// SessionResult is the immutable record emitted once a session completes.
type SessionResult struct {
	// SessionID is generated at completion time, not before.
	SessionID string `json:"session_id"`

	TemplateID    string    `json:"template_id"`
	TemplateTitle string    `json:"template_title"`
	CompletedAt   time.Time `json:"completed_at"`

	// Answers is the final answer map including the terminal capture
	// fields under the reserved keys.
	Answers map[string]any `json:"answers"`

	// PathTaken is the ordered list of question ids actually visited,
	// which may differ from template order due to branching.
	PathTaken []string `json:"path_taken"`
}
