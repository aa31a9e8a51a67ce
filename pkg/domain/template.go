package domain

import "time"

// Template is the static, ordered definition of a questionnaire.
// The order of Questions defines the default (non-branching) traversal.
// Templates are authored externally and loaded read-only by the runtime.
type Template struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Version     int       `json:"version,omitempty" yaml:"version,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`

	Questions []Question `json:"questions" yaml:"questions"`
}

// FindQuestion returns the question with the given id, or false if the
// template does not contain it.
func (t *Template) FindQuestion(id string) (*Question, bool) {
	for i := range t.Questions {
		if t.Questions[i].ID == id {
			return &t.Questions[i], true
		}
	}
	return nil, false
}

// HasQuestion reports whether the template contains a question with the id.
func (t *Template) HasQuestion(id string) bool {
	_, ok := t.FindQuestion(id)
	return ok
}

// DefaultNext returns the id of the question immediately following currentID
// in template order. Returns false if currentID is the last question or is
// not part of the template.
func (t *Template) DefaultNext(currentID string) (string, bool) {
	for i := range t.Questions {
		if t.Questions[i].ID == currentID {
			if i+1 < len(t.Questions) {
				return t.Questions[i+1].ID, true
			}
			return "", false
		}
	}
	return "", false
}
