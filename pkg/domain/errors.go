package domain

import "errors"

// ErrEmptyTemplate is returned by Start when a template has no questions.
var ErrEmptyTemplate = errors.New("template has no questions")

// ErrInvalidState is returned when an operation is invoked in a phase that
// forbids it (e.g. completing a session twice). It signals a contract
// violation by the caller, not a user-facing condition.
var ErrInvalidState = errors.New("operation not valid in current session phase")

// ErrTemplateNotFound is returned when a template ID cannot be found in the store.
var ErrTemplateNotFound = errors.New("template not found")

// ErrResultNotFound is returned when a session result ID cannot be found in the store.
var ErrResultNotFound = errors.New("session result not found")
