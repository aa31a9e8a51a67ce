package ports

import "context"

// MoodSource supplies the terminal capture appended to every session: a mood
// rating on a 1..5 scale and an optional free-text note. The runtime treats
// the pair as opaque and merges it into the result under reserved keys.
type MoodSource interface {
	Capture(ctx context.Context) (mood int, note string, err error)
}
