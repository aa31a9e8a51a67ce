package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxAnswerSize is 4KB (conservative default)
	DefaultMaxAnswerSize = 4096
	// EnvMaxAnswerSize is the environment variable to override the default
	EnvMaxAnswerSize = "ARBOR_MAX_ANSWER_SIZE"
)

var (
	ErrAnswerTooLarge = errors.New("answer exceeds maximum allowed size")
	ErrInvalidUTF8    = errors.New("answer contains invalid UTF-8 sequences")
)

// SanitizeAnswer cleans free-text answers by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters. Answers
// end up in logs and stored results, so ANSI escapes and NULLs are
// stripped here rather than at render time.
func SanitizeAnswer(input string) (string, error) {
	limit := getMaxAnswerSize()
	if len(input) > limit {
		// Reject rather than truncate so stored answers are never silently cut.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrAnswerTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: nothing to strip.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Newline, tab and carriage return survive sanitization.
func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxAnswerSize() int {
	if val := os.Getenv(EnvMaxAnswerSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxAnswerSize
}
