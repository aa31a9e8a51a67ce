package runner

import (
	"strings"
	"testing"
)

func TestSanitizeAnswer_SizeLimit(t *testing.T) {
	limit := 4096

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			_, err := SanitizeAnswer(input)
			if tt.wantErr && err == nil {
				t.Errorf("SanitizeAnswer() expected error for size %d, got nil", tt.inputSize)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("SanitizeAnswer() unexpected error: %v", err)
			}
		})
	}
}

func TestSanitizeAnswer_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Feeling okay today", "Feeling okay today"},
		{"Safe Controls", "Line1\nLine2\tTabbed", "Line1\nLine2\tTabbed"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeAnswer(tt.input)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitizeAnswer_EnvOverride(t *testing.T) {
	t.Setenv("ARBOR_MAX_ANSWER_SIZE", "10")

	if _, err := SanitizeAnswer("12345678901"); err == nil {
		t.Error("Expected error for input > 10 when env var is set")
	}

	if _, err := SanitizeAnswer("12345"); err != nil {
		t.Error("Unexpected error for valid input")
	}
}

func TestSanitizeAnswer_InvalidUTF8(t *testing.T) {
	input := "\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98"
	if _, err := SanitizeAnswer(input); err != ErrInvalidUTF8 {
		t.Errorf("Expected ErrInvalidUTF8, got %v", err)
	}
}
