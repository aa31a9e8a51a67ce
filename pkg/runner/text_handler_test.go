package runner

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/solacelabs/arbor/pkg/domain"
)

func sliderQuestion() *domain.Question {
	return &domain.Question{
		ID:       "stress",
		Type:     domain.QuestionTypeSlider,
		Prompt:   "Stress level?",
		Min:      0,
		Max:      10,
		Step:     1,
		MinLabel: "Calm",
		MaxLabel: "Overwhelmed",
	}
}

func choiceQuestion(qtype string) *domain.Question {
	return &domain.Question{
		ID:     "feelings",
		Type:   qtype,
		Prompt: "Pick",
		Options: []domain.Option{
			{ID: "opt-calm", Label: "Calm", Value: "calm"},
			{ID: "opt-tense", Label: "Tense", Value: "tense"},
			{ID: "opt-tired", Label: "Tired", Value: "tired"},
		},
	}
}

func readOne(t *testing.T, q *domain.Question, input string) (any, string) {
	t.Helper()
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader(input), &out)
	val, err := h.ReadAnswer(context.Background(), q)
	if err != nil {
		t.Fatalf("ReadAnswer() error: %v", err)
	}
	return val, out.String()
}

func TestTextHandler_SliderBoundsRetry(t *testing.T) {
	val, out := readOne(t, sliderQuestion(), "11\nabc\n7\n")

	if val != 7.0 {
		t.Errorf("expected 7.0, got %v (%T)", val, val)
	}
	if !strings.Contains(out, "between 0 and 10") {
		t.Error("expected bounds error message")
	}
	if !strings.Contains(out, "expected a number") {
		t.Error("expected parse error message")
	}
}

func TestTextHandler_MCQByNumberLabelValue(t *testing.T) {
	for _, input := range []string{"2\n", "tense\n", "Tense\n"} {
		val, _ := readOne(t, choiceQuestion(domain.QuestionTypeMCQ), input)
		if val != "tense" {
			t.Errorf("input %q: expected 'tense', got %v", input, val)
		}
	}
}

func TestTextHandler_MCQOutOfRangeRetries(t *testing.T) {
	val, out := readOne(t, choiceQuestion(domain.QuestionTypeMCQ), "9\n1\n")
	if val != "calm" {
		t.Errorf("expected retry to accept 'calm', got %v", val)
	}
	if !strings.Contains(out, "between 1 and 3") {
		t.Error("expected range error message")
	}
}

func TestTextHandler_CheckboxMultiSelect(t *testing.T) {
	val, _ := readOne(t, choiceQuestion(domain.QuestionTypeCheckbox), "1, 3\n")

	want := []string{"calm", "tired"}
	if !reflect.DeepEqual(val, want) {
		t.Errorf("expected %v, got %v", want, val)
	}
}

func TestTextHandler_InfoQuestionNeedsNoAnswer(t *testing.T) {
	q := &domain.Question{ID: "intro", Type: domain.QuestionTypeInfo, Prompt: "Welcome."}
	val, out := readOne(t, q, "\n")

	if val != nil {
		t.Errorf("info questions record no answer, got %v", val)
	}
	if !strings.Contains(out, "Enter to continue") {
		t.Error("expected continue prompt")
	}
}

func TestTextHandler_ExitAndBack(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader("quit\n"), &out)
	if _, err := h.ReadAnswer(context.Background(), sliderQuestion()); err != io.EOF {
		t.Errorf("expected io.EOF on quit, got %v", err)
	}

	h = NewTextHandler(strings.NewReader("back\n"), &out)
	if _, err := h.ReadAnswer(context.Background(), sliderQuestion()); err != ErrBack {
		t.Errorf("expected ErrBack, got %v", err)
	}
}

func TestTextHandler_PresentQuestionLayout(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader(""), &out)

	if err := h.PresentQuestion(context.Background(), sliderQuestion(), nil); err != nil {
		t.Fatalf("PresentQuestion() error: %v", err)
	}
	if !strings.Contains(out.String(), "[Calm .. Overwhelmed]") {
		t.Errorf("expected slider labels, got %q", out.String())
	}

	out.Reset()
	if err := h.PresentQuestion(context.Background(), choiceQuestion(domain.QuestionTypeCheckbox), nil); err != nil {
		t.Fatalf("PresentQuestion() error: %v", err)
	}
	if !strings.Contains(out.String(), "1) Calm") || !strings.Contains(out.String(), "comma-separated") {
		t.Errorf("expected option list and checkbox hint, got %q", out.String())
	}
}

func TestTextHandler_CaptureMoodRetries(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader("6\nnope\n4\nfelt lighter after\n"), &out)

	mood, note, err := h.CaptureMood(context.Background())
	if err != nil {
		t.Fatalf("CaptureMood() error: %v", err)
	}
	if mood != 4 {
		t.Errorf("expected mood 4, got %d", mood)
	}
	if note != "felt lighter after" {
		t.Errorf("expected note, got %q", note)
	}
	if !strings.Contains(out.String(), "between 1 and 5") {
		t.Error("expected retry message")
	}
}
