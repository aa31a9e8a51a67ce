package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/solacelabs/arbor/pkg/domain"
)

// TextHandler implements IOHandler on plain line-based IO.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) render(text string) string {
	if h.Renderer != nil {
		if rendered, err := h.Renderer(text); err == nil {
			return rendered
		}
	}
	return text
}

func (h *TextHandler) PresentQuestion(_ context.Context, q *domain.Question, prior any) error {
	fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(q.Prompt)))
	if q.Description != "" {
		fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(q.Description)))
	}

	switch q.Type {
	case domain.QuestionTypeMCQ, domain.QuestionTypeCheckbox:
		for i, opt := range q.Options {
			fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, opt.Label)
		}
		if q.Type == domain.QuestionTypeCheckbox {
			fmt.Fprintln(h.Writer, "  (comma-separated numbers, e.g. 1,3)")
		}
	case domain.QuestionTypeSlider:
		low, high := q.MinLabel, q.MaxLabel
		if low == "" {
			low = formatNumber(q.Min)
		}
		if high == "" {
			high = formatNumber(q.Max)
		}
		fmt.Fprintf(h.Writer, "  [%s .. %s] (%s-%s)\n", low, high, formatNumber(q.Min), formatNumber(q.Max))
	}

	if prior != nil {
		fmt.Fprintf(h.Writer, "  (previous answer: %v)\n", prior)
	}
	return nil
}

func (h *TextHandler) ReadAnswer(ctx context.Context, q *domain.Question) (any, error) {
	if q.Type == domain.QuestionTypeInfo {
		fmt.Fprint(h.Writer, "[Enter to continue] ")
		if _, err := h.readLine(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	for {
		line, err := h.prompt()
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil, io.EOF
		case "back":
			return nil, ErrBack
		case "":
			return nil, nil
		}

		value, parseErr := h.parseAnswer(q, line)
		if parseErr != nil {
			fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", parseErr)
			continue
		}
		return value, nil
	}
}

func (h *TextHandler) parseAnswer(q *domain.Question, line string) (any, error) {
	switch q.Type {
	case domain.QuestionTypeMCQ:
		opt, err := pickOption(q.Options, line)
		if err != nil {
			return nil, err
		}
		return opt.Value, nil

	case domain.QuestionTypeCheckbox:
		var values []string
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			opt, err := pickOption(q.Options, part)
			if err != nil {
				return nil, err
			}
			values = append(values, opt.Value)
		}
		if len(values) == 0 {
			return nil, nil
		}
		return values, nil

	case domain.QuestionTypeSlider:
		val, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number")
		}
		if val < q.Min || val > q.Max {
			return nil, fmt.Errorf("value must be between %s and %s", formatNumber(q.Min), formatNumber(q.Max))
		}
		return val, nil

	default:
		return line, nil
	}
}

// pickOption accepts either a 1-based index or an option value.
func pickOption(options []domain.Option, input string) (*domain.Option, error) {
	if idx, err := strconv.Atoi(input); err == nil {
		if idx < 1 || idx > len(options) {
			return nil, fmt.Errorf("choose a number between 1 and %d", len(options))
		}
		return &options[idx-1], nil
	}
	for i := range options {
		if strings.EqualFold(options[i].Value, input) || strings.EqualFold(options[i].Label, input) {
			return &options[i], nil
		}
	}
	return nil, fmt.Errorf("no option matches %q", input)
}

func (h *TextHandler) CaptureMood(ctx context.Context) (int, string, error) {
	fmt.Fprintln(h.Writer, "How are you feeling right now?")
	fmt.Fprintln(h.Writer, "  1) Very low  2) Low  3) Okay  4) Good  5) Great")

	var mood int
	for {
		line, err := h.prompt()
		if err != nil {
			return 0, "", err
		}
		mood, err = strconv.Atoi(line)
		if err != nil || mood < 1 || mood > 5 {
			fmt.Fprintln(h.Writer, "Error: enter a number between 1 and 5. Please try again.")
			continue
		}
		break
	}

	fmt.Fprintln(h.Writer, "Anything you want to note down? (optional)")
	note, err := h.prompt()
	if err != nil && err != io.EOF {
		return 0, "", err
	}
	return mood, note, nil
}

func (h *TextHandler) Notify(_ context.Context, msg string) error {
	fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(msg)))
	return nil
}

func (h *TextHandler) prompt() (string, error) {
	fmt.Fprint(h.Writer, "> ")
	line, err := h.readLine()
	if err != nil {
		return "", err
	}

	clean, sanErr := SanitizeAnswer(line)
	if sanErr != nil {
		return "", sanErr
	}
	return strings.TrimSpace(clean), nil
}

func (h *TextHandler) readLine() (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && text == "" {
		return "", err
	}
	return text, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
