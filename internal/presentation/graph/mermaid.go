// Package graph renders templates as Mermaid flowcharts for
// documentation and authoring review.
package graph

import (
	"fmt"
	"strings"

	"github.com/solacelabs/arbor/pkg/domain"
)

// Overlay contains session state to visualize on the flowchart.
type Overlay struct {
	VisitedQuestions []string
	CurrentQuestion  string
}

// GenerateMermaid produces Mermaid flowchart syntax for a template.
// Question shapes follow their type:
//   - mcq: {Rhombus} (decision point, may branch)
//   - slider: [/Parallelogram/] (numeric input)
//   - info: ([Stadium]) (display only)
//   - text/checkbox: [Rectangle]
//
// Default linear transitions are solid arrows; branch overrides are
// dotted arrows labeled with the option. The terminal mood capture is
// rendered as a final circle every path flows into.
func GenerateMermaid(template *domain.Template, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i := range template.Questions {
		q := &template.Questions[i]
		safeID := sanitizeMermaidID(q.ID)

		opener, closer := "[", "]"
		switch q.Type {
		case domain.QuestionTypeMCQ:
			opener, closer = "{", "}"
		case domain.QuestionTypeSlider:
			opener, closer = "[/", "/]"
		case domain.QuestionTypeInfo:
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(q.ID), closer))

		// Default order edge, or the terminal capture for the last question.
		if next, ok := template.DefaultNext(q.ID); ok {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(next)))
		} else {
			sb.WriteString(fmt.Sprintf("    %s --> capture\n", safeID))
		}

		for _, br := range q.Branches {
			label := br.OptionID
			if opt, ok := findOption(q, br.OptionID); ok && opt.Label != "" {
				label = opt.Label
			}
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n",
				safeID, escapeMermaidLabel(label), sanitizeMermaidID(br.TargetQuestionID)))
		}
	}

	sb.WriteString("    capture((\"mood check\"))\n")

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedQuestions {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentQuestion != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentQuestion)))
		}
	}

	return sb.String()
}

func findOption(q *domain.Question, optionID string) (*domain.Option, bool) {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i], true
		}
	}
	return nil, false
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
