/*
Package arbor is a headless session engine for branching, CBT-style
structured questionnaires.

It walks a user through an ordered list of questions defined by a Template,
honoring conditional branch rules on multiple-choice answers, tracking the
realized path for back-stepping, gating required answers, and finishing every
session with a fixed mood-capture step before emitting an immutable
SessionResult.

# Concept

Arbor separates the questionnaire definition (Template, pure data) from the
execution state (State) and from persistence (pkg/ports interfaces). The
engine itself is stateless: every operation takes the current state and
returns a fresh one, which lets it back any interface - an interactive CLI,
a stateless HTTP API, or an MCP server.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/solacelabs/arbor"
		"github.com/solacelabs/arbor/pkg/domain"
	)

	func main() {
		eng := arbor.New()
		ctx := context.Background()

		template := &domain.Template{
			ID:    "checkin",
			Title: "Daily Check-in",
			Questions: []domain.Question{
				{ID: "q1", Type: domain.QuestionTypeText, Prompt: "How are you feeling?"},
			},
		}

		state, err := eng.Start(ctx, template)
		if err != nil {
			log.Fatal(err)
		}

		state, _ = eng.RecordAnswer(ctx, state, "q1", "pretty good")
		state, _ = eng.Advance(ctx, template, state)

		// The path is exhausted; capture the closing mood and collect the result.
		result, _, err := eng.CompleteCapture(ctx, template, state, 4, "calm evening")
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("session %s took path %v", result.SessionID, result.PathTaken)
	}

Completed results are handed to a ports.ResultStore by the caller; see
pkg/library for the managed persistence surface and pkg/adapters for the
memory, file, and redis backends.
*/
package arbor
