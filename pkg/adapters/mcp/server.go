// Package mcp exposes the session engine as a Model Context Protocol
// server so LLM agents can run questionnaires over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/solacelabs/arbor"
	"github.com/solacelabs/arbor/internal/logging"
	"github.com/solacelabs/arbor/pkg/adapters/http/dto"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/library"
	"github.com/solacelabs/arbor/pkg/ports"
	"github.com/solacelabs/arbor/pkg/runner"
)

// Server wraps the engine and the template library as an MCP server.
// The wire shapes reuse the HTTP DTOs so all adapters speak the same
// structures.
type Server struct {
	engine    ports.SessionEngine
	library   *library.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.SessionEngine, lib *library.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		library:   lib,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("arbor-mcp", arbor.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start a questionnaire session for a template. Returns the initial state and the first question."),
		mcp.WithString("template_id", mcp.Required(), mcp.Description("The ID of the template to run")),
		mcp.WithOutputSchema[dto.SessionResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartSession))

	answerTool := mcp.NewTool("answer_question",
		mcp.WithDescription("Record an answer for the current question and advance to the next one. Branch rules are applied automatically."),
		mcp.WithString("template_id", mcp.Required(), mcp.Description("The ID of the template being run")),
		mcp.WithString("state", mcp.Required(), mcp.Description("JSON session state object from the previous call")),
		mcp.WithString("value", mcp.Description("The answer value. JSON arrays are accepted for checkbox questions; omit for info questions.")),
		mcp.WithOutputSchema[dto.SessionResponse](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleAnswerQuestion))

	backTool := mcp.NewTool("step_back",
		mcp.WithDescription("Return to the previously visited question. Recorded answers are preserved."),
		mcp.WithString("template_id", mcp.Required(), mcp.Description("The ID of the template being run")),
		mcp.WithString("state", mcp.Required(), mcp.Description("JSON session state object")),
		mcp.WithOutputSchema[dto.SessionResponse](),
	)
	s.mcpServer.AddTool(backTool, mcp.NewStructuredToolHandler(s.handleStepBack))

	completeTool := mcp.NewTool("complete_session",
		mcp.WithDescription("Record the closing mood rating and finalize the session. Only valid once the question path is exhausted."),
		mcp.WithString("template_id", mcp.Required(), mcp.Description("The ID of the template being run")),
		mcp.WithString("state", mcp.Required(), mcp.Description("JSON session state object")),
		mcp.WithNumber("mood", mcp.Required(), mcp.Description("Mood rating, typically 1-5")),
		mcp.WithString("note", mcp.Description("Optional free-text note")),
		mcp.WithOutputSchema[dto.CompleteResponse](),
	)
	s.mcpServer.AddTool(completeTool, mcp.NewStructuredToolHandler(s.handleCompleteSession))
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (dto.SessionResponse, error) {
	templateID, _ := args["template_id"].(string)

	template, err := s.library.GetTemplate(ctx, templateID)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("template lookup failed: %w", err)
	}

	state, err := s.engine.Start(ctx, template)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("start failed: %w", err)
	}

	return s.sessionResponse(template, state), nil
}

func (s *Server) handleAnswerQuestion(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (dto.SessionResponse, error) {
	template, state, err := s.parseSessionArgs(ctx, args)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	if raw, ok := args["value"].(string); ok && raw != "" {
		value := parseValue(raw)
		if text, ok := value.(string); ok {
			clean, err := runner.SanitizeAnswer(text)
			if err != nil {
				s.logger.Warn("mcp: answer rejected", "error", err, "size", len(text))
				return dto.SessionResponse{}, fmt.Errorf("answer rejected: %w", err)
			}
			value = clean
		}

		state, err = s.engine.RecordAnswer(ctx, state, state.CurrentQuestionID, value)
		if err != nil {
			return dto.SessionResponse{}, fmt.Errorf("answer failed: %w", err)
		}
	}

	newState, err := s.engine.Advance(ctx, template, state)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("advance failed: %w", err)
	}

	return s.sessionResponse(template, newState), nil
}

func (s *Server) handleStepBack(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (dto.SessionResponse, error) {
	template, state, err := s.parseSessionArgs(ctx, args)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	newState, err := s.engine.Back(ctx, state)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("back failed: %w", err)
	}

	return s.sessionResponse(template, newState), nil
}

func (s *Server) handleCompleteSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (dto.CompleteResponse, error) {
	template, state, err := s.parseSessionArgs(ctx, args)
	if err != nil {
		return dto.CompleteResponse{}, err
	}

	moodArg, _ := args["mood"].(float64)
	note, _ := args["note"].(string)
	if note != "" {
		clean, err := runner.SanitizeAnswer(note)
		if err != nil {
			return dto.CompleteResponse{}, fmt.Errorf("note rejected: %w", err)
		}
		note = clean
	}

	result, newState, err := s.engine.CompleteCapture(ctx, template, state, int(moodArg), note)
	if err != nil {
		return dto.CompleteResponse{}, fmt.Errorf("complete failed: %w", err)
	}

	if err := s.library.SaveResult(ctx, result); err != nil {
		return dto.CompleteResponse{}, fmt.Errorf("result save failed: %w", err)
	}

	s.logger.Info("mcp: session completed", "session_id", result.SessionID, "template_id", result.TemplateID)
	return dto.CompleteResponse{
		Result: dto.ResultFromDomain(result),
		State:  dto.StateFromDomain(newState),
	}, nil
}

func (s *Server) parseSessionArgs(ctx context.Context, args map[string]interface{}) (*domain.Template, *domain.State, error) {
	templateID, _ := args["template_id"].(string)
	template, err := s.library.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, nil, fmt.Errorf("template lookup failed: %w", err)
	}

	stateStr, _ := args["state"].(string)
	var wire dto.State
	if err := json.Unmarshal([]byte(stateStr), &wire); err != nil {
		return nil, nil, fmt.Errorf("invalid state: %w", err)
	}

	return template, dto.StateToDomain(wire), nil
}

// parseValue accepts JSON values so checkbox answers can arrive as
// arrays; anything that is not valid JSON is kept as a plain string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func (s *Server) sessionResponse(template *domain.Template, state *domain.State) dto.SessionResponse {
	resp := dto.SessionResponse{
		State:           dto.StateFromDomain(state),
		AwaitingCapture: state.Phase == domain.PhaseAwaitingCapture,
	}
	if state.Phase == domain.PhaseInProgress {
		if q, ok := template.FindQuestion(state.CurrentQuestionID); ok {
			qd := dto.QuestionFromDomain(q)
			resp.Question = &qd
		}
	}
	return resp
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("arbor://templates", "Template Library",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		templates, err := s.library.ListTemplates(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}

		out := make([]dto.Template, 0, len(templates))
		for _, t := range templates {
			out = append(out, dto.TemplateFromDomain(t))
		}
		jsonBytes, _ := json.Marshal(out)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "arbor://templates",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
