// Package http exposes the session engine over a stateless REST surface.
// Session state travels with every request, so any replica can serve any
// call; only the template library and completed results live server-side.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solacelabs/arbor"
	"github.com/solacelabs/arbor/internal/logging"
	"github.com/solacelabs/arbor/internal/validator"
	"github.com/solacelabs/arbor/pkg/adapters/http/dto"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/library"
	"github.com/solacelabs/arbor/pkg/ports"
	"github.com/solacelabs/arbor/pkg/runner"
)

// Server wires the engine and the template library into HTTP handlers.
type Server struct {
	engine   ports.SessionEngine
	library  *library.Manager
	logger   *slog.Logger
	metrics  *Metrics
	registry *prometheus.Registry
}

type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry sets the Prometheus registry the server registers its
// counters with. A fresh registry is created by default.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewHandler creates the HTTP handler for the engine and library.
func NewHandler(engine ports.SessionEngine, lib *library.Manager, opts ...Option) http.Handler {
	s := &Server{
		engine:  engine,
		library: lib,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(collectors.NewGoCollector())
	}
	s.metrics = newMetrics(s.registry)

	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Get("/swagger", s.getSwaggerUI)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/start", s.startSession)
		r.Post("/answer", s.recordAnswer)
		r.Post("/advance", s.advanceSession)
		r.Post("/back", s.stepBack)
		r.Post("/complete", s.completeSession)
		r.Post("/exit", s.exitSession)
	})

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", s.listTemplates)
		r.Get("/{id}", s.getTemplate)
		r.Put("/{id}", s.putTemplate)
		r.Delete("/{id}", s.deleteTemplate)
	})

	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.listResults)
		r.Get("/{id}", s.getResult)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// sessionResponse pairs the new state with the question the client
// should display next.
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

// -- Session endpoints --

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var body dto.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("start: invalid request body", "error", err)
		return
	}

	template, err := s.library.GetTemplate(r.Context(), body.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			http.Error(w, "Template not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("start: template lookup failed", "error", err)
		return
	}

	state, err := s.engine.Start(r.Context(), template)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyTemplate) {
			http.Error(w, "Template has no questions", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, fmt.Sprintf("Start error: %v", err), http.StatusInternalServerError)
		s.logger.Error("start failed", "error", err)
		return
	}

	s.metrics.SessionsStarted.Inc()
	s.writeJSON(w, http.StatusOK, s.sessionResponse(template, state))
}

// loadSessionRequest decodes the common template_id+state envelope and
// resolves the template.
func (s *Server) loadSessionRequest(w http.ResponseWriter, r *http.Request, body *dto.SessionRequest) (*domain.Template, *domain.State, bool) {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("invalid request body", "error", err)
		return nil, nil, false
	}

	template, err := s.library.GetTemplate(r.Context(), body.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			http.Error(w, "Template not found", http.StatusNotFound)
			return nil, nil, false
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("template lookup failed", "error", err)
		return nil, nil, false
	}

	state := dto.StateToDomain(body.State)
	return template, state, true
}

func (s *Server) recordAnswer(w http.ResponseWriter, r *http.Request) {
	var body dto.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("answer: invalid request body", "error", err)
		return
	}

	template, err := s.library.GetTemplate(r.Context(), body.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			http.Error(w, "Template not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		return
	}

	state := dto.StateToDomain(body.State)

	// Free text goes through the sanitizer before it can reach logs or
	// stored results.
	value := body.Value
	if text, ok := value.(string); ok {
		clean, err := runner.SanitizeAnswer(text)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid answer: %v", err), http.StatusBadRequest)
			s.logger.Warn("answer rejected", "error", err, "size", len(text))
			return
		}
		value = clean
	}

	newState, err := s.engine.RecordAnswer(r.Context(), state, state.CurrentQuestionID, value)
	if err != nil {
		http.Error(w, fmt.Sprintf("Answer error: %v", err), http.StatusInternalServerError)
		s.logger.Error("answer failed", "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.sessionResponse(template, newState))
}

func (s *Server) advanceSession(w http.ResponseWriter, r *http.Request) {
	var body dto.SessionRequest
	template, state, ok := s.loadSessionRequest(w, r, &body)
	if !ok {
		return
	}

	newState, err := s.engine.Advance(r.Context(), template, state)
	if err != nil {
		http.Error(w, fmt.Sprintf("Advance error: %v", err), http.StatusInternalServerError)
		s.logger.Error("advance failed", "error", err)
		return
	}

	s.metrics.Advances.Inc()
	s.writeJSON(w, http.StatusOK, s.sessionResponse(template, newState))
}

func (s *Server) stepBack(w http.ResponseWriter, r *http.Request) {
	var body dto.SessionRequest
	template, state, ok := s.loadSessionRequest(w, r, &body)
	if !ok {
		return
	}

	newState, err := s.engine.Back(r.Context(), state)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			http.Error(w, "Session already completed", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Back error: %v", err), http.StatusInternalServerError)
		s.logger.Error("back failed", "error", err)
		return
	}

	s.metrics.BackSteps.Inc()
	s.writeJSON(w, http.StatusOK, s.sessionResponse(template, newState))
}

func (s *Server) completeSession(w http.ResponseWriter, r *http.Request) {
	var body dto.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("complete: invalid request body", "error", err)
		return
	}

	template, err := s.library.GetTemplate(r.Context(), body.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			http.Error(w, "Template not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		return
	}

	note := body.Note
	if note != "" {
		clean, err := runner.SanitizeAnswer(note)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid note: %v", err), http.StatusBadRequest)
			return
		}
		note = clean
	}

	state := dto.StateToDomain(body.State)
	result, newState, err := s.engine.CompleteCapture(r.Context(), template, state, body.Mood, note)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			http.Error(w, "Session is not awaiting capture", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Complete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("complete failed", "error", err)
		return
	}

	if err := s.library.SaveResult(r.Context(), result); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("complete: result save failed", "error", err, "session_id", result.SessionID)
		return
	}

	s.metrics.SessionsCompleted.Inc()
	s.logger.Info("session completed", "session_id", result.SessionID, "template_id", result.TemplateID)
	s.writeJSON(w, http.StatusOK, dto.CompleteResponse{
		Result: dto.ResultFromDomain(result),
		State:  dto.StateFromDomain(newState),
	})
}

func (s *Server) exitSession(w http.ResponseWriter, r *http.Request) {
	var body dto.ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	state := dto.StateToDomain(body.State)
	if err := s.engine.Exit(r.Context(), state); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			http.Error(w, "Session already completed", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Exit error: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.SessionsAbandoned.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// -- Template endpoints --

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.library.ListTemplates(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("template list failed", "error", err)
		return
	}

	out := make([]dto.Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, dto.TemplateFromDomain(t))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.library.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			http.Error(w, "Template not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.TemplateFromDomain(template))
}

func (s *Server) putTemplate(w http.ResponseWriter, r *http.Request) {
	var body dto.Template
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	body.ID = chi.URLParam(r, "id")

	template := dto.TemplateToDomain(&body)
	if err := validator.ValidateTemplate(template); err != nil {
		http.Error(w, fmt.Sprintf("Template failed validation: %v", err), http.StatusUnprocessableEntity)
		s.logger.Warn("template rejected", "template_id", template.ID, "error", err)
		return
	}

	if err := s.library.SaveTemplate(r.Context(), template); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("template save failed", "error", err, "template_id", template.ID)
		return
	}

	s.logger.Info("template stored", "template_id", template.ID, "questions", len(template.Questions))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.library.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -- Result endpoints --

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.library.ListResults(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("result list failed", "error", err)
		return
	}

	out := make([]dto.SessionResult, 0, len(results))
	for _, res := range results {
		out = append(out, dto.ResultFromDomain(res))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.library.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			http.Error(w, "Result not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.ResultFromDomain(result))
}

// -- Meta endpoints --

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, _ *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "arbor-http",
		"version":     arbor.Version,
		"api_version": apiVersion,
	})
}

func (s *Server) getOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(rawSpec())
}

func (s *Server) getSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(swaggerHTML))
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Arbor API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
