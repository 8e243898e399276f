// Package api exposes the agent over HTTP: POST /run answers questions,
// GET /documents lists the corpus, GET /health reports liveness.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/policyqa/internal/agent"
	"github.com/sells-group/policyqa/internal/config"
	"github.com/sells-group/policyqa/internal/model"
	"github.com/sells-group/policyqa/internal/store"
)

const serviceVersion = "1.0.0"

// Server wires the agent and the run-history store behind the HTTP API.
type Server struct {
	agent *agent.Agent
	store store.Store
	cfg   config.ServerConfig
}

// New creates a Server. The store may be nil, in which case runs are not
// recorded.
func New(a *agent.Agent, st store.Store, cfg config.ServerConfig) *Server {
	return &Server{agent: a, store: st, cfg: cfg}
}

// Router builds the chi handler with CORS, request logging, and rate
// limiting middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(requestLogger)
	if s.cfg.RateLimit > 0 {
		r.Use(rateLimiter(rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)))
	}

	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)
	r.Get("/documents", s.handleDocuments)
	r.Post("/run", s.handleRun)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"service":          "policyqa",
		"version":          serviceVersion,
		"documents_loaded": s.agent.DocumentCount(),
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, _ *http.Request) {
	type docInfo struct {
		Title         string `json:"title"`
		URI           string `json:"uri"`
		Version       string `json:"version,omitempty"`
		ContentLength int    `json:"content_length"`
	}

	docs := s.agent.Documents()
	infos := make([]docInfo, 0, len(docs))
	for _, d := range docs {
		infos = append(infos, docInfo{
			Title:         d.Title,
			URI:           d.URI,
			Version:       d.Version,
			ContentLength: len(d.Content),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(infos),
		"documents": infos,
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req model.AgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.Task == "" {
		req.Task = model.TaskRAGQA
	}
	if req.Task != model.TaskRAGQA {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unsupported task: " + req.Task + ". Only 'rag_qa' is supported.",
		})
		return
	}

	params := model.DefaultParams()
	if req.Params != nil {
		params = *req.Params
	}

	result, usage, err := s.agent.AnswerQuery(r.Context(), req.Input.Question, params.TopK, params.MinConfidence)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if !params.RequireSources {
		result.Sources = nil
	}

	s.recordRun(r, req.Input.Question, result, usage)

	writeJSON(w, http.StatusOK, model.AgentResponse{
		Status: result.Status,
		Output: result.Output(),
		Usage:  usage,
	})
}

// recordRun persists the exchange. Failures are warnings: history is
// best-effort and never fails a query.
func (s *Server) recordRun(r *http.Request, question string, result *model.QueryResult, usage model.Usage) {
	if s.store == nil {
		return
	}
	run := &model.QueryRun{
		Question:         question,
		Answer:           result.Answer,
		Status:           result.Status,
		Confidence:       result.Confidence,
		ConflictDetected: result.ConflictDetected,
		LatencyMS:        usage.LatencyMS,
	}
	if err := s.store.CreateQueryRun(r.Context(), run); err != nil {
		zap.L().Warn("api: failed to record query run", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("api: failed to encode response", zap.Error(err))
	}
}

// requestLogger emits one debug log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// rateLimiter rejects requests with 429 once the shared token bucket is
// exhausted.
func rateLimiter(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
