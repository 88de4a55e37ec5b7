// Package server exposes the conversation engine over HTTP: a turn endpoint,
// session history, runtime stats, and a websocket chat transport.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wwexlabs/freightagent/internal/agent"
	"github.com/wwexlabs/freightagent/internal/metrics"
)

// Server wraps the HTTP server with its dependencies and lifecycle.
type Server struct {
	orchestrator *agent.Orchestrator
	metrics      *metrics.Collector
	logger       *slog.Logger
	httpServer   *http.Server
}

// New creates a server listening on addr. collector and logger may be nil.
func New(addr string, orchestrator *agent.Orchestrator, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		orchestrator: orchestrator,
		metrics:      collector,
		logger:       logger,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(logger, s.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route table without the outer middleware. Exposed for
// tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/turns", s.handleTurn)
	mux.HandleFunc("GET /v1/sessions/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/stats", s.handleStats)
	mux.HandleFunc("GET /v1/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

type turnRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	Message   string `json:"message"`
}

type turnResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	s.logger.Debug("turn request",
		"session_id", req.SessionID,
		"message", truncate(req.Message, maxBodyLogLen))

	reply, err := s.orchestrator.ProcessTurn(r.Context(), req.SessionID, req.UserID, req.Message)
	if err != nil {
		s.logger.Error("turn failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "turn processing failed")
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{SessionID: req.SessionID, Reply: reply})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	messages, err := s.orchestrator.History(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("load history failed", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   messages,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	if s.metrics == nil {
		writeJSON(w, http.StatusOK, metrics.Snapshot{})
		return
	}
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
