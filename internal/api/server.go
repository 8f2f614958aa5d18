// Package api exposes the guardrail engine over HTTP for the dashboard.
// It only parses requests and serializes responses; every decision is made
// by the engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eddiebelaval/deepstack-guardrail/internal/guardrail"
	"github.com/eddiebelaval/deepstack-guardrail/internal/metrics"
)

// Engine is the guardrail surface the API layer invokes.
type Engine interface {
	Apply(cmd guardrail.Command) (guardrail.Assessment, error)
	Check(subject string) guardrail.Assessment
	Subjects() int
	Profile() guardrail.Profile
}

// Server is a lightweight HTTP API in front of the guardrail engine.
type Server struct {
	httpServer *http.Server
	engine     Engine
	startedAt  time.Time
}

// NewServer creates a new API server bound to addr.
func NewServer(addr string, engine Engine) *Server {
	s := &Server{
		engine:    engine,
		startedAt: time.Now(),
	}

	r := chi.NewRouter()
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ready", s.handleReady)
	r.Get("/api/status", s.handleStatus)
	r.Post("/api/guardrail", s.handleCommand)
	r.Get("/api/guardrail/{subject}", s.handleSubject)
	r.Handle("/metrics", metrics.Handler())

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	log.Printf("api server listening on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("api server: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// GET /api/health — liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// GET /api/ready — readiness probe.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ready":    true,
		"profile":  string(s.engine.Profile()),
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// GET /api/status — overall system status.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":  string(s.engine.Profile()),
		"subjects": s.engine.Subjects(),
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// POST /api/guardrail — the command envelope. Malformed bodies and unknown
// actions are caller bugs: 400, no state mutation.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd guardrail.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	assessment, err := s.engine.Apply(cmd)
	if err != nil {
		if errors.Is(err, guardrail.ErrInvalidAction) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, assessment)
}

// GET /api/guardrail/{subject} — read-only assessment for dashboard polling.
func (s *Server) handleSubject(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	if subject == "" {
		subject = guardrail.DefaultSubject
	}
	s.writeJSON(w, http.StatusOK, s.engine.Check(subject))
}
