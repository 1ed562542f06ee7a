// Package daemon runs the board's source of truth: an HTTP API over the
// SQLite store plus a websocket endpoint that pushes change notifications
// to connected boards.
package daemon

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tablerohq/tablero/internal/database"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/services/story"
)

// Server is the tablero daemon
type Server struct {
	cfg     Config
	db      *sql.DB
	policy  *policy.Policy
	stories story.Service
	hub     *Hub
	http    *http.Server
}

// NewServer wires the daemon together. The policy comes from the config's
// policy file when one is set, otherwise the default workflow applies.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	pol := policy.Default()
	if cfg.PolicyPath != "" {
		loaded, err := policy.LoadFile(cfg.PolicyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load policy: %w", err)
		}
		pol = loaded
	}

	db, err := database.InitDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	hub := NewHub(cfg.BroadcastBuffer, cfg.ClientBuffer)

	s := &Server{
		cfg:     cfg,
		db:      db,
		policy:  pol,
		stories: story.NewService(db, pol, hub),
		hub:     hub,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/events", s.hub.ServeWS)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Get("/{projectID}/board", s.handleGetBoard)
			r.Post("/{projectID}/stories", s.handleCreateStory)
			r.Put("/{projectID}/columns/{status}/limit", s.handleSetColumnLimit)
		})

		r.Route("/stories", func(r chi.Router) {
			r.Get("/{storyID}", s.handleGetStory)
			r.Put("/{storyID}/status", s.handleUpdateStoryStatus)
			r.Delete("/{storyID}", s.handleDeleteStory)
		})
	})

	return r
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := database.ListProjects(r.Context(), s.db)
	if err != nil {
		slog.Error("failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if projects == nil {
		projects = []*database.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "project name cannot be empty")
		return
	}

	project, err := database.CreateProject(r.Context(), s.db, req.Name, req.Description, s.policy.Columns())
	if err != nil {
		slog.Error("failed to create project", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Start runs the daemon until the context is cancelled, then shuts down
// gracefully
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("daemon listening", "addr", s.cfg.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("daemon shutting down")
	case err := <-errCh:
		s.hub.Shutdown()
		_ = s.db.Close()
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}

	s.hub.Shutdown()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Handler exposes the daemon's HTTP routes for tests
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
