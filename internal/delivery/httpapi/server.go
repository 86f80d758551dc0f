package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"auto_sort_vimeo/config"
	"auto_sort_vimeo/internal/domain"
	"auto_sort_vimeo/internal/logger"
	"auto_sort_vimeo/internal/usecase"
)

// Server exposes a lightweight REST API for registry visibility and
// on-demand sort runs.
type Server struct {
	cfg      *config.Config
	schedule *usecase.ScheduleManager
	sorter   *usecase.VideoSorter
	server   *http.Server
	log      zerolog.Logger
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Config, schedule *usecase.ScheduleManager, sorter *usecase.VideoSorter) *Server {
	mux := http.NewServeMux()
	s := &Server{
		cfg:      cfg,
		schedule: schedule,
		sorter:   sorter,
		log:      logger.With("httpapi"),
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/events/register", s.handleRegister)
	mux.HandleFunc("/api/event-types", s.handleEventTypes)
	mux.HandleFunc("/api/run", s.handleRun)

	s.server = &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: s.loggingMiddleware(mux),
	}
	return s
}

// Start begins serving HTTP requests in a separate goroutine.
func (s *Server) Start() error {
	if s.cfg.ServerPort == "" {
		return fmt.Errorf("server port is not configured")
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("http api server stopped with error")
		}
	}()
	s.log.Info().Str("addr", s.server.Addr).Msg("http api server listening")
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	status := domain.EventStatus(r.URL.Query().Get("status"))
	upcoming := r.URL.Query().Get("upcoming") == "true"

	events, err := s.schedule.ListEvents(status, upcoming)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":  len(events),
		"events": events,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		EventID   string `json:"event_id"`
		EventType string `json:"event_type"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		Force     bool   `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventID == "" {
		respondError(w, http.StatusBadRequest, "event_id is required")
		return
	}

	event, err := s.schedule.Register(req.EventType, req.Date, req.Time, usecase.RegisterOptions{
		EventID:            req.EventID,
		Force:              req.Force,
		ManuallyRegistered: true,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			status = http.StatusConflict
		}
		respondError(w, status, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

func (s *Server) handleEventTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	type eventType struct {
		Name                   string `json:"name"`
		Description            string `json:"description"`
		Destination            string `json:"destination"`
		TypicalDurationMinutes int    `json:"typical_duration_minutes"`
	}
	types := make([]eventType, 0, len(s.cfg.EventTypes))
	for _, t := range s.cfg.EventTypes {
		types = append(types, eventType(t))
	}
	respondJSON(w, http.StatusOK, map[string]any{"event_types": types})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	stats, err := s.sorter.Run(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("elapsed", time.Since(start)).Msg("request")
	})
}
