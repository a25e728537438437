package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brk3/wellnest/internal/analytics"
	"github.com/brk3/wellnest/internal/chat"
	"github.com/brk3/wellnest/internal/config"
	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/internal/storage"
	"github.com/brk3/wellnest/internal/tracker"
)

const maxBodyBytes = 1 << 20

type Server struct {
	cfg       *config.Config
	store     storage.Store
	svc       *analytics.Service
	tracker   *tracker.Tracker
	responder chat.Responder
}

func New(cfg *config.Config, store storage.Store, svc *analytics.Service, tr *tracker.Tracker, responder chat.Responder) *Server {
	if responder == nil {
		responder = chat.NewTemplateResponder()
	}
	return &Server{
		cfg:       cfg,
		store:     store,
		svc:       svc,
		tracker:   tr,
		responder: responder,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.AuthEnabled {
			r.Use(s.authMiddleware)
			r.Use(s.userAwareMetricsMiddleware)
		}

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", s.getDailySummary)
			r.Get("/{window}", s.getPeriodAnalytics)
		})
		r.Get("/stats", s.getQuickStats)
		r.Post("/chat", s.postChat)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.listHabits)
			r.Post("/", s.createHabit)
			r.Patch("/{habit_id}", s.toggleHabit)
			r.Delete("/{habit_id}", s.deleteHabit)
		})
		r.Route("/food", func(r chi.Router) {
			r.Get("/", s.listFood)
			r.Post("/", s.createFood)
			r.Delete("/{food_id}", s.deleteFood)
		})
		r.Route("/journal", func(r chi.Router) {
			r.Get("/", s.listJournal)
			r.Post("/", s.upsertJournal)
			r.Get("/{date}", s.getJournal)
		})
		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.getGoals)
			r.Post("/", s.upsertGoals)
			r.Delete("/", s.resetGoals)
		})
		r.Get("/profile", s.getProfile)
		r.Put("/profile", s.updateProfile)

		r.Route("/auth/api_keys", func(r chi.Router) {
			r.Get("/", s.listAPIKeys)
			r.Post("/", s.generateAPIKey)
			r.Delete("/{prefix}", s.revokeAPIKey)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.seedHabitGauges()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", s.cfg.ListenAddr, "auth_enabled", s.cfg.AuthEnabled)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// seedHabitGauges sets the active habit gauge for every stored user so the
// metric is populated before the first write after a restart.
func (s *Server) seedHabitGauges() {
	ids, err := s.store.ListUserIDs()
	if err != nil {
		logger.Warn("Failed to list users for habit metrics", "error", err)
		return
	}
	for _, id := range ids {
		s.refreshHabitGauge(id)
	}
	logger.Debug("Seeded active habit metrics", "users", len(ids))
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func upstreamErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", analytics.ErrUpstreamUnavailable, op, err)
}

// writeError maps domain errors onto status codes. Detail is only echoed for
// client errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := http.StatusInternalServerError, "internal_error", "internal error"
	switch {
	case errors.Is(err, analytics.ErrFutureDateNotAllowed):
		status, code, msg = http.StatusBadRequest, "future_date_not_allowed", "future dates are not allowed"
	case errors.Is(err, analytics.ErrInvalidInput), errors.Is(err, chat.ErrEmptyMessage):
		status, code, msg = http.StatusBadRequest, "invalid_input", err.Error()
	case errors.Is(err, analytics.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, analytics.ErrUpstreamUnavailable):
		status, code, msg = http.StatusServiceUnavailable, "upstream_unavailable", "storage unavailable"
	}

	args := []any{"method", r.Method, "path", r.URL.Path, "status", status, "error", err,
		"request_id", middleware.GetReqID(r.Context())}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", args...)
	} else {
		logger.Warn("Request rejected", args...)
	}
	if err := writeJSON(w, status, ErrorResponse{Error: msg, Code: code}); err != nil {
		logger.Error("Failed to serialize error response", "error", err)
	}
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", analytics.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON: %v", analytics.ErrInvalidInput, err)
	}
	return nil
}
