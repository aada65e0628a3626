// Package server provides the HTTP JSON surface over the business API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timesheet/internal/api"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/logging"
	"timesheet/internal/validation"
)

// DefaultRequestTimeout bounds each request.
const DefaultRequestTimeout = 30 * time.Second

// Server is the timesheet HTTP API server.
type Server struct {
	api      api.BusinessAPI
	now      func() time.Time
	timeout  time.Duration
	gatherer prometheus.Gatherer
}

// NewServer creates a new API server.
func NewServer(b api.BusinessAPI) *Server {
	return &Server{api: b, now: time.Now, timeout: DefaultRequestTimeout}
}

// EnableMetrics serves /metrics from g.
func (s *Server) EnableMetrics(g prometheus.Gatherer) { s.gatherer = g }

// WithClock overrides the clock used for stamps and periods.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// WithTimeout overrides the per-request timeout.
func (s *Server) WithTimeout(d time.Duration) *Server {
	s.timeout = d
	return s
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/stamp", s.handleStamp)
		r.Get("/today", s.handleToday)
		r.Get("/period", s.handlePeriod)
		r.Get("/entries", s.handleEntries)
		r.Put("/entries/{date}", s.handleSetEntry)
		r.Delete("/entries/{date}", s.handleDeleteEntry)
		r.Get("/summary", s.handleSummary)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
		r.Post("/sync", s.handleSync)
		r.Post("/backup", s.handleBackup)
		r.Get("/export/{format}", s.handleExport)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Debugf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": msg,
		},
	})
}

// writeAppError maps err to a status code and writes it.
func writeAppError(w http.ResponseWriter, err error) {
	if ve, ok := validation.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    "VALIDATION_ERROR",
				"message": ve.GetUserFriendlyMessage(),
				"fields":  ve.Fields(),
			},
		})
		return
	}

	status := http.StatusInternalServerError
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidInput:
			status = http.StatusBadRequest
		case apperrors.ErrorTypeConfiguration:
			status = http.StatusUnprocessableEntity
		case apperrors.ErrorTypeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrorTypeDatabase, apperrors.ErrorTypeTimeout:
			status = http.StatusServiceUnavailable
		}
	}
	if status >= http.StatusInternalServerError && apperrors.ShouldLogError(err) {
		logging.Errorf("request failed: %v", err)
	}
	writeError(w, status, apperrors.GetErrorCode(err), apperrors.GetUserMessage(err))
}
