// Package web exposes the HTTP API: run status, manual triggers and read
// access to the latest and merged daily selections.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"infocurator/internal/metrics"
	"infocurator/internal/ports"
	"infocurator/internal/usecase"
)

// Server serves the JSON API in front of the pipeline and the snapshot
// store. Merged daily views are computed on read, never persisted.
type Server struct {
	pipeline *usecase.Pipeline
	store    ports.SnapshotStore
	metrics  *metrics.Metrics
	logger   *slog.Logger

	httpServer *http.Server
}

func NewServer(port int, pipeline *usecase.Pipeline, store ports.SnapshotStore, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		pipeline: pipeline,
		store:    store,
		metrics:  m,
		logger:   logger.With("component", "web"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/latest", s.handleLatest)
	mux.HandleFunc("GET /api/daily", s.handleDaily)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	running, lastRun := s.pipeline.Status()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"running": running,
		"lastRun": lastRun,
	})
}

// handleRefresh triggers a synchronous run. A run already in progress
// yields 409 instead of queueing.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	opts := usecase.RunOptions{
		CategoryID:    r.URL.Query().Get("category"),
		IncludeWeekly: r.URL.Query().Get("weekly") == "1",
	}

	result, err := s.pipeline.Run(r.Context(), opts)
	if errors.Is(err, usecase.ErrAlreadyRunning) {
		s.writeError(w, http.StatusConflict, "a run is already in progress")
		return
	}
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := s.store.LatestSnapshot()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snapshot == nil {
		s.writeError(w, http.StatusNotFound, "no snapshots yet")
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot)
}

// handleDaily merges every snapshot of one date into a deduplicated,
// re-sorted selection. Date defaults to today.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		s.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	category := r.URL.Query().Get("category")
	merged, err := s.store.MergeDay(date, category)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":     date,
		"category": category,
		"count":    len(merged),
		"items":    merged,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := http.StatusOK
	if !s.metrics.Healthy() {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, s.metrics.Stats())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
