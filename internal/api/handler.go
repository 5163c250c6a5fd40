package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/campus-analytics/mirador/internal/domain"
	"github.com/campus-analytics/mirador/internal/executor"
	"github.com/campus-analytics/mirador/internal/params"
	"github.com/campus-analytics/mirador/internal/query"
	"github.com/campus-analytics/mirador/internal/registry"
	"github.com/campus-analytics/mirador/internal/render"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the report API.
type Handler struct {
	registry *registry.Registry
	executor *executor.Executor
	store    domain.Store
	cache    domain.Cache
	bus      domain.EventBus
	version  string
	started  time.Time
}

// NewHandler creates a new API handler.
func NewHandler(reg *registry.Registry, exec *executor.Executor, store domain.Store, cache domain.Cache, bus domain.EventBus, version string) *Handler {
	return &Handler{
		registry: reg,
		executor: exec,
		store:    store,
		cache:    cache,
		bus:      bus,
		version:  version,
		started:  time.Now(),
	}
}

// runRequest is the body of POST /reports/{id}/run. Absent params take
// their declared defaults.
type runRequest struct {
	Params map[string]any `json:"params"`
}

// runResponse wraps the rendered payload with run metadata.
type runResponse struct {
	*render.Payload
	Meta runMeta `json:"meta"`
}

type runMeta struct {
	RunID      string             `json:"runId"`
	CacheHit   bool               `json:"cacheHit"`
	RowCount   int                `json:"rowCount"`
	DurationMs int64              `json:"durationMs"`
	Params     domain.BoundParams `json:"params"`
	ExecutedAt time.Time          `json:"executedAt"`
	Version    string             `json:"version"`
}

// Health returns liveness status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}

// Ready checks downstream dependencies.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		checks["store"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["cache"] = "ok"
		}
	}

	if h.bus != nil {
		if err := h.bus.Ping(ctx); err != nil {
			checks["bus"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["bus"] = "ok"
		}
	}

	writeJSON(w, status, map[string]any{
		"ready":  status == http.StatusOK,
		"checks": checks,
	})
}

// ListReports returns the closed set of report definitions.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"reports": h.registry.List(),
	})
}

// GetReport returns one report definition with its parameter specs.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, err := h.registry.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// RunReport validates parameters, binds the query template, executes it
// through the cache and returns the rendered payload.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	start := time.Now()

	def, err := h.registry.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req runRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "invalid JSON body: " + err.Error(),
			})
			return
		}
	}

	bound, err := params.Bind(def.Params, req.Params)
	if err != nil {
		h.publishEvent(ctx, def.ID, false, 0, time.Since(start), err)
		writeError(w, err)
		return
	}

	q, err := query.Bind(def.Template, bound)
	if err != nil {
		h.publishEvent(ctx, def.ID, false, 0, time.Since(start), err)
		writeError(w, err)
		return
	}

	rs, cacheHit, err := h.executor.Execute(ctx, def.ID, q)
	if err != nil {
		h.publishEvent(ctx, def.ID, false, 0, time.Since(start), err)
		writeError(w, err)
		return
	}

	payload, err := render.Build(def, rs)
	if err != nil {
		slog.Error("render failed", "report_id", def.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to render result",
		})
		return
	}

	duration := time.Since(start)
	h.publishEvent(ctx, def.ID, cacheHit, rs.Len(), duration, nil)

	writeJSON(w, http.StatusOK, runResponse{
		Payload: payload,
		Meta: runMeta{
			RunID:      GetTraceID(ctx),
			CacheHit:   cacheHit,
			RowCount:   rs.Len(),
			DurationMs: duration.Milliseconds(),
			Params:     bound,
			ExecutedAt: time.Now().UTC(),
			Version:    h.version,
		},
	})
}

// Stats returns windowed cache hit and miss counters per report.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0)
	for _, s := range h.registry.List() {
		ids = append(ids, s.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reports": h.executor.Stats(r.Context(), ids),
	})
}

func (h *Handler) publishEvent(ctx context.Context, reportID string, cacheHit bool, rowCount int, duration time.Duration, runErr error) {
	if h.bus == nil {
		return
	}

	topic := domain.TopicReportExecuted
	event := domain.ReportEvent{
		ReportID:   reportID,
		CacheHit:   cacheHit,
		RowCount:   rowCount,
		DurationMs: duration.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if runErr != nil {
		topic = domain.TopicReportFailed
		event.Error = runErr.Error()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal report event", "error", err)
		return
	}
	if err := h.bus.Publish(ctx, topic, payload); err != nil {
		slog.Warn("failed to publish report event", "topic", topic, "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownReport):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrBinding):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrQueryExecution):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrCache):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
