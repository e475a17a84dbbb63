package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/learnhub-be/internal/http/respond"
	"github.com/hongminglow/learnhub-be/internal/logging"
)

const healthTimeout = 3 * time.Second

// HealthStore is the part of the store the health endpoints probe.
type HealthStore interface {
	Ping(ctx context.Context) error
	CountUsers(ctx context.Context) (int, error)
	CountDiscussions(ctx context.Context) (int, error)
}

// Pinger is any optional dependency with a liveness probe, such as the cache.
type Pinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// HealthInfo describes the running process.
type HealthInfo struct {
	Environment string
	Version     string
	Production  bool
	StartedAt   time.Time
}

// HealthHandler returns uptime and dependency status.
type HealthHandler struct {
	store HealthStore
	cache Pinger
	info  HealthInfo
	log   logging.Logger
	now   func() time.Time
}

// NewHealthHandler creates a health endpoint handler. cache may be nil.
func NewHealthHandler(store HealthStore, cache Pinger, info HealthInfo, log logging.Logger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache, info: info, log: log, now: time.Now}
}

// Register mounts /health and, outside production, /health/detailed.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
	r.Get("/health/detailed", h.handleDetailed)
}

type healthBody struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Uptime      float64        `json:"uptime"`
	Environment string         `json:"environment"`
	Version     string         `json:"version"`
	Database    string         `json:"database"`
	Cache       string         `json:"cache,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	body, ok := h.probe(r.Context())
	respond.JSON(w, statusFor(ok), body)
}

func (h *HealthHandler) handleDetailed(w http.ResponseWriter, r *http.Request) {
	if h.info.Production {
		NotFound(w, r)
		return
	}
	body, ok := h.probe(r.Context())
	body.Cache = h.cacheStatus(r.Context())
	if ok {
		counts, err := h.counts(r.Context())
		if err != nil {
			h.log.Warn(r.Context(), "health counts failed", "error", err)
		} else {
			body.Counts = counts
		}
	}
	respond.JSON(w, statusFor(ok), body)
}

func (h *HealthHandler) probe(ctx context.Context) (healthBody, bool) {
	now := h.now()
	body := healthBody{
		Status:      "healthy",
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(h.info.StartedAt).Truncate(time.Second).Seconds(),
		Environment: h.info.Environment,
		Version:     h.info.Version,
		Database:    "connected",
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Error(ctx, "health check: database unreachable", "error", err)
		body.Status = "unhealthy"
		body.Database = "disconnected"
		return body, false
	}
	return body, true
}

func (h *HealthHandler) cacheStatus(ctx context.Context) string {
	if h.cache == nil || !h.cache.Enabled() {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := h.cache.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "connected"
}

func (h *HealthHandler) counts(ctx context.Context) (map[string]int, error) {
	users, err := h.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	discussions, err := h.store.CountDiscussions(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{"users": users, "discussions": discussions}, nil
}

func statusFor(ok bool) int {
	if ok {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
