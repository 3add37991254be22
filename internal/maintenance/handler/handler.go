package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"civicbridge/internal/domain"
	"civicbridge/internal/maintenance"
	"civicbridge/pkg/platform/httputil"
	"civicbridge/pkg/requestcontext"
)

// Service defines the interface for admin maintenance operations.
type Service interface {
	Sweep(ctx context.Context) maintenance.Result
	CacheStats(ctx context.Context) domain.CacheStats
}

// Handler wires admin maintenance endpoints to the sweeper.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a maintenance handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts admin maintenance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/admin/sweep", h.HandleSweep)
	r.Get("/api/admin/cache/stats", h.HandleCacheStats)
}

// SweepResponse reports what an on-demand sweep removed.
type SweepResponse struct {
	RepresentativesDeleted int64 `json:"representatives_deleted"`
	OtherDeleted           int64 `json:"other_deleted"`
}

// HandleSweep handles POST /api/admin/sweep requests.
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	result := h.service.Sweep(ctx)

	h.logger.InfoContext(ctx, "admin sweep completed",
		"request_id", requestID,
		"representatives_deleted", result.RepresentativesDeleted,
		"other_deleted", result.OtherDeleted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, SweepResponse{
		RepresentativesDeleted: result.RepresentativesDeleted,
		OtherDeleted:           result.OtherDeleted,
	})
}

// HandleCacheStats handles GET /api/admin/cache/stats requests.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	stats := h.service.CacheStats(ctx)

	h.logger.InfoContext(ctx, "cache stats served",
		"request_id", requestID,
		"total_representatives", stats.TotalRepresentatives,
		"active_entries", stats.ActiveEntries,
	)

	httputil.WriteJSON(w, http.StatusOK, stats)
}
