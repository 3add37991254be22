package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"civicbridge/internal/domain"
	"civicbridge/internal/enrich"
	"civicbridge/pkg/platform/httputil"
	"civicbridge/pkg/requestcontext"
)

// Service defines the interface for representative lookups.
type Service interface {
	Representatives(ctx context.Context, zipCode string, forceRefresh bool) (*enrich.Result, error)
	MemberDetails(ctx context.Context, bioguideID string) (*domain.MemberDetails, error)
}

// Grouper serves chamber-grouped rosters straight from the cache. A lookup
// that misses returns empty buckets rather than triggering enrichment.
type Grouper interface {
	GetGrouped(ctx context.Context, zipCode string) domain.GroupedRepresentatives
}

// Handler wires representative endpoints to the enrichment service.
type Handler struct {
	service Service
	groups  Grouper
	logger  *slog.Logger
}

// New constructs a representative handler with its dependencies.
func New(service Service, groups Grouper, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		groups:  groups,
		logger:  logger,
	}
}

// Register mounts representative endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/representatives", h.HandleRepresentatives)
	r.Get("/api/representatives/{zip}/grouped", h.HandleGrouped)
	r.Get("/api/representative/{bioguideID}", h.HandleMemberDetails)
}

// HandleRepresentatives handles POST /api/representatives requests.
func (h *Handler) HandleRepresentatives(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RepresentativesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Representatives(ctx, req.Zip, req.ForceRefresh)
	if err != nil {
		h.logger.ErrorContext(ctx, "representative lookup failed",
			"request_id", requestID,
			"zip_code", req.Zip,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	source := "live"
	if result.FromCache {
		source = "cache"
	}

	h.logger.InfoContext(ctx, "representatives served",
		"request_id", requestID,
		"zip_code", req.Zip,
		"count", len(result.Representatives),
		"source", source,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	reps := result.Representatives
	if reps == nil {
		reps = []domain.Representative{}
	}
	httputil.WriteJSON(w, http.StatusOK, RepresentativesResponse{
		Representatives: reps,
		Count:           len(reps),
		Source:          source,
	})
}

// HandleGrouped handles GET /api/representatives/{zip}/grouped requests.
func (h *Handler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	zipCode := chi.URLParam(r, "zip")

	grouped := h.groups.GetGrouped(ctx, zipCode)
	httputil.WriteJSON(w, http.StatusOK, grouped)
}

// HandleMemberDetails handles GET /api/representative/{bioguideID} requests.
func (h *Handler) HandleMemberDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	bioguideID := chi.URLParam(r, "bioguideID")

	details, err := h.service.MemberDetails(ctx, bioguideID)
	if err != nil {
		h.logger.ErrorContext(ctx, "member details lookup failed",
			"request_id", requestID,
			"bioguide_id", bioguideID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "member details served",
		"request_id", requestID,
		"bioguide_id", bioguideID,
		"activity_items", len(details.Activity),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, fromMemberDetails(details))
}
