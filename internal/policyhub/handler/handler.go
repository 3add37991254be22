package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"civicbridge/internal/policyhub"
	"civicbridge/pkg/platform/httputil"
	"civicbridge/pkg/requestcontext"
)

// Service defines the interface for policy feed lookups.
type Service interface {
	ByTopic(ctx context.Context, topic string) (*policyhub.Feed, error)
	Search(ctx context.Context, query string) (*policyhub.Feed, error)
}

// Handler wires policy hub endpoints to the feed service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a policy hub handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts policy hub endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/policyhub", h.HandleTopic)
	r.Post("/api/policies/search", h.HandleSearch)
}

// HandleTopic handles POST /api/policyhub requests.
func (h *Handler) HandleTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[TopicRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	feed, err := h.service.ByTopic(ctx, req.Topic)
	if err != nil {
		h.logger.ErrorContext(ctx, "policy hub topic fetch failed",
			"request_id", requestID,
			"topic", req.Topic,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy hub topic served",
		"request_id", requestID,
		"topic", req.Topic,
		"total_count", len(feed.Policies),
		"federal_count", feed.FederalCount,
		"congress_count", feed.CongressCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, fromTopicFeed(req.Topic, feed))
}

// HandleSearch handles POST /api/policies/search requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SearchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	feed, err := h.service.Search(ctx, req.Query)
	if err != nil {
		h.logger.ErrorContext(ctx, "policy search failed",
			"request_id", requestID,
			"query", req.Query,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy search served",
		"request_id", requestID,
		"query", req.Query,
		"total_count", len(feed.Policies),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, fromSearchFeed(req.Query, feed))
}
