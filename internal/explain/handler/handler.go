package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"civicbridge/internal/explain"
	"civicbridge/pkg/platform/httputil"
	"civicbridge/pkg/requestcontext"
)

// Service defines the interface for policy explanations.
type Service interface {
	Explain(ctx context.Context, req explain.Request) (*explain.Explanation, error)
}

// ExplainResponse is the personalized explanation payload.
type ExplainResponse struct {
	ZipCode     string `json:"zip_code"`
	Role        string `json:"role"`
	Explanation string `json:"explanation"`
}

// Handler wires the explain endpoint to the explanation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an explain handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the explain endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/explain", h.HandleExplain)
}

// HandleExplain handles POST /api/explain requests.
func (h *Handler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ExplainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Explain(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "policy explanation failed",
			"request_id", requestID,
			"policy_choice", req.Choice(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy explanation served",
		"request_id", requestID,
		"policy_choice", req.Choice(),
		"zip_code", result.ZipCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, ExplainResponse{
		ZipCode:     result.ZipCode,
		Role:        result.Role,
		Explanation: result.Explanation,
	})
}
