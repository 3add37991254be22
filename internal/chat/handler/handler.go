package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"civicbridge/internal/chat"
	"civicbridge/pkg/platform/httputil"
	"civicbridge/pkg/requestcontext"
)

// Service defines the interface for conversational exchanges.
type Service interface {
	Respond(ctx context.Context, sessionID, message string, userCtx chat.UserContext) *chat.Result
	History(ctx context.Context, sessionID string) ([]chat.Exchange, error)
	ClearSession(ctx context.Context, sessionID string) error
}

// Handler wires chat endpoints to the chat service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a chat handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts chat endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/chat", h.HandleChat)
	r.Get("/api/chat/{sessionID}/history", h.HandleHistory)
	r.Delete("/api/chat/{sessionID}", h.HandleClear)
}

// HandleChat handles POST /api/chat requests. Fallback replies are served
// with a 500 so clients can distinguish them from model answers while still
// having something to show.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ChatRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.Respond(ctx, req.SessionID, req.Message, req.Context)

	if result.Fallback {
		h.logger.WarnContext(ctx, "chat served fallback response",
			"request_id", requestID,
			"session_id", result.SessionID,
			"error", result.Cause,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, fromResult(result))
		return
	}

	h.logger.InfoContext(ctx, "chat response served",
		"request_id", requestID,
		"session_id", result.SessionID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, fromResult(result))
}

// HandleHistory handles GET /api/chat/{sessionID}/history requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID := chi.URLParam(r, "sessionID")

	exchanges, err := h.service.History(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "chat history fetch failed",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "chat history served",
		"request_id", requestID,
		"session_id", sessionID,
		"message_count", len(exchanges),
	)

	httputil.WriteJSON(w, http.StatusOK, fromHistory(sessionID, exchanges))
}

// HandleClear handles DELETE /api/chat/{sessionID} requests.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID := chi.URLParam(r, "sessionID")

	if err := h.service.ClearSession(ctx, sessionID); err != nil {
		h.logger.ErrorContext(ctx, "chat session clear failed",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "chat session cleared",
		"request_id", requestID,
		"session_id", sessionID,
	)

	w.WriteHeader(http.StatusNoContent)
}
