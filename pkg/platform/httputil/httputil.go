// Package httputil centralizes JSON response writing and request decoding for
// HTTP handlers. It owns the mapping from domain error codes to HTTP status
// codes so handlers never hand-pick status codes.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "civicbridge/pkg/domain-errors"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON serializes v as the response body with the given status code.
// Serialization failures fall back to a plain 500 since headers are already sent.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// WriteError translates err into an HTTP error response. Domain errors map to
// their code's status; anything else is reported as an opaque internal error.
// Internal error messages are never echoed to clients.
func WriteError(w http.ResponseWriter, err error) {
	var dErr *dErrors.Error
	if !errors.As(err, &dErr) {
		dErr = dErrors.New(dErrors.CodeInternal, "internal error")
	}

	resp := errorResponse{Error: string(dErr.Code)}
	if dErr.Code != dErrors.CodeInternal {
		resp.ErrorDescription = dErr.Message
	}
	WriteJSON(w, statusFor(dErr.Code), resp)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeResolutionFailed:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUpstreamUnavailable, dErrors.CodeExplainFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type validatable[T any] interface {
	*T
	Validate() error
}

// DecodeAndPrepare decodes the JSON request body into T and validates it.
// On failure it writes the error response and logs the rejection, returning
// ok=false so the handler can simply return.
func DecodeAndPrepare[T any, PT validatable[T]](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}

	if err := PT(&req).Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}

	return &req, true
}
