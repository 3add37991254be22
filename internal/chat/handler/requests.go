package handler

import (
	"strings"

	"civicbridge/internal/chat"
	dErrors "civicbridge/pkg/domain-errors"
)

// ChatRequest is the payload for POST /api/chat. SessionID is optional; the
// service assigns one when absent.
type ChatRequest struct {
	Message   string           `json:"message"`
	SessionID string           `json:"session_id"`
	Context   chat.UserContext `json:"context"`
}

// Validate rejects blank messages. The message itself is passed through
// unmodified so the model sees exactly what the user typed.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return dErrors.New(dErrors.CodeValidation, "Empty message")
	}
	return nil
}
