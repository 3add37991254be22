package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"civicbridge/internal/domain"
	"civicbridge/internal/explain"
)

const (
	recentContextLimit = 15
	historyLimit       = 100
	fallbackQuoteChars = 100
)

// RepSource reads cached representatives for conversational context. A miss
// returns nil; chat never triggers live enrichment.
type RepSource interface {
	Get(ctx context.Context, zipCode string) []domain.Representative
}

// UserContext carries optional personalization hints from the client.
type UserContext struct {
	ZipCode string `json:"zip_code"`
	Role    string `json:"role"`
}

// Result is the outcome of one chat turn. Fallback marks a canned response
// served because the completion provider failed; Cause carries that failure.
type Result struct {
	SessionID string
	Response  string
	Fallback  bool
	Cause     error
}

type Service struct {
	completer explain.Completer
	store     Store
	reps      RepSource
	logger    *slog.Logger
}

func New(completer explain.Completer, store Store, reps RepSource, logger *slog.Logger) *Service {
	return &Service{
		completer: completer,
		store:     store,
		reps:      reps,
		logger:    logger,
	}
}

// Respond answers one chat message. Sessions without an ID get a fresh UUID.
// Store failures degrade to an uncontextualized answer rather than erroring;
// completion failures degrade to the canned fallback, which is persisted like
// any other exchange.
func (s *Service) Respond(ctx context.Context, sessionID, message string, userCtx UserContext) *Result {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := s.store.RecentContext(ctx, sessionID, recentContextLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "chat context fetch failed",
			"session_id", sessionID,
			"error", err,
		)
		history = nil
	}

	var reps []domain.Representative
	if userCtx.ZipCode != "" && s.reps != nil {
		reps = s.reps.Get(ctx, userCtx.ZipCode)
	}

	response, err := s.completer.Complete(ctx, buildPrompt(message, userCtx, reps, history))
	if err == nil && strings.TrimSpace(response) == "" {
		err = errors.New("empty response from completion provider")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "chat completion failed",
			"session_id", sessionID,
			"error", err,
		)
		fallback := fallbackResponse(message)
		s.save(ctx, sessionID, message, fallback)
		return &Result{SessionID: sessionID, Response: fallback, Fallback: true, Cause: err}
	}

	response = strings.TrimSpace(response)
	s.save(ctx, sessionID, message, response)
	return &Result{SessionID: sessionID, Response: response}
}

// History returns the session's exchanges oldest-first for client scrollback.
func (s *Service) History(ctx context.Context, sessionID string) ([]Exchange, error) {
	return s.store.History(ctx, sessionID, historyLimit)
}

// ClearSession removes all exchanges for a session.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	return s.store.ClearSession(ctx, sessionID)
}

func (s *Service) save(ctx context.Context, sessionID, userMessage, botResponse string) {
	err := s.store.SaveExchange(ctx, sessionID, Exchange{
		UserMessage: userMessage,
		BotResponse: botResponse,
		MessageType: MessageTypeGeneral,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save chat exchange",
			"session_id", sessionID,
			"error", err,
		)
	}
}

// fallbackResponse quotes the first 100 characters of the user's message in
// a canned reply used when the completion provider is unavailable.
func fallbackResponse(message string) string {
	quoted := message
	if runes := []rune(message); len(runes) > fallbackQuoteChars {
		quoted = string(runes[:fallbackQuoteChars])
	}
	return fmt.Sprintf("I'm currently experiencing high demand. Here's what I can tell you: %s... Please try again in a moment for a detailed explanation.", quoted)
}
