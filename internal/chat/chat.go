// Package chat answers conversational questions about government and policy,
// keeping per-session history in a pluggable store.
package chat

import (
	"context"
	"time"
)

// MessageTypeGeneral is the default classification for an exchange.
const MessageTypeGeneral = "general"

// Exchange is one user/bot message pair in a session.
type Exchange struct {
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	MessageType string    `json:"message_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists chat exchanges per session.
//
// RecentContext returns newest-first; History returns oldest-first.
// DeleteBefore supports the maintenance sweep and may be a no-op for
// backends that age entries themselves.
type Store interface {
	SaveExchange(ctx context.Context, sessionID string, ex Exchange) error
	RecentContext(ctx context.Context, sessionID string, limit int) ([]Exchange, error)
	History(ctx context.Context, sessionID string, limit int) ([]Exchange, error)
	ClearSession(ctx context.Context, sessionID string) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
