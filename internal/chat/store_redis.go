package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"civicbridge/pkg/requestcontext"
)

const (
	// Redis key prefix for per-session exchange lists
	sessionKeyPrefix = "chat:session:"

	// Exchanges kept per session; matches the history read limit.
	sessionCap = 100

	defaultRetention = 7 * 24 * time.Hour
)

// RedisStore is a Redis-backed Store for deployments where multiple
// instances share chat history. Each session is a list of JSON exchanges,
// newest first, capped at sessionCap and expired after the retention window.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore constructs a Redis-backed chat store. A non-positive
// retention falls back to seven days.
func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &RedisStore{client: client, retention: retention}
}

// SaveExchange pushes the exchange onto the session list, trims the list to
// sessionCap, and refreshes the retention TTL, all in one pipeline.
func (s *RedisStore) SaveExchange(ctx context.Context, sessionID string, ex Exchange) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = requestcontext.Now(ctx)
	}
	if ex.MessageType == "" {
		ex.MessageType = MessageTypeGeneral
	}

	payload, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("marshal chat exchange: %w", err)
	}

	key := sessionKeyPrefix + sessionID
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, sessionCap-1)
	pipe.Expire(ctx, key, s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save chat exchange for session %s: %w", sessionID, err)
	}
	return nil
}

// RecentContext returns up to limit exchanges, newest first. LPUSH keeps the
// list in that order already.
func (s *RedisStore) RecentContext(ctx context.Context, sessionID string, limit int) ([]Exchange, error) {
	return s.rangeExchanges(ctx, sessionID, limit, false)
}

// History returns up to limit exchanges, oldest first.
func (s *RedisStore) History(ctx context.Context, sessionID string, limit int) ([]Exchange, error) {
	return s.rangeExchanges(ctx, sessionID, limit, true)
}

func (s *RedisStore) rangeExchanges(ctx context.Context, sessionID string, limit int, oldestFirst bool) ([]Exchange, error) {
	key := sessionKeyPrefix + sessionID
	raw, err := s.client.LRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read chat history for session %s: %w", sessionID, err)
	}

	exchanges := make([]Exchange, 0, len(raw))
	for _, item := range raw {
		var ex Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("decode chat exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}

	if oldestFirst {
		for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
			exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
		}
	}
	return exchanges, nil
}

// ClearSession deletes the session list.
func (s *RedisStore) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("clear chat session %s: %w", sessionID, err)
	}
	return nil
}

// DeleteBefore is a no-op: Redis ages sessions out via the retention TTL.
func (s *RedisStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// Close is a no-op since the client lifecycle is managed externally.
func (s *RedisStore) Close() error {
	return nil
}
