package chat

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"civicbridge/pkg/requestcontext"
)

// SQLiteStore is the default Store. Same handle split as the representative
// cache: one write connection, one read-only connection.
type SQLiteStore struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and ensures
// the chat history schema exists. The path may be shared with the
// representative cache; busy_timeout covers cross-store write contention.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating chat store dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	if err := initChatSchema(writeDB); err != nil {
		_ = writeDB.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite", path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	return &SQLiteStore{readDB: readDB, writeDB: writeDB}, nil
}

func initChatSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS chat_history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT NOT NULL,
			user_message TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			message_type TEXT NOT NULL DEFAULT 'general',
			created_at   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chat_history_session_created
			ON chat_history(session_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing chat history schema: %w", err)
	}
	return nil
}

// Close closes both database handles.
func (s *SQLiteStore) Close() error {
	var firstErr error
	if err := s.readDB.Close(); err != nil {
		firstErr = err
	}
	if err := s.writeDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// SaveExchange appends one exchange to the session. A zero CreatedAt is
// filled from the request clock; an empty MessageType defaults to general.
func (s *SQLiteStore) SaveExchange(ctx context.Context, sessionID string, ex Exchange) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = requestcontext.Now(ctx)
	}
	if ex.MessageType == "" {
		ex.MessageType = MessageTypeGeneral
	}

	_, err := s.writeDB.ExecContext(ctx, `
		INSERT INTO chat_history (session_id, user_message, bot_response, message_type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, ex.UserMessage, ex.BotResponse, ex.MessageType, ex.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert chat exchange for session %s: %w", sessionID, err)
	}
	return nil
}

// RecentContext returns up to limit exchanges, newest first. The id tiebreak
// keeps same-second inserts in a stable order.
func (s *SQLiteStore) RecentContext(ctx context.Context, sessionID string, limit int) ([]Exchange, error) {
	return s.queryExchanges(ctx, sessionID, limit, `
		SELECT user_message, bot_response, message_type, created_at
		FROM chat_history
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
}

// History returns up to limit exchanges, oldest first.
func (s *SQLiteStore) History(ctx context.Context, sessionID string, limit int) ([]Exchange, error) {
	return s.queryExchanges(ctx, sessionID, limit, `
		SELECT user_message, bot_response, message_type, created_at
		FROM chat_history
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`)
}

func (s *SQLiteStore) queryExchanges(ctx context.Context, sessionID string, limit int, query string) ([]Exchange, error) {
	rows, err := s.readDB.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat history for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var (
			ex        Exchange
			createdAt int64
		)
		if err := rows.Scan(&ex.UserMessage, &ex.BotResponse, &ex.MessageType, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat exchange: %w", err)
		}
		ex.CreatedAt = time.Unix(createdAt, 0).UTC()
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history rows: %w", err)
	}
	return exchanges, nil
}

// ClearSession deletes all exchanges for a session.
func (s *SQLiteStore) ClearSession(ctx context.Context, sessionID string) error {
	_, err := s.writeDB.ExecContext(ctx,
		`DELETE FROM chat_history WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("clear chat session %s: %w", sessionID, err)
	}
	return nil
}

// DeleteBefore removes exchanges created before the cutoff and reports the
// count.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.writeDB.ExecContext(ctx,
		`DELETE FROM chat_history WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete old chat exchanges: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}
