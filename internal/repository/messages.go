package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vanek-ai/backend/internal/domain"
)

// Store is the message persistence interface the handlers depend on.
type Store interface {
	// Append inserts one chat turn. Appending a message ID that is
	// already stored is a no-op, so retries are safe.
	Append(ctx context.Context, m domain.PersistedMessage) error
	// List returns all messages of a session in creation order.
	List(ctx context.Context, sessionID string) ([]domain.PersistedMessage, error)
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// MessageStore is the Postgres-backed Store.
type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Append(ctx context.Context, m domain.PersistedMessage) error {
	if err := m.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (session_id, message_id, sender, text, has_file, file_name, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (message_id) DO NOTHING`,
		m.SessionID, m.MessageID, m.Sender, m.Text, m.HasFile, m.FileName, m.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("%w: append message: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *MessageStore) List(ctx context.Context, sessionID string) ([]domain.PersistedMessage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId required", domain.ErrValidation)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT session_id, message_id, sender, text, has_file, file_name, image_url, created_at
		 FROM conversations
		 WHERE session_id = $1
		 ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var messages []domain.PersistedMessage
	for rows.Next() {
		var m domain.PersistedMessage
		if err := rows.Scan(&m.SessionID, &m.MessageID, &m.Sender, &m.Text,
			&m.HasFile, &m.FileName, &m.ImageURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan message: %v", domain.ErrStorage, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read messages: %v", domain.ErrStorage, err)
	}

	return messages, nil
}

func (s *MessageStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", domain.ErrStorage, err)
	}
	return nil
}
