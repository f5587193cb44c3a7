// Package store provides the Postgres-backed message and channel store the
// AI layer reads its workspace data from.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relayhq/relay-ai/internal/models"
	"github.com/sirupsen/logrus"
)

// PostgresStore reads messages and channels from the platform database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Ensure PostgresStore implements MessageStore
var _ MessageStore = (*PostgresStore)(nil)

// NewPostgresStore connects to the platform database and ensures the schema
// this service depends on exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	logrus.Info("Connected to Postgres message store")
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS channels (
			id           TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL,
			name         TEXT NOT NULL,
			is_private   BOOLEAN DEFAULT FALSE
		);
		CREATE TABLE IF NOT EXISTS channel_members (
			channel_id TEXT NOT NULL REFERENCES channels(id),
			user_id    TEXT NOT NULL,
			PRIMARY KEY (channel_id, user_id)
		);
		CREATE TABLE IF NOT EXISTS messages (
			id          TEXT PRIMARY KEY,
			channel_id  TEXT NOT NULL REFERENCES channels(id),
			sender_id   TEXT,
			sender_name TEXT,
			content     TEXT NOT NULL,
			parent_id   TEXT,
			is_pinned   BOOLEAN DEFAULT FALSE,
			tone        JSONB,
			created_at  TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_messages_parent ON messages(parent_id);
		CREATE INDEX IF NOT EXISTS idx_messages_pinned ON messages(channel_id) WHERE is_pinned;
	`)
	return err
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) AccessibleChannels(ctx context.Context, workspaceID, userID string) ([]models.Channel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, workspace_id, name, is_private
		FROM channels
		WHERE workspace_id = $1
		  AND (NOT is_private OR id IN (
			SELECT channel_id FROM channel_members WHERE user_id = $2
		  ))
		ORDER BY name
	`, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("query accessible channels: %w", err)
	}
	defer rows.Close()

	return scanChannels(rows)
}

func (s *PostgresStore) PublicChannels(ctx context.Context) ([]models.Channel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, workspace_id, name, is_private
		FROM channels
		WHERE NOT is_private
		ORDER BY workspace_id, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query public channels: %w", err)
	}
	defer rows.Close()

	return scanChannels(rows)
}

func scanChannels(rows pgx.Rows) ([]models.Channel, error) {
	var channels []models.Channel
	for rows.Next() {
		var ch models.Channel
		if err := rows.Scan(&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.IsPrivate); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func (s *PostgresStore) RecentTopLevelMessages(ctx context.Context, channelID string, limit int) ([]models.ThreadMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, sender_name, content, is_pinned, created_at
		FROM messages
		WHERE channel_id = $1 AND parent_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2
	`, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (s *PostgresStore) PinnedMessages(ctx context.Context, channelID string) ([]models.ThreadMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, sender_name, content, is_pinned, created_at
		FROM messages
		WHERE channel_id = $1 AND is_pinned
		ORDER BY created_at DESC
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("query pinned messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (s *PostgresStore) ThreadMessages(ctx context.Context, channelID, threadID string) ([]models.ThreadMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, sender_name, content, is_pinned, created_at
		FROM messages
		WHERE channel_id = $1 AND (id = $2 OR parent_id = $2)
		ORDER BY created_at ASC
	`, channelID, threadID)
	if err != nil {
		return nil, fmt.Errorf("query thread messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]models.ThreadMessage, error) {
	var messages []models.ThreadMessage
	for rows.Next() {
		var (
			msg        models.ThreadMessage
			senderID   *string
			senderName *string
		)
		if err := rows.Scan(&msg.ID, &senderID, &senderName, &msg.Content, &msg.IsPinned, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if senderID != nil || senderName != nil {
			sender := &models.Sender{}
			if senderID != nil {
				sender.ID = *senderID
			}
			if senderName != nil {
				sender.FullName = *senderName
			}
			msg.Sender = sender
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *PostgresStore) UpdateMessageTone(ctx context.Context, messageID string, tone *models.ToneAnalysis) error {
	data, err := json.Marshal(tone)
	if err != nil {
		return fmt.Errorf("marshal tone analysis: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE messages SET tone = $2 WHERE id = $1
	`, messageID, data)
	if err != nil {
		return fmt.Errorf("update message tone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message %s not found", messageID)
	}

	return nil
}
