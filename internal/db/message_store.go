package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"chatgallery/internal/domain"
)

// MessageStore handles the write and aggregate side of the archive
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore creates a message store from a base store
func NewMessageStore(store *Store) *MessageStore {
	if store == nil {
		return nil
	}
	return &MessageStore{db: store.DB()}
}

// ConversationInfo summarizes one conversation for pickers and status lines
type ConversationInfo struct {
	ID            string
	Messages      int
	MediaMessages int
	LastActivity  time.Time
}

// SaveMessage upserts a message and replaces its attachment rows
func (ms *MessageStore) SaveMessage(ctx context.Context, msg *domain.Message) error {
	if ms == nil || ms.db == nil {
		return fmt.Errorf("message store not initialized")
	}
	if err := validateMessage(msg); err != nil {
		return err
	}
	tx, err := ms.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := saveMessageTx(ctx, tx, msg); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SaveMessages upserts a batch of messages in a single transaction
func (ms *MessageStore) SaveMessages(ctx context.Context, msgs []domain.Message) error {
	if ms == nil || ms.db == nil {
		return fmt.Errorf("message store not initialized")
	}
	for i := range msgs {
		if err := validateMessage(&msgs[i]); err != nil {
			return err
		}
	}
	tx, err := ms.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range msgs {
		if err := saveMessageTx(ctx, tx, &msgs[i]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func validateMessage(msg *domain.Message) error {
	if msg == nil {
		return fmt.Errorf("nil message")
	}
	if strings.TrimSpace(msg.ID) == "" || strings.TrimSpace(msg.ConversationID) == "" {
		return fmt.Errorf("message id and conversation id cannot be empty")
	}
	return nil
}

func saveMessageTx(ctx context.Context, tx *sql.Tx, msg *domain.Message) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO messages(id, conversation_id, sender, snippet, created_at, has_media)
VALUES(?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET conversation_id=excluded.conversation_id, sender=excluded.sender,
  snippet=excluded.snippet, created_at=excluded.created_at, has_media=excluded.has_media;
`, msg.ID, msg.ConversationID, msg.Sender, msg.Snippet, msg.CreatedAt.Unix(), msg.HasMedia())
	if err != nil {
		return fmt.Errorf("save message %s: %w", msg.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE message_id=?`, msg.ID); err != nil {
		return fmt.Errorf("clear attachments of %s: %w", msg.ID, err)
	}
	for i, att := range msg.Attachments {
		_, err := tx.ExecContext(ctx, `INSERT INTO attachments(message_id, position, kind, url, preview_url, filename, size_bytes)
VALUES(?,?,?,?,?,?,?);`, msg.ID, i, string(att.Kind), att.URL, att.PreviewURL, att.Filename, att.Size)
		if err != nil {
			return fmt.Errorf("save attachment %d of %s: %w", i, msg.ID, err)
		}
	}
	return nil
}

// Conversations lists every conversation in the archive, most recently
// active first.
func (ms *MessageStore) Conversations(ctx context.Context) ([]ConversationInfo, error) {
	if ms == nil || ms.db == nil {
		return nil, fmt.Errorf("message store not initialized")
	}
	rows, err := ms.db.QueryContext(ctx, `SELECT conversation_id, COUNT(*),
  COALESCE(SUM(CASE WHEN has_media THEN 1 ELSE 0 END), 0), COALESCE(MAX(created_at), 0)
FROM messages GROUP BY conversation_id ORDER BY MAX(created_at) DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationInfo
	for rows.Next() {
		var info ConversationInfo
		var last int64
		if err := rows.Scan(&info.ID, &info.Messages, &info.MediaMessages, &last); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		info.LastActivity = time.Unix(last, 0).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return out, nil
}

// MediaMessageCount returns how many media-carrying messages a conversation
// had at or before the given anchor timestamp. A zero anchor counts the
// whole conversation.
func (ms *MessageStore) MediaMessageCount(ctx context.Context, conversationID string, anchor int64) (int, error) {
	if ms == nil || ms.db == nil {
		return 0, fmt.Errorf("message store not initialized")
	}
	if strings.TrimSpace(conversationID) == "" {
		return 0, fmt.Errorf("conversation id cannot be empty")
	}
	query := `SELECT COUNT(*) FROM messages WHERE conversation_id=? AND has_media`
	args := []interface{}{conversationID}
	if anchor > 0 {
		query += ` AND created_at<=?`
		args = append(args, anchor)
	}
	var n int
	if err := ms.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count media messages: %w", err)
	}
	return n, nil
}
