package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"chatgallery/internal/domain"
)

// Session is a read handle over one conversation's media messages. It pins
// the filtered ordering at open time: rows that arrive after the anchor
// timestamp are invisible, so offsets stay stable however long the gallery
// pages through it. Sessions hold prepared statements and must be closed;
// closing twice is fine.
type Session struct {
	id             string
	conversationID string
	anchor         int64

	pageStmt *sql.Stmt
	attStmt  *sql.Stmt

	closed  atomic.Bool
	onClose func(*Session)
}

// ID returns the session's unique handle
func (s *Session) ID() string {
	return s.id
}

// ConversationID returns the conversation this session reads
func (s *Session) ConversationID() string {
	return s.conversationID
}

// Anchor returns the snapshot timestamp the session pages at or before
func (s *Session) Anchor() time.Time {
	return time.Unix(s.anchor, 0).UTC()
}

// Page returns up to limit media messages starting at offset within the
// session's newest-first ordering, attachments included. Past the end it
// returns an empty page and no error; only real query failures and a closed
// session are errors.
func (s *Session) Page(ctx context.Context, offset, limit int) ([]domain.Message, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if offset < 0 || limit <= 0 {
		return nil, nil
	}

	rows, err := s.pageStmt.QueryContext(ctx, s.conversationID, s.anchor, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query media page: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var created int64
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Snippet, &created); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.CreatedAt = time.Unix(created, 0).UTC()
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media page: %w", err)
	}

	for i := range msgs {
		atts, err := s.attachmentsOf(ctx, msgs[i].ID)
		if err != nil {
			return nil, err
		}
		msgs[i].Attachments = atts
	}
	return msgs, nil
}

func (s *Session) attachmentsOf(ctx context.Context, messageID string) ([]domain.Attachment, error) {
	rows, err := s.attStmt.QueryContext(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("query attachments of %s: %w", messageID, err)
	}
	defer rows.Close()

	var atts []domain.Attachment
	for rows.Next() {
		var pos int
		var kind string
		var a domain.Attachment
		if err := rows.Scan(&pos, &kind, &a.URL, &a.PreviewURL, &a.Filename, &a.Size); err != nil {
			return nil, fmt.Errorf("scan attachment row: %w", err)
		}
		a.Kind = domain.ParseAttachmentKind(kind)
		atts = append(atts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments of %s: %w", messageID, err)
	}
	return atts, nil
}

// Close releases the session's prepared statements and deregisters it.
// Later calls are no-ops.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	var first error
	if s.pageStmt != nil {
		if err := s.pageStmt.Close(); err != nil {
			first = err
		}
	}
	if s.attStmt != nil {
		if err := s.attStmt.Close(); err != nil && first == nil {
			first = err
		}
	}
	if s.onClose != nil {
		s.onClose(s)
	}
	return first
}

// Sessions opens and tracks the live read sessions over one archive
type Sessions struct {
	db     *sql.DB
	logger *log.Logger

	mu   sync.RWMutex
	open map[string]*Session
}

// NewSessions creates a session registry over the store; logger may be nil
func NewSessions(store *Store, logger *log.Logger) *Sessions {
	if store == nil {
		return nil
	}
	return &Sessions{
		db:     store.DB(),
		logger: logger,
		open:   make(map[string]*Session),
	}
}

// Open starts a session over the conversation's media messages, anchored at
// the newest row present right now.
func (sm *Sessions) Open(ctx context.Context, conversationID string) (*Session, error) {
	if sm == nil || sm.db == nil {
		return nil, fmt.Errorf("session registry not initialized")
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id cannot be empty")
	}

	var count int
	var anchor int64
	err := sm.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(created_at), 0) FROM messages WHERE conversation_id=?`,
		conversationID).Scan(&count, &anchor)
	if err != nil {
		return nil, fmt.Errorf("resolve anchor of %s: %w", conversationID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrConversationNotFound)
	}

	pageStmt, err := sm.db.PrepareContext(ctx, `
SELECT id, conversation_id, sender, snippet, created_at
FROM messages
WHERE conversation_id=? AND has_media AND created_at<=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`)
	if err != nil {
		return nil, fmt.Errorf("prepare page statement: %w", err)
	}
	attStmt, err := sm.db.PrepareContext(ctx, `
SELECT position, kind, url, preview_url, filename, size_bytes
FROM attachments WHERE message_id=? ORDER BY position;`)
	if err != nil {
		_ = pageStmt.Close()
		return nil, fmt.Errorf("prepare attachment statement: %w", err)
	}

	s := &Session{
		id:             uuid.NewString(),
		conversationID: conversationID,
		anchor:         anchor,
		pageStmt:       pageStmt,
		attStmt:        attStmt,
		onClose:        sm.forget,
	}

	sm.mu.Lock()
	sm.open[s.id] = s
	sm.mu.Unlock()

	if sm.logger != nil {
		sm.logger.Printf("db: opened session %s on %s (anchor %d)", s.id, conversationID, anchor)
	}
	return s, nil
}

// Count returns how many sessions are currently open
func (sm *Sessions) Count() int {
	if sm == nil {
		return 0
	}
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.open)
}

// CloseAll closes every open session; called on shutdown
func (sm *Sessions) CloseAll() {
	if sm == nil {
		return
	}
	sm.mu.RLock()
	stale := make([]*Session, 0, len(sm.open))
	for _, s := range sm.open {
		stale = append(stale, s)
	}
	sm.mu.RUnlock()

	for _, s := range stale {
		if err := s.Close(); err != nil && sm.logger != nil {
			sm.logger.Printf("db: closing session %s: %v", s.id, err)
		}
	}
}

func (sm *Sessions) forget(s *Session) {
	sm.mu.Lock()
	delete(sm.open, s.id)
	sm.mu.Unlock()
	if sm.logger != nil {
		sm.logger.Printf("db: closed session %s on %s", s.id, s.conversationID)
	}
}
