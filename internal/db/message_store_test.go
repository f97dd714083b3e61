package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatgallery/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// archiveMessages is the fixture shared by store and session tests: two
// conversations, a mix of media and plain messages.
func archiveMessages() []domain.Message {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return []domain.Message{
		{
			ID: "m1", ConversationID: "team", Sender: "ana", Snippet: "kickoff photos", CreatedAt: base,
			Attachments: []domain.Attachment{
				{Kind: domain.AttachmentImage, URL: "https://cdn.example.com/kickoff.png", Filename: "kickoff.png", Size: 120000},
			},
		},
		{
			ID: "m2", ConversationID: "team", Sender: "bo", Snippet: "brief draft", CreatedAt: base.Add(1 * time.Minute),
			Attachments: []domain.Attachment{
				{Kind: domain.AttachmentFile, URL: "https://cdn.example.com/brief.pdf", Filename: "brief.pdf", Size: 50000},
			},
		},
		{
			ID: "m3", ConversationID: "team", Sender: "ana", Snippet: "demo recording", CreatedAt: base.Add(2 * time.Minute),
			Attachments: []domain.Attachment{
				{Kind: domain.AttachmentVideo, URL: "https://cdn.example.com/demo.mp4", PreviewURL: "https://cdn.example.com/demo_poster.jpg", Filename: "demo.mp4", Size: 9000000},
				{Kind: domain.AttachmentImage, URL: "https://cdn.example.com/whiteboard.png", Filename: "whiteboard.png", Size: 240000},
			},
		},
		{
			ID: "m4", ConversationID: "family", Sender: "maru", Snippet: "trip album", CreatedAt: base.Add(3 * time.Minute),
			Attachments: []domain.Attachment{
				{Kind: domain.AttachmentLinkedImage, URL: "https://imgur.example.com/trip.jpg"},
			},
		},
		{ID: "m5", ConversationID: "team", Sender: "bo", Snippet: "plain text", CreatedAt: base.Add(4 * time.Minute)},
	}
}

func TestNewMessageStore_NilStore(t *testing.T) {
	assert.Nil(t, NewMessageStore(nil))
}

func TestMessageStore_NotInitialized(t *testing.T) {
	ctx := context.Background()
	ms := &MessageStore{}

	err := ms.SaveMessage(ctx, &domain.Message{ID: "m1", ConversationID: "c1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	_, err = ms.Conversations(ctx)
	assert.Error(t, err)

	_, err = ms.MediaMessageCount(ctx, "c1", 0)
	assert.Error(t, err)
}

func TestMessageStore_SaveMessage_Validation(t *testing.T) {
	ctx := context.Background()
	ms := NewMessageStore(openTestStore(t))

	tests := []struct {
		name string
		msg  *domain.Message
	}{
		{name: "nil_message", msg: nil},
		{name: "empty_id", msg: &domain.Message{ConversationID: "c1"}},
		{name: "empty_conversation", msg: &domain.Message{ID: "m1"}},
		{name: "whitespace_id", msg: &domain.Message{ID: "   ", ConversationID: "c1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ms.SaveMessage(ctx, tt.msg))
		})
	}
}

func TestMessageStore_SaveMessage_ComputesMediaFlag(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	ms := NewMessageStore(store)

	msgs := archiveMessages()
	require.NoError(t, ms.SaveMessages(ctx, msgs))

	expected := map[string]bool{
		"m1": true,  // image
		"m2": false, // plain file
		"m3": true,  // video with preview
		"m4": true,  // linked image
		"m5": false, // no attachments
	}
	for id, want := range expected {
		var got bool
		err := store.DB().QueryRowContext(ctx, "SELECT has_media FROM messages WHERE id=?", id).Scan(&got)
		require.NoError(t, err)
		assert.Equal(t, want, got, "has_media of %s", id)
	}
}

func TestMessageStore_SaveMessage_UpsertReplacesAttachments(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	ms := NewMessageStore(store)

	msg := archiveMessages()[2] // m3 with two attachments
	require.NoError(t, ms.SaveMessage(ctx, &msg))

	// The message is edited down to a single plain file
	msg.Snippet = "demo recording (link removed)"
	msg.Attachments = []domain.Attachment{
		{Kind: domain.AttachmentFile, URL: "https://cdn.example.com/notes.txt", Filename: "notes.txt"},
	}
	require.NoError(t, ms.SaveMessage(ctx, &msg))

	var attCount int
	err := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM attachments WHERE message_id=?", msg.ID).Scan(&attCount)
	require.NoError(t, err)
	assert.Equal(t, 1, attCount)

	var snippet string
	var hasMedia bool
	err = store.DB().QueryRowContext(ctx, "SELECT snippet, has_media FROM messages WHERE id=?", msg.ID).Scan(&snippet, &hasMedia)
	require.NoError(t, err)
	assert.Equal(t, "demo recording (link removed)", snippet)
	assert.False(t, hasMedia)

	var msgCount int
	err = store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM messages WHERE id=?", msg.ID).Scan(&msgCount)
	require.NoError(t, err)
	assert.Equal(t, 1, msgCount)
}

func TestMessageStore_SaveMessages_BatchValidationAborts(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	ms := NewMessageStore(store)

	msgs := archiveMessages()
	msgs[3].ID = "" // poison one row

	assert.Error(t, ms.SaveMessages(ctx, msgs))

	var total int
	err := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, 0, total, "a bad batch must not be partially written")
}

func TestMessageStore_Conversations(t *testing.T) {
	ctx := context.Background()
	ms := NewMessageStore(openTestStore(t))
	require.NoError(t, ms.SaveMessages(ctx, archiveMessages()))

	infos, err := ms.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Most recently active first
	assert.Equal(t, "team", infos[0].ID)
	assert.Equal(t, 4, infos[0].Messages)
	assert.Equal(t, 2, infos[0].MediaMessages)
	assert.Equal(t, "family", infos[1].ID)
	assert.Equal(t, 1, infos[1].Messages)
	assert.Equal(t, 1, infos[1].MediaMessages)
	assert.True(t, infos[0].LastActivity.After(infos[1].LastActivity))
}

func TestMessageStore_Conversations_EmptyArchive(t *testing.T) {
	ctx := context.Background()
	ms := NewMessageStore(openTestStore(t))

	infos, err := ms.Conversations(ctx)
	assert.NoError(t, err)
	assert.Empty(t, infos)
}

func TestMessageStore_MediaMessageCount(t *testing.T) {
	ctx := context.Background()
	ms := NewMessageStore(openTestStore(t))
	msgs := archiveMessages()
	require.NoError(t, ms.SaveMessages(ctx, msgs))

	n, err := ms.MediaMessageCount(ctx, "team", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Anchored just after m1: m3 is newer and drops out
	anchor := msgs[0].CreatedAt.Add(30 * time.Second).Unix()
	n, err = ms.MediaMessageCount(ctx, "team", anchor)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ms.MediaMessageCount(ctx, "nosuch", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = ms.MediaMessageCount(ctx, "   ", 0)
	assert.Error(t, err)
}
