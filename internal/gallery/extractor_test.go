package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatgallery/internal/domain"
)

func TestContentRefs(t *testing.T) {
	tests := []struct {
		name     string
		msg      *domain.Message
		expected []Ref
	}{
		{
			name:     "nil_message",
			msg:      nil,
			expected: nil,
		},
		{
			name:     "no_attachments",
			msg:      &domain.Message{ID: "m1"},
			expected: nil,
		},
		{
			name: "mixed_variants_keep_order_and_index",
			msg: &domain.Message{
				ID: "m2",
				Attachments: []domain.Attachment{
					{Kind: domain.AttachmentImage, URL: "https://cdn.example.com/a.png"},
					{Kind: domain.AttachmentFile, URL: "https://cdn.example.com/doc.pdf"},
					{Kind: domain.AttachmentVideo, URL: "https://cdn.example.com/v.mp4", PreviewURL: "https://cdn.example.com/v_poster.jpg"},
					{Kind: domain.AttachmentLinkedImage, URL: "https://imgur.example.com/b.jpg"},
				},
			},
			expected: []Ref{
				{MessageID: "m2", Index: 0, URL: "https://cdn.example.com/a.png"},
				{MessageID: "m2", Index: 2, URL: "https://cdn.example.com/v_poster.jpg"},
				{MessageID: "m2", Index: 3, URL: "https://imgur.example.com/b.jpg"},
			},
		},
		{
			name: "only_files_yields_nothing",
			msg: &domain.Message{
				ID: "m3",
				Attachments: []domain.Attachment{
					{Kind: domain.AttachmentFile, URL: "https://cdn.example.com/a.zip"},
					{Kind: domain.AttachmentFile, URL: "https://cdn.example.com/b.tar"},
				},
			},
			expected: nil,
		},
		{
			name: "blank_urls_are_skipped_not_errors",
			msg: &domain.Message{
				ID: "m4",
				Attachments: []domain.Attachment{
					{Kind: domain.AttachmentImage},
					{Kind: domain.AttachmentVideo, URL: "https://cdn.example.com/v.mp4"},
					{Kind: domain.AttachmentImage, URL: "https://cdn.example.com/ok.png"},
				},
			},
			expected: []Ref{
				{MessageID: "m4", Index: 2, URL: "https://cdn.example.com/ok.png"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContentRefs(tt.msg))
		})
	}
}

func TestContentRefs_DoesNotMutateMessage(t *testing.T) {
	msg := &domain.Message{
		ID: "m1",
		Attachments: []domain.Attachment{
			{Kind: domain.AttachmentImage, URL: "https://cdn.example.com/a.png"},
			{Kind: domain.AttachmentFile, URL: "https://cdn.example.com/b.pdf"},
		},
	}

	_ = ContentRefs(msg)

	assert.Len(t, msg.Attachments, 2)
	assert.Equal(t, "https://cdn.example.com/a.png", msg.Attachments[0].URL)
	assert.Equal(t, domain.AttachmentFile, msg.Attachments[1].Kind)
}
