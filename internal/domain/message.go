package domain

import (
	"time"
)

// AttachmentKind discriminates the attachment variants kept in the archive
type AttachmentKind string

const (
	// AttachmentImage is an image uploaded with the message
	AttachmentImage AttachmentKind = "image"
	// AttachmentLinkedImage is an image referenced by URL from the message body
	AttachmentLinkedImage AttachmentKind = "linked_image"
	// AttachmentVideo is a video; only its preview frame is shown in the gallery
	AttachmentVideo AttachmentKind = "video"
	// AttachmentFile is any other attachment (documents, archives, audio, ...)
	AttachmentFile AttachmentKind = "file"
)

// ParseAttachmentKind maps a stored kind string back to a known variant.
// Unknown strings degrade to AttachmentFile so old rows never break loading.
func ParseAttachmentKind(s string) AttachmentKind {
	switch AttachmentKind(s) {
	case AttachmentImage, AttachmentLinkedImage, AttachmentVideo, AttachmentFile:
		return AttachmentKind(s)
	default:
		return AttachmentFile
	}
}

// Attachment is a single attachment of a message
type Attachment struct {
	Kind       AttachmentKind
	URL        string // content URL for image and linked-image variants
	PreviewURL string // preview frame URL for video variants
	Filename   string
	Size       int64
}

// ContentURL returns the URL the gallery should resolve for this attachment.
// It is total: unsupported variants and blank URLs yield ("", false), never
// an error. Videos expose their preview frame, not the video itself.
func (a Attachment) ContentURL() (string, bool) {
	switch a.Kind {
	case AttachmentImage, AttachmentLinkedImage:
		if a.URL == "" {
			return "", false
		}
		return a.URL, true
	case AttachmentVideo:
		if a.PreviewURL == "" {
			return "", false
		}
		return a.PreviewURL, true
	default:
		return "", false
	}
}

// Message is a chat message as read from the archive. The gallery treats
// messages as read-only; mutation belongs to whatever populates the archive.
type Message struct {
	ID             string
	ConversationID string
	Sender         string
	Snippet        string
	CreatedAt      time.Time
	Attachments    []Attachment
}

// HasMedia reports whether any attachment yields a resolvable content URL
func (m *Message) HasMedia() bool {
	for _, a := range m.Attachments {
		if _, ok := a.ContentURL(); ok {
			return true
		}
	}
	return false
}
