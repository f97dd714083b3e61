package gallery

import (
	"chatgallery/internal/domain"
)

// Ref points at one resolvable attachment within a message. Index is the
// attachment's position inside its message, so (MessageID, Index) identifies
// an item even after the view collection has grown.
type Ref struct {
	MessageID string
	Index     int
	URL       string
}

// ContentRefs extracts the resolvable content URLs of a message in
// attachment order. It is total: unsupported variants and blank URLs are
// skipped, never reported as errors, and the input is left untouched.
func ContentRefs(msg *domain.Message) []Ref {
	if msg == nil {
		return nil
	}
	var refs []Ref
	for i, att := range msg.Attachments {
		url, ok := att.ContentURL()
		if !ok {
			continue
		}
		refs = append(refs, Ref{
			MessageID: msg.ID,
			Index:     i,
			URL:       url,
		})
	}
	return refs
}
