package gallery

import (
	"context"

	"chatgallery/internal/domain"
)

// MessageSource is the read side of the archive: a restartable, lazily
// evaluated, newest-first sequence of the conversation's messages that carry
// media. The gallery never mutates the source; implementations re-run their
// filter on every call so the sequence can be walked again from any offset.
type MessageSource interface {
	// Page returns up to limit messages starting at offset within the
	// filtered ordering. Past the end it returns an empty slice and no
	// error. limit must be positive.
	Page(ctx context.Context, offset, limit int) ([]domain.Message, error)
}

// SliceSource serves a fixed, already-filtered message slice. It backs tests
// and small in-memory archives; SQLite-backed sessions implement
// MessageSource for the real thing.
type SliceSource []domain.Message

// Page implements MessageSource
func (s SliceSource) Page(_ context.Context, offset, limit int) ([]domain.Message, error) {
	if offset < 0 || offset >= len(s) || limit <= 0 {
		return nil, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	out := make([]domain.Message, end-offset)
	copy(out, s[offset:end])
	return out, nil
}
