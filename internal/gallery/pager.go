package gallery

import (
	"context"
	"fmt"
)

// DefaultPageSize is used when a pager is built with a non-positive size
const DefaultPageSize = 24

// Pager walks the filtered source one page at a time and grows the
// append-only view collection. The cursor only moves forward: pages are
// never re-fetched and the collection never shrinks while the gallery is
// open. All of its state belongs to the owner goroutine.
type Pager struct {
	source    MessageSource
	pageSize  int
	pageIndex int
	items     []*Item
}

// NewPager creates a pager over source. A nil source is allowed and leaves
// the pager in a degenerate state where loading is a silent no-op.
func NewPager(source MessageSource, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		source:    source,
		pageSize:  pageSize,
		pageIndex: -1,
	}
}

// Items returns the live view collection. Callers must treat it as
// read-only; it is only ever appended to.
func (p *Pager) Items() []*Item {
	return p.items
}

// Len returns the number of items materialized so far
func (p *Pager) Len() int {
	return len(p.items)
}

// PageIndex returns the highest page index loaded so far, -1 before the
// first load.
func (p *Pager) PageIndex() int {
	return p.pageIndex
}

// PageSize returns the fixed page size
func (p *Pager) PageSize() int {
	return p.pageSize
}

// loadNext advances the cursor by one page and appends the page's items in
// (message order, attachment order). It returns the newly appended items so
// the gallery can schedule their resolution and notify the shell in one
// batch. An unset source and an exhausted source both yield (nil, nil) with
// the cursor untouched: the degenerate pagination states are not errors.
// Source I/O failures are returned wrapped and also leave the cursor where
// it was, so the same page is retried on the next call.
func (p *Pager) loadNext(ctx context.Context) ([]*Item, error) {
	if p.source == nil {
		return nil, nil
	}

	next := p.pageIndex + 1
	messages, err := p.source.Page(ctx, next*p.pageSize, p.pageSize)
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", next, err)
	}
	if len(messages) == 0 {
		return nil, nil
	}
	p.pageIndex = next

	var added []*Item
	for i := range messages {
		msg := &messages[i]
		for _, ref := range ContentRefs(msg) {
			att := msg.Attachments[ref.Index]
			it := NewItem(ref)
			it.Kind = att.Kind
			it.Filename = att.Filename
			it.Size = att.Size
			it.Sender = msg.Sender
			it.SentAt = msg.CreatedAt
			added = append(added, it)
		}
	}
	p.items = append(p.items, added...)
	return added, nil
}

// find returns the position of the item with the given key, or -1
func (p *Pager) find(key string) int {
	for i, it := range p.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}
