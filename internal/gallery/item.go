package gallery

import (
	"fmt"
	"sync/atomic"
	"time"

	"chatgallery/internal/domain"
)

// State describes where an item is in its resolution lifecycle
type State int

const (
	// StatePending means the content has not arrived yet. Soft fetch
	// failures keep an item Pending forever; the engine never retries.
	StatePending State = iota
	// StateLoaded means the payload is present and immutable
	StateLoaded
	// StateFailed is reserved for shells that mark items declined
	// out-of-band; the engine's own resolver never enters it.
	StateFailed
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Item is one gallery entry derived from a single attachment URL.
//
// State and payload belong to the owner goroutine (the one behind the
// gallery's Dispatcher); the resolver only touches them through dispatched
// closures. The payload is written exactly once, at the Pending to Loaded
// transition, and never mutated afterwards.
type Item struct {
	MessageID string
	Index     int
	URL       string
	Kind      domain.AttachmentKind
	Filename  string
	Size      int64
	Sender    string
	SentAt    time.Time

	state   State
	payload []byte

	resolveStarted atomic.Bool
}

// NewItem constructs an item in Pending state. Construction is synchronous
// and side-effect free; the owning gallery schedules resolution as a
// separate, explicit step.
func NewItem(ref Ref) *Item {
	return &Item{
		MessageID: ref.MessageID,
		Index:     ref.Index,
		URL:       ref.URL,
	}
}

// Key identifies the item by its source coordinates
func (it *Item) Key() string {
	return fmt.Sprintf("%s#%d", it.MessageID, it.Index)
}

// State returns the item's lifecycle state (owner goroutine only)
func (it *Item) State() State {
	return it.state
}

// Loaded reports whether the payload has arrived (owner goroutine only)
func (it *Item) Loaded() bool {
	return it.state == StateLoaded
}

// Payload returns the resolved bytes, or nil while pending (owner goroutine
// only). Callers must not mutate the returned slice.
func (it *Item) Payload() []byte {
	return it.payload
}

// MarkFailed lets a shell flag an item it has given up on. It is a no-op
// once the payload has landed.
func (it *Item) MarkFailed() {
	if it.state == StateLoaded {
		return
	}
	it.state = StateFailed
}

// beginResolve claims the single resolution attempt this item gets
func (it *Item) beginResolve() bool {
	return it.resolveStarted.CompareAndSwap(false, true)
}

// markLoaded performs the write-once Pending to Loaded transition and
// reports whether it happened. Later calls are no-ops, so a straggling
// resolution can land harmlessly.
func (it *Item) markLoaded(payload []byte) bool {
	if it.state != StatePending || len(payload) == 0 {
		return false
	}
	it.state = StateLoaded
	it.payload = payload
	return true
}

// releasePayload drops the binary content when the gallery closes
func (it *Item) releasePayload() {
	it.payload = nil
}
