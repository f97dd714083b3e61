package tui

import (
	"github.com/rivo/tview"
)

// tableViewport adapts the item table's row offset to the numeric surface
// the scroll stabilizer converges on. tview recomputes offsets during draw,
// so change notifications are polled from the after-draw hook rather than
// pushed out of SetOffset; that keeps delivery asynchronous the way the
// stabilizer's contract requires.
type tableViewport struct {
	table *tview.Table

	subscribers map[int]func(offset float64)
	nextID      int
	lastSeen    float64
}

func newTableViewport(table *tview.Table) *tableViewport {
	return &tableViewport{
		table:       table,
		subscribers: make(map[int]func(float64)),
	}
}

// Offset returns the table's current row offset
func (v *tableViewport) Offset() float64 {
	row, _ := v.table.GetOffset()
	return float64(row)
}

// SetOffset forces the table's row offset. Subscribers hear about the move
// on the draw that applies it, never inside this call.
func (v *tableViewport) SetOffset(offset float64) {
	if offset < 0 {
		offset = 0
	}
	v.table.SetOffset(int(offset), 0)
}

// Subscribe registers fn for offset changes observed at draw time. The
// returned cancel is safe to call more than once.
func (v *tableViewport) Subscribe(fn func(offset float64)) (cancel func()) {
	id := v.nextID
	v.nextID++
	v.subscribers[id] = fn
	return func() {
		delete(v.subscribers, id)
	}
}

// poll compares the drawn offset against the last one seen and notifies
// subscribers on change. The app calls it from the after-draw hook, which
// runs on the event loop goroutine.
func (v *tableViewport) poll() {
	cur := v.Offset()
	if cur == v.lastSeen {
		return
	}
	v.lastSeen = cur
	for _, fn := range v.subscribers {
		fn(cur)
	}
}
