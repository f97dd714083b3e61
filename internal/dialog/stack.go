// Package dialog owns the transient detail views a gallery can show on top
// of itself: one small primary view and one big secondary view, each a
// single-occupancy slot with guaranteed release on close.
package dialog

import (
	"io"
	"log"
)

// Slot names one of the two dialog levels
type Slot int

const (
	// SlotPrimary holds the small detail view
	SlotPrimary Slot = iota
	// SlotSecondary holds the big, typically fullscreen view
	SlotSecondary

	slotCount
)

// String returns the slot name for logging
func (s Slot) String() string {
	switch s {
	case SlotPrimary:
		return "primary"
	case SlotSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Stack manages the two slots. An occupant may be any view-model; occupants
// that own resources implement io.Closer and are closed exactly once, when
// they are replaced or when their slot closes. All methods run on the owner
// goroutine.
type Stack struct {
	occupants [slotCount]interface{}
	logger    *log.Logger
}

// NewStack creates an empty stack; logger may be nil
func NewStack(logger *log.Logger) *Stack {
	return &Stack{logger: logger}
}

// Open places vm into slot, releasing whatever the slot held. Re-opening the
// occupant already in the slot is a no-op so a view-model is never released
// while it is still being shown.
func (st *Stack) Open(slot Slot, vm interface{}) {
	if !slot.valid() {
		return
	}
	if st.occupants[slot] == vm {
		return
	}
	st.release(slot)
	st.occupants[slot] = vm
}

// Close releases and clears the slot's occupant. Closing an empty slot is a
// no-op.
func (st *Stack) Close(slot Slot) {
	if !slot.valid() {
		return
	}
	st.release(slot)
}

// CloseAll closes both slots, secondary first since it sits on top
func (st *Stack) CloseAll() {
	st.Close(SlotSecondary)
	st.Close(SlotPrimary)
}

// Occupant returns the slot's current view-model, or nil
func (st *Stack) Occupant(slot Slot) interface{} {
	if !slot.valid() {
		return nil
	}
	return st.occupants[slot]
}

// IsOpen reports whether the slot holds a view-model
func (st *Stack) IsOpen(slot Slot) bool {
	return st.Occupant(slot) != nil
}

// release disposes the occupant (if it is disposable) and clears the slot,
// so an occupant is never cleared undisposed nor disposed twice. Release is
// treated as infallible; a Close error is the occupant's problem and only
// gets logged.
func (st *Stack) release(slot Slot) {
	vm := st.occupants[slot]
	if vm == nil {
		return
	}
	st.occupants[slot] = nil
	if c, ok := vm.(io.Closer); ok {
		if err := c.Close(); err != nil && st.logger != nil {
			st.logger.Printf("dialog: closing %s occupant: %v", slot, err)
		}
	}
}

func (s Slot) valid() bool {
	return s >= 0 && s < slotCount
}
