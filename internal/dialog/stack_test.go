package dialog

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closerVM struct {
	name   string
	closes int
	err    error
}

func (c *closerVM) Close() error {
	c.closes++
	return c.err
}

// plainVM has no resources to release
type plainVM struct {
	name string
}

func TestSlot_String(t *testing.T) {
	assert.Equal(t, "primary", SlotPrimary.String())
	assert.Equal(t, "secondary", SlotSecondary.String())
	assert.Equal(t, "unknown", Slot(99).String())
}

func TestStack_OpenAndClose(t *testing.T) {
	st := NewStack(nil)

	assert.False(t, st.IsOpen(SlotPrimary))
	assert.Nil(t, st.Occupant(SlotPrimary))

	vm := &closerVM{name: "detail"}
	st.Open(SlotPrimary, vm)

	assert.True(t, st.IsOpen(SlotPrimary))
	assert.Same(t, vm, st.Occupant(SlotPrimary))
	assert.False(t, st.IsOpen(SlotSecondary))

	st.Close(SlotPrimary)

	assert.False(t, st.IsOpen(SlotPrimary))
	assert.Equal(t, 1, vm.closes)
}

func TestStack_OpenReleasesReplacedOccupantOnce(t *testing.T) {
	st := NewStack(nil)

	first := &closerVM{name: "first"}
	second := &closerVM{name: "second"}

	st.Open(SlotSecondary, first)
	st.Open(SlotSecondary, second)

	assert.Equal(t, 1, first.closes, "replaced occupant must be released exactly once")
	assert.Equal(t, 0, second.closes)
	assert.Same(t, second, st.Occupant(SlotSecondary))

	st.Close(SlotSecondary)
	assert.Equal(t, 1, first.closes)
	assert.Equal(t, 1, second.closes)
}

func TestStack_ReopenSameOccupantIsNoOp(t *testing.T) {
	st := NewStack(nil)

	vm := &closerVM{name: "same"}
	st.Open(SlotPrimary, vm)
	st.Open(SlotPrimary, vm)
	st.Open(SlotPrimary, vm)

	assert.Equal(t, 0, vm.closes, "an occupant must never be released while still shown")
	assert.Same(t, vm, st.Occupant(SlotPrimary))
}

func TestStack_CloseEmptySlotIsNoOp(t *testing.T) {
	st := NewStack(nil)

	st.Close(SlotPrimary)
	st.Close(SlotSecondary)
	st.CloseAll()

	assert.False(t, st.IsOpen(SlotPrimary))
	assert.False(t, st.IsOpen(SlotSecondary))
}

func TestStack_SlotsAreIndependent(t *testing.T) {
	st := NewStack(nil)

	primary := &closerVM{name: "primary"}
	secondary := &closerVM{name: "secondary"}
	st.Open(SlotPrimary, primary)
	st.Open(SlotSecondary, secondary)

	st.Close(SlotSecondary)

	assert.Equal(t, 1, secondary.closes)
	assert.Equal(t, 0, primary.closes)
	assert.True(t, st.IsOpen(SlotPrimary))
}

func TestStack_CloseAll(t *testing.T) {
	st := NewStack(nil)

	var order []string
	primary := &orderedCloser{name: "primary", order: &order}
	secondary := &orderedCloser{name: "secondary", order: &order}
	st.Open(SlotPrimary, primary)
	st.Open(SlotSecondary, secondary)

	st.CloseAll()

	assert.Equal(t, []string{"secondary", "primary"}, order)
	assert.False(t, st.IsOpen(SlotPrimary))
	assert.False(t, st.IsOpen(SlotSecondary))
}

type orderedCloser struct {
	name  string
	order *[]string
}

func (o *orderedCloser) Close() error {
	*o.order = append(*o.order, o.name)
	return nil
}

func TestStack_NonCloserOccupant(t *testing.T) {
	st := NewStack(nil)

	vm := &plainVM{name: "plain"}
	st.Open(SlotPrimary, vm)
	st.Close(SlotPrimary)

	assert.False(t, st.IsOpen(SlotPrimary))
}

func TestStack_CloseErrorIsLoggedAndSwallowed(t *testing.T) {
	var buf bytes.Buffer
	st := NewStack(log.New(&buf, "", 0))

	vm := &closerVM{name: "leaky", err: errors.New("temp file busy")}
	st.Open(SlotSecondary, vm)
	st.Close(SlotSecondary)

	assert.Equal(t, 1, vm.closes)
	assert.False(t, st.IsOpen(SlotSecondary))
	assert.Contains(t, buf.String(), "secondary")
	assert.Contains(t, buf.String(), "temp file busy")
}

func TestStack_InvalidSlotIsIgnored(t *testing.T) {
	st := NewStack(nil)

	vm := &closerVM{name: "stray"}
	st.Open(Slot(-1), vm)
	st.Open(Slot(99), vm)
	st.Close(Slot(99))

	assert.Equal(t, 0, vm.closes)
	assert.Nil(t, st.Occupant(Slot(99)))
	assert.False(t, st.IsOpen(Slot(-1)))
}
