package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewItem(t *testing.T) {
	it := NewItem(Ref{MessageID: "m1", Index: 2, URL: "https://cdn.example.com/a.png"})

	assert.Equal(t, "m1", it.MessageID)
	assert.Equal(t, 2, it.Index)
	assert.Equal(t, "https://cdn.example.com/a.png", it.URL)
	assert.Equal(t, "m1#2", it.Key())
	assert.Equal(t, StatePending, it.State())
	assert.False(t, it.Loaded())
	assert.Nil(t, it.Payload())
}

func TestItem_MarkLoaded_WriteOnce(t *testing.T) {
	it := NewItem(Ref{MessageID: "m1", Index: 0, URL: "https://cdn.example.com/a.png"})

	first := []byte("payload-one")
	assert.True(t, it.markLoaded(first))
	assert.True(t, it.Loaded())
	assert.Equal(t, first, it.Payload())

	// A straggling second resolution must not replace the payload
	assert.False(t, it.markLoaded([]byte("payload-two")))
	assert.Equal(t, first, it.Payload())
}

func TestItem_MarkLoaded_EmptyPayloadRejected(t *testing.T) {
	it := NewItem(Ref{MessageID: "m1", Index: 0, URL: "https://cdn.example.com/a.png"})

	assert.False(t, it.markLoaded(nil))
	assert.False(t, it.markLoaded([]byte{}))
	assert.Equal(t, StatePending, it.State())
	assert.Nil(t, it.Payload())
}

func TestItem_MarkFailed(t *testing.T) {
	it := NewItem(Ref{MessageID: "m1", Index: 0, URL: "https://cdn.example.com/a.png"})

	it.MarkFailed()
	assert.Equal(t, StateFailed, it.State())

	// Once loaded, a shell giving up on the item changes nothing
	loaded := NewItem(Ref{MessageID: "m2", Index: 0, URL: "https://cdn.example.com/b.png"})
	assert.True(t, loaded.markLoaded([]byte("data")))
	loaded.MarkFailed()
	assert.Equal(t, StateLoaded, loaded.State())
	assert.Equal(t, []byte("data"), loaded.Payload())
}

func TestItem_BeginResolve_ClaimsOnce(t *testing.T) {
	it := NewItem(Ref{MessageID: "m1", Index: 0, URL: "https://cdn.example.com/a.png"})

	assert.True(t, it.beginResolve())
	assert.False(t, it.beginResolve())
	assert.False(t, it.beginResolve())
}

func TestItem_ReleasePayload(t *testing.T) {
	it := NewItem(Ref{MessageID: "m1", Index: 0, URL: "https://cdn.example.com/a.png"})
	assert.True(t, it.markLoaded([]byte("data")))

	it.releasePayload()
	assert.Nil(t, it.Payload())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "state(9)", State(9).String())
}
