package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_RegisterAndGet(t *testing.T) {
	r := NewHandlerRegistry()
	h := &recordingHandler{types: []string{"reservation.confirmed"}}

	r.Register(h, "reservation.confirmed")

	assert.Len(t, r.GetHandlers("reservation.confirmed"), 1)
	assert.Empty(t, r.GetHandlers("edl.finalized"))
}

func TestHandlerRegistry_WildcardReceivesAllTypes(t *testing.T) {
	r := NewHandlerRegistry()
	wildcard := &recordingHandler{}
	specific := &recordingHandler{types: []string{"edl.finalized"}}

	r.Register(wildcard)
	r.Register(specific, "edl.finalized")

	assert.Len(t, r.GetHandlers("edl.finalized"), 2)
	assert.Len(t, r.GetHandlers("anything.else"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	h := &recordingHandler{types: []string{"reservation.confirmed"}}
	wildcard := &recordingHandler{}

	r.Register(h, "reservation.confirmed")
	r.Register(wildcard)

	r.Unregister(h)
	assert.Len(t, r.GetHandlers("reservation.confirmed"), 1) // wildcard only

	r.Unregister(wildcard)
	assert.Empty(t, r.GetHandlers("reservation.confirmed"))
}

func TestHandlerRegistry_MultipleHandlersSameType(t *testing.T) {
	r := NewHandlerRegistry()
	a := &recordingHandler{types: []string{"edl.finalized"}}
	b := &recordingHandler{types: []string{"edl.finalized"}}

	r.Register(a, "edl.finalized")
	r.Register(b, "edl.finalized")

	assert.Len(t, r.GetHandlers("edl.finalized"), 2)
}
