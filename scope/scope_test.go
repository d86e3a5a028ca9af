package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSetInnermost(t *testing.T) {
	s := NewRoot()
	s.Set("x", 1)
	v, ok := s.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestPushDoesNotMutateCaller(t *testing.T) {
	caller := NewRoot()
	caller.Set("x", "outer")

	callee := caller.Push()
	callee.Set("x", "inner")

	v, _ := caller.Get("x")
	assert.Equal(t, "outer", v, "assignment in the callee's innermost frame must not shadow into the caller")

	v, _ = callee.Get("x")
	assert.Equal(t, "inner", v)
}

func TestPushSharesExistingFramesByReference(t *testing.T) {
	caller := NewRoot()
	caller.Set("g", 1)

	callee := caller.Push()
	v, ok := callee.Get("g")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// Push copies the chain of frame pointers, not the frames
	// themselves: writes into a frame that already existed at push
	// time (here, the shared root/global frame) are visible through
	// both chains, the same way a shared list value is.
	caller.Set("g", 2)
	v, _ = callee.Get("g")
	assert.Equal(t, 2, v)
}

func TestDepth(t *testing.T) {
	s := NewRoot()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, 2, s.Push().Depth())
}
