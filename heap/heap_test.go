package heap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolness/ascheme/heap"
)

func TestAllocAndDereference(t *testing.T) {
	h := heap.New()
	handle := h.AllocPair(heap.RawValue{Kind: heap.KindNumber, Num: 1}, heap.RawValue{Kind: heap.KindNumber, Num: 2})

	first, second, ok := h.GetPair(handle)
	require.True(t, ok)
	assert.Equal(t, 1.0, first.Num)
	assert.Equal(t, 2.0, second.Num)
}

func TestSetCarSetCdr(t *testing.T) {
	h := heap.New()
	handle := h.AllocPair(heap.RawValue{Kind: heap.KindNumber, Num: 1}, heap.RawValue{Kind: heap.KindNil})

	require.NoError(t, h.SetPairFirst(handle, heap.RawValue{Kind: heap.KindNumber, Num: 7}))
	require.NoError(t, h.SetPairSecond(handle, heap.RawValue{Kind: heap.KindNumber, Num: 99}))
	first, second, ok := h.GetPair(handle)
	require.True(t, ok)
	assert.Equal(t, 7.0, first.Num)
	assert.Equal(t, 99.0, second.Num)
}

func TestStatsAfterAlloc(t *testing.T) {
	h := heap.New()
	occupied, capacity := h.Stats()
	assert.Equal(t, 0, occupied)
	assert.Equal(t, 0, capacity)

	h.AllocPair(heap.RawValue{Kind: heap.KindNil}, heap.RawValue{Kind: heap.KindNil})
	occupied, capacity = h.Stats()
	assert.Equal(t, 1, occupied)
	assert.Equal(t, 1, capacity)
}

// TestCollectReclaimsCycle constructs a self-referential pair (its own cdr),
// drops every root reference to it, and checks that a collection reclaims
// the slot, confirming the collector handles cycles rather than leaking them.
func TestCollectReclaimsCycle(t *testing.T) {
	h := heap.New()
	handle := h.AllocPair(heap.RawValue{Kind: heap.KindNumber, Num: 1}, heap.RawValue{Kind: heap.KindNil})
	require.NoError(t, h.SetPairSecond(handle, heap.RawValue{Kind: heap.KindPair, Handle: handle}))

	before, _ := h.Stats()
	require.Equal(t, 1, before)

	h.Collect(nil, nil) // no roots reference the cycle any longer
	after, _ := h.Stats()
	assert.Equal(t, 0, after)
}

func TestCollectKeepsReachable(t *testing.T) {
	h := heap.New()
	handle := h.AllocPair(heap.RawValue{Kind: heap.KindNumber, Num: 42}, heap.RawValue{Kind: heap.KindNil})

	h.Collect([]heap.RawValue{{Kind: heap.KindPair, Handle: handle}}, nil)

	first, _, ok := h.GetPair(handle)
	require.True(t, ok)
	assert.Equal(t, 42.0, first.Num)
}

func TestFreedHandleIsStale(t *testing.T) {
	h := heap.New()
	handle := h.AllocPair(heap.RawValue{Kind: heap.KindNil}, heap.RawValue{Kind: heap.KindNil})
	h.Collect(nil, nil) // unreachable, swept

	_, _, ok := h.GetPair(handle)
	assert.False(t, ok)

	err := h.SetPairFirst(handle, heap.RawValue{Kind: heap.KindNil})
	assert.Error(t, err)
}

func TestHandlesAreReusedAfterSweep(t *testing.T) {
	h := heap.New()
	h.AllocPair(heap.RawValue{Kind: heap.KindNil}, heap.RawValue{Kind: heap.KindNil})
	h.Collect(nil, nil)

	_, capacityBefore := h.Stats()
	h.AllocPair(heap.RawValue{Kind: heap.KindNil}, heap.RawValue{Kind: heap.KindNil})
	_, capacityAfter := h.Stats()
	assert.Equal(t, capacityBefore, capacityAfter, "reusing a freed slot should not grow the arena")
}
