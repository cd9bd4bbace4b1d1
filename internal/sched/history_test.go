package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryKeepsNewest(t *testing.T) {
	h := NewHistory(3)
	for tick := uint64(1); tick <= 5; tick++ {
		h.Record(Decision{Tick: tick, Kind: StatusIdle, Slot: BackgroundSlot})
	}

	got := h.Decisions()
	assert.Len(t, got, 3)
	assert.Equal(t, []uint64{3, 4, 5}, []uint64{got[0].Tick, got[1].Tick, got[2].Tick})
	assert.Equal(t, uint64(5), h.Total())
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(4)
	assert.Empty(t, h.Decisions())
	assert.Zero(t, h.Total())
}
