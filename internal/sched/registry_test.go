package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStacksArePrivate(t *testing.T) {
	r := NewRegistry(3, 32)
	assert.Equal(t, 3, r.Cap())
	assert.Zero(t, r.Len())

	for i := 0; i < 3; i++ {
		s := r.tasks[i].Stack
		assert.Len(t, s, 32)
		assert.Equal(t, 32, cap(s), "a stack must not reach into its neighbour")
		s[0] = byte(i + 1)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, byte(i+1), r.arena[i*32])
	}
	assert.Nil(t, r.background().Stack)
	assert.Equal(t, BackgroundSlot, r.background().Slot)
}

func TestRegistryAddUntilFull(t *testing.T) {
	r := NewRegistry(2, 32)

	for want := Slot(0); want < 2; want++ {
		slot, err := r.add(func() {}, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, want, slot)
	}

	_, err := r.add(func() {}, 3, 3)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 2, r.Len())
	assert.Same(t, r.background(), r.at(BackgroundSlot))
	assert.Same(t, &r.tasks[1], r.at(1))
}

func TestClockAdvances(t *testing.T) {
	var c Clock
	assert.Zero(t, c.Now())
	assert.Equal(t, uint64(1), c.Advance())
	assert.Equal(t, uint64(2), c.Advance())
	assert.Equal(t, uint64(2), c.Now())
}
