package sched

import (
	"fmt"

	"ticksched/internal/hal"
)

// Registry is a fixed arena of task control records. The record after the
// last task slot is the background record.
type Registry struct {
	tasks []Task
	n     int
	arena []byte // every private stack, back to back
}

// NewRegistry allocates capacity slots with stackSize bytes of stack each.
func NewRegistry(capacity, stackSize int) *Registry {
	r := &Registry{
		tasks: make([]Task, capacity+1),
		arena: make([]byte, capacity*stackSize),
	}
	for i := 0; i < capacity; i++ {
		lo, hi := i*stackSize, (i+1)*stackSize
		r.tasks[i].Slot = Slot(i)
		r.tasks[i].Stack = hal.Stack(r.arena[lo:hi:hi])
	}
	r.tasks[capacity].Slot = BackgroundSlot
	return r
}

// Len is the number of registered tasks.
func (r *Registry) Len() int { return r.n }

// Cap is the number of task slots.
func (r *Registry) Cap() int { return len(r.tasks) - 1 }

// add fills the next free slot. The caller computes next with ticks masked.
func (r *Registry) add(entry func(), period uint32, next uint64) (Slot, error) {
	if r.n >= r.Cap() {
		return 0, fmt.Errorf("%w: %d slots", ErrCapacityExceeded, r.Cap())
	}
	t := &r.tasks[r.n]
	t.Entry = entry
	t.Period = period
	t.NextActivation = next
	t.Running = false
	r.n++
	return t.Slot, nil
}

// at returns the record for slot, the background record for BackgroundSlot.
func (r *Registry) at(slot Slot) *Task {
	if slot == BackgroundSlot {
		return r.background()
	}
	return &r.tasks[slot]
}

func (r *Registry) background() *Task {
	return &r.tasks[len(r.tasks)-1]
}

// Snapshot copies the state of every registered task.
func (r *Registry) Snapshot() []TaskInfo {
	out := make([]TaskInfo, r.n)
	for i := range out {
		out[i] = r.tasks[i].info()
	}
	return out
}
