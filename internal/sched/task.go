package sched

import "ticksched/internal/hal"

// Slot identifies a registered task. Slots are handed out from 0 upward and
// never reused.
type Slot int

// BackgroundSlot stands for the background record in decisions and events.
const BackgroundSlot Slot = -1

// Task is a task control record.
type Task struct {
	Slot           Slot
	Entry          func() // runs once per activation; its return ends the instance
	Period         uint32 // in ticks
	NextActivation uint64 // absolute tick at which the task is next due
	Running        bool   // a live instance exists (active or suspended)

	Context hal.Context // saved context; valid while Running or active
	Stack   hal.Stack   // private region, owned by this slot only
}

// due reports whether a new instance may be launched at tick now.
func (t *Task) due(now uint64) bool {
	return !t.Running && t.NextActivation <= now
}

// TaskInfo is a copy of the schedulable state of a task.
type TaskInfo struct {
	Slot           Slot
	Period         uint32
	NextActivation uint64
	Running        bool
}

func (t *Task) info() TaskInfo {
	return TaskInfo{
		Slot:           t.Slot,
		Period:         t.Period,
		NextActivation: t.NextActivation,
		Running:        t.Running,
	}
}
