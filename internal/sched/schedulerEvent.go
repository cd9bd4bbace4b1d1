// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusRegister
	StatusLaunch
	StatusResume
	StatusFinish
	StatusYield
	StatusTick
)

// StatusEvent is emitted every tick or on key actions
type StatusEvent struct {
	Time time.Time
	Tick uint64
	Kind StatusKind
	Slot Slot
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusRegister:
		return "Register"
	case StatusLaunch:
		return "Launch"
	case StatusResume:
		return "Resume"
	case StatusFinish:
		return "Finish"
	case StatusYield:
		return "Yield"
	case StatusTick:
		return "Tick"
	default:
		return "Unknown"
	}
}

// Trigger says what ran the decision engine.
type Trigger uint8

const (
	TriggerTick  Trigger = iota // tick interrupt
	TriggerYield                // task gave up the core
	TriggerExit                 // task entry returned
)

func (tr Trigger) String() string {
	switch tr {
	case TriggerTick:
		return "tick"
	case TriggerYield:
		return "yield"
	case TriggerExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Decision is one outcome of the decision engine. Kind is StatusLaunch,
// StatusResume or StatusIdle.
type Decision struct {
	Tick    uint64
	Trigger Trigger
	Kind    StatusKind
	Slot    Slot
}
