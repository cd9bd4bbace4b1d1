// Package hal is the boundary between the scheduler and the processor.
//
// The scheduler never looks inside an execution context. It asks the Machine
// to capture the active one, to build a fresh one on a task's private stack
// and to install another one as active. The host implementation in this
// package (Core) runs every context on its own goroutine and passes a single
// baton between them, so exactly one context executes at any instant.
package hal

import (
	"errors"
	"time"
)

var (
	ErrNoInterval      = errors.New("hal: tick interval not configured")
	ErrSourceRunning   = errors.New("hal: tick source already started")
	ErrNoInterruptLine = errors.New("hal: no interrupt line")
)

// Stack is a private, fixed-size memory region owned by one task slot.
type Stack []byte

// Context is a saved execution context. It is opaque to the scheduler.
type Context interface {
	// Stack returns the region the context runs on (nil for the background).
	Stack() Stack
	// SP is the saved stack pointer as an offset into Stack.
	SP() int
}

// IRQState is the interrupt enable state returned by DisableInterrupts.
type IRQState bool

// IRQLine is what a tick source drives.
type IRQLine interface {
	// Raise latches a pending tick interrupt.
	Raise()
	// WaitIdle blocks until the latched interrupt was taken and the
	// processor is halted waiting for the next one.
	WaitIdle()
}

// Machine is the single execution unit the scheduler runs on.
type Machine interface {
	IRQLine

	// SetHandler installs the tick interrupt handler.
	SetHandler(fn func())

	// Capture returns the active context.
	Capture() Context
	// Install makes ctx the context that runs when the current interrupt
	// (or trap) returns.
	Install(ctx Context)
	// Launch builds a fresh context on stack that begins in entry and
	// continues into exit when entry returns.
	Launch(stack Stack, entry, exit func()) Context

	DisableInterrupts() IRQState
	RestoreInterrupts(state IRQState)

	// Trap runs fn as a software interrupt from the active context and then
	// switches to whatever fn installed.
	Trap(fn func())
	// Retire is Trap for a context that has finished; it is never resumed.
	Retire(fn func())

	// WaitForInterrupt halts the active context until a tick is pending and
	// takes it. It reports whether an interrupt was taken.
	WaitForInterrupt() bool
	// Poll takes a pending tick, if any. It is a preemption point.
	Poll()
}

// TickSource fires the tick interrupt at a fixed interval.
type TickSource interface {
	Configure(interval time.Duration)
	Start(line IRQLine) error
	Stop()
}
