package hal

import (
	"encoding/binary"
	"reflect"
)

// FrameSize is the size of the launch frame written at the top of a stack:
// the exit handler's PC followed by the entry PC.
const FrameSize = 16

type ctxState uint8

const (
	ctxFresh ctxState = iota // built by Launch, never entered
	ctxLive
	ctxDead
)

// hostContext is a context backed by a parked goroutine.
type hostContext struct {
	resume chan struct{}
	state  ctxState
	start  func()
	stack  Stack
	sp     int
}

func newHostContext(stack Stack, sp int, state ctxState) *hostContext {
	return &hostContext{
		resume: make(chan struct{}, 1),
		state:  state,
		stack:  stack,
		sp:     sp,
	}
}

func (c *hostContext) Stack() Stack { return c.stack }
func (c *hostContext) SP() int      { return c.sp }

// enter hands the baton to c. A fresh context gets its goroutine here.
func (c *hostContext) enter() {
	if c.state == ctxFresh {
		c.state = ctxLive
		go c.start()
		return
	}
	c.resume <- struct{}{}
}

// writeLaunchFrame lays out the return chain at the top of stack so that the
// entry runs first and its return lands in exit. It returns the new stack
// pointer. There is no bounds checking: a stack smaller than FrameSize panics.
func writeLaunchFrame(stack Stack, entry, exit func()) int {
	sp := len(stack)
	sp -= 8
	binary.LittleEndian.PutUint64(stack[sp:], uint64(funcPC(exit)))
	sp -= 8
	binary.LittleEndian.PutUint64(stack[sp:], uint64(funcPC(entry)))
	return sp
}

// LaunchFrame reads back the entry and exit PCs of a launch frame.
func LaunchFrame(ctx Context) (entry, exit uintptr) {
	stack, sp := ctx.Stack(), ctx.SP()
	if stack == nil || sp+FrameSize > len(stack) {
		return 0, 0
	}
	entry = uintptr(binary.LittleEndian.Uint64(stack[sp:]))
	exit = uintptr(binary.LittleEndian.Uint64(stack[sp+8:]))
	return entry, exit
}

func funcPC(fn func()) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}
