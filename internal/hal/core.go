package hal

import "sync"

// Core is the host rendition of a single-core processor with one tick
// interrupt line.
//
// Interrupts are only taken at safe points (WaitForInterrupt and Poll), by
// whichever context currently holds the core. The handler runs on that
// context's goroutine with interrupts masked, exactly like an interrupt
// running on the interrupted task's stack. When the handler returns the core
// switches to the installed context and parks the interrupted one.
type Core struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending bool
	halted  bool
	masked  bool

	handler func()

	// Owned by the context holding the core.
	current *hostContext
	next    *hostContext
}

// NewCore returns a core whose active context is the background context,
// i.e. the caller.
func NewCore() *Core {
	c := &Core{}
	c.cond = sync.NewCond(&c.mu)
	c.current = newHostContext(nil, 0, ctxLive)
	return c
}

func (c *Core) SetHandler(fn func()) { c.handler = fn }

// Raise latches a pending tick.
func (c *Core) Raise() {
	c.mu.Lock()
	c.pending = true
	c.cond.Broadcast()
	c.mu.Unlock()
}

// WaitIdle blocks until no tick is pending and some context is halted in
// WaitForInterrupt.
func (c *Core) WaitIdle() {
	c.mu.Lock()
	for c.pending || !c.halted {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

func (c *Core) Capture() Context { return c.current }

func (c *Core) Install(ctx Context) {
	hc, ok := ctx.(*hostContext)
	if !ok || hc == nil {
		panic("hal: install of a foreign context")
	}
	c.next = hc
}

func (c *Core) Launch(stack Stack, entry, exit func()) Context {
	sp := writeLaunchFrame(stack, entry, exit)
	ctx := newHostContext(stack, sp, ctxFresh)
	ctx.start = func() {
		entry()
		exit()
	}
	return ctx
}

func (c *Core) DisableInterrupts() IRQState {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := !c.masked
	c.masked = true
	return IRQState(prev)
}

func (c *Core) RestoreInterrupts(state IRQState) {
	c.mu.Lock()
	c.masked = !bool(state)
	c.mu.Unlock()
}

func (c *Core) WaitForInterrupt() bool {
	c.mu.Lock()
	for !c.pending {
		c.halted = true
		c.cond.Broadcast()
		c.cond.Wait()
	}
	c.halted = false
	take := !c.masked
	if take {
		c.pending = false
	}
	c.mu.Unlock()

	if take {
		c.interrupt(c.handler, false)
	}
	return take
}

func (c *Core) Poll() {
	c.mu.Lock()
	take := c.pending && !c.masked
	if take {
		c.pending = false
	}
	c.mu.Unlock()

	if take {
		c.interrupt(c.handler, false)
	}
}

func (c *Core) Trap(fn func()) { c.interrupt(fn, false) }

func (c *Core) Retire(fn func()) { c.interrupt(fn, true) }

// interrupt runs fn masked on the current context, then performs the switch
// fn asked for. It returns once the calling context is resumed, or right away
// when it retires.
func (c *Core) interrupt(fn func(), retire bool) {
	self := c.current
	state := c.DisableInterrupts()
	c.next = self
	if fn != nil {
		fn()
	}
	next := c.next
	c.RestoreInterrupts(state)

	if next == self {
		if retire {
			panic("hal: retired context installed again")
		}
		return
	}

	c.current = next
	if retire {
		self.state = ctxDead
		next.enter()
		return
	}
	next.enter()
	<-self.resume
}
