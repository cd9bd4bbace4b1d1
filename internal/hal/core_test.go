package hal

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func launchEntry() {}
func launchExit()  {}

// runBackground starts the goroutine that plays the background context.
func runBackground(c *Core) {
	go func() {
		for {
			c.WaitForInterrupt()
		}
	}()
}

func TestLaunchWritesFrameAtStackTop(t *testing.T) {
	c := NewCore()
	stack := make(Stack, 64)

	ctx := c.Launch(stack, launchEntry, launchExit)

	assert.Equal(t, 64-FrameSize, ctx.SP())
	entry, exit := LaunchFrame(ctx)
	assert.Equal(t, reflect.ValueOf(launchEntry).Pointer(), entry)
	assert.Equal(t, reflect.ValueOf(launchExit).Pointer(), exit)
}

func TestLaunchFrameOfBackgroundIsEmpty(t *testing.T) {
	c := NewCore()

	entry, exit := LaunchFrame(c.Capture())
	assert.Zero(t, entry)
	assert.Zero(t, exit)
}

func TestSwitchPreservesContextState(t *testing.T) {
	c := NewCore()
	src := NewManualSource()
	require.NoError(t, src.Start(c))

	var trace []string
	worker := func(name string) func() {
		return func() {
			for i := 0; ; i++ {
				trace = append(trace, fmt.Sprintf("%s%d", name, i))
				c.WaitForInterrupt()
			}
		}
	}

	saved := []Context{
		c.Capture(),
		c.Launch(make(Stack, 32), worker("a"), func() {}),
		c.Launch(make(Stack, 32), worker("b"), func() {}),
	}
	cur := 0
	c.SetHandler(func() {
		saved[cur] = c.Capture()
		cur = (cur + 1) % len(saved)
		c.Install(saved[cur])
	})
	runBackground(c)

	src.StepN(5)

	assert.Equal(t, []string{"a0", "b0", "a1", "b1"}, trace)
}

func TestRetiredContextIsNotResumed(t *testing.T) {
	c := NewCore()
	src := NewManualSource()
	require.NoError(t, src.Start(c))

	background := c.Capture()
	var runs int
	var task Context
	task = c.Launch(make(Stack, 32), func() { runs++ }, func() {
		c.Retire(func() { c.Install(background) })
	})

	launched := false
	c.SetHandler(func() {
		if !launched {
			launched = true
			c.Install(task)
		}
	})
	runBackground(c)

	src.StepN(3)

	assert.Equal(t, 1, runs)
	assert.Equal(t, ctxDead, task.(*hostContext).state)
	assert.Same(t, background, c.Capture())
}

func TestMaskedInterruptIsDeferred(t *testing.T) {
	c := NewCore()
	var taken int
	c.SetHandler(func() { taken++ })

	state := c.DisableInterrupts()
	c.Raise()
	c.Poll()
	assert.Equal(t, 0, taken, "poll must not take a masked interrupt")
	assert.False(t, c.WaitForInterrupt(), "masked interrupt must not be taken")

	c.RestoreInterrupts(state)
	c.Poll()
	assert.Equal(t, 1, taken)

	c.Poll()
	assert.Equal(t, 1, taken, "interrupt must be acknowledged once taken")
}

func TestNestedDisableRestoresOuterState(t *testing.T) {
	c := NewCore()

	outer := c.DisableInterrupts()
	inner := c.DisableInterrupts()
	c.RestoreInterrupts(inner)
	assert.True(t, c.masked)

	c.RestoreInterrupts(outer)
	assert.False(t, c.masked)
}

func TestTrapWithoutSwitchReturns(t *testing.T) {
	c := NewCore()
	var ran bool
	c.Trap(func() { ran = true })
	assert.True(t, ran)
	assert.False(t, c.masked)
}

type countingLine struct{ n atomic.Int64 }

func (l *countingLine) Raise()    { l.n.Add(1) }
func (l *countingLine) WaitIdle() {}

func TestTickerSourceRaisesAtInterval(t *testing.T) {
	src := NewTickerSource()
	line := &countingLine{}

	require.ErrorIs(t, src.Start(line), ErrNoInterval)

	src.Configure(time.Millisecond)
	require.NoError(t, src.Start(line))
	defer src.Stop()
	require.ErrorIs(t, src.Start(line), ErrSourceRunning)

	require.Eventually(t, func() bool { return line.n.Load() >= 3 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, src.Count(), int64(3))

	src.Stop()
	src.Stop()
}

func TestManualSourceRequiresLine(t *testing.T) {
	src := NewManualSource()
	src.Configure(62500 * time.Microsecond)

	require.ErrorIs(t, src.Start(nil), ErrNoInterruptLine)
	assert.Equal(t, 62500*time.Microsecond, src.Interval())
	assert.Panics(t, func() { src.Step() })
}
