// internal/sched/scheduler.go

package sched

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ticksched/internal/hal"
)

// Scheduler runs a fixed set of periodic tasks on one core, switching on every
// tick in round-robin order among the tasks that are due or still running.
//
// Register every task before Init. After Init all scheduler state is touched
// only from the tick handler and from Yield/exit traps, which the core runs
// one at a time with interrupts masked.
type Scheduler struct {
	// Scheduler-related
	cpu      hal.Machine
	source   hal.TickSource
	clock    Clock
	registry *Registry
	cursor   int  // next slot to scan, survives across ticks
	current  Slot // record that owns the core
	started  bool
	quantum  time.Duration
	initial  int
	history  *History
	statusCh chan StatusEvent // channel for status events
	dropped  atomic.Uint64
	closed   bool

	// logging-related
	csvFile   *os.File
	csvWriter *csv.Writer
}

// New creates a scheduler on cpu, driven by source.
func New(cfg Config, cpu hal.Machine, source hal.TickSource) *Scheduler {
	cfg.clamp()
	return &Scheduler{
		cpu:      cpu,
		source:   source,
		registry: NewRegistry(cfg.MaxTasks, cfg.StackSize),
		current:  BackgroundSlot,
		quantum:  cfg.Quantum(),
		initial:  cfg.InitialCursor,
		history:  NewHistory(cfg.History),
		statusCh: make(chan StatusEvent, 256), // buffered channel for status events
	}
}

// EnableCSVLogging opens the given file path for CSV logging of events.
// Must be called before Drain().
func (s *Scheduler) EnableCSVLogging(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// write header
	w.Write([]string{"timestamp", "tick", "event", "slot"})
	w.Flush()
	s.csvFile = f
	s.csvWriter = w
	return nil
}

// StatusChannel exposes read-only stream (optional consumers).
func (s *Scheduler) StatusChannel() <-chan StatusEvent { return s.statusCh }

// Register adds a task that becomes due period ticks from now. Slots follow
// registration order, which is also the scan order.
func (s *Scheduler) Register(entry func(), period uint32) (Slot, error) {
	if s.started {
		return 0, ErrStarted
	}
	if entry == nil {
		return 0, ErrNilEntry
	}
	if period == 0 {
		return 0, ErrInvalidPeriod
	}

	// the clock read and the activation write must not straddle a tick
	irq := s.cpu.DisableInterrupts()
	now := s.clock.Now()
	slot, err := s.registry.add(entry, period, now+uint64(period))
	s.cpu.RestoreInterrupts(irq)
	if err != nil {
		return 0, err
	}

	s.emit(StatusRegister, now, slot)
	return slot, nil
}

// Init arms the tick source and enables preemption. Call once.
func (s *Scheduler) Init() error {
	if s.started {
		return ErrStarted
	}
	if n := s.registry.Len(); n > 0 {
		s.cursor = s.initial % n
	}
	s.registry.background().Context = s.cpu.Capture()
	s.current = BackgroundSlot
	s.cpu.SetHandler(s.onTick)
	s.source.Configure(s.quantum)
	if err := s.source.Start(s.cpu); err != nil {
		return err
	}
	s.started = true
	return nil
}

// Now returns the current tick count.
func (s *Scheduler) Now() uint64 { return s.clock.Now() }

// Yield suspends the calling task and lets the decision engine pick the next
// context. The caller is resumed later exactly where it left off.
func (s *Scheduler) Yield() error {
	if !s.started {
		return ErrNotStarted
	}
	s.cpu.Trap(func() {
		s.capture()
		now := s.clock.Now()
		s.emit(StatusYield, now, s.current)
		s.schedule(now, TriggerYield)
	})
	return nil
}

// Run is the body of the background context. It idles until ctx is done,
// taking tick interrupts, then disarms the tick source and closes the event
// stream. Ctx is only checked while the background owns the core.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started {
		return ErrNotStarted
	}
	defer func() {
		s.source.Stop()
		s.closed = true
		close(s.statusCh)
	}()

	for ctx.Err() == nil {
		s.cpu.WaitForInterrupt()
	}
	return nil
}

// Tasks returns a copy of every registered task's state.
func (s *Scheduler) Tasks() []TaskInfo { return s.registry.Snapshot() }

// History returns the retained decisions, oldest first.
func (s *Scheduler) History() []Decision { return s.history.Decisions() }

// Current is the slot owning the core, BackgroundSlot when idle.
func (s *Scheduler) Current() Slot { return s.current }

// Dropped counts events lost because the status channel was full.
func (s *Scheduler) Dropped() uint64 { return s.dropped.Load() }

// onTick is the tick interrupt handler.
func (s *Scheduler) onTick() {
	s.capture()
	now := s.clock.Advance()
	s.emit(StatusTick, now, s.current)
	s.schedule(now, TriggerTick)
}

// capture saves the active context into the record that owns it.
func (s *Scheduler) capture() {
	s.registry.at(s.current).Context = s.cpu.Capture()
}

// schedule picks exactly one context and installs it: a due task is
// launched, a running task is resumed, otherwise the background runs.
func (s *Scheduler) schedule(now uint64, trigger Trigger) {
	n := s.registry.Len()
	for i := 0; i < n; i++ {
		t := &s.registry.tasks[s.cursor]
		s.cursor = (s.cursor + 1) % n

		if t.due(now) {
			t.NextActivation += uint64(t.Period)
			t.Running = true
			t.Context = s.cpu.Launch(t.Stack, t.Entry, s.exit)
			s.install(t, now, trigger, StatusLaunch)
			return
		}
		if t.Running {
			s.install(t, now, trigger, StatusResume)
			return
		}
	}
	s.install(s.registry.background(), now, trigger, StatusIdle)
}

func (s *Scheduler) install(t *Task, now uint64, trigger Trigger, kind StatusKind) {
	s.current = t.Slot
	s.history.Record(Decision{Tick: now, Trigger: trigger, Kind: kind, Slot: t.Slot})
	s.emit(kind, now, t.Slot)
	s.cpu.Install(t.Context)
}

// exit is where every task entry returns to. The finished instance is retired
// and the core goes to whatever the decision engine picks next.
func (s *Scheduler) exit() {
	s.cpu.Retire(func() {
		t := s.registry.at(s.current)
		t.Running = false
		t.Context = nil
		now := s.clock.Now()
		s.emit(StatusFinish, now, t.Slot)
		s.schedule(now, TriggerExit)
	})
}

// emit never blocks: it runs inside the tick handler.
func (s *Scheduler) emit(kind StatusKind, tick uint64, slot Slot) {
	if s.closed {
		return
	}
	select {
	case s.statusCh <- StatusEvent{Time: time.Now(), Tick: tick, Kind: kind, Slot: slot}:
	default:
		s.dropped.Add(1)
	}
}

// Drain logs events until the stream is closed by Run.
func (s *Scheduler) Drain(log zerolog.Logger) {
	for ev := range s.statusCh {
		s.handleEvent(log, ev)
	}

	if s.csvFile != nil {
		s.csvWriter.Flush()
		s.csvFile.Close()
	}
}

func (s *Scheduler) handleEvent(log zerolog.Logger, ev StatusEvent) {
	// ticks are the bulk of the stream; keep them at trace level
	level := zerolog.DebugLevel
	switch ev.Kind {
	case StatusTick:
		level = zerolog.TraceLevel
	case StatusRegister, StatusLaunch, StatusFinish:
		level = zerolog.InfoLevel
	}
	log.WithLevel(level).
		Uint64("tick", ev.Tick).
		Int("slot", int(ev.Slot)).
		Msg(ev.Kind.String())

	// CSV output
	if s.csvWriter != nil {
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			strconv.FormatUint(ev.Tick, 10),
			ev.Kind.String(),
			strconv.Itoa(int(ev.Slot)),
		}
		s.csvWriter.Write(rec)
		s.csvWriter.Flush()
	}
}
