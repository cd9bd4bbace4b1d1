package hal

import (
	"sync"
	"sync/atomic"
	"time"
)

// TickerSource raises the tick interrupt from a wall-clock ticker.
type TickerSource struct {
	interval time.Duration
	count    atomic.Int64
	stop     chan struct{}
	once     sync.Once
}

// NewTickerSource creates a source but does not arm it.
func NewTickerSource() *TickerSource {
	return &TickerSource{}
}

func (s *TickerSource) Configure(interval time.Duration) { s.interval = interval }

// Start begins raising ticks at the configured interval.
func (s *TickerSource) Start(line IRQLine) error {
	if line == nil {
		return ErrNoInterruptLine
	}
	if s.interval <= 0 {
		return ErrNoInterval
	}
	if s.stop != nil {
		return ErrSourceRunning
	}
	s.stop = make(chan struct{})

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.count.Add(1)
				line.Raise()
			case <-s.stop:
				return
			}
		}
	}()
	return nil
}

// Stop disarms the source. Safe to call more than once.
func (s *TickerSource) Stop() {
	if s.stop == nil {
		return
	}
	s.once.Do(func() { close(s.stop) })
}

// Count returns the number of ticks raised so far.
func (s *TickerSource) Count() int64 {
	return s.count.Load()
}

// ManualSource raises ticks only when stepped. It makes a run fully
// deterministic: each Step returns once the tick was handled and the core
// is halted again.
type ManualSource struct {
	interval time.Duration
	line     IRQLine
	count    atomic.Int64
}

func NewManualSource() *ManualSource {
	return &ManualSource{}
}

func (s *ManualSource) Configure(interval time.Duration) { s.interval = interval }

// Interval is the configured quantum; a manual source never waits on it.
func (s *ManualSource) Interval() time.Duration { return s.interval }

func (s *ManualSource) Start(line IRQLine) error {
	if line == nil {
		return ErrNoInterruptLine
	}
	if s.line != nil {
		return ErrSourceRunning
	}
	s.line = line
	return nil
}

func (s *ManualSource) Stop() {}

// Step fires one tick and waits until it has been handled.
func (s *ManualSource) Step() {
	if s.line == nil {
		panic("hal: manual tick source stepped before start")
	}
	s.count.Add(1)
	s.line.Raise()
	s.line.WaitIdle()
}

// StepN fires n ticks one after the other.
func (s *ManualSource) StepN(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Count returns the number of ticks fired so far.
func (s *ManualSource) Count() int64 {
	return s.count.Load()
}
