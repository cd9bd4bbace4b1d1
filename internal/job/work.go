package job

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// CPU is the part of the core a task body needs to burn processor time.
type CPU interface {
	WaitForInterrupt() bool
}

// Busy returns an entry that keeps the core for the given number of ticks of
// its own run time, then returns. Ticks spent suspended do not count.
func Busy(cpu CPU, ticks int) func() {
	return func() {
		for left := ticks; left > 0; {
			if cpu.WaitForInterrupt() {
				left--
			}
		}
	}
}

// Counted wraps entry so that every instance bumps runs before it starts.
func Counted(runs *atomic.Int64, entry func()) func() {
	return func() {
		runs.Add(1)
		entry()
	}
}

// Profile describes a demo task on the command line: name:period:work.
type Profile struct {
	Name   string
	Period uint32
	Work   int // ticks of run time per activation
}

// ParseProfile parses "name:period:work". Work may be omitted and defaults to 1.
func ParseProfile(s string) (Profile, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Profile{}, fmt.Errorf("task %q: want name:period[:work]", s)
	}
	prof := Profile{Name: parts[0], Work: 1}
	if prof.Name == "" {
		return Profile{}, fmt.Errorf("task %q: empty name", s)
	}

	period, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || period == 0 {
		return Profile{}, fmt.Errorf("task %q: invalid period %q", s, parts[1])
	}
	prof.Period = uint32(period)

	if len(parts) == 3 {
		work, err := strconv.Atoi(parts[2])
		if err != nil || work < 0 {
			return Profile{}, fmt.Errorf("task %q: invalid work %q", s, parts[2])
		}
		prof.Work = work
	}
	return prof, nil
}
