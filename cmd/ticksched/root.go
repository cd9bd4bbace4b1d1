package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticksched/internal/hal"
	"ticksched/internal/job"
	"ticksched/internal/sched"
)

var (
	cfgFile      string
	taskProfiles []string
)

var rootCmd = &cobra.Command{
	Use:          "ticksched",
	Short:        "Tick-driven preemptive scheduler for periodic tasks",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (empty: built-in defaults)")
	rootCmd.PersistentFlags().StringSliceVar(&taskProfiles, "task", []string{"A:4:1", "B:6:1"},
		"task as name:period[:work], period and work in ticks; repeatable")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTraceCmd())
}

// setup builds a scheduler on a fresh core and registers the demo tasks.
// It returns the task names indexed by slot.
func setup(cfg sched.Config, source hal.TickSource, profiles []string) (*sched.Scheduler, []string, error) {
	cpu := hal.NewCore()
	s := sched.New(cfg, cpu, source)

	names := make([]string, 0, len(profiles))
	for _, raw := range profiles {
		prof, err := job.ParseProfile(raw)
		if err != nil {
			return nil, nil, err
		}
		if _, err := s.Register(job.Busy(cpu, prof.Work), prof.Period); err != nil {
			return nil, nil, fmt.Errorf("register %s: %w", prof.Name, err)
		}
		names = append(names, prof.Name)
	}
	return s, names, nil
}

func slotName(names []string, slot sched.Slot) string {
	if slot == sched.BackgroundSlot || int(slot) >= len(names) {
		return "background"
	}
	return names[slot]
}
