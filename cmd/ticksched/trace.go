package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ticksched/internal/hal"
	"ticksched/internal/sched"
)

func newTraceCmd() *cobra.Command {
	var ticks int
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Simulate a number of ticks and print every scheduling decision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ticks <= 0 {
				return fmt.Errorf("--ticks must be positive, got %d", ticks)
			}
			cfg := sched.Load(cfgFile)
			// one tick decision plus at most one exit decision per task
			cfg.History = ticks * (cfg.MaxTasks + 1)

			src := hal.NewManualSource()
			s, names, err := setup(cfg, src, taskProfiles)
			if err != nil {
				return err
			}
			if err := s.Init(); err != nil {
				return err
			}
			go s.Run(context.Background())
			src.StepN(ticks)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TICK\tTRIGGER\tDECISION\tTASK")
			for _, d := range s.History() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", d.Tick, d.Trigger, d.Kind, slotName(names, d.Slot))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 32, "number of ticks to simulate")
	return cmd
}
