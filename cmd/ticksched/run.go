package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ticksched/internal/hal"
	"ticksched/internal/logx"
	"ticksched/internal/sched"
)

func newRunCmd() *cobra.Command {
	var (
		duration time.Duration
		csvPath  string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo tasks against a wall-clock tick",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := sched.Load(cfgFile)
			if csvPath != "" {
				cfg.CSVPath = csvPath
			}
			log := logx.NewConsole(cfg.LogLevel)

			s, names, err := setup(cfg, hal.NewTickerSource(), taskProfiles)
			if err != nil {
				return err
			}
			if cfg.CSVPath != "" {
				if err := s.EnableCSVLogging(cfg.CSVPath); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			drained := make(chan struct{})
			go func() {
				defer close(drained)
				s.Drain(log)
			}()

			if err := s.Init(); err != nil {
				return err
			}
			log.Info().
				Int("tasks", len(names)).
				Dur("quantum", cfg.Quantum()).
				Msg("scheduler started")

			err = s.Run(ctx)
			<-drained

			log.Info().
				Uint64("ticks", s.Now()).
				Uint64("dropped_events", s.Dropped()).
				Msg("scheduler stopped")
			return err
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0: until interrupted)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write scheduler events as CSV to this file")
	return cmd
}
