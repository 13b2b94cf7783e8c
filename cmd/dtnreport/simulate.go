package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dtnreport/internal/logging"
	"dtnreport/internal/scenario"
	"dtnreport/internal/sim"
)

var (
	simOpts     runOptions
	simTraceOut string
	simSeed     int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate synthetic DTN traffic and report on it",
	Long:  "simulate generates seeded multi-hop traffic between hosts with finite buffers and runs it through the occupancy and message reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)

		cfg, err := simOpts.loadConfig(log)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Traffic.Seed = simSeed
		}

		events := sim.NewGenerator(cfg.Traffic).Generate()
		log.Info("traffic generated", "hosts", cfg.Traffic.Hosts, "events", len(events), "seed", cfg.Traffic.Seed)
		if simTraceOut != "" {
			lw, err := scenario.NewLogWriter(simTraceOut)
			if err != nil {
				return err
			}
			if err := lw.WriteEvents(events); err != nil {
				lw.Close()
				return err
			}
			if err := lw.Close(); err != nil {
				return err
			}
		}
		return runTrace(ctx, &simOpts, cfg, events, cfg.Traffic.Duration, cfg.Traffic.UpdateInterval, cmd.OutOrStdout())
	},
}

func init() {
	addRunFlags(simulateCmd.Flags(), &simOpts)
	simulateCmd.Flags().StringVar(&simTraceOut, "trace-out", "", "Record the generated event stream to this JSONL file")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Override the traffic seed")
}
