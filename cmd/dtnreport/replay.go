package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dtnreport/internal/logging"
	"dtnreport/internal/sim"
)

var (
	replayOpts     runOptions
	replayInput    string
	replayInterval float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded trace through the reports",
	Long:  "replay feeds a YAML scenario or JSONL event log through the occupancy and message reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)

		cfg, err := replayOpts.loadConfig(log)
		if err != nil {
			return err
		}
		trace, err := sim.LoadTrace(replayInput)
		if err != nil {
			return err
		}
		return runTrace(ctx, &replayOpts, cfg, trace.Events, trace.EndTime, replayInterval, cmd.OutOrStdout())
	},
}

func init() {
	addRunFlags(replayCmd.Flags(), &replayOpts)
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to YAML scenario or JSONL event log")
	replayCmd.Flags().Float64Var(&replayInterval, "update-interval", 1, "Simulated seconds between update ticks")
	replayCmd.MarkFlagRequired("input")
}
