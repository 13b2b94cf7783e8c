package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dtnreport/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "dtnreport",
	Short: "DTN message and buffer reporting toolkit",
	Long:  "dtnreport runs delay-tolerant network traffic through windowed buffer occupancy and message lifecycle reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(logLevel, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(log)
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
}
