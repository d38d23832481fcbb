// pulse — an ICMP ping, multiping and traceroute CLI built on
// github.com/ravvdevv/icmplib.
//
// Usage:
//
//	sudo pulse ping <host> [flags]
//	sudo pulse multiping <host>... [flags]
//	sudo pulse traceroute <host> [flags]
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(int(run()))
}

type exitCode int

const (
	exitSuccess exitCode = 0
	exitError   exitCode = 1
)

func run() exitCode {
	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "ICMP ping, multiping and traceroute",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show debug-level logging")
	rootCmd.PersistentFlags().Bool("privileged", false, "use a raw ICMP socket (requires CAP_NET_RAW)")
	rootCmd.PersistentFlags().String("source", "", "bind to this local address")

	rootCmd.AddCommand(newPingCmd(), newMultipingCmd(), newTracerouteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
		return exitError
	}
	return exitSuccess
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func fmtRTT(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d)/float64(time.Millisecond))
}
