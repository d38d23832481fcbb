package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	icmplib "github.com/ravvdevv/icmplib"
	"github.com/ravvdevv/icmplib/internal/addr"
)

func newMultipingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multiping <host>...",
		Short: "Ping multiple hosts concurrently through a shared socket per address family",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runMultiping,
	}

	cmd.Flags().IntP("count", "c", 2, "number of pings to send per host")
	cmd.Flags().Float64P("interval", "i", 1.0, "interval between pings to the same host (seconds)")
	cmd.Flags().Float64P("timeout", "t", 2.0, "per-packet timeout (seconds)")
	cmd.Flags().IntP("size", "s", 56, "payload size (bytes)")
	cmd.Flags().Int("concurrency", 10, "maximum number of hosts probed concurrently")

	return cmd
}

func runMultiping(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	privileged, _ := cmd.Root().PersistentFlags().GetBool("privileged")
	source, _ := cmd.Root().PersistentFlags().GetString("source")
	count, _ := cmd.Flags().GetInt("count")
	interval, _ := cmd.Flags().GetFloat64("interval")
	timeout, _ := cmd.Flags().GetFloat64("timeout")
	size, _ := cmd.Flags().GetInt("size")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	log := newLogger(verbose)

	opts := icmplib.DefaultMultipingOptions()
	opts.Count = count
	opts.Interval = time.Duration(interval * float64(time.Second))
	opts.Timeout = time.Duration(timeout * float64(time.Second))
	opts.PayloadSize = size
	opts.Privileged = privileged
	opts.Source = source
	opts.ConcurrentTasks = concurrency
	opts.Family = addr.Auto

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hosts, err := icmplib.Multiping(ctx, args, opts)
	if err != nil {
		log.Error("multiping failed", "error", err)
		return err
	}

	for _, h := range hosts {
		status := "alive"
		if !h.IsAlive() {
			status = "dead"
		}
		fmt.Printf("%-32s %-5s sent=%d recv=%d loss=%.1f%%",
			h.Address, status, h.PacketsSent, h.PacketsReceived(), h.PacketLoss()*100)
		if h.IsAlive() {
			fmt.Printf(" avg=%s", fmtRTT(h.AvgRTT()))
		}
		fmt.Println()
	}

	return nil
}
