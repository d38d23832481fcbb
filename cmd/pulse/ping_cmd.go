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

func newPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping <host>",
		Short: "Send ICMP Echo Requests to a host and report round-trip statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runPing,
	}

	cmd.Flags().IntP("count", "c", 4, "number of pings to send")
	cmd.Flags().Float64P("interval", "i", 1.0, "interval between pings (seconds)")
	cmd.Flags().Float64P("timeout", "t", 2.0, "per-packet timeout (seconds)")
	cmd.Flags().IntP("size", "s", 56, "payload size (bytes)")
	cmd.Flags().Int("ttl", 64, "IP time-to-live / hop limit (ignored: probes are always sent with TTL 64)")

	return cmd
}

func runPing(cmd *cobra.Command, args []string) error {
	host := args[0]

	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	privileged, _ := cmd.Root().PersistentFlags().GetBool("privileged")
	source, _ := cmd.Root().PersistentFlags().GetString("source")
	count, _ := cmd.Flags().GetInt("count")
	interval, _ := cmd.Flags().GetFloat64("interval")
	timeout, _ := cmd.Flags().GetFloat64("timeout")
	size, _ := cmd.Flags().GetInt("size")

	log := newLogger(verbose)

	opts := icmplib.DefaultPingOptions()
	opts.Count = count
	opts.Interval = time.Duration(interval * float64(time.Second))
	opts.Timeout = time.Duration(timeout * float64(time.Second))
	opts.PayloadSize = size
	opts.Privileged = privileged
	opts.Source = source
	opts.Family = addr.Auto

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	packetSize := opts.PayloadSize + 8
	fmt.Printf("PULSE scanning %s with %d-byte packets\n", host, packetSize)

	result, err := icmplib.PingContext(ctx, host, opts)
	if err != nil {
		log.Error("ping failed", "host", host, "error", err)
		return err
	}

	printPingSummary(host, result)
	return nil
}

func printPingSummary(host string, h *icmplib.Host) {
	fmt.Printf("\nPULSE scan complete for %s\n", host)
	fmt.Printf("Sent: %d | Received: %d | Loss: %.1f%%\n",
		h.PacketsSent, h.PacketsReceived(), h.PacketLoss()*100)
	if h.IsAlive() {
		fmt.Printf("Latency: min=%s | avg=%s | max=%s | jitter=%s\n",
			fmtRTT(h.MinRTT()), fmtRTT(h.AvgRTT()), fmtRTT(h.MaxRTT()), fmtRTT(h.Jitter()))
	}
}
