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

func newTracerouteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traceroute <host>",
		Short: "Discover the chain of routers to a host via ICMP TTL sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  runTraceroute,
	}

	cmd.Flags().Int("first-hop", 1, "starting TTL")
	cmd.Flags().Int("max-hops", 30, "maximum TTL")
	cmd.Flags().IntP("count", "c", 3, "probes per hop")
	cmd.Flags().Float64P("interval", "i", 0.05, "interval between probes at the same hop (seconds)")
	cmd.Flags().Float64P("timeout", "t", 1.0, "per-probe timeout (seconds)")
	cmd.Flags().Bool("fast", false, "stop probing a hop as soon as it responds once")

	return cmd
}

func runTraceroute(cmd *cobra.Command, args []string) error {
	host := args[0]

	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	source, _ := cmd.Root().PersistentFlags().GetString("source")
	firstHop, _ := cmd.Flags().GetInt("first-hop")
	maxHops, _ := cmd.Flags().GetInt("max-hops")
	count, _ := cmd.Flags().GetInt("count")
	interval, _ := cmd.Flags().GetFloat64("interval")
	timeout, _ := cmd.Flags().GetFloat64("timeout")
	fast, _ := cmd.Flags().GetBool("fast")

	log := newLogger(verbose)

	opts := icmplib.DefaultTracerouteOptions()
	opts.FirstHop = firstHop
	opts.MaxHops = maxHops
	opts.Count = count
	opts.Interval = time.Duration(interval * float64(time.Second))
	opts.Timeout = time.Duration(timeout * float64(time.Second))
	opts.Fast = fast
	opts.Source = source
	opts.Family = addr.Auto

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("traceroute to %s, %d hops max\n", host, opts.MaxHops)

	hops, err := icmplib.Traceroute(ctx, host, opts)
	if err != nil {
		log.Error("traceroute failed", "host", host, "error", err)
		return err
	}

	for _, hop := range hops {
		fmt.Printf("%2d  %-32s  %s\n", hop.Distance, hop.Address, fmtRTT(hop.AvgRTT()))
	}

	return nil
}
