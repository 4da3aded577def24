// File: cmd/pktdemo/main.go
// Package main
// Loopback packet queue demo: builds a prioritized send queue from pooled
// packets, sends it over UDP, receives it back and prints runtime counters.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configFile string
	count      int
	size       int
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "pktdemo",
	Short: "Send a prioritized packet queue over UDP loopback",
	Long: `pktdemo allocates packets from a size-class buffer pool, queues them in an
ordered packet list with high priority packets moved to the front, sends the
queue over a UDP loopback socket and receives every datagram back.

Configuration is layered: built-in defaults, the optional YAML file, PKT_*
environment variables (e.g. PKT_LOG_LEVEL) and finally command line flags.`,
	SilenceUsage: true,
	RunE:         runDemo,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")
	rootCmd.Flags().IntVarP(&count, "count", "n", 8, "number of packets to send")
	rootCmd.Flags().IntVarP(&size, "size", "s", 512, "payload size in bytes")
	rootCmd.Flags().DurationVar(&timeout, "timeout", time.Second, "receive timeout per packet")
	rootCmd.Flags().String("log-level", "", "log level override (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
