package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"clockstep.dev/sntpc/internal/log"
	"clockstep.dev/sntpc/internal/sntp"
	"clockstep.dev/sntpc/internal/syncer"
)

var offsetCmd = &cobra.Command{
	Use:   "offset",
	Short: "Measure the clock offset without touching the clock",
	Long: `Measure the offset between the local clock and an NTP server.

The exchange and reply validation are identical to sync, but the safety
policy is disarmed and the clock is never written, so the command works
without root and against arbitrarily wrong clocks.

Examples:
  sntpc offset                        # Measure against pool.ntp.org
  sntpc offset -s time.example.net    # Measure against a specific server`,
	Run: func(cmd *cobra.Command, args []string) {
		runOffsetCommand(cmd)
	},
}

var (
	offsetServer string
	offsetPort   int
)

func init() {
	offsetCmd.Flags().StringVarP(&offsetServer, "server", "s", "",
		"NTP server hostname or IPv4 address")
	offsetCmd.Flags().IntVarP(&offsetPort, "port", "p", 123,
		"server UDP port")
}

func runOffsetCommand(cmd *cobra.Command) {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError("failed to load config", err)
	}
	if cmd.Flags().Changed("server") {
		cfg.Server = offsetServer
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = offsetPort
	}

	// Report only: never write, never judge the offset.
	cfg.DryRun = true
	cfg.AllowBackwards = true
	cfg.ThresholdSeconds = math.MaxInt64

	if err := log.Init(cfg.Log); err != nil {
		exitWithError("failed to initialize logging", err)
	}

	res, err := syncer.New(cfg, syncer.Options{}).Run(context.Background())
	if err != nil {
		exitWithError("offset measurement failed", err)
	}

	printOffsetReport(os.Stdout, res.Outcome)
}

func printOffsetReport(w io.Writer, out *sntp.Outcome) {
	fmt.Fprintf(w, "server time: %d (%s)\n", out.ServerTime, time.Unix(out.ServerTime, 0).Format(time.ANSIC))
	fmt.Fprintf(w, "local time:  %d (%s)\n", out.LocalTime, time.Unix(out.LocalTime, 0).Format(time.ANSIC))
	fmt.Fprintf(w, "offset:      %+d seconds\n", out.Offset)
}
