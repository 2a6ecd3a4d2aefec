package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"clockstep.dev/sntpc/internal/config"
	"clockstep.dev/sntpc/internal/log"
	"clockstep.dev/sntpc/internal/sntp"
	"clockstep.dev/sntpc/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the system clock once",
	Long: `Perform a single SNTP exchange and step the system clock.

The reply is validated (server mode, stratum, root delay and dispersion,
originate echo) before the offset is measured. The clock is only written
when the offset passes the safety policy: backward steps are refused
unless -b is given, and offsets beyond the threshold are refused always.

Stepping the clock requires root.

Examples:
  sntpc sync                          # Sync against pool.ntp.org with defaults
  sntpc sync -s time.example.net      # Sync against a specific server
  sntpc sync -b -t 86400              # Allow backward steps, accept up to a day
  sntpc sync -n                       # Decide only, never write the clock`,
	Run: func(cmd *cobra.Command, args []string) {
		runSyncCommand(cmd)
	},
}

var (
	syncServer    string
	syncPort      int
	syncThreshold int64
	syncBackwards bool
	syncDryRun    bool
	syncPoolFile  string
)

func init() {
	syncCmd.Flags().StringVarP(&syncServer, "server", "s", "",
		"NTP server hostname or IPv4 address")
	syncCmd.Flags().IntVarP(&syncPort, "port", "p", 123,
		"server UDP port")
	syncCmd.Flags().Int64VarP(&syncThreshold, "threshold", "t", 300,
		"largest offset in seconds the policy will apply")
	syncCmd.Flags().BoolVarP(&syncBackwards, "backwards", "b", false,
		"allow stepping the clock backwards")
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false,
		"decide but do not write the clock")
	syncCmd.Flags().StringVar(&syncPoolFile, "pool", "",
		"server pool file (one candidate picked per run)")
}

func runSyncCommand(cmd *cobra.Command) {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError("failed to load config", err)
	}
	applySyncFlags(cmd, cfg)
	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		exitWithError("invalid flags", err)
	}

	if err := log.Init(cfg.Log); err != nil {
		exitWithError("failed to initialize logging", err)
	}

	res, err := syncer.New(cfg, syncer.Options{}).Run(context.Background())
	if err != nil {
		exitWithError("sync failed", err)
	}

	printSyncOutcome(os.Stdout, res.Outcome)
}

func printSyncOutcome(w io.Writer, out *sntp.Outcome) {
	when := time.Unix(out.ServerTime, 0).Format(time.ANSIC)
	switch out.Action {
	case sntp.ActionApply:
		fmt.Fprintf(w, "clock set to %d (%s), offset %+d seconds\n",
			out.ServerTime, when, out.Offset)
	case sntp.ActionDryRun:
		fmt.Fprintf(w, "dry run: clock not set, server time %d (%s), offset %+d seconds\n",
			out.ServerTime, when, out.Offset)
	}
}

// applySyncFlags lets explicitly set command-line flags override the
// file and environment configuration.
func applySyncFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("server") {
		cfg.Server = syncServer
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = syncPort
	}
	if cmd.Flags().Changed("threshold") {
		cfg.ThresholdSeconds = syncThreshold
	}
	if cmd.Flags().Changed("backwards") {
		cfg.AllowBackwards = syncBackwards
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = syncDryRun
	}
	if cmd.Flags().Changed("pool") {
		cfg.PoolFile = syncPoolFile
	}
}
