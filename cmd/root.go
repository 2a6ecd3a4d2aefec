// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clockstep.dev/sntpc/internal/config"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sntpc",
	Short: "sntpc - Minimal SNTP client that steps the system clock",
	Long: `sntpc is a minimal SNTP time synchronization client.
It performs a single request/reply exchange with an NTP server, validates
the reply, and steps the system clock when the measured offset passes the
configured safety policy.

Features:
  - Single shot: one exchange, one decision, exit
  - Spoofing defence: random transmit nonce echoed by the server
  - Safety policy: bounded offsets, backward steps refused by default
  - Server pools: optional YAML pool file, one candidate per run`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log at debug level")

	// Add subcommands
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(offsetCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig loads the effective configuration for a command run,
// honoring the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
