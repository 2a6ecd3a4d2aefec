package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clockstep.dev/sntpc/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without running a sync.

This is useful for pre-checking configuration before deploying it. When
the file references a server pool, the pool file is validated too.

Examples:
  sntpc validate -f /etc/sntpc/config.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		runValidateCommand()
	},
}

var validateConfigFile string

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "file", "f", "",
		"configuration file to validate (required)")
	validateCmd.MarkFlagRequired("file")
}

func runValidateCommand() {
	cfg, err := config.Load(validateConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		os.Exit(1)
	}

	poolNote := ""
	if cfg.PoolFile != "" {
		pool, err := config.LoadPool(cfg.PoolFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
			os.Exit(1)
		}
		poolNote = fmt.Sprintf(", %d pool server(s)", len(pool.Servers))
	}

	fmt.Printf("VALID: server %s:%d, threshold %ds%s\n",
		cfg.Server, cfg.Port, cfg.ThresholdSeconds, poolNote)
}
