package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/strix/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the daemon and print
the effective configuration after defaults are applied.

Note that bitrate membership in the supported set is enforced when the
device is opened, not here.

Examples:
  strix validate -c config.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		runValidateCommand()
	},
}

func runValidateCommand() {
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		os.Exit(1)
	}

	effective, err := yaml.Marshal(cfg)
	if err != nil {
		exitWithError("failed to render effective config", err)
	}

	fmt.Printf("VALID: %s transport at %d bps\n", cfg.Transport.Type, cfg.Transport.Bitrate)
	fmt.Print(string(effective))
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
