package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/boot"
	"firestige.xyz/strix/internal/config"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the bridge daemon",
	Long: `
Start the Strix bridge daemon in the foreground.

The daemon opens the configured transport, starts the driver loop and
runs until SIGINT or SIGTERM.

Examples:
  strix start                      # use the default config path
  strix start -c /etc/strix.yml    # explicit config file
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			exitWithError("failed to write pid file", err)
		}
		defer os.Remove(pidFile)

		cfg, err := config.Load(configFile)
		if err != nil {
			exitWithError("failed to load config", err)
		}

		if err := boot.Start(cfg); err != nil {
			exitWithError("daemon failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
