// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	pidFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strix",
	Short: "Strix - serial link to core frame bridge",
	Long: `Strix bridges a byte-oriented serial link and a local message-oriented
core endpoint. It delimits frames out of the raw uart byte stream,
resynchronizing past corruption, and paces outbound frames so the
physical transmit queue is never overrun.

The core side is a datagram socketpair carrying whole frames in both
directions; a higher-layer consumer attaches to the exposed endpoint.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/strix/config.yml",
		"config file path")
	rootCmd.PersistentFlags().StringVarP(&pidFile, "pidfile", "p", "/var/run/strix.pid",
		"PID file path")
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
