// Package boot wires configuration, logging and the driver together
// and holds the process open for the driver's lifetime.
package boot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/driver"
	"firestige.xyz/strix/internal/log"
)

// Start runs the bridge until SIGINT/SIGTERM. The core endpoint
// descriptor returned by the driver stays open here; a higher layer
// embedding this process attaches to it to exchange frames.
func Start(cfg *config.Config) error {
	log.Init(cfg.Logger)
	logger := log.GetLogger()

	t, err := driver.Open(cfg.Transport)
	if err != nil {
		return fmt.Errorf("open transport: %w", err)
	}

	d, coreFd, err := driver.Start(t)
	if err != nil {
		t.Close()
		return fmt.Errorf("start driver: %w", err)
	}

	logger.Infof("bridge running on %s transport, core endpoint fd %d",
		cfg.Transport.Type, coreFd)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infof("received %s, exiting", sig)
		return nil
	case <-d.Done():
		// The dispatch loop never returns on its own.
		return fmt.Errorf("driver loop exited unexpectedly")
	}
}
