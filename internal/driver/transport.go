package driver

import (
	"fmt"

	"firestige.xyz/strix/internal/config"
)

// Transport is one physical substrate of the link. The uart transport
// talks to a real tty; the emulation transport runs the same protocol
// contract over a local socketpair for testing without hardware.
type Transport interface {
	// Fd returns the descriptor the dispatcher multiplexes on.
	Fd() int
	// Bitrate returns the configured line rate in bits per second.
	Bitrate() int
	// OutqDepth reports the number of bytes still pending physical
	// transmission on the link.
	OutqDepth() (int, error)
	Close() error
}

// Open creates the transport described by cfg.
func Open(cfg config.TransportConfig) (Transport, error) {
	switch cfg.Type {
	case config.TransportUART:
		return OpenUART(cfg.Device, cfg.Bitrate, cfg.HardFlow)
	case config.TransportEmul:
		return OpenEmul(cfg.Bitrate)
	default:
		return nil, fmt.Errorf("unsupported transport type %q", cfg.Type)
	}
}
