package driver

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Emul is the emulation transport: the uart protocol contract carried
// over a local stream socketpair instead of a physical line. The peer
// end stands in for the co-processor.
type Emul struct {
	fd      int
	peerFd  int
	bitrate int
}

// OpenEmul creates an emulated link running at a nominal bitrate.
func OpenEmul(bitrate int) (*Emul, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("emul socketpair: %w", err)
	}
	return &Emul{fd: fds[0], peerFd: fds[1], bitrate: bitrate}, nil
}

func (e *Emul) Fd() int {
	return e.fd
}

// PeerFd is the co-processor side of the emulated link. Raw frame
// bytes written there arrive on the driver as if from the wire.
func (e *Emul) PeerFd() int {
	return e.peerFd
}

func (e *Emul) Bitrate() int {
	return e.bitrate
}

// OutqDepth is always zero: a socketpair has no transmit queue to
// overrun, so egress pacing reduces to the idle gap.
func (e *Emul) OutqDepth() (int, error) {
	return 0, nil
}

func (e *Emul) Close() error {
	unix.Close(e.peerFd)
	return unix.Close(e.fd)
}
