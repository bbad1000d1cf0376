package driver

import (
	"fmt"
	"time"
)

// idleGapBytes is the line-idle period enforced after each outbound
// frame, in byte-times. The receiving side relies on observing an idle
// line between frames for its own resynchronization, so the gap is a
// protocol requirement rather than a pacing optimization.
const idleGapBytes = 20

// Pacer throttles egress so the physical transmit queue is never
// overrun. The link offers no backpressure signal beyond its queue
// depth, hence the poll-and-sleep loop.
type Pacer struct {
	bitrate int
	outq    func() (int, error)
	sleep   func(time.Duration)
}

func NewPacer(t Transport) *Pacer {
	return &Pacer{
		bitrate: t.Bitrate(),
		outq:    t.OutqDepth,
		sleep:   time.Sleep,
	}
}

// byteTime converts a byte count into its transmission time at the
// configured bitrate.
func (p *Pacer) byteTime(n int) time.Duration {
	return time.Duration(float64(n*8) / float64(p.bitrate) * float64(time.Second))
}

// WaitDrained blocks until the transmit queue is empirically empty,
// sleeping the computed drain time between polls, then enforces the
// trailing idle gap. No write may start before this returns.
func (p *Pacer) WaitDrained() error {
	pending, err := p.outq()
	if err != nil {
		return fmt.Errorf("link outq: %w", err)
	}
	for pending != 0 {
		p.sleep(p.byteTime(pending))
		if pending, err = p.outq(); err != nil {
			return fmt.Errorf("link outq: %w", err)
		}
	}
	p.sleep(p.byteTime(idleGapBytes))
	return nil
}
