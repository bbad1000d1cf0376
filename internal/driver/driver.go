// Package driver bridges the co-processor link and the core-facing
// datagram socket. Link bytes are delimited into frames by the
// Synchronizer and forwarded to the core; core messages are written
// back to the link under the Pacer's flow control. A single goroutine
// owns both descriptors and all driver state for the process lifetime.
package driver

import (
	"fmt"

	"golang.org/x/sys/unix"

	"firestige.xyz/strix/internal/log"
)

// Driver owns the link, the driver end of the core socketpair and the
// epoll set multiplexing them. Constructed once by Start, then touched
// only by the dispatch goroutine.
type Driver struct {
	transport Transport
	coreFd    int
	epollFd   int

	sync      *Synchronizer
	pacer     *Pacer
	readBuf   []byte
	egressBuf []byte

	logger log.Logger
	fatalf func(format string, args ...interface{})
	done   chan struct{}
}

// Start wires the driver together and launches the dispatch loop. It
// returns the running driver and the caller-side descriptor of the
// core channel, on which the higher layer sends and receives whole
// frames. Setup failures are returned for the caller to treat as
// fatal; once running there is no error path that is not fatal.
func Start(t Transport) (*Driver, int, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, -1, fmt.Errorf("core socketpair: %w", err)
	}

	epollFd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, -1, fmt.Errorf("epoll create: %w", err)
	}

	// Level-triggered read availability on both sources.
	for _, fd := range []int{t.Fd(), fds[0]} {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err := unix.EpollCtl(epollFd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
			return nil, -1, fmt.Errorf("epoll add fd %d: %w", fd, err)
		}
	}

	logger := log.GetLogger().WithField("component", "driver")
	d := &Driver{
		transport: t,
		coreFd:    fds[0],
		epollFd:   epollFd,
		pacer:     NewPacer(t),
		readBuf:   make([]byte, bufferCapacity),
		egressBuf: make([]byte, bufferCapacity),
		logger:    logger,
		fatalf:    logger.Fatalf,
		done:      make(chan struct{}),
	}
	d.sync = NewSynchronizer(d.pushFrame)

	go d.run()

	logger.Infof("driver started, bitrate %d", t.Bitrate())
	return d, fds[1], nil
}

// Done is closed when the dispatch loop exits. The loop runs for the
// process lifetime and only exits on a fatal condition.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// run is the event dispatcher: a blocking, level-triggered wait on
// exactly two sources, retried on benign interruption. A wake with no
// ready source would violate the infinite-timeout contract and is
// fatal, as is any handler error.
func (d *Driver) run() {
	defer close(d.done)

	events := make([]unix.EpollEvent, 2)
	for {
		n, err := unix.EpollWait(d.epollFd, events, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			d.fatalf("epoll wait: %v", err)
			return
		}
		if n == 0 {
			d.fatalf("epoll woke with no ready source")
			return
		}

		for i := 0; i < n; i++ {
			// Only two sources ever exist; dispatch by descriptor.
			switch int(events[i].Fd) {
			case d.transport.Fd():
				err = d.processLink()
			case d.coreFd:
				err = d.processCore()
			default:
				err = fmt.Errorf("epoll event on unexpected fd %d", events[i].Fd)
			}
			if err != nil {
				d.fatalf("%v", err)
				return
			}
		}
	}
}

// processLink drains the readable link into the synchronizer, sizing
// the read so the accumulation buffer cannot overflow.
func (d *Driver) processLink() error {
	avail, err := unix.IoctlGetInt(d.transport.Fd(), unix.TIOCINQ)
	if err != nil {
		return fmt.Errorf("link FIONREAD: %w", err)
	}
	if avail == 0 {
		// The wait only wakes us for readable data.
		return fmt.Errorf("link reported readable with zero bytes available")
	}

	if free := d.sync.Free(); avail > free {
		avail = free
	}

	n, err := unix.Read(d.transport.Fd(), d.readBuf[:avail])
	if err != nil {
		return fmt.Errorf("link read: %w", err)
	}
	if d.logger.IsTraceEnabled() {
		d.logger.Tracef("received %d byte chunk from link", n)
	}
	return d.sync.Feed(d.readBuf[:n])
}

// processCore forwards one core message to the link: wait out the
// transmit queue and the idle gap, then one full ordered write. The
// message is already a whole frame; no re-framing happens here.
func (d *Driver) processCore() error {
	n, err := unix.Read(d.coreFd, d.egressBuf)
	if err != nil {
		return fmt.Errorf("core read: %w", err)
	}

	if err := d.pacer.WaitDrained(); err != nil {
		return err
	}

	wn, err := unix.Write(d.transport.Fd(), d.egressBuf[:n])
	if err != nil {
		return fmt.Errorf("link write: %w", err)
	}
	if wn != n {
		return fmt.Errorf("short write to link: %d of %d bytes", wn, n)
	}
	d.logger.Debugf("flushed %d byte frame to link", n)
	return nil
}

// pushFrame hands one delimited frame to the core as a single
// datagram. The kernel copies the bytes, so the synchronizer may
// compact its buffer as soon as this returns.
func (d *Driver) pushFrame(frame []byte) error {
	n, err := unix.Write(d.coreFd, frame)
	if err != nil {
		return fmt.Errorf("core write: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("short write to core: %d of %d bytes", n, len(frame))
	}
	d.logger.Debugf("pushed %d byte frame to core", n)
	return nil
}
