package driver

import (
	"fmt"

	"firestige.xyz/strix/internal/hdlc"
)

// bufferCapacity sizes the accumulation buffer so one maximal frame
// always fits. This is a static protocol constant, never grown at
// runtime.
const bufferCapacity = hdlc.MaxPayloadSize + hdlc.HeaderSize

type syncState int

const (
	// seekingHeader: the buffer start is not known to be aligned with
	// a frame header; scan for one.
	seekingHeader syncState = iota
	// seekingPayload: the buffer starts with a validated header; wait
	// for the announced payload to arrive in full.
	seekingPayload
)

// Synchronizer turns the arbitrarily-chunked, possibly-corrupted link
// byte stream into delimited frames. State persists across Feed calls
// so data may arrive at any granularity. Unconsumed bytes always sit
// at offset 0 of the accumulation buffer.
type Synchronizer struct {
	buf   []byte
	head  int
	state syncState
	emit  func(frame []byte) error
}

// NewSynchronizer creates a synchronizer pushing delimited frames into
// emit. The frame slice passed to emit is only valid for the duration
// of the call.
func NewSynchronizer(emit func(frame []byte) error) *Synchronizer {
	return &Synchronizer{
		buf:   make([]byte, bufferCapacity),
		state: seekingHeader,
		emit:  emit,
	}
}

// Free returns the remaining buffer capacity. Callers must size reads
// so Feed never receives more than this.
func (s *Synchronizer) Free() int {
	return len(s.buf) - s.head
}

// Buffered returns the bytes currently retained, aliasing the internal
// buffer.
func (s *Synchronizer) Buffered() []byte {
	return s.buf[:s.head]
}

// Feed appends data and delimits as many complete frames as the buffer
// now holds, emitting each in arrival order. Overfilling the buffer is
// a contract violation by the caller, not a recoverable condition.
func (s *Synchronizer) Feed(data []byte) error {
	if len(data) > s.Free() {
		return fmt.Errorf("accumulation buffer overflow: %d bytes fed, %d free", len(data), s.Free())
	}
	copy(s.buf[s.head:], data)
	s.head += len(data)

	for {
		switch s.state {
		case seekingHeader:
			if !s.resyncHeader() {
				// All buffered data scanned without finding a header,
				// wait for more bytes.
				return nil
			}
			s.state = seekingPayload

		case seekingPayload:
			emitted, err := s.delimitFrame()
			if err != nil {
				return err
			}
			if !emitted {
				// Not yet a full frame, wait for more bytes.
				return nil
			}
			// A frame went out; a second one may already be buffered.
			s.state = seekingHeader
		}
	}
}

// resyncHeader aligns the buffer start with a valid frame header by
// sliding a header-sized window over the buffered bytes and dropping
// everything in front of the first offset that validates. When no
// offset validates, only the longest suffix that could still become a
// header once more bytes arrive is kept, which bounds the buffer under
// a stream of pure noise.
func (s *Synchronizer) resyncHeader() bool {
	if s.head < hdlc.HeaderSize {
		return false
	}

	candidates := s.head - hdlc.HeaderSize + 1
	for i := 0; i < candidates; i++ {
		if hdlc.ValidateHeader(s.buf[i : i+hdlc.HeaderSize]) {
			if i > 0 {
				copy(s.buf, s.buf[i:s.head])
				s.head -= i
			}
			return true
		}
	}

	copy(s.buf, s.buf[candidates:s.head])
	s.head = hdlc.HeaderSize - 1
	return false
}

// delimitFrame emits the frame starting at offset 0 once all its bytes
// are buffered, then compacts the remainder to the buffer start. The
// buffer must be header-aligned when the state machine enters
// seekingPayload.
func (s *Synchronizer) delimitFrame() (bool, error) {
	if s.head < hdlc.HeaderSize {
		return false, nil
	}

	frameSize := hdlc.HeaderSize + int(hdlc.PayloadLength(s.buf))
	if frameSize > s.head {
		return false, nil
	}

	if err := s.emit(s.buf[:frameSize]); err != nil {
		return false, err
	}

	copy(s.buf, s.buf[frameSize:s.head])
	s.head -= frameSize
	return true, nil
}
