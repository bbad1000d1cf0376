package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// recvFd reads one message from fd, failing the test if nothing
// arrives within two seconds.
func recvFd(t *testing.T, fd int, buf []byte) int {
	t.Helper()
	for {
		pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(pfds, 2000)
		if err == unix.EINTR {
			continue
		}
		require.NoError(t, err)
		require.Equal(t, 1, n, "timed out waiting for data on fd %d", fd)
		break
	}
	n, err := unix.Read(fd, buf)
	require.NoError(t, err)
	return n
}

func TestBridgeEndToEnd(t *testing.T) {
	e, err := OpenEmul(115200)
	require.NoError(t, err)
	defer e.Close()

	_, coreFd, err := Start(e)
	require.NoError(t, err)
	defer unix.Close(coreFd)

	// Garbage followed by a complete frame announcing a 2-byte payload:
	// exactly one 6-byte frame must reach the core, garbage-free.
	frame := buildFrame([]byte{0xCA, 0xFE})
	garbage := []byte{0x01, 0x02, 0x03}
	_, err = unix.Write(e.PeerFd(), append(append([]byte(nil), garbage...), frame...))
	require.NoError(t, err)

	buf := make([]byte, bufferCapacity)
	n := recvFd(t, coreFd, buf)
	require.Equal(t, len(frame), n)
	assert.Equal(t, frame, buf[:n])
}

func TestBridgeSplitsBatchedFramesIntoDatagrams(t *testing.T) {
	e, err := OpenEmul(115200)
	require.NoError(t, err)
	defer e.Close()

	_, coreFd, err := Start(e)
	require.NoError(t, err)
	defer unix.Close(coreFd)

	first := buildFrame([]byte{0x01, 0x02})
	second := buildFrame([]byte{0x03})
	_, err = unix.Write(e.PeerFd(), append(append([]byte(nil), first...), second...))
	require.NoError(t, err)

	buf := make([]byte, bufferCapacity)
	n := recvFd(t, coreFd, buf)
	assert.Equal(t, first, buf[:n])
	n = recvFd(t, coreFd, buf)
	assert.Equal(t, second, buf[:n])
}

func TestBridgeEgressReachesLink(t *testing.T) {
	e, err := OpenEmul(115200)
	require.NoError(t, err)
	defer e.Close()

	_, coreFd, err := Start(e)
	require.NoError(t, err)
	defer unix.Close(coreFd)

	out := buildFrame([]byte{0x10, 0x20, 0x30})
	_, err = unix.Write(coreFd, out)
	require.NoError(t, err)

	buf := make([]byte, bufferCapacity)
	n := recvFd(t, e.PeerFd(), buf)
	assert.Equal(t, out, buf[:n])
}

func TestOpenUARTRejectsUnsupportedBitrate(t *testing.T) {
	_, err := OpenUART("/dev/null", 12345, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported bitrate")
}

func TestEmulQueueDepthIsAlwaysZero(t *testing.T) {
	e, err := OpenEmul(9600)
	require.NoError(t, err)
	defer e.Close()

	depth, err := e.OutqDepth()
	require.NoError(t, err)
	assert.Zero(t, depth)
}
