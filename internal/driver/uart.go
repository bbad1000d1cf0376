package driver

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// bitrates maps the supported line rates to their termios symbols.
// Any rate outside this set is a configuration error.
var bitrates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
	460800: unix.B460800,
	921600: unix.B921600,
}

// UART is the tty-backed transport.
type UART struct {
	fd      int
	bitrate int
}

// OpenUART opens and configures the serial device: raw mode, 8N1, the
// requested bitrate and optional RTS/CTS hardware flow control. Stale
// bytes buffered by the driver are discarded on open.
func OpenUART(device string, bitrate int, hardflow bool) (*UART, error) {
	sym, ok := bitrates[bitrate]
	if !ok {
		return nil, fmt.Errorf("unsupported bitrate %d", bitrate)
	}

	fd, err := unix.Open(device, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("tcgetattr %s: %w", device, err)
	}

	// Raw mode, no software flow control, line stays asserted on close.
	tio.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	tio.Oflag &^= unix.OPOST
	tio.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	tio.Cflag &^= unix.CSIZE | unix.PARENB | unix.HUPCL
	tio.Cflag |= unix.CS8 | unix.CLOCAL
	if hardflow {
		tio.Cflag |= unix.CRTSCTS
	} else {
		tio.Cflag &^= unix.CRTSCTS
	}

	// Blocking read of at least one byte, no interbyte timer.
	tio.Cc[unix.VMIN] = 1
	tio.Cc[unix.VTIME] = 0

	tio.Cflag &^= unix.CBAUD
	tio.Cflag |= sym
	tio.Ispeed = sym
	tio.Ospeed = sym

	// TCSETSF applies the attributes and discards pending input, the
	// tcsetattr(TCSAFLUSH) behavior.
	if err := unix.IoctlSetTermios(fd, unix.TCSETSF, tio); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("tcsetattr %s: %w", device, err)
	}
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("tcflush %s: %w", device, err)
	}

	return &UART{fd: fd, bitrate: bitrate}, nil
}

func (u *UART) Fd() int {
	return u.fd
}

func (u *UART) Bitrate() int {
	return u.bitrate
}

// OutqDepth reads the kernel transmit queue depth for the tty.
func (u *UART) OutqDepth() (int, error) {
	return unix.IoctlGetInt(u.fd, unix.TIOCOUTQ)
}

func (u *UART) Close() error {
	return unix.Close(u.fd)
}
