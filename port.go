package serial

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Port represents an opened and configured serial device
type Port interface {
	Close() error
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)

	// WaitReadable blocks until input is pending or timeout elapses. It
	// reports false with a nil error when the timeout elapsed first.
	WaitReadable(timeout time.Duration) (bool, error)

	FlushInput() error
	Path() string
}

// port is the concrete implementation of the Port interface
type port struct {
	mu     sync.RWMutex
	fd     int
	path   string
	config Config
	closed bool
}

// Ensure port implements Port and Device at compile time
var (
	_ Port   = (*port)(nil)
	_ Device = (*port)(nil)
)

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	switch rate {
	case 50:
		return unix.B50, nil
	case 75:
		return unix.B75, nil
	case 110:
		return unix.B110, nil
	case 134:
		return unix.B134, nil
	case 150:
		return unix.B150, nil
	case 200:
		return unix.B200, nil
	case 300:
		return unix.B300, nil
	case 600:
		return unix.B600, nil
	case 1200:
		return unix.B1200, nil
	case 1800:
		return unix.B1800, nil
	case 2400:
		return unix.B2400, nil
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 500000:
		return unix.B500000, nil
	case 576000:
		return unix.B576000, nil
	case 921600:
		return unix.B921600, nil
	case 1000000:
		return unix.B1000000, nil
	case 1152000:
		return unix.B1152000, nil
	case 1500000:
		return unix.B1500000, nil
	case 2000000:
		return unix.B2000000, nil
	case 2500000:
		return unix.B2500000, nil
	case 3000000:
		return unix.B3000000, nil
	case 3500000:
		return unix.B3500000, nil
	case 4000000:
		return unix.B4000000, nil
	default:
		return 0, ErrInvalidBaudRate
	}
}

// Open opens a serial port with the given device path and options.
//
// The device is put into raw mode: 8N1 by default, no hardware or software
// flow control, no echo, no line editing and no output post-processing.
// Failures wrap ErrOpen or ErrConfigure.
func Open(device string, opts ...Option) (Port, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	// O_NONBLOCK keeps open from waiting on carrier detect before CLOCAL is set
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, openError(device, err)
	}

	if err := configurePort(fd, config); err != nil {
		unix.Close(fd)
		return nil, err
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: clear O_NONBLOCK: %w", ErrConfigure, err)
	}

	return &port{
		fd:     fd,
		path:   device,
		config: config,
	}, nil
}

// openError classifies the errno from open(2) while keeping its text
func openError(device string, err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%w: %w: %s: %v", ErrOpen, ErrDeviceNotFound, device, err)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: %w: %s: %v", ErrOpen, ErrPermissionDenied, device, err)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %w: %s: %v", ErrOpen, ErrDeviceInUse, device, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrOpen, device, err)
	}
}

// configurePort applies the raw-mode termios settings
func configurePort(fd int, config Config) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("%w: get termios: %w", ErrConfigure, err)
	}

	applyRawMode(termios, config)

	if config.BaudRate != 0 {
		baudRate, err := getBaudRate(config.BaudRate)
		if err != nil {
			return err
		}
		termios.Cflag = (termios.Cflag &^ unix.CBAUD) | baudRate
		termios.Ispeed = baudRate
		termios.Ospeed = baudRate
	}

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("%w: set termios: %w", ErrConfigure, err)
	}
	return nil
}

// applyRawMode rewrites the mode flags in place. Speed bits are left alone.
func applyRawMode(termios *unix.Termios, config Config) {
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CRTSCTS
	termios.Cflag |= unix.CREAD | unix.CLOCAL

	switch config.DataBits {
	case 5:
		termios.Cflag |= unix.CS5
	case 6:
		termios.Cflag |= unix.CS6
	case 7:
		termios.Cflag |= unix.CS7
	default:
		termios.Cflag |= unix.CS8
	}

	if config.StopBits == 2 {
		termios.Cflag |= unix.CSTOPB
	}

	switch config.Parity {
	case ParityOdd:
		termios.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		termios.Cflag |= unix.PARENB
	}

	termios.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY |
		unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL
	termios.Oflag &^= unix.OPOST | unix.ONLCR
	termios.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ECHONL | unix.ISIG | unix.IEXTEN

	// Readiness comes from poll, so a read returns whatever is pending
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
}

// Close closes the serial port
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}

	err := unix.Close(p.fd)
	p.closed = true
	return err
}

// Read reads whatever is pending on the serial port
func (p *port) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	for {
		n, err := unix.Read(p.fd, buf)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// Write performs a single write to the serial port. A short write is
// returned as is.
func (p *port) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	for {
		n, err := unix.Write(p.fd, data)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// WaitReadable polls the port for input for at most timeout
func (p *port) WaitReadable(timeout time.Duration) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false, ErrPortClosed
	}

	return pollReadable(p.fd, timeout)
}

// pollReadable waits for POLLIN on fd. An interrupted poll is restarted
// with whatever is left of timeout.
func pollReadable(fd int, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		fds[0].Revents = 0
		n, err := unix.Poll(fds, pollMillis(time.Until(deadline)))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("poll: %w", err)
		}
		if n == 0 {
			return false, nil
		}

		revents := fds[0].Revents
		switch {
		case revents&unix.POLLIN != 0:
			return true, nil
		case revents&unix.POLLNVAL != 0:
			return false, fmt.Errorf("poll: %w", unix.EBADF)
		case revents&unix.POLLERR != 0:
			return false, fmt.Errorf("poll: %w", unix.EIO)
		case revents&unix.POLLHUP != 0:
			return false, ErrHangup
		}
	}
}

// pollMillis rounds d up to whole milliseconds
func pollMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Millisecond - 1) / time.Millisecond)
}

// FlushInput discards any unread input data
func (p *port) FlushInput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}

// Path returns the device path the port was opened with
func (p *port) Path() string {
	return p.path
}
