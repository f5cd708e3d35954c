package serial

import "errors"

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrPortClosed       = errors.New("serial port is closed")

	// Session failure kinds. Every error returned from Open, Send, Collect
	// and Exchange wraps exactly one of these.
	ErrOpen      = errors.New("cannot open serial device")
	ErrConfigure = errors.New("cannot configure serial device")
	ErrWrite     = errors.New("write failed")
	ErrWait      = errors.New("wait for readiness failed")
	ErrRead      = errors.New("read failed")

	// ErrHangup is reported by WaitReadable when the peer hung up and no
	// input is pending.
	ErrHangup = errors.New("serial line hung up")

	// Payload errors
	ErrInvalidHexInput = errors.New("invalid hex input")
	ErrUnknownChecksum = errors.New("unknown checksum algorithm")
)
