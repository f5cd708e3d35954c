package serial

import "strings"

// DefaultPortPrefix is prepended to bare port names such as "USB0".
const DefaultPortPrefix = "/dev/tty"

// Config holds the configuration for a serial port
type Config struct {
	BaudRate int // 0 keeps the speed the device is already set to
	DataBits int
	StopBits int
	Parity   Parity
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns the raw 8N1 configuration without touching the line speed
func DefaultConfig() Config {
	return Config{
		BaudRate: 0,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
	}
}

// WithBaudRate sets the baud rate. A rate of 0 leaves the current speed in place.
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate == 0 {
			c.BaudRate = 0
			return nil
		}
		if _, err := getBaudRate(rate); err != nil {
			return err
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if parity < ParityNone || parity > ParityEven {
			return ErrInvalidConfig
		}
		c.Parity = parity
		return nil
	}
}

// ResolvePortPath turns a port name into a device path. Absolute paths are
// returned unchanged, anything else gets prefix prepended.
func ResolvePortPath(name, prefix string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return prefix + name
}
