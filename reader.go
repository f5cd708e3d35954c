package serial

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// DefaultGrowthStep is how much the response buffer grows each time it fills up.
const DefaultGrowthStep = 64 * 1024

// Device is the part of a port the response collector needs.
type Device interface {
	WaitReadable(timeout time.Duration) (bool, error)
	Read(buf []byte) (int, error)
}

// Logger receives diagnostic lines. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// CollectConfig controls a single response collection session.
type CollectConfig struct {
	// Quiescence is the longest silence tolerated before the peer is
	// considered done. It applies to every wait on its own, so a peer that
	// keeps talking with shorter gaps keeps the session open.
	Quiescence time.Duration

	// GrowthStep defaults to DefaultGrowthStep when zero.
	GrowthStep int

	// Logger is optional.
	Logger Logger
}

func (c CollectConfig) growthStep() int {
	if c.GrowthStep <= 0 {
		return DefaultGrowthStep
	}
	return c.GrowthStep
}

func (c CollectConfig) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// Collect reads from dev until a full quiescence window passes without the
// device becoming readable, and returns everything read.
//
// A failing wait returns an error wrapping ErrWait and a failing read one
// wrapping ErrRead. In both cases the bytes gathered so far are dropped.
// A read of zero bytes after readiness does not end the session. ctx is
// checked before every wait.
func Collect(ctx context.Context, dev Device, cfg CollectConfig) ([]byte, error) {
	if cfg.Quiescence < 0 {
		return nil, fmt.Errorf("%w: negative quiescence %v", ErrInvalidConfig, cfg.Quiescence)
	}
	step := cfg.growthStep()

	var buf []byte
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ready, err := dev.WaitReadable(cfg.Quiescence)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWait, err)
		}
		if !ready {
			return buf, nil
		}

		if len(buf) == cap(buf) {
			buf = slices.Grow(buf, step)
			cfg.logf("Realloc buffer to %d bytes", cap(buf))
		}

		n, err := dev.Read(buf[len(buf):cap(buf)])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		buf = buf[:len(buf)+n]
		cfg.logf("Read %d bytes (%d total)", n, len(buf))
	}
}
