package serial

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// openPTY opens the slave side of a fresh pseudo-terminal as a Port and
// returns the master, which plays the peer device.
func openPTY(t *testing.T, opts ...Option) (*os.File, Port) {
	t.Helper()

	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	p, err := Open(slave.Name(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	return master, p
}

func TestOpenAppliesRawMode(t *testing.T) {
	_, p := openPTY(t)

	termios, err := unix.IoctlGetTermios(p.(*port).fd, unix.TCGETS)
	require.NoError(t, err)

	assert.Equal(t, uint32(unix.CS8), termios.Cflag&unix.CSIZE)
	assert.Zero(t, termios.Cflag&(unix.PARENB|unix.CSTOPB|unix.CRTSCTS))
	assert.NotZero(t, termios.Cflag&unix.CLOCAL)
	assert.NotZero(t, termios.Cflag&unix.CREAD)
	assert.Zero(t, termios.Lflag&(unix.ICANON|unix.ECHO|unix.ECHOE|unix.ECHONL|unix.ISIG))
	assert.Zero(t, termios.Iflag&(unix.IXON|unix.IXOFF|unix.IXANY|unix.ICRNL|unix.INLCR|unix.IGNCR))
	assert.Zero(t, termios.Oflag&(unix.OPOST|unix.ONLCR))
	assert.Equal(t, uint8(1), termios.Cc[unix.VMIN])
	assert.Equal(t, uint8(0), termios.Cc[unix.VTIME])

	flags, err := unix.FcntlInt(uintptr(p.(*port).fd), unix.F_GETFL, 0)
	require.NoError(t, err)
	assert.Zero(t, flags&unix.O_NONBLOCK, "port left in non-blocking mode")
}

func TestOpenWithBaudRate(t *testing.T) {
	_, p := openPTY(t, WithBaudRate(9600))

	termios, err := unix.IoctlGetTermios(p.(*port).fd, unix.TCGETS)
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.B9600), termios.Cflag&unix.CBAUD)
}

func TestOpenInvalidOption(t *testing.T) {
	_, err := Open("/dev/null", WithBaudRate(12345))
	assert.Equal(t, ErrInvalidBaudRate, err)
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpen))
	assert.True(t, errors.Is(err, ErrDeviceNotFound))
	assert.Contains(t, err.Error(), "/dev/nonexistent")
}

func TestOpenNotATerminal(t *testing.T) {
	_, err := Open("/dev/null")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigure), "got %v", err)
	assert.False(t, errors.Is(err, ErrOpen))
}

func TestWriteReachesPeer(t *testing.T) {
	master, p := openPTY(t)

	payload := []byte{0x00, 0xAB, '\n', 0xC8, 0xDF}
	n, err := p.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	buf := make([]byte, len(payload))
	_, err = io.ReadFull(master, buf)
	require.NoError(t, err)
	assert.Equal(t, payload, buf, "output was post-processed")
}

func TestWaitReadableTimesOut(t *testing.T) {
	_, p := openPTY(t)

	start := time.Now()
	ready, err := p.WaitReadable(30 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestWaitReadableSeesInput(t *testing.T) {
	master, p := openPTY(t)

	_, err := master.Write([]byte{0x42})
	require.NoError(t, err)

	ready, err := p.WaitReadable(time.Second)
	require.NoError(t, err)
	assert.True(t, ready)

	buf := make([]byte, 8)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42}, buf[:n])
}

func TestCollectFromPTY(t *testing.T) {
	master, p := openPTY(t)

	// Control characters must come through untouched in raw mode
	bursts := [][]byte{
		{0x01, 0x03, 0x02},
		{'\r', '\n', 0x11, 0x13},
		{0x7F, 0x00, 0xFF},
	}
	go func() {
		for _, b := range bursts {
			master.Write(b)
			time.Sleep(20 * time.Millisecond)
		}
	}()

	got, err := Collect(context.Background(), p, CollectConfig{Quiescence: 300 * time.Millisecond})
	require.NoError(t, err)

	var want []byte
	for _, b := range bursts {
		want = append(want, b...)
	}
	assert.Equal(t, want, got)
}

func TestExchangeWithPTY(t *testing.T) {
	master, p := openPTY(t)

	go func() {
		req := make([]byte, 4)
		if _, err := io.ReadFull(master, req); err != nil {
			return
		}
		// Echo the request back reversed
		master.Write([]byte{req[3], req[2], req[1], req[0]})
	}()

	res, err := Exchange(context.Background(), p, []byte{0x00, 0xAB, 0xC8, 0xDF}, CollectConfig{
		Quiescence: 300 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Written)
	assert.Equal(t, "DFC8AB00", EncodeHex(res.Response))
}

func TestCollectAfterPeerCloses(t *testing.T) {
	master, p := openPTY(t)
	require.NoError(t, master.Close())

	_, err := Collect(context.Background(), p, CollectConfig{Quiescence: 100 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRead) || errors.Is(err, ErrWait), "got %v", err)
}

func TestFlushInput(t *testing.T) {
	master, p := openPTY(t)

	_, err := master.Write([]byte("stale"))
	require.NoError(t, err)

	ready, err := p.WaitReadable(time.Second)
	require.NoError(t, err)
	require.True(t, ready)

	require.NoError(t, p.FlushInput())

	ready, err = p.WaitReadable(20 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestClosedPort(t *testing.T) {
	_, p := openPTY(t)

	require.NoError(t, p.Close())
	assert.Equal(t, ErrPortClosed, p.Close())

	_, err := p.Read(make([]byte, 1))
	assert.Equal(t, ErrPortClosed, err)
	_, err = p.Write([]byte{1})
	assert.Equal(t, ErrPortClosed, err)
	_, err = p.WaitReadable(time.Millisecond)
	assert.Equal(t, ErrPortClosed, err)
	assert.Equal(t, ErrPortClosed, p.FlushInput())
}

func TestPollMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Nanosecond, 1},
		{time.Millisecond, 1},
		{1500 * time.Microsecond, 2},
		{250 * time.Millisecond, 250},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pollMillis(tt.in), "pollMillis(%v)", tt.in)
	}
}
