package ui

import (
	"fmt"
	"strings"
	"time"
)

// Direction tells which way a frame travelled on the line.
type Direction int

const (
	TX Direction = iota
	RX
)

// DisplayMode selects the renderings included in a formatted frame.
type DisplayMode struct {
	ShowHex   bool
	ShowASCII bool
}

// FrameFormatter renders written and received frames for debug output.
type FrameFormatter struct {
	mode DisplayMode
}

func NewFrameFormatter(showHex, showASCII bool) *FrameFormatter {
	return &FrameFormatter{
		mode: DisplayMode{
			ShowHex:   showHex,
			ShowASCII: showASCII,
		},
	}
}

func (f *FrameFormatter) Mode() DisplayMode {
	return f.mode
}

// Format renders one frame as "[15:04:05.000] ↗ TX: HEX: .. ASCII: ..".
func (f *FrameFormatter) Format(dir Direction, ts time.Time, data []byte) string {
	var indicator string
	if dir == TX {
		indicator = TXStyle.Render("↗ TX")
	} else {
		indicator = RXStyle.Render("↙ RX")
	}

	var parts []string
	if f.mode.ShowHex {
		parts = append(parts, fmt.Sprintf("HEX: % X", data))
	}
	if f.mode.ShowASCII {
		parts = append(parts, "ASCII: "+Printable(data))
	}
	if !f.mode.ShowHex && !f.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(data)))
	}

	stamp := TimestampStyle.Render("[" + ts.Format("15:04:05.000") + "]")
	return fmt.Sprintf("%s %s: %s", stamp, indicator, strings.Join(parts, "  "))
}

// Printable maps every byte outside printable ASCII to '.'
func Printable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
