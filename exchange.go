package serial

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Result is the outcome of one request/response exchange.
type Result struct {
	Written  int
	Response []byte
}

// Send writes payload with a single Write call. A short write is reported
// through the returned count, never retried.
func Send(w io.Writer, payload []byte) (int, error) {
	n, err := w.Write(payload)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return n, nil
}

// Exchange sends payload to port and collects the response.
func Exchange(ctx context.Context, port Port, payload []byte, cfg CollectConfig) (Result, error) {
	var res Result

	Mark(cfg.Logger, "Write start")
	n, err := Send(port, payload)
	Mark(cfg.Logger, "Write finish")
	if err != nil {
		return res, err
	}
	res.Written = n
	cfg.logf("Successfully wrote %d byte(s)", n)

	Mark(cfg.Logger, "Read start")
	resp, err := Collect(ctx, port, cfg)
	if err != nil {
		return res, err
	}
	cfg.logf("Successfully read %d byte(s)", len(resp))
	Mark(cfg.Logger, "Read finish")

	res.Response = resp
	return res, nil
}

// Mark logs label with the current wall clock time split into seconds and
// milliseconds. A nil logger makes it a no-op.
func Mark(l Logger, label string) {
	if l == nil {
		return
	}
	ms := time.Now().UnixMilli()
	l.Printf("%s: %d s %d ms", label, ms/1000, ms%1000)
}
