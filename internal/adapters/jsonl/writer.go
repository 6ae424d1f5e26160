package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	perr "vortex/internal/platform/errors"
	"vortex/internal/services/triage/domain"
)

// Writer encodes values as JSON lines. Safe for concurrent use
type Writer struct {
	mu sync.Mutex
	w  *bufio.Writer
	c  io.Closer
	n  int
}

// NewWriter wraps w. If w is an io.Closer, Close closes it
func NewWriter(w io.Writer) *Writer {
	out := &Writer{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		out.c = c
	}
	return out
}

// Create truncates or creates path; "-" or "" writes to stdout
func Create(path string) (*Writer, error) {
	if path == "" || path == "-" {
		return &Writer{w: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfig, "jsonl: create output"), "output")
	}
	return NewWriter(f), nil
}

// Write encodes v on its own line
func (w *Writer) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "jsonl: encode")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(b); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "jsonl: write")
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "jsonl: write")
	}
	w.n++
	return nil
}

// Quarantine implements domain.QuarantinePort by appending the result
func (w *Writer) Quarantine(ctx context.Context, r domain.Result) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeCanceled, "jsonl: quarantine canceled")
	}
	return w.Write(r)
}

// Count returns the number of lines written
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Flush writes buffered lines through
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.w.Flush(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "jsonl: flush")
	}
	return nil
}

// Close flushes and closes the destination
func (w *Writer) Close() error {
	ferr := w.Flush()
	if w.c != nil {
		if err := w.c.Close(); err != nil && ferr == nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "jsonl: close")
		}
	}
	return ferr
}

var _ domain.QuarantinePort = (*Writer)(nil)
