package jsonl

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"strings"

	perr "vortex/internal/platform/errors"
	"vortex/internal/platform/logger"
	"vortex/internal/platform/validate"
	"vortex/internal/services/triage/domain"
)

const (
	maxLineSize   = 4 * 1024 * 1024
	sampleRawMax  = 512 // max bytes of the raw sample line to log
	initialBuffer = 64 * 1024
)

// Line is one decoded input line. Err is set when the line was rejected
// and Ticket is then zero
type Line struct {
	No     int
	Ticket domain.Ticket
	Err    error
}

// Reader streams tickets from a JSON lines source
type Reader struct {
	r       io.Reader
	c       io.Closer
	gz      *gzip.Reader
	sc      *bufio.Scanner
	locale  string
	err     error
	lines   int
	tickets int
	sampled bool // logs exactly one sample raw line per source
}

// NewReader wraps r. locale selects the language of validation messages
func NewReader(r io.Reader, gzipped bool, locale string) (*Reader, error) {
	rd := &Reader{r: r, locale: locale}
	if c, ok := r.(io.Closer); ok {
		rd.c = c
	}
	src := r
	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			if rd.c != nil {
				_ = rd.c.Close()
			}
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "jsonl: open gzip")
		}
		rd.gz = gz
		src = gz
	}
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, initialBuffer), maxLineSize)
	rd.sc = sc
	return rd, nil
}

// Open opens path, or stdin for "-" or ""
func Open(path, locale string) (*Reader, error) {
	if path == "" || path == "-" {
		return NewReader(io.NopCloser(os.Stdin), false, locale)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfig, "jsonl: open input"), "input")
	}
	return NewReader(f, strings.HasSuffix(path, ".gz"), locale)
}

// Next returns the next non-blank line; io.EOF when done. A malformed line is
// returned with Err set so the caller can record it and keep going
func (rd *Reader) Next() (Line, error) {
	if rd.err != nil {
		return Line{}, rd.err
	}
	for {
		if !rd.sc.Scan() {
			if err := rd.sc.Err(); err != nil {
				rd.err = perr.Wrap(err, perr.ErrorCodeJSON, "jsonl: read")
				return Line{}, rd.err
			}
			rd.err = io.EOF
			return Line{}, io.EOF
		}
		rd.lines++
		raw := bytes.TrimSpace(rd.sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		if !rd.sampled {
			rd.sampled = true
			logger.Named("jsonl").Debug().
				Int("line_bytes", len(raw)).
				Str("sample_raw", truncateUTF8(raw, sampleRawMax)).
				Msg("jsonl: sample raw line")
		}

		t, err := validate.ParseJSONLine[domain.Ticket](raw, rd.locale)
		if err != nil {
			return Line{No: rd.lines, Err: perr.WithOp(err, "jsonl.Next")}, nil
		}
		rd.tickets++
		return Line{No: rd.lines, Ticket: t}, nil
	}
}

// ReadAll drains the reader
func (rd *Reader) ReadAll() ([]Line, error) {
	var out []Line
	for {
		ln, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, ln)
	}
}

// Close closes the gzip stream and the underlying source
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = err
		}
	}
	if rd.c != nil {
		if err := rd.c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats returns lines scanned and tickets decoded so far
func (rd *Reader) Stats() (lines, tickets int) {
	return rd.lines, rd.tickets
}

// truncateUTF8 cuts b to at most max bytes on a rune boundary, appending an ellipsis
func truncateUTF8(b []byte, max int) string {
	if max <= 0 || len(b) <= max {
		return string(b)
	}
	i := max
	for i > 0 && (b[i]&0xC0) == 0x80 {
		i--
	}
	if i <= 0 {
		i = max
	}
	return string(b[:i]) + "..."
}
