package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rzbill/nexmark/internal/binfmt"
	"github.com/rzbill/nexmark/internal/event"
)

// Format names an output encoding.
type Format string

const (
	JSON   Format = "json"
	CSV    Format = "csv"
	Debug  Format = "debug"
	Binary Format = "binary"
)

// DefaultBufferSize is the binary frame capacity used when none is set.
const DefaultBufferSize = 8192

// ErrUnknownFormat is returned for names outside json|csv|debug|binary.
var ErrUnknownFormat = errors.New("format: unknown format")

// Parse maps a case-insensitive name to a Format. "rust" is accepted as an
// alias for debug.
func Parse(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, CSV, Debug, Binary:
		return f, nil
	case "rust":
		return Debug, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Sink is where encoded bytes go.
type Sink = binfmt.Sink

// Options tune encoder construction.
type Options struct {
	// BufferSize is the binary frame capacity in bytes.
	BufferSize int
	// FlushObserver is told about each binary frame.
	FlushObserver binfmt.FlushObserver
}

// Stats counts what an encoder has handed to its sink.
type Stats struct {
	Events uint64
	// Frames is the number of binary frames; text encoders count one per
	// event.
	Frames uint64
	Bytes  uint64
}

// Encoder consumes events one at a time.
type Encoder interface {
	Encode(ev event.Event) error
	// Close flushes pending output. It does not close the sink.
	Close() error
	Stats() Stats
}

// New returns the encoder for f writing to sink.
func New(f Format, sink Sink, opts Options) (Encoder, error) {
	switch f {
	case JSON:
		return newJSONEncoder(sink), nil
	case CSV:
		return newCSVEncoder(sink), nil
	case Debug:
		return newDebugEncoder(sink), nil
	case Binary:
		size := opts.BufferSize
		if size == 0 {
			size = DefaultBufferSize
		}
		var bopts []binfmt.Option
		if opts.FlushObserver != nil {
			bopts = append(bopts, binfmt.WithFlushObserver(opts.FlushObserver))
		}
		return newBinaryEncoder(sink, size, bopts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// countingWriter tallies bytes written through it.
type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}
