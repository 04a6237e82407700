package binfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// FrameHeaderSize is the size of the little-endian length prefix.
const FrameHeaderSize = 8

var (
	// ErrRecordTooLarge reports a record that can never fit the buffer.
	// Capacity must exceed the largest record written.
	ErrRecordTooLarge = errors.New("binfmt: record does not fit buffer capacity")
	// ErrInvalidCapacity reports a non-positive buffer capacity.
	ErrInvalidCapacity = errors.New("binfmt: buffer capacity must be positive")
)

// Sink is the byte destination frames are written to.
type Sink interface {
	io.Writer
	Flush() error
}

// FlushError wraps an I/O failure during one stage of a flush. After a
// FlushError the sink's state is unknown; the buffer is not rolled back and
// refuses further writes and flushes.
type FlushError struct {
	Stage string // header|payload|sink-flush
	Err   error
}

func (e *FlushError) Error() string { return "binfmt: " + e.Stage + ": " + e.Err.Error() }

func (e *FlushError) Unwrap() error { return e.Err }

// FlushObserver is notified after each frame reaches the sink.
type FlushObserver interface {
	ObserveFlush(payloadBytes int, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveFlush(int, time.Duration) {}

// Option configures a Buffer.
type Option func(*Buffer)

// WithFlushObserver installs o.
func WithFlushObserver(o FlushObserver) Option {
	return func(b *Buffer) {
		if o != nil {
			b.observer = o
		}
	}
}

// Buffer packs records into frames for a Sink. It is not safe for
// concurrent use.
type Buffer struct {
	sink     Sink
	buf      []byte
	cursor   int
	observer FlushObserver
	frames   uint64
	written  uint64
	err      *FlushError
}

// NewBuffer returns a Buffer of the given capacity writing to sink.
func NewBuffer(sink Sink, capacity int, opts ...Option) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	b := &Buffer{sink: sink, buf: make([]byte, capacity), observer: noopObserver{}}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Append copies rec into the buffer. When cursor+len(rec) would reach the
// capacity the pending frame is flushed first.
func (b *Buffer) Append(rec []byte) error {
	if b.err != nil {
		return b.err
	}
	if len(rec) >= len(b.buf) {
		return fmt.Errorf("%w: record %d bytes, capacity %d", ErrRecordTooLarge, len(rec), len(b.buf))
	}
	for b.cursor+len(rec) >= len(b.buf) {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.cursor += copy(b.buf[b.cursor:], rec)
	return nil
}

// WriteRecord appends r's native encoding.
func (b *Buffer) WriteRecord(r BidRecord) error {
	var scratch [RecordSize]byte
	return b.Append(r.AppendNative(scratch[:0]))
}

// Flush emits the buffered bytes as one frame and asks the sink to flush.
// It is a no-op on an empty buffer. Once a flush has failed, every later
// call returns that failure without touching the sink.
func (b *Buffer) Flush() error {
	if b.err != nil {
		return b.err
	}
	if b.cursor == 0 {
		return nil
	}
	start := time.Now()

	var hdr [FrameHeaderSize]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(b.cursor))
	if _, err := b.sink.Write(hdr[:]); err != nil {
		return b.fail("header", err)
	}
	if _, err := b.sink.Write(b.buf[:b.cursor]); err != nil {
		return b.fail("payload", err)
	}
	if err := b.sink.Flush(); err != nil {
		return b.fail("sink-flush", err)
	}

	n := b.cursor
	b.cursor = 0
	b.frames++
	b.written += uint64(FrameHeaderSize + n)
	b.observer.ObserveFlush(n, time.Since(start))
	return nil
}

func (b *Buffer) fail(stage string, err error) error {
	b.err = &FlushError{Stage: stage, Err: err}
	return b.err
}

// Err returns the flush failure that stopped the buffer, if any.
func (b *Buffer) Err() error {
	if b.err == nil {
		return nil
	}
	return b.err
}

// Len reports the number of buffered bytes not yet flushed.
func (b *Buffer) Len() int { return b.cursor }

// Cap reports the buffer capacity.
func (b *Buffer) Cap() int { return len(b.buf) }

// Frames reports the number of frames flushed so far.
func (b *Buffer) Frames() uint64 { return b.frames }

// BytesWritten reports header plus payload bytes handed to the sink.
func (b *Buffer) BytesWritten() uint64 { return b.written }
