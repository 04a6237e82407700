package format

import (
	"github.com/rzbill/nexmark/internal/binfmt"
	"github.com/rzbill/nexmark/internal/event"
)

type binaryEncoder struct {
	buf    *binfmt.Buffer
	events uint64
}

func newBinaryEncoder(sink Sink, capacity int, opts ...binfmt.Option) (*binaryEncoder, error) {
	buf, err := binfmt.NewBuffer(sink, capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &binaryEncoder{buf: buf}, nil
}

// Encode fails with binfmt.ErrUnsupportedVariant for anything but a bid.
func (e *binaryEncoder) Encode(ev event.Event) error {
	rec, err := binfmt.Convert(ev)
	if err != nil {
		return err
	}
	if err := e.buf.WriteRecord(rec); err != nil {
		return err
	}
	e.events++
	return nil
}

// Close emits the final partial frame, if any.
func (e *binaryEncoder) Close() error { return e.buf.Flush() }

func (e *binaryEncoder) Stats() Stats {
	return Stats{Events: e.events, Frames: e.buf.Frames(), Bytes: e.buf.BytesWritten()}
}
