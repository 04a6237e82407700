package sink

import (
	"bytes"
	"context"
)

// publishFunc delivers one frame's bytes.
type publishFunc func(ctx context.Context, frame []byte) error

// frameSink accumulates writes and hands them to publish on Flush.
type frameSink struct {
	ctx     context.Context
	pending bytes.Buffer
	publish publishFunc
	closeFn func() error
	closed  bool
}

func newFrameSink(ctx context.Context, publish publishFunc, closeFn func() error) *frameSink {
	return &frameSink{ctx: context.WithoutCancel(ctx), publish: publish, closeFn: closeFn}
}

func (s *frameSink) Write(p []byte) (int, error) { return s.pending.Write(p) }

// Flush publishes pending bytes as one unit. Nothing is published when no
// bytes are pending. Pending bytes are discarded whether or not the publish
// succeeds, so a failed frame is never sent twice.
func (s *frameSink) Flush() error {
	if s.pending.Len() == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(s.ctx, publishTimeout)
	defer cancel()
	frame := append([]byte(nil), s.pending.Bytes()...)
	s.pending.Reset()
	return s.publish(ctx, frame)
}

func (s *frameSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	ferr := s.Flush()
	var cerr error
	if s.closeFn != nil {
		cerr = s.closeFn()
	}
	if ferr != nil {
		return ferr
	}
	return cerr
}
