package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const streamBufferSize = 64 << 10

// WriterSink buffers writes to an underlying writer. Close flushes but does
// not close the writer.
type WriterSink struct {
	bw *bufio.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{bw: bufio.NewWriterSize(w, streamBufferSize)}
}

func (s *WriterSink) Write(p []byte) (int, error) { return s.bw.Write(p) }

func (s *WriterSink) Flush() error { return s.bw.Flush() }

func (s *WriterSink) Close() error { return s.bw.Flush() }

// FileSink writes to a file it owns.
type FileSink struct {
	f     *os.File
	bw    *bufio.Writer
	fsync bool
}

// CreateFile truncates or creates path. With fsync set, every Flush also
// syncs the file to stable storage.
func CreateFile(path string, fsync bool) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: create %s: %w", path, err)
	}
	return &FileSink{f: f, bw: bufio.NewWriterSize(f, streamBufferSize), fsync: fsync}, nil
}

func (s *FileSink) Write(p []byte) (int, error) { return s.bw.Write(p) }

func (s *FileSink) Flush() error {
	if err := s.bw.Flush(); err != nil {
		return err
	}
	if s.fsync {
		return s.f.Sync()
	}
	return nil
}

func (s *FileSink) Close() error {
	ferr := s.Flush()
	cerr := s.f.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}

// Name returns the file path.
func (s *FileSink) Name() string { return s.f.Name() }
