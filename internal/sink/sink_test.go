package sink

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/nexmark/internal/binfmt"
	"github.com/rzbill/nexmark/internal/config"
	pebblestore "github.com/rzbill/nexmark/internal/storage/pebble"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

func quietLogger() logpkg.Logger {
	return logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
}

type fakeKafka struct {
	msgs   []kafka.Message
	fail   error
	closed bool
}

func (f *fakeKafka) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.fail != nil {
		return f.fail
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafka) Close() error { f.closed = true; return nil }

type fakeS3 struct {
	keys   []string
	bodies [][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.keys = append(f.keys, aws.ToString(in.Key))
	f.bodies = append(f.bodies, b)
	return &s3.PutObjectOutput{}, nil
}

func TestFileSinkWritesOnFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bid.bin")
	s, err := CreateFile(path, true)
	require.NoError(t, err)

	_, err = s.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))

	_, err = s.Write([]byte("def"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(got))
}

func TestFileSinkTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bid.bin")
	require.NoError(t, os.WriteFile(path, []byte("stale contents"), 0o644))
	s, err := CreateFile(path, false)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWriterSinkCloseLeavesWriterOpen(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)
	_, err := s.Write([]byte("x"))
	require.NoError(t, err)
	require.Zero(t, buf.Len())
	require.NoError(t, s.Close())
	require.Equal(t, "x", buf.String())
}

func TestKafkaOneMessagePerFlush(t *testing.T) {
	fk := &fakeKafka{}
	s := newKafkaWithWriter(context.Background(), fk, "run-1", quietLogger())

	require.NoError(t, s.Flush())
	require.Empty(t, fk.msgs)

	_, _ = s.Write([]byte("he"))
	_, _ = s.Write([]byte("ader"))
	require.NoError(t, s.Flush())
	_, _ = s.Write([]byte("second"))
	require.NoError(t, s.Close())

	require.Len(t, fk.msgs, 2)
	require.Equal(t, "header", string(fk.msgs[0].Value))
	require.Equal(t, "second", string(fk.msgs[1].Value))
	require.Equal(t, "run-1", string(fk.msgs[0].Key))
	require.Equal(t, "2", string(fk.msgs[1].Headers[0].Value))
	require.True(t, fk.closed)
	require.NoError(t, s.Close())
}

func TestKafkaFailedFrameIsNotResent(t *testing.T) {
	boom := errors.New("broker down")
	fk := &fakeKafka{fail: boom}
	s := newKafkaWithWriter(context.Background(), fk, "run", quietLogger())
	_, _ = s.Write([]byte("frame"))
	require.ErrorIs(t, s.Flush(), boom)

	fk.fail = nil
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())
	require.Empty(t, fk.msgs)

	_, _ = s.Write([]byte("next"))
	require.NoError(t, s.Flush())
	require.Len(t, fk.msgs, 1)
	require.Equal(t, "next", string(fk.msgs[0].Value))
}

// A failed frame followed by the end-of-run flush and close publishes no
// duplicate records.
func TestBinaryFrameFailureThenClose(t *testing.T) {
	boom := errors.New("broker down")
	fk := &fakeKafka{fail: boom}
	s := newKafkaWithWriter(context.Background(), fk, "run", quietLogger())
	buf, err := binfmt.NewBuffer(s, 256)
	require.NoError(t, err)
	for i := range 3 {
		require.NoError(t, buf.WriteRecord(binfmt.BidRecord{AuctionID: uint64(i)}))
	}

	var fe *binfmt.FlushError
	require.ErrorAs(t, buf.Flush(), &fe)
	fk.fail = nil
	require.ErrorAs(t, buf.Flush(), &fe)
	require.NoError(t, s.Close())
	require.Empty(t, fk.msgs)
}

func TestFramePublishSurvivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var seen error
	fs := newFrameSink(ctx, func(ctx context.Context, _ []byte) error {
		seen = ctx.Err()
		return nil
	}, nil)
	cancel()
	_, _ = fs.Write([]byte("last"))
	require.NoError(t, fs.Flush())
	require.NoError(t, seen)
}

func TestS3ObjectPerFlush(t *testing.T) {
	fs3 := &fakeS3{}
	s := newS3WithClient(context.Background(), fs3, "bucket", "nexmark/", "run-7", quietLogger())
	for _, p := range []string{"one", "two", "three"} {
		_, _ = s.Write([]byte(p))
		require.NoError(t, s.Flush())
	}
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	require.Len(t, fs3.keys, 3)
	for i, k := range fs3.keys {
		require.True(t, strings.HasPrefix(k, "nexmark/run-7/"), k)
		require.True(t, strings.HasSuffix(k, ".frame"), k)
		if i > 0 {
			require.Less(t, fs3.keys[i-1], k)
		}
	}
	require.Equal(t, []byte("three"), fs3.bodies[2])
}

func TestPebbleSinkAppendsFrames(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenPebble(context.Background(), dir, pebblestore.FsyncModeNever, "run", quietLogger())
	require.NoError(t, err)
	_, _ = s.Write([]byte("f1"))
	require.NoError(t, s.Flush())
	_, _ = s.Write([]byte("f2"))
	require.NoError(t, s.Flush())
	require.NoError(t, s.Flush())

	items, err := s.Log().Read(1, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "f1", string(items[0].Frame))
	require.Equal(t, uint64(2), items[1].Seq)
	require.NoError(t, s.Close())

	// Reopening continues the sequence.
	s, err = OpenPebble(context.Background(), dir, pebblestore.FsyncModeNever, "run", quietLogger())
	require.NoError(t, err)
	require.Equal(t, uint64(2), s.Log().LastSeq())
	require.NoError(t, s.Close())
}

func TestOpenDispatch(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Format = "binary"
	cfg.Output.Path = filepath.Join(t.TempDir(), "out.bin")
	s, err := Open(context.Background(), cfg, "run", quietLogger())
	require.NoError(t, err)
	require.IsType(t, &FileSink{}, s)
	require.NoError(t, s.Close())

	cfg.Output.Format = "json"
	cfg.Output.Sink = ""
	s, err = Open(context.Background(), cfg, "run", quietLogger())
	require.NoError(t, err)
	require.IsType(t, &WriterSink{}, s)

	cfg.Output.Sink = "carrier-pigeon"
	_, err = Open(context.Background(), cfg, "run", quietLogger())
	require.ErrorIs(t, err, config.ErrInvalidSink)
}
