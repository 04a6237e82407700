package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rzbill/nexmark/internal/config"
	pebblestore "github.com/rzbill/nexmark/internal/storage/pebble"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

// Sink is a writable byte stream with an explicit flush.
type Sink interface {
	io.Writer
	Flush() error
	// Close flushes and releases the sink.
	Close() error
}

// publishTimeout bounds a single frame publish to a remote sink.
const publishTimeout = 30 * time.Second

// Open builds the sink selected by cfg. run identifies the run in remote
// keys. Publishes run under a context detached from ctx's cancellation so
// the final frame still lands after an interrupt.
func Open(ctx context.Context, cfg config.Config, run string, logger logpkg.Logger) (Sink, error) {
	kind := cfg.ResolvedSink()
	logger = logger.With(logpkg.Component("sink"), logpkg.Str("sink", kind))
	switch kind {
	case "stdout":
		return NewWriterSink(os.Stdout), nil
	case "file":
		mode, err := pebblestore.ParseFsyncMode(cfg.Output.Fsync)
		if err != nil {
			return nil, err
		}
		return CreateFile(cfg.Output.Path, mode == pebblestore.FsyncModeAlways)
	case "kafka":
		return NewKafka(ctx, cfg.Kafka, run, logger), nil
	case "s3":
		return NewS3(ctx, cfg.S3, run, logger)
	case "pebble":
		mode, err := pebblestore.ParseFsyncMode(cfg.Output.Fsync)
		if err != nil {
			return nil, err
		}
		return OpenPebble(ctx, cfg.PebbleDir(), mode, run, logger)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSink, kind)
	}
}
