package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/rzbill/nexmark/internal/framelog"
	pebblestore "github.com/rzbill/nexmark/internal/storage/pebble"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

// PebbleSink appends each flushed frame to the run's frame log.
type PebbleSink struct {
	*frameSink
	db  *pebblestore.DB
	fl  *framelog.Log
	log logpkg.Logger
}

// OpenPebble opens (or creates) the store at dir.
func OpenPebble(ctx context.Context, dir string, fsync pebblestore.FsyncMode, run string, logger logpkg.Logger) (*PebbleSink, error) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: fsync})
	if err != nil {
		return nil, fmt.Errorf("sink: open pebble at %s: %w", dir, err)
	}
	fl, err := framelog.Open(db, run)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	s := &PebbleSink{db: db, fl: fl, log: logger}
	s.frameSink = newFrameSink(ctx, s.publish, db.Close)
	return s, nil
}

// Log exposes the underlying frame log.
func (s *PebbleSink) Log() *framelog.Log { return s.fl }

func (s *PebbleSink) publish(ctx context.Context, frame []byte) error {
	seq, fid, err := s.fl.Append(ctx, frame)
	if err != nil {
		return fmt.Errorf("sink: pebble append: %w", err)
	}
	s.log.Debug("frame appended", logpkg.Uint64("seq", seq), logpkg.Str("id", fid.String()), logpkg.Int("bytes", len(frame)))
	return nil
}
