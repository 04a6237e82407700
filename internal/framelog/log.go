package framelog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/rzbill/nexmark/internal/storage/pebble"
	"github.com/rzbill/nexmark/pkg/id"
)

// Log appends frames for one run. It is not safe for concurrent use.
type Log struct {
	db      *pebblestore.DB
	run     string
	lastSeq uint64
	ids     *id.Generator
}

// Open loads the run's last sequence, if any.
func Open(db *pebblestore.DB, run string) (*Log, error) {
	l := &Log{db: db, run: run, ids: id.NewGenerator()}
	meta, err := db.Get(keyMeta(run))
	switch {
	case err == nil && len(meta) >= 8:
		l.lastSeq = binary.BigEndian.Uint64(meta[:8])
	case err != nil && !errors.Is(err, pebble.ErrNotFound):
		return nil, fmt.Errorf("framelog: load meta for run %s: %w", run, err)
	}
	return l, nil
}

// Append stores frame as the next entry and returns its sequence and id.
func (l *Log) Append(ctx context.Context, frame []byte) (uint64, id.ID, error) {
	b := l.db.NewBatch()
	defer b.Close()

	seq := l.lastSeq + 1
	fid := l.ids.Next()
	if err := b.Set(keyFrame(l.run, seq), EncodeRecord(fid[:], frame), nil); err != nil {
		return 0, id.ID{}, err
	}
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seq)
	if err := b.Set(keyMeta(l.run), meta[:], nil); err != nil {
		return 0, id.ID{}, err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return 0, id.ID{}, err
	}
	l.lastSeq = seq
	return seq, fid, nil
}

// LastSeq returns the sequence of the most recent frame (0 when empty).
func (l *Log) LastSeq() uint64 { return l.lastSeq }

// Item is one stored frame.
type Item struct {
	Seq   uint64
	ID    id.ID
	Frame []byte
}

// Read returns up to limit frames with seq >= from, in order. limit <= 0
// means all. Corrupt entries are skipped.
func (l *Log) Read(from uint64, limit int) ([]Item, error) {
	low := keyFrame(l.run, from)
	hi := keyFrame(l.run, ^uint64(0))
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: append(hi, 0x00)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var items []Item
	for ok := iter.First(); ok && (limit <= 0 || len(items) < limit); ok = iter.Next() {
		key := iter.Key()
		dec, valid := DecodeRecord(iter.Value())
		if !valid || len(dec.Header) != len(id.ID{}) {
			continue
		}
		var fid id.ID
		copy(fid[:], dec.Header)
		items = append(items, Item{
			Seq:   binary.BigEndian.Uint64(key[len(key)-8:]),
			ID:    fid,
			Frame: dec.Payload,
		})
	}
	return items, iter.Error()
}
