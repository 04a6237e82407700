package framelog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	pebblestore "github.com/rzbill/nexmark/internal/storage/pebble"
)

func openDB(t *testing.T, dir string) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	require.NoError(t, err)
	return db
}

func TestAppendAndRead(t *testing.T) {
	db := openDB(t, t.TempDir())
	t.Cleanup(func() { _ = db.Close() })
	l, err := Open(db, "run-a")
	require.NoError(t, err)

	ctx := context.Background()
	var ids []string
	for _, f := range []string{"frame-1", "frame-2", "frame-3"} {
		seq, fid, err := l.Append(ctx, []byte(f))
		require.NoError(t, err)
		require.Equal(t, uint64(len(ids)+1), seq)
		ids = append(ids, fid.String())
	}

	items, err := l.Read(0, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, it := range items {
		require.Equal(t, uint64(i+1), it.Seq)
		require.Equal(t, ids[i], it.ID.String())
	}
	require.Equal(t, "frame-2", string(items[1].Frame))
	require.Negative(t, items[0].ID.Compare(items[1].ID))

	tail, err := l.Read(2, 1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	require.Equal(t, uint64(2), tail[0].Seq)
}

func TestRunsAreIsolated(t *testing.T) {
	db := openDB(t, t.TempDir())
	t.Cleanup(func() { _ = db.Close() })
	a, err := Open(db, "a")
	require.NoError(t, err)
	b, err := Open(db, "b")
	require.NoError(t, err)

	_, _, err = a.Append(context.Background(), []byte("x"))
	require.NoError(t, err)
	items, err := b.Read(0, 0)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSequenceSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	db := openDB(t, dir)
	l, err := Open(db, "r")
	require.NoError(t, err)
	_, _, err = l.Append(context.Background(), []byte("one"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2 := openDB(t, dir)
	t.Cleanup(func() { _ = db2.Close() })
	l2, err := Open(db2, "r")
	require.NoError(t, err)
	require.Equal(t, uint64(1), l2.LastSeq())
	seq, _, err := l2.Append(context.Background(), []byte("two"))
	require.NoError(t, err)
	require.Equal(t, uint64(2), seq)
}

func TestRecordCRC(t *testing.T) {
	rec := EncodeRecord([]byte("h"), []byte("payload"))
	dec, ok := DecodeRecord(rec)
	require.True(t, ok)
	require.Equal(t, "h", string(dec.Header))
	require.Equal(t, "payload", string(dec.Payload))

	rec[len(rec)-1] ^= 0xFF
	_, ok = DecodeRecord(rec)
	require.False(t, ok)

	_, ok = DecodeRecord([]byte{0x05})
	require.False(t, ok)
}
