package pebblestore

import (
	"context"
	"errors"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBatchCommitAndGet(t *testing.T) {
	db := newTestDB(t)

	b := db.NewBatch()
	require.NoError(t, b.Set([]byte("a"), []byte("1"), nil))
	require.NoError(t, b.Set([]byte("b"), []byte("2"), nil))
	require.NoError(t, db.CommitBatch(context.Background(), b))
	require.NoError(t, b.Close())

	got, err := db.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, "2", string(got))

	_, err = db.Get([]byte("missing"))
	require.True(t, errors.Is(err, pebble.ErrNotFound))
}

func TestCommitHonorsCancelledContext(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := db.NewBatch()
	defer b.Close()
	require.NoError(t, b.Set([]byte("k"), []byte("v"), nil))
	require.ErrorIs(t, db.CommitBatch(ctx, b), context.Canceled)
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open(Options{})
	require.Error(t, err)
}

func TestParseFsyncMode(t *testing.T) {
	m, err := ParseFsyncMode("always")
	require.NoError(t, err)
	require.Equal(t, FsyncModeAlways, m)
	m, err = ParseFsyncMode("")
	require.NoError(t, err)
	require.Equal(t, FsyncModeNever, m)
	_, err = ParseFsyncMode("interval")
	require.Error(t, err)
}

func TestCloseTwice(t *testing.T) {
	db, err := Open(Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())
}
