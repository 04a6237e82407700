package id

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"
)

// ID is a sortable [ms][seq] identifier.
type ID [16]byte

// String returns the 32-character lowercase hex form.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Time returns the millisecond timestamp embedded in the ID.
func (i ID) Time() time.Time { return time.UnixMilli(int64(binary.BigEndian.Uint64(i[:8]))) }

// Compare returns -1, 0 or 1 comparing i and other byte-wise.
func (i ID) Compare(other ID) int { return bytes.Compare(i[:], other[:]) }

// Parse decodes the hex form produced by String.
func Parse(s string) (ID, error) {
	var out ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("id: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("id: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Generator produces strictly increasing IDs.
type Generator struct {
	mu     sync.Mutex
	nowMs  func() int64
	lastMs int64
	seq    uint64
}

// NewGenerator returns a Generator on the wall clock.
func NewGenerator() *Generator {
	return &Generator{nowMs: func() int64 { return time.Now().UnixMilli() }}
}

// Next returns a new ID. A regressing clock reuses the last millisecond; an
// exhausted sequence waits for the next millisecond.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := max(g.nowMs(), g.lastMs)
	switch {
	case ms > g.lastMs:
		g.seq = 0
	case g.seq == math.MaxUint64:
		for ms <= g.lastMs {
			time.Sleep(time.Millisecond / 8)
			ms = g.nowMs()
		}
		g.seq = 0
	default:
		g.seq++
	}
	g.lastMs = ms

	var id ID
	binary.BigEndian.PutUint64(id[:8], uint64(ms))
	binary.BigEndian.PutUint64(id[8:], g.seq)
	return id
}
