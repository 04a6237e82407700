package binfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/rzbill/nexmark/internal/event"
)

// RecordSize is the encoded size of a BidRecord.
const RecordSize = 40

// ErrUnsupportedVariant is returned when a non-bid event reaches the binary
// encoder. The binary format carries bids only; callers must abort the run.
var ErrUnsupportedVariant = errors.New("binfmt: only bid events have a binary encoding")

// BidRecord is the fixed-layout binary projection of a bid.
type BidRecord struct {
	CreationTS uint64
	AuctionID  uint64
	BidderID   uint64
	Timestamp  uint64
	Price      float64
}

// Convert projects ev onto a BidRecord. Numeric fields are widened without
// range checks.
func Convert(ev event.Event) (BidRecord, error) {
	b, ok := ev.Bid()
	if !ok {
		return BidRecord{}, fmt.Errorf("%w: got %s", ErrUnsupportedVariant, ev.Type())
	}
	return BidRecord{
		CreationTS: b.DateTime,
		AuctionID:  uint64(b.Auction),
		BidderID:   uint64(b.Bidder),
		Timestamp:  uint64(b.Timestamp),
		Price:      b.Price,
	}, nil
}

// AppendNative appends the record's in-memory layout to dst.
func (r BidRecord) AppendNative(dst []byte) []byte {
	dst = binary.NativeEndian.AppendUint64(dst, r.CreationTS)
	dst = binary.NativeEndian.AppendUint64(dst, r.AuctionID)
	dst = binary.NativeEndian.AppendUint64(dst, r.BidderID)
	dst = binary.NativeEndian.AppendUint64(dst, r.Timestamp)
	return binary.NativeEndian.AppendUint64(dst, math.Float64bits(r.Price))
}

// DecodeRecord reads one record from the first RecordSize bytes of b.
func DecodeRecord(b []byte) (BidRecord, bool) {
	if len(b) < RecordSize {
		return BidRecord{}, false
	}
	return BidRecord{
		CreationTS: binary.NativeEndian.Uint64(b[0:8]),
		AuctionID:  binary.NativeEndian.Uint64(b[8:16]),
		BidderID:   binary.NativeEndian.Uint64(b[16:24]),
		Timestamp:  binary.NativeEndian.Uint64(b[24:32]),
		Price:      math.Float64frombits(binary.NativeEndian.Uint64(b[32:40])),
	}, true
}
