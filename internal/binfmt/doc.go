// Package binfmt writes bids as length-framed blocks of fixed-layout records.
//
// # Format
//
// The stream is a sequence of frames:
//
//	8 bytes  N, unsigned, little-endian: payload length
//	N bytes  N/40 bid records
//
// Each record is 40 bytes: creation_ts, auction_id, bidder_id, timestamp
// (uint64) and price (float64), in that order, in the host's native byte
// order. Only the frame length is byte-order normalized. Readers must run on
// a host with the same endianness as the writer; the record layout is kept
// native on purpose so existing readers that map records directly keep
// working.
//
// # Encoding
//
// Only Bid events have a binary projection. Encoding a Person or Auction is
// a hard failure (ErrUnsupportedVariant) and aborts the run.
//
// Buffer accumulates records up to a fixed capacity and emits a frame when
// the next record would not fit. A final partial frame is only written by an
// explicit Flush; nothing flushes on garbage collection.
package binfmt
