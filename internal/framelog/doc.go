// Package framelog archives binary frames in Pebble, one entry per flushed
// frame, grouped by run.
//
// Keys sort lexicographically:
//   - run/{run}/m           (metadata: last sequence, 8B BE)
//   - run/{run}/f/{seq_be8} (frame entries)
//
// Values are encoded as varint headerLen | header | frame | crc32c, where
// the header is the frame's 16-byte sortable id.
package framelog
