// Package format turns events into bytes on a sink.
//
// A run picks exactly one Format and every event goes through its Encoder:
// json writes one externally tagged object per line, csv one row per event
// led by the variant name, debug the Go %+v rendering, and binary packs
// bids into length-prefixed frames (see package binfmt). Text encoders
// flush the sink after every event; the binary encoder flushes once per
// frame. Close flushes what is pending but leaves the sink open.
package format
