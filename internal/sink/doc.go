// Package sink provides the byte destinations events are written to.
//
// Every Sink accepts writes and an explicit Flush. Stream sinks (file,
// stdout) forward bytes as they arrive. Frame sinks (kafka, s3, pebble)
// collect everything written between two flushes and publish it as one
// message, object or entry; the binary encoder flushes exactly once per
// frame, so each published unit is one length-prefixed frame.
//
// A sink is owned by a single run and is not safe for concurrent use.
package sink
