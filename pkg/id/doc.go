// Package id generates 128-bit identifiers that sort by creation time.
//
// An ID is 16 bytes: an 8-byte big-endian Unix millisecond timestamp followed
// by an 8-byte big-endian sequence. Byte order equals creation order within a
// process, including across clock regressions. Frame sinks use IDs as object
// and entry keys so that listing a prefix returns frames in write order.
package id
