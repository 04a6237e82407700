// Package pebblestore wraps a Pebble database with a commit durability
// policy. It backs the pebble frame sink.
package pebblestore
