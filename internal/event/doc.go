// Package event defines the Nexmark event model: an immutable tagged union
// over Person, Auction and Bid, plus the Source iterator contract consumed
// by the pacer and encoders.
package event
