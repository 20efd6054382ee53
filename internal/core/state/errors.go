// Package state defines domain-specific errors
package state

import "errors"

var (
	// ErrMalformedOutput marks a raw node output that cannot be interpreted
	// as a field/value record at all.
	ErrMalformedOutput = errors.New("node output is not a field/value record")
	// ErrEmptyNodeID rejects projections without an originating node.
	ErrEmptyNodeID = errors.New("node id cannot be empty")
)
