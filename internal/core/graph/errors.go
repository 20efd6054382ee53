// Package graph defines domain-specific errors
package graph

import "errors"

var (
	// Build errors
	ErrNoEntryPoint      = errors.New("no entry point specified")
	ErrInvalidEntryPoint = errors.New("entry point node not found")
	ErrGraphFrozen       = errors.New("graph already built")

	// Node errors
	ErrInvalidNodeID = errors.New("invalid node ID")
	ErrNilHandler    = errors.New("node handler cannot be nil")
	ErrDuplicateNode = errors.New("duplicate node ID")
	ErrNodeNotFound  = errors.New("node not found")

	// Edge errors
	ErrSourceNodeNotFound = errors.New("source node not found")
	ErrTargetNodeNotFound = errors.New("target node not found")
)
