// Package stategraph provides a minimal public façade for constructing and
// executing state-synchronized graphs without importing internal packages. It
// re-exports the core types for convenience and exposes a Runtime that wires
// an engine to in-memory checkpoint persistence, suitable for local usage and
// tests.
package stategraph
