// Package metrics exposes expvar-published counters used by the StateGraph
// engine (projections, edge evaluations, suspensions). It intentionally avoids
// external dependencies; consumers can surface the values through /debug/vars.
package metrics
