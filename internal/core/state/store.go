// Package state provides the shared global state for one graph execution:
// field-mapped projection of node output, user-input records, and the
// append-only change history.
package state

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stategraph/stategraph/internal/infrastructure/metrics"
)

// validate is shared across stores; validator.Validate is safe for concurrent use.
var validate = validator.New()

// ResultKey is the reserved state key holding a node's verbatim output record.
func ResultKey(nodeID string) string { return nodeID + "_result" }

// UserInputKey is the reserved state key holding a node's user-input record.
func UserInputKey(nodeID string) string { return nodeID + "_user_input" }

// Store owns the global shared state for a single execution. All mutation
// goes through Project and RecordUserInput, each of which appends exactly one
// history entry, so the history is a total order over state changes.
type Store struct {
	mu      sync.Mutex
	mapping Mapping
	rules   map[string]FieldRule
	global  map[string]any
	history []HistoryEntry
	clock   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithRule attaches a normalization rule to a state field.
func WithRule(field string, rule FieldRule) Option {
	return func(s *Store) { s.rules[field] = rule }
}

// WithClock overrides the history timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// NewStore creates a store with the given projection mapping. Each execution
// must own its own store instance.
func NewStore(mapping Mapping, opts ...Option) *Store {
	s := &Store{
		mapping: mapping,
		rules:   make(map[string]FieldRule),
		global:  make(map[string]any),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Project applies the field mapping to a raw node output: mapped fields are
// written into global state (normalized per their rules), the full record is
// retained under {node}_result, and one history entry captures every field
// that changed value. Returns the names of the changed fields.
//
// A payload that cannot be interpreted as fields at all appends a failure
// entry, leaves global state untouched, and returns ErrMalformedOutput for
// the engine to classify.
func (s *Store) Project(nodeID string, raw any) ([]string, error) {
	if nodeID == "" {
		return nil, ErrEmptyNodeID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields, err := decodePayload(raw)
	if err != nil {
		s.history = append(s.history, HistoryEntry{
			Timestamp: s.clock(),
			NodeID:    nodeID,
			Operation: OpFailure,
			Error:     err.Error(),
		})
		metrics.ProjectionFailed(nodeID)
		return nil, fmt.Errorf("project %s: %w", nodeID, err)
	}
	// Own the record: the caller may keep mutating the map it returned.
	fields = cloneMap(fields)

	changes := make(map[string]any)
	var changed []string
	var substituted []string

	for _, fm := range s.mapping {
		value, present := fields[fm.Source]
		if !present {
			continue
		}
		if rule, ok := s.rules[fm.Target]; ok && rule.Tag != "" {
			if verr := validate.Var(value, rule.Tag); verr != nil {
				value = rule.Default
				substituted = append(substituted, fm.Target)
				metrics.SubstitutionRecorded(fm.Target)
			}
		}
		if prev, exists := s.global[fm.Target]; !exists || !reflect.DeepEqual(prev, value) {
			changes[fm.Target] = cloneValue(value)
			changed = append(changed, fm.Target)
		}
		s.global[fm.Target] = value
	}

	// The result record is retained alongside the mapped fields, never
	// merged into them; re-entrant visits overwrite it. The history entry
	// gets its own copy so it never aliases live state.
	resultKey := ResultKey(nodeID)
	s.global[resultKey] = fields
	changes[resultKey] = cloneMap(fields)
	changed = append(changed, resultKey)

	s.history = append(s.history, HistoryEntry{
		Timestamp:     s.clock(),
		NodeID:        nodeID,
		Operation:     OpProject,
		Changes:       changes,
		Substitutions: substituted,
	})
	metrics.ProjectionRecorded(nodeID)

	return changed, nil
}

// RecordUserInput writes (or overwrites) the {node}_user_input record with a
// fresh timestamp and appends a history entry. The node's result record is
// referenced, not altered.
func (s *Store) RecordUserInput(nodeID string, input any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := map[string]any{
		"input":     input,
		"timestamp": s.clock(),
		"node_id":   nodeID,
	}
	if result, ok := s.global[ResultKey(nodeID)]; ok {
		record["node_result"] = result
	}

	key := UserInputKey(nodeID)
	s.global[key] = record
	s.history = append(s.history, HistoryEntry{
		Timestamp: s.clock(),
		NodeID:    nodeID,
		Operation: OpUserInput,
		Changes:   map[string]any{key: cloneValue(record)},
	})
}

// HasUserInput reports whether a user-input record exists for the node.
func (s *Store) HasUserInput(nodeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.global[UserInputKey(nodeID)]
	return ok
}

// Get returns the current value of a state field.
func (s *Store) Get(field string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.global[field]
	return v, ok
}

// Snapshot returns a defensive copy of global state. Callers never observe
// projections made after the snapshot was taken.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot(cloneMap(s.global))
}

// History returns a deep copy of the ordered history entries. Mutating the
// returned entries never reaches the store's log or its global state.
func (s *Store) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.history)
}

// Seed restores state and history from a persisted snapshot so an execution
// can resume in a different process. It must be called before any projection.
func (s *Store) Seed(snapshot Snapshot, history []HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = cloneMap(map[string]any(snapshot))
	s.history = cloneEntries(history)
}

// cloneEntries deep-copies history entries so the log stays immutable no
// matter what callers do with their copies.
func cloneEntries(in []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(in))
	for i, e := range in {
		out[i] = e
		if e.Changes != nil {
			out[i].Changes = cloneMap(e.Changes)
		}
		if e.Substitutions != nil {
			out[i].Substitutions = append([]string(nil), e.Substitutions...)
		}
	}
	return out
}

// cloneMap deep-copies nested maps and slices so snapshots and retained
// records stay immutable from the caller's perspective.
func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
