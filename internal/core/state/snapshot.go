package state

// Snapshot is a point-in-time copy of global state. It is detached from the
// store that produced it: later projections are never visible through it, so
// edge predicates can read it without synchronization.
type Snapshot map[string]any

// Get returns the value of a state field.
func (s Snapshot) Get(field string) (any, bool) {
	v, ok := s[field]
	return v, ok
}

// GetString returns the field value as a string, or "" when absent or not a string.
func (s Snapshot) GetString(field string) string {
	if v, ok := s[field]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// Has reports whether the field is present.
func (s Snapshot) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// NodeResult returns the raw output record captured for a node, or nil.
func (s Snapshot) NodeResult(nodeID string) map[string]any {
	if v, ok := s[ResultKey(nodeID)].(map[string]any); ok {
		return v
	}
	return nil
}

// UserInput returns the user-input record for a node, or nil when no input
// has been supplied yet.
func (s Snapshot) UserInput(nodeID string) map[string]any {
	if v, ok := s[UserInputKey(nodeID)].(map[string]any); ok {
		return v
	}
	return nil
}

// HasUserInput reports whether a user-input record exists for the node.
func (s Snapshot) HasUserInput(nodeID string) bool {
	return s.UserInput(nodeID) != nil
}
