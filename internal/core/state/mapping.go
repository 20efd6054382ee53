package state

// FieldMapping declares one (output field -> state field) projection pair.
// The mapping table is ordered and fixed for the life of a deployment;
// output fields absent from the table stay private to the node's result record.
type FieldMapping struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Mapping is the ordered projection table applied on every Project call.
type Mapping []FieldMapping

// Identity builds a mapping where each output field projects to the state
// field of the same name, preserving the given order.
func Identity(fields ...string) Mapping {
	m := make(Mapping, 0, len(fields))
	for _, f := range fields {
		m = append(m, FieldMapping{Source: f, Target: f})
	}
	return m
}

// TargetOf returns the state field a given output field maps to.
func (m Mapping) TargetOf(source string) (string, bool) {
	for _, fm := range m {
		if fm.Source == source {
			return fm.Target, true
		}
	}
	return "", false
}

// FieldRule is an optional per-field normalization rule. Tag is a
// go-playground/validator constraint (e.g. "gte=0,lte=1"); a value failing it
// is replaced by Default rather than rejected, and the substitution is
// recorded in history.
type FieldRule struct {
	Tag     string `json:"tag"`
	Default any    `json:"default"`
}
