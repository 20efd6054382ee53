package graph

// Builder incrementally assembles nodes, edges, and an entry point, then
// produces a frozen Graph. The builder is mutable during assembly only;
// every method fails with ErrGraphFrozen after Build.
type Builder struct {
	name  string
	nodes map[string]*Node
	edges []*Edge
	entry string
	built bool
}

// NewBuilder creates a builder for a named graph.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*Node),
	}
}

// AddNode registers a computation unit under a stable id. Duplicate ids are
// a build-time error.
func (b *Builder) AddNode(id string, handler Handler) (*Node, error) {
	if b.built {
		return nil, ErrGraphFrozen
	}
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if handler == nil {
		return nil, ErrNilHandler
	}
	if _, exists := b.nodes[id]; exists {
		return nil, ErrDuplicateNode
	}
	n := &Node{id: id, name: id, handler: handler}
	b.nodes[id] = n
	return n, nil
}

// AddEdge registers a directed transition guarded by a predicate. A nil
// predicate is unconditionally true. Edge order is the tie-break order.
func (b *Builder) AddEdge(source, target string, predicate Predicate) (*Edge, error) {
	return b.addEdge(source, target, predicate, false)
}

// AddInputEdge registers a transition that additionally requires an external
// user-input record for the source node before it can be taken.
func (b *Builder) AddInputEdge(source, target string, predicate Predicate) (*Edge, error) {
	return b.addEdge(source, target, predicate, true)
}

func (b *Builder) addEdge(source, target string, predicate Predicate, requiresInput bool) (*Edge, error) {
	if b.built {
		return nil, ErrGraphFrozen
	}
	if source == "" {
		return nil, ErrSourceNodeNotFound
	}
	if target == "" {
		return nil, ErrTargetNodeNotFound
	}
	e := &Edge{
		source:        source,
		target:        target,
		predicate:     predicate,
		requiresInput: requiresInput,
		index:         len(b.edges),
	}
	b.edges = append(b.edges, e)
	return e, nil
}

// SetEntryPoint designates the node execution starts at.
func (b *Builder) SetEntryPoint(id string) error {
	if b.built {
		return ErrGraphFrozen
	}
	b.entry = id
	return nil
}

// Build validates the assembled definition and freezes it. It fails if no
// entry point was set or if any edge references an unknown node id; edge
// endpoints may be registered in any order before Build.
func (b *Builder) Build() (*Graph, error) {
	if b.built {
		return nil, ErrGraphFrozen
	}
	if b.entry == "" {
		return nil, ErrNoEntryPoint
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, ErrInvalidEntryPoint
	}
	for _, e := range b.edges {
		if _, ok := b.nodes[e.source]; !ok {
			return nil, ErrSourceNodeNotFound
		}
		if _, ok := b.nodes[e.target]; !ok {
			return nil, ErrTargetNodeNotFound
		}
	}

	bySource := make(map[string][]*Edge)
	for _, e := range b.edges {
		bySource[e.source] = append(bySource[e.source], e)
	}

	nodes := make(map[string]*Node, len(b.nodes))
	for id, n := range b.nodes {
		nodes[id] = n
	}
	edges := make([]*Edge, len(b.edges))
	copy(edges, b.edges)

	b.built = true
	return &Graph{
		name:          b.name,
		nodes:         nodes,
		edges:         edges,
		edgesBySource: bySource,
		entry:         b.entry,
	}, nil
}
