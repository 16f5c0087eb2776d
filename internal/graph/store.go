package graph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Observer is called after every committed mutation with the new content.
type Observer func(Snapshot)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the element id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Store is the authoritative node and edge collection of one diagram.
// It is owned by a single goroutine; reads return copies.
type Store struct {
	nodes     []Node
	edges     []Edge
	newID     func() string
	observers []Observer
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{newID: NewID}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewID returns a fresh element id.
func NewID() string {
	return "id-" + uuid.NewString()
}

// Subscribe registers an observer for committed mutations.
func (s *Store) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Store) commit() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, o := range s.observers {
		o(snap)
	}
}

// Snapshot returns a deep copy of the current content.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Nodes: s.nodes, Edges: s.edges}.Clone()
}

// Nodes returns a copy of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	return s.Snapshot().Nodes
}

// Edges returns a copy of all edges in insertion order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (nodes, edges int) {
	return len(s.nodes), len(s.edges)
}

// Node looks up a node by id.
func (s *Store) Node(id string) (Node, bool) {
	if i := s.nodeIndex(id); i >= 0 {
		return s.nodes[i].Clone(), true
	}
	return Node{}, false
}

// Edge looks up an edge by id.
func (s *Store) Edge(id string) (Edge, bool) {
	if i := s.edgeIndex(id); i >= 0 {
		return s.edges[i], true
	}
	return Edge{}, false
}

// Kind reports what id refers to.
func (s *Store) Kind(id string) Kind {
	switch {
	case s.nodeIndex(id) >= 0:
		return KindNode
	case s.edgeIndex(id) >= 0:
		return KindEdge
	}
	return KindNone
}

// Contains reports whether id names a live node or edge.
func (s *Store) Contains(id string) bool {
	return s.Kind(id) != KindNone
}

func (s *Store) nodeIndex(id string) int {
	return slices.IndexFunc(s.nodes, func(n Node) bool { return n.ID == id })
}

func (s *Store) edgeIndex(id string) int {
	return slices.IndexFunc(s.edges, func(e Edge) bool { return e.ID == id })
}

// NewNode builds a node of the given shape with default data at pos
// without adding it.
func (s *Store) NewNode(shape ShapeType, pos Position) Node {
	return Node{
		ID:       s.newID(),
		Position: pos,
		Type:     shape,
		Data:     DefaultData(shape),
		ZIndex:   DefaultZIndex,
	}
}

// AddNode appends a default node of the given shape at DefaultPosition.
func (s *Store) AddNode(shape ShapeType) (Node, error) {
	if !shape.Valid() {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
	n := s.NewNode(shape, DefaultPosition)
	s.nodes = append(s.nodes, n)
	s.commit()
	return n.Clone(), nil
}

// AddConnectedPair appends two labelled rectangles joined by an edge as a
// single mutation.
func (s *Store) AddConnectedPair() (Node, Node, Edge) {
	a := s.NewNode(ShapeRectangle, Position{X: 50, Y: 50})
	a.Data.Label = "Node 1"
	a.Data.FillColor = "#a7f3d0"
	b := s.NewNode(ShapeRectangle, Position{X: 300, Y: 50})
	b.Data.Label = "Node 2"
	b.Data.FillColor = "#bfdbfe"
	e := s.newEdge(a.ID, b.ID)

	s.nodes = append(s.nodes, a, b)
	s.edges = append(s.edges, e)
	s.commit()
	return a.Clone(), b.Clone(), e
}

func (s *Store) newEdge(source, target string) Edge {
	return Edge{
		ID:        s.newID(),
		Source:    source,
		Target:    target,
		Animated:  true,
		Routing:   RoutingSmoothStep,
		MarkerEnd: DefaultMarker(),
	}
}

// Connect appends an edge from source to target.
func (s *Store) Connect(source, target string) (Edge, error) {
	src, ok := s.Node(source)
	if !ok {
		return Edge{}, fmt.Errorf("%w: %s", ErrNodeNotFound, source)
	}
	tgt, ok := s.Node(target)
	if !ok {
		return Edge{}, fmt.Errorf("%w: %s", ErrNodeNotFound, target)
	}
	if source == target {
		return Edge{}, ErrSelfLoop
	}
	if !src.Type.HasPorts() || !tgt.Type.HasPorts() {
		return Edge{}, ErrNoPorts
	}
	for _, e := range s.edges {
		if e.Source == source && e.Target == target {
			return Edge{}, ErrDuplicateEdge
		}
	}
	e := s.newEdge(source, target)
	s.edges = append(s.edges, e)
	s.commit()
	return e, nil
}

// Delete removes a node or an edge. Deleting a node also removes every
// edge that references it. It reports whether anything was removed.
func (s *Store) Delete(id string) bool {
	if i := s.nodeIndex(id); i >= 0 {
		s.nodes = slices.Delete(s.nodes, i, i+1)
		s.edges = slices.DeleteFunc(s.edges, func(e Edge) bool {
			return e.Source == id || e.Target == id
		})
		s.commit()
		return true
	}
	if i := s.edgeIndex(id); i >= 0 {
		s.edges = slices.Delete(s.edges, i, i+1)
		s.commit()
		return true
	}
	return false
}

// UpdateNode applies fn to a copy of the node and commits it if the value
// changed. The id and type cannot be changed.
func (s *Store) UpdateNode(id string, fn func(*Node)) bool {
	i := s.nodeIndex(id)
	if i < 0 {
		return false
	}
	next := s.nodes[i].Clone()
	fn(&next)
	next.ID, next.Type = s.nodes[i].ID, s.nodes[i].Type
	if next.Equal(s.nodes[i]) {
		return false
	}
	s.nodes[i] = next
	s.commit()
	return true
}

// UpdateEdge applies fn to a copy of the edge and commits it if the value
// changed. Endpoints cannot be changed.
func (s *Store) UpdateEdge(id string, fn func(*Edge)) bool {
	i := s.edgeIndex(id)
	if i < 0 {
		return false
	}
	next := s.edges[i]
	fn(&next)
	next.ID, next.Source, next.Target = s.edges[i].ID, s.edges[i].Source, s.edges[i].Target
	if next == s.edges[i] {
		return false
	}
	s.edges[i] = next
	s.commit()
	return true
}

// Replace swaps the whole content in one mutation. Nothing changes when
// the new content fails Validate.
func (s *Store) Replace(nodes []Node, edges []Edge) error {
	next := Snapshot{Nodes: nodes, Edges: edges}.Clone()
	if err := Validate(next); err != nil {
		return err
	}
	s.nodes, s.edges = next.Nodes, next.Edges
	s.commit()
	return nil
}

// Restore replaces the content with a snapshot taken from this store.
func (s *Store) Restore(snap Snapshot) {
	next := snap.Clone()
	s.nodes, s.edges = next.Nodes, next.Edges
	s.commit()
}

// Clear removes every node and edge.
func (s *Store) Clear() {
	s.nodes, s.edges = nil, nil
	s.commit()
}

// Validate checks id uniqueness across nodes and edges, known shapes, and
// that every edge joins two distinct live nodes.
func Validate(snap Snapshot) error {
	seen := make(map[string]Kind, len(snap.Nodes)+len(snap.Edges))
	for _, n := range snap.Nodes {
		if n.ID == "" {
			return &IntegrityError{Reason: "node without id"}
		}
		if _, dup := seen[n.ID]; dup {
			return &IntegrityError{ID: n.ID, Reason: "duplicate id"}
		}
		if !n.Type.Valid() {
			return &IntegrityError{ID: n.ID, Reason: fmt.Sprintf("unknown shape %q", n.Type)}
		}
		seen[n.ID] = KindNode
	}
	for _, e := range snap.Edges {
		if e.ID == "" {
			return &IntegrityError{Reason: "edge without id"}
		}
		if _, dup := seen[e.ID]; dup {
			return &IntegrityError{ID: e.ID, Reason: "duplicate id"}
		}
		if seen[e.Source] != KindNode {
			return &IntegrityError{ID: e.ID, Reason: fmt.Sprintf("unknown source %q", e.Source)}
		}
		if seen[e.Target] != KindNode {
			return &IntegrityError{ID: e.ID, Reason: fmt.Sprintf("unknown target %q", e.Target)}
		}
		if e.Source == e.Target {
			return &IntegrityError{ID: e.ID, Reason: "self-loop"}
		}
		seen[e.ID] = KindEdge
	}
	return nil
}
