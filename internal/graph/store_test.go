package graph

import (
	"errors"
	"fmt"
	"testing"
)

func seqIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func TestAddNode_Defaults(t *testing.T) {
	tests := []struct {
		shape         ShapeType
		width, height float64
		label         string
	}{
		{ShapeRectangle, 150, 80, "New Rectangle"},
		{ShapeCircle, 100, 100, "New Circle"},
		{ShapeDiamond, 120, 120, "New Diamond"},
		{ShapeArrow, 150, 50, ""},
	}
	for _, tt := range tests {
		s := NewStore(seqIDs())
		n, err := s.AddNode(tt.shape)
		if err != nil {
			t.Fatalf("AddNode(%s): %v", tt.shape, err)
		}
		if n.Data.Width != tt.width || n.Data.Height != tt.height {
			t.Errorf("%s: size = %vx%v, want %vx%v", tt.shape, n.Data.Width, n.Data.Height, tt.width, tt.height)
		}
		if n.Data.Label != tt.label {
			t.Errorf("%s: label = %q, want %q", tt.shape, n.Data.Label, tt.label)
		}
		if n.Position != DefaultPosition {
			t.Errorf("%s: position = %+v, want %+v", tt.shape, n.Position, DefaultPosition)
		}
		if n.ZIndex != 10 || n.Data.FontSize != 14 || n.Data.FontWeight != FontNormal {
			t.Errorf("%s: unexpected defaults %+v", tt.shape, n)
		}
		if (n.Data.Arrow != nil) != (tt.shape == ShapeArrow) {
			t.Errorf("%s: arrow data presence wrong", tt.shape)
		}
	}
}

func TestAddNode_UnknownShape(t *testing.T) {
	s := NewStore()
	if _, err := s.AddNode("hexagon"); !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("got %v, want ErrUnknownShape", err)
	}
	if n, _ := s.Len(); n != 0 {
		t.Errorf("store has %d nodes, want 0", n)
	}
}

func TestDefaultIDsAreUnique(t *testing.T) {
	s := NewStore()
	a, _ := s.AddNode(ShapeRectangle)
	b, _ := s.AddNode(ShapeRectangle)
	if a.ID == b.ID {
		t.Fatalf("duplicate id %q", a.ID)
	}
}

func TestConnect(t *testing.T) {
	s := NewStore(seqIDs())
	a, _ := s.AddNode(ShapeRectangle)
	b, _ := s.AddNode(ShapeCircle)

	e, err := s.Connect(a.ID, b.ID)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !e.Animated || e.Routing != RoutingSmoothStep || e.MarkerEnd.Type != MarkerArrowClosed {
		t.Errorf("unexpected edge defaults: %+v", e)
	}

	if _, err := s.Connect(a.ID, b.ID); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("duplicate connect: got %v", err)
	}
	if _, err := s.Connect(b.ID, a.ID); err != nil {
		t.Errorf("reverse connect: %v", err)
	}
}

func TestConnect_Rejections(t *testing.T) {
	s := NewStore(seqIDs())
	a, _ := s.AddNode(ShapeRectangle)
	arrow, _ := s.AddNode(ShapeArrow)

	if _, err := s.Connect(a.ID, a.ID); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self-loop: got %v", err)
	}
	if _, err := s.Connect(a.ID, arrow.ID); !errors.Is(err, ErrNoPorts) {
		t.Errorf("arrow target: got %v", err)
	}
	if _, err := s.Connect(a.ID, "missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("missing target: got %v", err)
	}
	if _, edges := s.Len(); edges != 0 {
		t.Errorf("got %d edges, want 0", edges)
	}
}

func TestDelete_CascadesEdges(t *testing.T) {
	s := NewStore(seqIDs())
	a, _ := s.AddNode(ShapeRectangle)
	b, _ := s.AddNode(ShapeRectangle)
	c, _ := s.AddNode(ShapeRectangle)
	s.Connect(a.ID, b.ID)
	s.Connect(b.ID, c.ID)
	keep, _ := s.Connect(a.ID, c.ID)

	if !s.Delete(b.ID) {
		t.Fatal("delete returned false")
	}
	edges := s.Edges()
	if len(edges) != 1 || edges[0].ID != keep.ID {
		t.Fatalf("edges after delete = %+v, want only %s", edges, keep.ID)
	}
	for _, e := range edges {
		if !s.Contains(e.Source) || !s.Contains(e.Target) {
			t.Errorf("dangling edge %+v", e)
		}
	}
}

func TestDelete_EdgeOnly(t *testing.T) {
	s := NewStore(seqIDs())
	a, b, e := s.AddConnectedPair()
	if !s.Delete(e.ID) {
		t.Fatal("delete edge returned false")
	}
	if !s.Contains(a.ID) || !s.Contains(b.ID) {
		t.Error("deleting an edge removed a node")
	}
	if s.Delete(e.ID) {
		t.Error("second delete should report false")
	}
}

func TestAddConnectedPair(t *testing.T) {
	s := NewStore(seqIDs())
	commits := 0
	s.Subscribe(func(Snapshot) { commits++ })

	a, b, e := s.AddConnectedPair()
	if commits != 1 {
		t.Errorf("commits = %d, want 1", commits)
	}
	if a.Data.Label != "Node 1" || b.Data.Label != "Node 2" {
		t.Errorf("labels = %q, %q", a.Data.Label, b.Data.Label)
	}
	if a.Position != (Position{50, 50}) || b.Position != (Position{300, 50}) {
		t.Errorf("positions = %+v, %+v", a.Position, b.Position)
	}
	if e.Source != a.ID || e.Target != b.ID {
		t.Errorf("edge = %+v", e)
	}
}

func TestUpdateNode_CommitsOnlyOnChange(t *testing.T) {
	s := NewStore(seqIDs())
	n, _ := s.AddNode(ShapeRectangle)
	commits := 0
	s.Subscribe(func(Snapshot) { commits++ })

	if s.UpdateNode(n.ID, func(n *Node) { n.Data.Label = "New Rectangle" }) {
		t.Error("no-op update reported change")
	}
	if !s.UpdateNode(n.ID, func(n *Node) { n.Data.Label = "Start" }) {
		t.Error("label update not applied")
	}
	if commits != 1 {
		t.Errorf("commits = %d, want 1", commits)
	}
	got, _ := s.Node(n.ID)
	if got.Data.Label != "Start" {
		t.Errorf("label = %q", got.Data.Label)
	}
}

func TestUpdateNode_ArrowDataIsCopied(t *testing.T) {
	s := NewStore(seqIDs())
	n, _ := s.AddNode(ShapeArrow)
	n.Data.Arrow.Rotation = 90

	got, _ := s.Node(n.ID)
	if got.Data.Arrow.Rotation != 0 {
		t.Fatal("caller mutation leaked into store")
	}
	s.UpdateNode(n.ID, func(n *Node) { n.Data.Arrow.Rotation = 45 })
	got, _ = s.Node(n.ID)
	if got.Data.Arrow.Rotation != 45 {
		t.Errorf("rotation = %v, want 45", got.Data.Arrow.Rotation)
	}
}

func TestReplace_RejectsInvalidAtomically(t *testing.T) {
	s := NewStore(seqIDs())
	s.AddConnectedPair()
	before := s.Snapshot()

	bad := []struct {
		name  string
		nodes []Node
		edges []Edge
	}{
		{"dangling", []Node{{ID: "a", Type: ShapeRectangle}}, []Edge{{ID: "e", Source: "a", Target: "b"}}},
		{"duplicate", []Node{{ID: "a", Type: ShapeRectangle}, {ID: "a", Type: ShapeCircle}}, nil},
		{"node-edge clash", []Node{{ID: "a", Type: ShapeRectangle}, {ID: "b", Type: ShapeRectangle}}, []Edge{{ID: "a", Source: "a", Target: "b"}}},
		{"self-loop", []Node{{ID: "a", Type: ShapeRectangle}}, []Edge{{ID: "e", Source: "a", Target: "a"}}},
		{"unknown shape", []Node{{ID: "a", Type: "star"}}, nil},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			var ie *IntegrityError
			if err := s.Replace(tt.nodes, tt.edges); !errors.As(err, &ie) {
				t.Fatalf("got %v, want IntegrityError", err)
			}
			if n, e := s.Len(); n != len(before.Nodes) || e != len(before.Edges) {
				t.Errorf("store changed: %d nodes %d edges", n, e)
			}
		})
	}
}

func TestRestore_IsolatedFromSnapshot(t *testing.T) {
	s := NewStore(seqIDs())
	s.AddNode(ShapeArrow)
	snap := s.Snapshot()
	s.Clear()

	s.Restore(snap)
	snap.Nodes[0].Data.Arrow.Rotation = 180
	got := s.Nodes()
	if len(got) != 1 || got[0].Data.Arrow.Rotation != 0 {
		t.Fatalf("restore shares memory with snapshot: %+v", got)
	}
}

func TestKind(t *testing.T) {
	s := NewStore(seqIDs())
	a, _, e := s.AddConnectedPair()
	if s.Kind(a.ID) != KindNode || s.Kind(e.ID) != KindEdge || s.Kind("nope") != KindNone {
		t.Error("unexpected kinds")
	}
}

func TestEdgeDisplayName(t *testing.T) {
	e := Edge{Source: "a", Target: "b", Label: "yes"}
	if got := e.DisplayName(); got != "Edge a-b" {
		t.Errorf("got %q", got)
	}
}
