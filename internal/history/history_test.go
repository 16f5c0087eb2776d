package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagramiz/internal/graph"
)

func newStore() *graph.Store {
	n := 0
	return graph.NewStore(graph.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
}

func TestNew_RecordsInitialSnapshot(t *testing.T) {
	s := newStore()
	h := New(s)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Pointer())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
}

func TestUndoRedo_RoundTrip(t *testing.T) {
	s := newStore()
	h := New(s)

	s.AddNode(graph.ShapeRectangle)
	s.AddNode(graph.ShapeCircle)
	after := s.Snapshot()
	require.Equal(t, 3, h.Len())

	require.True(t, h.Undo())
	require.True(t, h.Undo())
	assert.True(t, s.Snapshot().Empty())
	assert.Equal(t, 0, h.Pointer())
	assert.Equal(t, 3, h.Len(), "undo must not record")

	require.True(t, h.Redo())
	require.True(t, h.Redo())
	assert.Equal(t, after, s.Snapshot())
	assert.False(t, h.CanRedo())
}

func TestForwardTruncation(t *testing.T) {
	s := newStore()
	h := New(s)

	a, _ := s.AddNode(graph.ShapeRectangle)
	b, _ := s.AddNode(graph.ShapeRectangle)
	s.Connect(a.ID, b.ID)
	require.Equal(t, 4, h.Len())

	h.Undo()
	h.Undo()
	require.Equal(t, 1, h.Pointer())

	s.AddNode(graph.ShapeDiamond)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Pointer())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo())
}

func TestUndoRestoresCascadedEdges(t *testing.T) {
	s := newStore()
	h := New(s)

	a, _ := s.AddNode(graph.ShapeRectangle)
	b, _ := s.AddNode(graph.ShapeCircle)
	e, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)

	s.Delete(a.ID)
	nodes, edges := s.Len()
	assert.Equal(t, 1, nodes)
	assert.Equal(t, 0, edges)

	require.True(t, h.Undo())
	assert.True(t, s.Contains(a.ID))
	assert.True(t, s.Contains(e.ID))
	assert.Equal(t, 3, h.Pointer())
}

func TestLimitDropsOldest(t *testing.T) {
	s := newStore()
	h := New(s, WithLimit(3))

	for range 5 {
		s.AddNode(graph.ShapeRectangle)
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Pointer())

	h.Undo()
	h.Undo()
	assert.False(t, h.CanUndo())
	nodes, _ := s.Len()
	assert.Equal(t, 3, nodes)
}

func TestNoOpUpdateNotRecorded(t *testing.T) {
	s := newStore()
	h := New(s)
	n, _ := s.AddNode(graph.ShapeRectangle)

	s.UpdateNode(n.ID, func(*graph.Node) {})
	assert.Equal(t, 2, h.Len())
}

type spyStore struct {
	snap      graph.Snapshot
	observers []graph.Observer
	seenMode  func() Mode
	modes     []Mode
}

func (s *spyStore) Snapshot() graph.Snapshot { return s.snap }

func (s *spyStore) Subscribe(o graph.Observer) { s.observers = append(s.observers, o) }

func (s *spyStore) commit(snap graph.Snapshot) {
	s.snap = snap
	for _, o := range s.observers {
		o(snap)
	}
}

func (s *spyStore) Restore(snap graph.Snapshot) {
	s.modes = append(s.modes, s.seenMode())
	s.commit(snap)
}

func TestReplayModeTransition(t *testing.T) {
	spy := &spyStore{}
	h := New(spy)
	spy.seenMode = h.Mode

	spy.commit(graph.Snapshot{Nodes: []graph.Node{{ID: "a", Type: graph.ShapeRectangle}}})
	require.Equal(t, 2, h.Len())

	require.True(t, h.Undo())
	assert.Equal(t, []Mode{Replaying}, spy.modes)
	assert.Equal(t, Recording, h.Mode())
	assert.Equal(t, 2, h.Len())

	spy.commit(graph.Snapshot{})
	assert.Equal(t, 2, h.Len(), "commit after undo truncates and appends")
	assert.Equal(t, 1, h.Pointer())
}
