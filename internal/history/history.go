// Package history records graph snapshots and replays them for undo/redo.
package history

import (
	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/metrics"
)

// Mode is the state of the history machine.
type Mode int

const (
	// Recording captures every store commit.
	Recording Mode = iota
	// Replaying is set while undo or redo restores a snapshot. The next
	// commit is the restore itself and is not captured.
	Replaying
)

func (m Mode) String() string {
	if m == Replaying {
		return "replaying"
	}
	return "recording"
}

// DefaultLimit is the number of snapshots kept when no limit is given.
const DefaultLimit = 100

// Option configures a Manager.
type Option func(*Manager)

// WithLimit bounds the log. Oldest snapshots are dropped first. A
// non-positive limit keeps everything.
func WithLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

// Restorer is the part of the graph store history needs.
type Restorer interface {
	Snapshot() graph.Snapshot
	Restore(graph.Snapshot)
	Subscribe(graph.Observer)
}

// Manager is the linear undo/redo log of one store.
type Manager struct {
	store   Restorer
	entries []graph.Snapshot
	pointer int
	mode    Mode
	limit   int
}

// New records the current store content as the first entry and starts
// observing commits.
func New(store Restorer, opts ...Option) *Manager {
	m := &Manager{store: store, limit: DefaultLimit}
	for _, o := range opts {
		o(m)
	}
	m.entries = []graph.Snapshot{store.Snapshot()}
	store.Subscribe(m.observe)
	return m
}

func (m *Manager) observe(snap graph.Snapshot) {
	if m.mode == Replaying {
		m.mode = Recording
		return
	}

	m.entries = append(m.entries[:m.pointer+1], snap)
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = m.entries[len(m.entries)-m.limit:]
	}
	m.pointer = len(m.entries) - 1
	metrics.HistorySnapshots.Inc()
}

// Undo restores the previous snapshot. It reports false at the start of
// the log.
func (m *Manager) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	m.pointer--
	m.replay()
	return true
}

// Redo restores the next snapshot. It reports false at the end of the log.
func (m *Manager) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	m.pointer++
	m.replay()
	return true
}

func (m *Manager) replay() {
	m.mode = Replaying
	m.store.Restore(m.entries[m.pointer])
	// A store without observers never calls back.
	m.mode = Recording
}

func (m *Manager) CanUndo() bool { return m.pointer > 0 }

func (m *Manager) CanRedo() bool { return m.pointer < len(m.entries)-1 }

// Pointer is the index of the entry matching the store content.
func (m *Manager) Pointer() int { return m.pointer }

// Len is the number of entries in the log.
func (m *Manager) Len() int { return len(m.entries) }

// Mode returns the current machine state.
func (m *Manager) Mode() Mode { return m.mode }

// At returns a copy of entry i.
func (m *Manager) At(i int) (graph.Snapshot, bool) {
	if i < 0 || i >= len(m.entries) {
		return graph.Snapshot{}, false
	}
	return m.entries[i].Clone(), true
}
