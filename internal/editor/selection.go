package editor

import (
	"fmt"

	"github.com/abhisek/diagramiz/internal/graph"
)

// Select makes id the single selected element. Unknown ids are ignored.
func (e *Editor) Select(id string) bool {
	if !e.store.Contains(id) {
		return false
	}
	e.session.SelectedID = id
	return true
}

// ClickEmpty clears the selection.
func (e *Editor) ClickEmpty() {
	e.session.SelectedID = ""
}

// SelectedNode returns the selected node, if a node is selected.
func (e *Editor) SelectedNode() (graph.Node, bool) {
	if e.session.SelectedID == "" {
		return graph.Node{}, false
	}
	return e.store.Node(e.session.SelectedID)
}

// SelectedEdge returns the selected edge, if an edge is selected.
func (e *Editor) SelectedEdge() (graph.Edge, bool) {
	if e.session.SelectedID == "" {
		return graph.Edge{}, false
	}
	return e.store.Edge(e.session.SelectedID)
}

// CycleSelection moves the selection step places through the nodes, then
// the edges, wrapping at either end.
func (e *Editor) CycleSelection(step int) string {
	var ids []string
	for _, n := range e.store.Nodes() {
		ids = append(ids, n.ID)
	}
	for _, ed := range e.store.Edges() {
		ids = append(ids, ed.ID)
	}
	if len(ids) == 0 {
		e.session.SelectedID = ""
		return ""
	}

	cur := -1
	for i, id := range ids {
		if id == e.session.SelectedID {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && step < 0:
		next = len(ids) - 1
	case cur < 0:
		next = 0
	default:
		next = ((cur+step)%len(ids) + len(ids)) % len(ids)
	}
	e.session.SelectedID = ids[next]
	return ids[next]
}

// DisplayName is how an element is named in prompts: a node by its label
// (or id when unlabelled), an edge by its endpoints.
func (e *Editor) DisplayName(id string) string {
	if n, ok := e.store.Node(id); ok {
		if n.Data.Label != "" {
			return n.Data.Label
		}
		return n.ID
	}
	if ed, ok := e.store.Edge(id); ok {
		return ed.DisplayName()
	}
	return id
}

// ContextClick opens the delete confirmation for id and selects it.
func (e *Editor) ContextClick(id string) *ConfirmPrompt {
	var title string
	switch e.store.Kind(id) {
	case graph.KindNode:
		title = "Delete Node"
	case graph.KindEdge:
		title = "Delete Edge"
	default:
		return nil
	}
	e.session.SelectedID = id
	e.session.Confirm = &ConfirmPrompt{
		Title:    title,
		Message:  fmt.Sprintf("Are you sure you want to delete %q?", e.DisplayName(id)),
		TargetID: id,
	}
	return e.session.Confirm
}

// ConfirmDelete deletes the element named by the pending prompt.
func (e *Editor) ConfirmDelete() bool {
	c := e.session.Confirm
	if c == nil {
		return false
	}
	e.session.Confirm = nil
	return e.Delete(c.TargetID)
}

// CancelPrompt dismisses the pending prompt.
func (e *Editor) CancelPrompt() {
	e.session.Confirm = nil
}

// DeleteSelected deletes the selected element without asking.
func (e *Editor) DeleteSelected() bool {
	if e.session.SelectedID == "" {
		return false
	}
	return e.Delete(e.session.SelectedID)
}
