package editor

import (
	"math"

	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/shapes"
)

// Layer is the direction of a ChangeLayer call.
type Layer int

const (
	LayerFront Layer = iota
	LayerBack
)

// Property setters act on the selected element and report whether the
// diagram changed. Out-of-range numbers, unknown enum values, unparsable
// colors and setters that do not apply to the selection are ignored.

func (e *Editor) updateNode(fn func(*graph.Node)) bool {
	n, ok := e.SelectedNode()
	if !ok {
		return false
	}
	return e.store.UpdateNode(n.ID, fn)
}

func (e *Editor) updateArrow(fn func(*graph.ArrowData)) bool {
	n, ok := e.SelectedNode()
	if !ok || n.Data.Arrow == nil {
		return false
	}
	return e.store.UpdateNode(n.ID, func(n *graph.Node) { fn(n.Data.Arrow) })
}

func (e *Editor) updateEdge(fn func(*graph.Edge)) bool {
	ed, ok := e.SelectedEdge()
	if !ok {
		return false
	}
	return e.store.UpdateEdge(ed.ID, fn)
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validColor(s string) bool {
	_, err := shapes.ParseColor(s)
	return err == nil
}

func (e *Editor) UpdateLabel(label string) bool {
	return e.updateNode(func(n *graph.Node) { n.Data.Label = label })
}

func (e *Editor) UpdateFillColor(c string) bool {
	if !validColor(c) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.FillColor = c })
}

// UpdateBorderColor sets the outline color. An empty string removes the
// border.
func (e *Editor) UpdateBorderColor(c string) bool {
	if c != "" && !validColor(c) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.BorderColor = c })
}

func (e *Editor) UpdateTextColor(c string) bool {
	if !validColor(c) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.TextColor = c })
}

func (e *Editor) UpdateFontWeight(w graph.FontWeight) bool {
	if !w.Valid() {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.FontWeight = w })
}

func (e *Editor) UpdateWidth(v float64) bool {
	if !positive(v) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.Width = v })
}

func (e *Editor) UpdateHeight(v float64) bool {
	if !positive(v) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.Height = v })
}

func (e *Editor) UpdateFontSize(v float64) bool {
	if !positive(v) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.FontSize = v })
}

func (e *Editor) UpdateTextOffsetX(v float64) bool {
	if !finite(v) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.TextOffsetX = v })
}

func (e *Editor) UpdateTextOffsetY(v float64) bool {
	if !finite(v) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Data.TextOffsetY = v })
}

// UpdatePosition moves the selected node.
func (e *Editor) UpdatePosition(x, y float64) bool {
	if !finite(x) || !finite(y) {
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.Position = graph.Position{X: x, Y: y} })
}

// MoveSelected shifts the selected node by dx, dy canvas units.
func (e *Editor) MoveSelected(dx, dy float64) bool {
	n, ok := e.SelectedNode()
	if !ok {
		return false
	}
	return e.UpdatePosition(n.Position.X+dx, n.Position.Y+dy)
}

// UpdateRotation applies to arrow nodes only.
func (e *Editor) UpdateRotation(deg float64) bool {
	if !finite(deg) {
		return false
	}
	return e.updateArrow(func(a *graph.ArrowData) { a.Rotation = deg })
}

// UpdateArrowheadStyle applies to arrow nodes only.
func (e *Editor) UpdateArrowheadStyle(s graph.ArrowheadStyle) bool {
	if !s.Valid() {
		return false
	}
	return e.updateArrow(func(a *graph.ArrowData) { a.HeadStyle = s })
}

// UpdateArrowheadColor applies to arrow nodes only.
func (e *Editor) UpdateArrowheadColor(c string) bool {
	if !validColor(c) {
		return false
	}
	return e.updateArrow(func(a *graph.ArrowData) { a.HeadColor = c })
}

func (e *Editor) UpdateEdgeLabel(label string) bool {
	return e.updateEdge(func(ed *graph.Edge) { ed.Label = label })
}

func (e *Editor) UpdateEdgeMarkerType(m graph.MarkerType) bool {
	if !m.Valid() {
		return false
	}
	return e.updateEdge(func(ed *graph.Edge) { ed.MarkerEnd.Type = m })
}

func (e *Editor) UpdateEdgeMarkerColor(c string) bool {
	if !validColor(c) {
		return false
	}
	return e.updateEdge(func(ed *graph.Edge) { ed.MarkerEnd.Color = c })
}

// UpdateEdgeAnimated toggles the dashed animation of the selected edge.
func (e *Editor) UpdateEdgeAnimated(on bool) bool {
	return e.updateEdge(func(ed *graph.Edge) { ed.Animated = on })
}

// ChangeLayer moves the selected node above (LayerFront) or below
// (LayerBack) every node in the diagram.
func (e *Editor) ChangeLayer(dir Layer) bool {
	sel, ok := e.SelectedNode()
	if !ok {
		return false
	}
	nodes := e.store.Nodes()
	lo, hi := sel.ZIndex, sel.ZIndex
	for _, n := range nodes {
		lo = min(lo, n.ZIndex)
		hi = max(hi, n.ZIndex)
	}

	var z int
	switch dir {
	case LayerFront:
		z = hi + 1
	case LayerBack:
		z = lo - 1
	default:
		return false
	}
	return e.updateNode(func(n *graph.Node) { n.ZIndex = z })
}
