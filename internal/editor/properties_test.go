package editor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagramiz/internal/graph"
)

func selectedNode(t *testing.T, e *Editor) graph.Node {
	t.Helper()
	n, ok := e.SelectedNode()
	require.True(t, ok)
	return n
}

func TestNegativeWidthIgnored(t *testing.T) {
	e := newEditor(t, Deps{})
	n := mustAdd(t, e, graph.ShapeRectangle)
	pointer := e.History().Pointer()

	assert.False(t, e.UpdateWidth(-5))
	assert.Equal(t, n.Data.Width, selectedNode(t, e).Data.Width)
	assert.Equal(t, pointer, e.History().Pointer(), "rejected input records nothing")
}

func TestPositiveSettersRejectBadNumbers(t *testing.T) {
	bad := []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)}
	setters := map[string]func(*Editor, float64) bool{
		"width":     (*Editor).UpdateWidth,
		"height":    (*Editor).UpdateHeight,
		"font size": (*Editor).UpdateFontSize,
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			e := newEditor(t, Deps{})
			before := mustAdd(t, e, graph.ShapeCircle)
			for _, v := range bad {
				assert.False(t, set(e, v), "%v", v)
			}
			assert.Equal(t, before, selectedNode(t, e))

			assert.True(t, set(e, 42))
		})
	}
}

func TestOffsetsAcceptAnyFiniteNumber(t *testing.T) {
	e := newEditor(t, Deps{})
	mustAdd(t, e, graph.ShapeRectangle)

	assert.True(t, e.UpdateTextOffsetX(-12.5))
	assert.True(t, e.UpdateTextOffsetY(30))
	assert.False(t, e.UpdateTextOffsetX(math.NaN()))
	assert.False(t, e.UpdateTextOffsetY(math.Inf(1)))

	n := selectedNode(t, e)
	assert.Equal(t, -12.5, n.Data.TextOffsetX)
	assert.Equal(t, 30.0, n.Data.TextOffsetY)
}

func TestStyleSetters(t *testing.T) {
	e := newEditor(t, Deps{})
	mustAdd(t, e, graph.ShapeDiamond)

	assert.True(t, e.UpdateLabel("Decide"))
	assert.True(t, e.UpdateFillColor("#fde68a"))
	assert.True(t, e.UpdateTextColor("black"))
	assert.True(t, e.UpdateBorderColor("#333"))
	assert.True(t, e.UpdateFontWeight(graph.FontBolder))
	assert.True(t, e.UpdatePosition(10, 20))

	assert.False(t, e.UpdateFillColor("not-a-color"))
	assert.False(t, e.UpdateFontWeight("heavy"))
	assert.False(t, e.UpdateLabel("Decide"), "unchanged value commits nothing")

	n := selectedNode(t, e)
	assert.Equal(t, "Decide", n.Data.Label)
	assert.Equal(t, "#fde68a", n.Data.FillColor)
	assert.Equal(t, "black", n.Data.TextColor)
	assert.Equal(t, "#333", n.Data.BorderColor)
	assert.Equal(t, graph.FontBolder, n.Data.FontWeight)
	assert.Equal(t, graph.Position{X: 10, Y: 20}, n.Position)

	assert.True(t, e.UpdateBorderColor(""))
	assert.Empty(t, selectedNode(t, e).Data.BorderColor)
}

func TestArrowOnlySetters(t *testing.T) {
	e := newEditor(t, Deps{})
	mustAdd(t, e, graph.ShapeRectangle)
	assert.False(t, e.UpdateRotation(45))
	assert.False(t, e.UpdateArrowheadStyle(graph.HeadOpen))
	assert.False(t, e.UpdateArrowheadColor("#f00"))
	assert.Nil(t, selectedNode(t, e).Data.Arrow)

	mustAdd(t, e, graph.ShapeArrow)
	assert.True(t, e.UpdateRotation(-90))
	assert.True(t, e.UpdateArrowheadStyle(graph.HeadNone))
	assert.True(t, e.UpdateArrowheadColor("#f00"))
	assert.False(t, e.UpdateArrowheadStyle("Round"))
	assert.False(t, e.UpdateRotation(math.NaN()))

	a := selectedNode(t, e).Data.Arrow
	require.NotNil(t, a)
	assert.Equal(t, -90.0, a.Rotation)
	assert.Equal(t, graph.HeadNone, a.HeadStyle)
	assert.Equal(t, "#f00", a.HeadColor)
}

func TestEdgeSetters(t *testing.T) {
	e := newEditor(t, Deps{})
	_, _, edge := e.AddConnectedPair()

	assert.False(t, e.UpdateEdgeLabel("yes"), "no edge selected")
	require.True(t, e.Select(edge.ID))

	assert.True(t, e.UpdateEdgeLabel("yes"))
	assert.True(t, e.UpdateEdgeMarkerType(graph.MarkerArrow))
	assert.True(t, e.UpdateEdgeMarkerColor("#333"))
	assert.True(t, e.UpdateEdgeAnimated(false))
	assert.False(t, e.UpdateEdgeMarkerType("Diamond"))
	assert.False(t, e.UpdateWidth(10), "node setters ignore edges")

	got, ok := e.SelectedEdge()
	require.True(t, ok)
	assert.Equal(t, "yes", got.Label)
	assert.Equal(t, graph.Marker{Type: graph.MarkerArrow, Color: "#333"}, got.MarkerEnd)
	assert.False(t, got.Animated)
}

func TestSettersWithoutSelectionAreNoOps(t *testing.T) {
	e := newEditor(t, Deps{})
	mustAdd(t, e, graph.ShapeRectangle)
	e.ClickEmpty()
	pointer := e.History().Pointer()

	assert.False(t, e.UpdateLabel("x"))
	assert.False(t, e.UpdateWidth(10))
	assert.False(t, e.ChangeLayer(LayerFront))
	assert.Equal(t, pointer, e.History().Pointer())
}

func TestChangeLayer(t *testing.T) {
	e := newEditor(t, Deps{})
	a := mustAdd(t, e, graph.ShapeRectangle)
	b := mustAdd(t, e, graph.ShapeCircle)
	c := mustAdd(t, e, graph.ShapeDiamond)

	e.Select(b.ID)
	require.True(t, e.UpdateFontSize(20))
	e.Select(c.ID)
	require.True(t, e.ChangeLayer(LayerFront)) // c = 11

	e.Select(a.ID)
	require.True(t, e.ChangeLayer(LayerFront))
	front := selectedNode(t, e).ZIndex
	for _, n := range e.Store().Nodes() {
		if n.ID != a.ID {
			assert.Greater(t, front, n.ZIndex)
		}
	}

	require.True(t, e.ChangeLayer(LayerBack))
	back := selectedNode(t, e).ZIndex
	for _, n := range e.Store().Nodes() {
		if n.ID != a.ID {
			assert.Less(t, back, n.ZIndex)
		}
	}
	assert.Equal(t, graph.DefaultZIndex-1, back)
}

func TestChangeLayerOnlyNode(t *testing.T) {
	e := newEditor(t, Deps{})
	mustAdd(t, e, graph.ShapeRectangle)
	require.True(t, e.ChangeLayer(LayerFront))
	assert.Equal(t, graph.DefaultZIndex+1, selectedNode(t, e).ZIndex)
	assert.False(t, e.ChangeLayer(Layer(9)))
}
