package canvas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/shapes"
)

func rect(id string, x, y float64, z int) graph.Node {
	return graph.Node{
		ID:       id,
		Type:     graph.ShapeRectangle,
		Position: graph.Position{X: x, Y: y},
		Data:     graph.DefaultData(graph.ShapeRectangle),
		ZIndex:   z,
	}
}

func TestFitView_EmptySceneIsIdentity(t *testing.T) {
	c := New(StaticScene{}, DefaultOptions())
	c.SetViewport(Viewport{X: 40, Y: 10, Zoom: 1.5})
	assert.Equal(t, IdentityViewport, c.FitView())
}

func TestFitView_ClampsZoom(t *testing.T) {
	opts := Options{Width: 800, Height: 600, Padding: 20}

	tiny := New(StaticScene{Nodes: []graph.Node{rect("a", 0, 0, 10)}}, opts)
	tiny.Resize(800, 600)
	assert.Equal(t, MaxZoom, tiny.FitView().Zoom)

	far := rect("b", 10000, 10000, 10)
	huge := New(StaticScene{Nodes: []graph.Node{rect("a", 0, 0, 10), far}}, opts)
	assert.Equal(t, MinZoom, huge.FitView().Zoom)
}

func TestFitView_CentersScene(t *testing.T) {
	opts := Options{Width: 1000, Height: 1000, Padding: 0}
	c := New(StaticScene{Nodes: []graph.Node{rect("a", 0, 0, 10), rect("b", 850, 0, 10)}}, opts)
	v := c.FitView()

	// Scene spans 0..1000 horizontally.
	assert.InDelta(t, 1.0, v.Zoom, 1e-9)
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 500-40, v.Y, 1e-9)
}

func TestSetViewport_Clamps(t *testing.T) {
	c := New(StaticScene{}, DefaultOptions())
	c.SetViewport(Viewport{Zoom: 10})
	assert.Equal(t, MaxZoom, c.Viewport().Zoom)
	c.SetViewport(Viewport{Zoom: 0.01})
	assert.Equal(t, MinZoom, c.Viewport().Zoom)
}

func TestRasterize_NotReady(t *testing.T) {
	c := New(StaticScene{}, Options{Width: 0, Height: 100})
	_, err := c.Rasterize(context.Background())
	assert.True(t, errors.Is(err, ErrSurfaceNotReady))
}

func TestRasterize_OpaqueBackground(t *testing.T) {
	opts := Options{Width: 64, Height: 48, Background: "transparent"}
	c := New(StaticScene{}, opts)
	img, err := c.Rasterize(context.Background())
	require.NoError(t, err)

	want := shapes.MustColor(DefaultOptions().Background)
	for _, p := range [][2]int{{0, 0}, {63, 47}, {32, 24}} {
		assert.Equal(t, want, img.RGBAAt(p[0], p[1]))
	}
}

func TestRasterize_PaintsNodesAndEdges(t *testing.T) {
	a := rect("a", 0, 0, 10)
	a.Data.FillColor = "#ff0000"
	b := rect("b", 0, 200, 10)
	b.Data.FillColor = "#00ff00"
	scene := Scene{
		Nodes:      []graph.Node{a, b},
		Edges:      []graph.Edge{{ID: "e", Source: "a", Target: "b", Animated: true, MarkerEnd: graph.DefaultMarker()}},
		SelectedID: "a",
		Title:      "AI Generated Diagram",
	}
	c := New(StaticScene(scene), Options{Width: 400, Height: 400, Background: "#ffffff"})

	img, err := c.Rasterize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.RGBAAt(10, 10).R)
	assert.Equal(t, uint8(255), img.RGBAAt(10, 210).G)
}

func TestRasterize_HigherZIndexOnTop(t *testing.T) {
	low := rect("low", 0, 0, 20)
	low.Data.FillColor = "#ff0000"
	high := rect("high", 0, 0, 5)
	high.Data.FillColor = "#0000ff"
	c := New(StaticScene{Nodes: []graph.Node{low, high}}, Options{Width: 200, Height: 200})

	img, err := c.Rasterize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.RGBAAt(10, 60).R, "zIndex 20 paints over zIndex 5")
	assert.Equal(t, []string{"high", "low"}, PaintOrder([]graph.Node{low, high}))
}

func TestRasterize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(StaticScene{Nodes: []graph.Node{rect("a", 0, 0, 10)}}, DefaultOptions())
	_, err := c.Rasterize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type liveScene struct{ scene Scene }

func (l *liveScene) Scene() Scene { return l.scene }

func TestFreeze_DetachesFromSource(t *testing.T) {
	live := &liveScene{scene: Scene{Nodes: []graph.Node{rect("a", 0, 0, 10)}}}
	c := New(live, DefaultOptions())
	frozen := c.Freeze()

	live.scene.Nodes[0].Data.Label = "changed"
	live.scene.Nodes = append(live.scene.Nodes, rect("b", 0, 0, 10))

	got := frozen.src.Scene()
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "New Rectangle", got.Nodes[0].Data.Label)
}
