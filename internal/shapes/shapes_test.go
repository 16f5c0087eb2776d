package shapes

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagramiz/internal/graph"
)

func node(shape graph.ShapeType, x, y float64) graph.Node {
	return graph.Node{
		ID:       string(shape),
		Type:     shape,
		Position: graph.Position{X: x, Y: y},
		Data:     graph.DefaultData(shape),
		ZIndex:   graph.DefaultZIndex,
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}},
		{"#0F0", color.RGBA{0, 255, 0, 255}},
		{"white", color.RGBA{255, 255, 255, 255}},
		{" Black ", color.RGBA{0, 0, 0, 255}},
		{"#00000000", color.RGBA{}},
		{"transparent", color.RGBA{}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "#12", "chartreuse-ish", "#gggggg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestColorOr_FallsBack(t *testing.T) {
	def := color.RGBA{1, 2, 3, 255}
	assert.Equal(t, def, ColorOr("", def))
	assert.Equal(t, def, ColorOr("not a color", def))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, ColorOr("blue", def))
}

func TestRegistryCoversAllShapes(t *testing.T) {
	for _, s := range graph.AllShapes {
		r, err := For(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.Type())
	}
	_, err := For("hexagon")
	assert.Error(t, err)
}

func TestPorts(t *testing.T) {
	for _, s := range []graph.ShapeType{graph.ShapeRectangle, graph.ShapeCircle, graph.ShapeDiamond} {
		r, _ := For(s)
		ports := r.Ports(node(s, 0, 0))
		require.Len(t, ports, 4, s)
		top, _ := PortAt(ports, SideTop)
		bottom, _ := PortAt(ports, SideBottom)
		assert.Equal(t, PortTarget, top.Kind, s)
		assert.Equal(t, PortSource, bottom.Kind, s)
	}

	r, _ := For(graph.ShapeArrow)
	assert.Empty(t, r.Ports(node(graph.ShapeArrow, 0, 0)))
}

func TestDiamondBoundsExceedBox(t *testing.T) {
	n := node(graph.ShapeDiamond, 100, 100)
	r, _ := For(graph.ShapeDiamond)
	b := r.Bounds(n)
	want := 240 / math.Sqrt2
	assert.InDelta(t, want, b.W, 1e-9)
	assert.InDelta(t, want, b.H, 1e-9)
	assert.InDelta(t, Box(n).Center().X, b.Center().X, 1e-9)
	assert.InDelta(t, Box(n).Center().Y, b.Center().Y, 1e-9)
}

func TestArrowBoundsFollowRotation(t *testing.T) {
	n := node(graph.ShapeArrow, 0, 0)
	n.Data.Arrow.Rotation = 90
	r, _ := For(graph.ShapeArrow)
	b := r.Bounds(n)
	assert.InDelta(t, 50, b.W, 1e-9)
	assert.InDelta(t, 150, b.H, 1e-9)
}

func TestLabelAnchor(t *testing.T) {
	n := node(graph.ShapeRectangle, 0, 0)
	n.Data.TextOffsetX = 10
	n.Data.TextOffsetY = -5
	assert.Equal(t, Point{85, 35}, LabelAnchor(n))

	a := node(graph.ShapeArrow, 0, 0)
	a.Data.TextOffsetX = 10
	a.Data.Arrow.Rotation = 90
	got := LabelAnchor(a)
	assert.InDelta(t, 75, got.X, 1e-9)
	assert.InDelta(t, 35, got.Y, 1e-9)
}

func TestRoute(t *testing.T) {
	src := node(graph.ShapeRectangle, 0, 0)

	below := node(graph.ShapeRectangle, 0, 300)
	r := Route(src, below)
	assert.Equal(t, Point{75, 80}, r[0])
	assert.Equal(t, Point{75, 300}, r[len(r)-1])

	right := node(graph.ShapeRectangle, 400, 0)
	r = Route(src, right)
	assert.Equal(t, Point{150, 40}, r[0])
	assert.Equal(t, Point{400, 40}, r[len(r)-1])

	for i := 1; i < len(r); i++ {
		seg := r[i].Sub(r[i-1])
		assert.True(t, seg.X == 0 || seg.Y == 0, "segment %d not axis aligned", i)
	}
}

func TestRoute_TargetAbove(t *testing.T) {
	src := node(graph.ShapeRectangle, 0, 300)
	tgt := node(graph.ShapeRectangle, 0, 0)
	r := Route(src, tgt)
	require.Greater(t, len(r), 4)
	for i := 1; i < len(r); i++ {
		seg := r[i].Sub(r[i-1])
		assert.True(t, seg.X == 0 || seg.Y == 0)
	}
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, Point{5, 0}, Midpoint([]Point{{0, 0}, {10, 0}}))
	assert.Equal(t, Point{10, 5}, Midpoint([]Point{{0, 0}, {10, 0}, {10, 10}, {20, 10}}))
}

func TestSurface_FillAndStroke(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	s := NewSurface(img, Identity)
	defer s.Close()

	s.Clear(color.RGBA{0, 0, 0, 255})
	red := color.RGBA{255, 0, 0, 255}
	s.FillPolygon(Rect{X: 10, Y: 10, W: 30, H: 30}.Corners(), red)
	assert.Equal(t, red, img.RGBAAt(25, 25))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(60, 60))

	s.FillEllipse(Rect{X: 50, Y: 50, W: 40, H: 40}, red)
	assert.Equal(t, red, img.RGBAAt(70, 70))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(51, 51))
}

func TestSurface_TransformScales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	s := NewSurface(img, Transform{Scale: 2, OffsetX: 10})
	s.FillPolygon(Rect{X: 0, Y: 0, W: 10, H: 10}.Corners(), color.RGBA{0, 255, 0, 255})
	assert.Equal(t, uint8(255), img.RGBAAt(25, 15).G)
	assert.Equal(t, uint8(0), img.RGBAAt(35, 15).G)
}

func TestDrawAllShapes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	s := NewSurface(img, Identity)
	defer s.Close()
	for _, shape := range graph.AllShapes {
		r, _ := For(shape)
		n := node(shape, 100, 100)
		n.Data.Label = "Hello world"
		n.Data.FontWeight = graph.FontBold
		require.NoError(t, r.Draw(s, n, Style{Selected: true}))
	}

	e := graph.Edge{Source: "a", Target: "b", Animated: true, Label: "yes", MarkerEnd: graph.DefaultMarker()}
	route := []Point{{10, 10}, {10, 200}, {300, 200}}
	require.NoError(t, DrawEdge(s, e, route, Style{}, color.Black))
}

func TestWrapText(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	s := NewSurface(img, Identity)
	face, err := s.faces.face(graph.FontNormal, 14)
	require.NoError(t, err)

	assert.Equal(t, []string{"one two three"}, wrapText(face, "one two three", 0))
	lines := wrapText(face, "one two three four five six", 60)
	assert.Greater(t, len(lines), 1)
	assert.Equal(t, []string{"a", "b"}, wrapText(face, "a\nb", 0))
}
