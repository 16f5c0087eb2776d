// Package shapes draws diagram nodes and edges onto raster surfaces.
package shapes

import (
	"fmt"
	"image/color"

	"github.com/abhisek/diagramiz/internal/graph"
)

// Side is the edge of a node box a port sits on.
type Side string

const (
	SideTop    Side = "top"
	SideLeft   Side = "left"
	SideBottom Side = "bottom"
	SideRight  Side = "right"
)

// PortKind tells whether edges enter or leave through a port.
type PortKind int

const (
	PortTarget PortKind = iota
	PortSource
)

// Port is a connection point on a node.
type Port struct {
	Side Side
	Kind PortKind
	At   Point
}

// Style carries the render-time state that is not part of the node.
type Style struct {
	Selected bool
}

// SelectionColor outlines the selected element.
var SelectionColor = MustColor("#8B5CF6")

// Renderer draws one node variant.
type Renderer interface {
	Type() graph.ShapeType
	// Bounds is the painted extent, including rotation.
	Bounds(n graph.Node) Rect
	Ports(n graph.Node) []Port
	Draw(s *Surface, n graph.Node, st Style) error
}

var registry = map[graph.ShapeType]Renderer{
	graph.ShapeRectangle: rectangle{},
	graph.ShapeCircle:    circle{},
	graph.ShapeDiamond:   diamond{},
	graph.ShapeArrow:     arrow{},
}

// For returns the renderer of a shape type.
func For(t graph.ShapeType) (Renderer, error) {
	r, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("no renderer for shape %q", t)
	}
	return r, nil
}

// Box is the unrotated w×h box of a node.
func Box(n graph.Node) Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, W: n.Data.Width, H: n.Data.Height}
}

// LabelAnchor is the box center shifted by the text offsets.
func LabelAnchor(n graph.Node) Point {
	if n.Type == graph.ShapeArrow {
		return arrowLabelAnchor(n)
	}
	return Box(n).Center().Add(Point{n.Data.TextOffsetX, n.Data.TextOffsetY})
}

// boxPorts puts targets on the top and left sides and sources on the
// bottom and right sides of r.
func boxPorts(r Rect) []Port {
	c := r.Center()
	return []Port{
		{Side: SideTop, Kind: PortTarget, At: Point{c.X, r.Y}},
		{Side: SideLeft, Kind: PortTarget, At: Point{r.X, c.Y}},
		{Side: SideBottom, Kind: PortSource, At: Point{c.X, r.Y + r.H}},
		{Side: SideRight, Kind: PortSource, At: Point{r.X + r.W, c.Y}},
	}
}

// PortAt finds the port on the given side.
func PortAt(ports []Port, side Side) (Port, bool) {
	for _, p := range ports {
		if p.Side == side {
			return p, true
		}
	}
	return Port{}, false
}

func textStyle(n graph.Node, maxWidth float64) TextStyle {
	return TextStyle{
		Size:     n.Data.FontSize,
		Weight:   n.Data.FontWeight,
		Color:    ColorOr(n.Data.TextColor, MustColor(graph.DefaultTextColor)),
		MaxWidth: maxWidth,
	}
}

func fillColor(n graph.Node) color.RGBA {
	return ColorOr(n.Data.FillColor, MustColor(graph.DefaultFillColor))
}

const (
	borderWidth    = 1.5
	selectionWidth = 3
	labelPadding   = 8
)
