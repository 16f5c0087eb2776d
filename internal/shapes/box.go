package shapes

import (
	"math"

	"github.com/abhisek/diagramiz/internal/graph"
)

type rectangle struct{}

func (rectangle) Type() graph.ShapeType { return graph.ShapeRectangle }

func (rectangle) Bounds(n graph.Node) Rect { return Box(n) }

func (rectangle) Ports(n graph.Node) []Port { return boxPorts(Box(n)) }

func (rectangle) Draw(s *Surface, n graph.Node, st Style) error {
	box := Box(n)
	s.FillPolygon(box.Corners(), fillColor(n))
	if n.Data.BorderColor != "" {
		s.StrokePolyline(box.Corners(), borderWidth, ColorOr(n.Data.BorderColor, SelectionColor), true)
	}
	if st.Selected {
		s.StrokePolyline(box.Inset(-4).Corners(), selectionWidth, SelectionColor, true)
	}
	return s.DrawText(LabelAnchor(n), n.Data.Label, textStyle(n, box.W-2*labelPadding))
}

type circle struct{}

func (circle) Type() graph.ShapeType { return graph.ShapeCircle }

func (circle) Bounds(n graph.Node) Rect { return Box(n) }

// Ports sit on the box sides, which the ellipse touches at their midpoints.
func (circle) Ports(n graph.Node) []Port { return boxPorts(Box(n)) }

func (circle) Draw(s *Surface, n graph.Node, st Style) error {
	box := Box(n)
	s.FillEllipse(box, fillColor(n))
	if n.Data.BorderColor != "" {
		s.StrokeEllipse(box, borderWidth, ColorOr(n.Data.BorderColor, SelectionColor))
	}
	if st.Selected {
		s.StrokeEllipse(box.Inset(-4), selectionWidth, SelectionColor)
	}
	// Inscribed square keeps wrapped text inside the ellipse.
	return s.DrawText(LabelAnchor(n), n.Data.Label, textStyle(n, box.W/math.Sqrt2-labelPadding))
}

// diamond is the node box turned 45 degrees about its center. The label
// stays upright.
type diamond struct{}

func (diamond) Type() graph.ShapeType { return graph.ShapeDiamond }

func diamondOutline(n graph.Node) []Point {
	box := Box(n)
	c := box.Center()
	pts := box.Corners()
	for i := range pts {
		pts[i] = pts[i].Rotate(c, 45)
	}
	return pts
}

func (diamond) Bounds(n graph.Node) Rect { return BoundsOf(diamondOutline(n)...) }

func (d diamond) Ports(n graph.Node) []Port { return boxPorts(d.Bounds(n)) }

func (d diamond) Draw(s *Surface, n graph.Node, st Style) error {
	outline := diamondOutline(n)
	s.FillPolygon(outline, fillColor(n))
	if n.Data.BorderColor != "" {
		s.StrokePolyline(outline, borderWidth, ColorOr(n.Data.BorderColor, SelectionColor), true)
	}
	if st.Selected {
		s.StrokePolyline(d.Bounds(n).Inset(-4).Corners(), selectionWidth, SelectionColor, true)
	}
	return s.DrawText(LabelAnchor(n), n.Data.Label, textStyle(n, n.Data.Width-labelPadding))
}
