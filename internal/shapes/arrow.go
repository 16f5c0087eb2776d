package shapes

import (
	"github.com/abhisek/diagramiz/internal/graph"
)

const (
	arrowLineWidth = 2
	arrowHeadLen   = 10
	arrowHeadHalf  = 6
)

// arrow is a free-standing connector: a horizontal line across the node
// box with a head at the right end, turned by the node rotation.
type arrow struct{}

func (arrow) Type() graph.ShapeType { return graph.ShapeArrow }

func arrowData(n graph.Node) graph.ArrowData {
	if n.Data.Arrow != nil {
		return *n.Data.Arrow
	}
	return graph.ArrowData{HeadStyle: graph.HeadClosed}
}

type arrowGeometry struct {
	tail, lineEnd, tip Point
	wingA, wingB       Point
}

func arrowShape(n graph.Node) arrowGeometry {
	box := Box(n)
	c := box.Center()
	rot := arrowData(n).Rotation
	tip := Point{box.X + box.W, c.Y}
	base := tip.X - arrowHeadLen
	g := arrowGeometry{
		tail:    Point{box.X, c.Y},
		lineEnd: tip,
		tip:     tip,
		wingA:   Point{base, c.Y - arrowHeadHalf},
		wingB:   Point{base, c.Y + arrowHeadHalf},
	}
	if arrowData(n).HeadStyle == graph.HeadClosed {
		g.lineEnd = Point{base, c.Y}
	}
	g.tail = g.tail.Rotate(c, rot)
	g.lineEnd = g.lineEnd.Rotate(c, rot)
	g.tip = g.tip.Rotate(c, rot)
	g.wingA = g.wingA.Rotate(c, rot)
	g.wingB = g.wingB.Rotate(c, rot)
	return g
}

func (arrow) Bounds(n graph.Node) Rect {
	box := Box(n)
	c := box.Center()
	pts := box.Corners()
	for i := range pts {
		pts[i] = pts[i].Rotate(c, arrowData(n).Rotation)
	}
	return BoundsOf(pts...)
}

// Ports is empty: arrows do not take edges.
func (arrow) Ports(graph.Node) []Port { return nil }

// arrowLabelAnchor turns the text offset with the arrow; the text itself
// stays upright.
func arrowLabelAnchor(n graph.Node) Point {
	c := Box(n).Center()
	return c.Add(Point{n.Data.TextOffsetX, n.Data.TextOffsetY}).Rotate(c, arrowData(n).Rotation)
}

func (a arrow) Draw(s *Surface, n graph.Node, st Style) error {
	g := arrowShape(n)
	ad := arrowData(n)
	lineColor := ColorOr(n.Data.FillColor, MustColor(graph.DefaultBorderColor))
	headColor := ColorOr(ad.HeadColor, lineColor)

	s.StrokePolyline([]Point{g.tail, g.lineEnd}, arrowLineWidth, lineColor, false)
	switch ad.HeadStyle {
	case graph.HeadClosed:
		s.FillPolygon([]Point{g.tip, g.wingA, g.wingB}, headColor)
	case graph.HeadOpen:
		s.StrokePolyline([]Point{g.wingA, g.tip, g.wingB}, arrowLineWidth, headColor, false)
	}
	if st.Selected {
		s.StrokePolyline(a.Bounds(n).Inset(-4).Corners(), selectionWidth, SelectionColor, true)
	}
	return s.DrawText(arrowLabelAnchor(n), n.Data.Label, textStyle(n, 0))
}
