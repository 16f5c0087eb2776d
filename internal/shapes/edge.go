package shapes

import (
	"image/color"
	"math"

	"github.com/abhisek/diagramiz/internal/graph"
)

const (
	edgeWidth    = 1.5
	edgeDash     = 5
	edgeGap      = 5
	stepOffset   = 20
	markerLen    = 10
	markerHalf   = 5
	edgeFontSize = 12
)

// endpoint picks the port on side, or the bounds center for shapes
// without ports.
func endpoint(n graph.Node, side Side) Point {
	r, err := For(n.Type)
	if err != nil {
		return Box(n).Center()
	}
	if p, ok := PortAt(r.Ports(n), side); ok {
		return p.At
	}
	return r.Bounds(n).Center()
}

func bounds(n graph.Node) Rect {
	if r, err := For(n.Type); err == nil {
		return r.Bounds(n)
	}
	return Box(n)
}

// Route is the orthogonal smooth-step path from source to target. It
// leaves through the right port when the target lies clearly to the right
// and through the bottom port otherwise.
func Route(src, tgt graph.Node) []Point {
	sb, tb := bounds(src), bounds(tgt)
	d := tb.Center().Sub(sb.Center())
	if tb.X >= sb.X+sb.W && math.Abs(d.X) > math.Abs(d.Y) {
		return stepRoute(endpoint(src, SideRight), endpoint(tgt, SideLeft), true)
	}
	return stepRoute(endpoint(src, SideBottom), endpoint(tgt, SideTop), false)
}

// stepRoute joins a and b with axis-aligned segments. For a vertical
// route a exits downward and b is entered from above.
func stepRoute(a, b Point, horizontal bool) []Point {
	if horizontal {
		// Swap axes, route vertically, swap back.
		flip := func(p Point) Point { return Point{p.Y, p.X} }
		pts := stepRoute(flip(a), flip(b), false)
		for i := range pts {
			pts[i] = flip(pts[i])
		}
		return pts
	}
	if b.Y >= a.Y+2*stepOffset {
		mid := (a.Y + b.Y) / 2
		return dedupe([]Point{a, {a.X, mid}, {b.X, mid}, b})
	}
	mx := (a.X + b.X) / 2
	if math.Abs(b.X-a.X) < 1 {
		mx = a.X + 4*stepOffset
	}
	return dedupe([]Point{
		a,
		{a.X, a.Y + stepOffset},
		{mx, a.Y + stepOffset},
		{mx, b.Y - stepOffset},
		{b.X, b.Y - stepOffset},
		b,
	})
}

func dedupe(pts []Point) []Point {
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// Midpoint is the point halfway along the route.
func Midpoint(route []Point) Point {
	if len(route) == 0 {
		return Point{}
	}
	total := 0.0
	for i := 1; i < len(route); i++ {
		total += route[i].Sub(route[i-1]).Len()
	}
	half := total / 2
	for i := 1; i < len(route); i++ {
		seg := route[i].Sub(route[i-1])
		l := seg.Len()
		if half <= l && l > 0 {
			return route[i-1].Add(seg.Scale(half / l))
		}
		half -= l
	}
	return route[len(route)-1]
}

// DrawEdge paints the route, its end marker and its label.
func DrawEdge(s *Surface, e graph.Edge, route []Point, st Style, labelBg color.Color) error {
	if len(route) < 2 {
		return nil
	}
	c := ColorOr(e.MarkerEnd.Color, MustColor(graph.DefaultBorderColor))
	lineColor := c
	if st.Selected {
		lineColor = SelectionColor
	}

	tip := route[len(route)-1]
	prev := route[len(route)-2]
	dir := tip.Sub(prev)
	if l := dir.Len(); l > 0 {
		dir = dir.Scale(1 / l)
	}
	base := tip.Sub(dir.Scale(markerLen))
	n := Point{-dir.Y * markerHalf, dir.X * markerHalf}

	line := append([]Point(nil), route...)
	if e.MarkerEnd.Type == graph.MarkerArrowClosed {
		line[len(line)-1] = base
	}
	if e.Animated {
		s.StrokeDashed(line, edgeWidth, edgeDash, edgeGap, lineColor)
	} else {
		s.StrokePolyline(line, edgeWidth, lineColor, false)
	}

	switch e.MarkerEnd.Type {
	case graph.MarkerArrowClosed:
		s.FillPolygon([]Point{tip, base.Add(n), base.Sub(n)}, c)
	case graph.MarkerArrow:
		s.StrokePolyline([]Point{base.Add(n), tip, base.Sub(n)}, edgeWidth, c, false)
	}

	if e.Label == "" {
		return nil
	}
	mid := Midpoint(route)
	ts := TextStyle{Size: edgeFontSize, Weight: graph.FontNormal, Color: MustColor(graph.DefaultTextColor)}
	w := s.TextWidth(e.Label, ts)
	s.FillPolygon(RectAround(mid, w+8, edgeFontSize+6).Corners(), labelBg)
	return s.DrawText(mid, e.Label, ts)
}
