package shapes

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/abhisek/diagramiz/internal/graph"
)

// Transform maps canvas coordinates to pixels: px = canvas*Scale + Offset.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity is the 1:1 transform.
var Identity = Transform{Scale: 1}

func (t Transform) Apply(p Point) Point {
	return Point{p.X*t.Scale + t.OffsetX, p.Y*t.Scale + t.OffsetY}
}

// Surface is a raster target with a canvas-to-pixel transform.
type Surface struct {
	img   *image.RGBA
	t     Transform
	r     *vector.Rasterizer
	faces faceCache
}

// NewSurface wraps img. A zero Scale is treated as 1.
func NewSurface(img *image.RGBA, t Transform) *Surface {
	if t.Scale == 0 {
		t.Scale = 1
	}
	return &Surface{img: img, t: t, r: &vector.Rasterizer{}}
}

// Image returns the target image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Transform returns the canvas-to-pixel transform.
func (s *Surface) Transform() Transform { return s.t }

// Close releases cached font faces.
func (s *Surface) Close() { s.faces.close() }

// Clear paints every pixel with c.
func (s *Surface) Clear(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// pen emits rasterizer path segments in pixel space relative to origin.
type pen struct {
	r      *vector.Rasterizer
	origin Point
}

func (p pen) moveTo(q Point) {
	p.r.MoveTo(float32(q.X-p.origin.X), float32(q.Y-p.origin.Y))
}

func (p pen) lineTo(q Point) {
	p.r.LineTo(float32(q.X-p.origin.X), float32(q.Y-p.origin.Y))
}

func (p pen) cubeTo(b, c, d Point) {
	p.r.CubeTo(
		float32(b.X-p.origin.X), float32(b.Y-p.origin.Y),
		float32(c.X-p.origin.X), float32(c.Y-p.origin.Y),
		float32(d.X-p.origin.X), float32(d.Y-p.origin.Y),
	)
}

func (p pen) polygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	p.moveTo(pts[0])
	for _, q := range pts[1:] {
		p.lineTo(q)
	}
	p.r.ClosePath()
}

// ellipse traces an ellipse with four cubic arcs. ccw reverses the winding
// so an inner ellipse cuts a hole.
func (p pen) ellipse(c Point, rx, ry float64, ccw bool) {
	const k = 0.5522847498
	sy := 1.0
	if ccw {
		sy = -1
	}
	pt := func(x, y float64) Point { return Point{c.X + x, c.Y + y*sy} }
	p.moveTo(pt(rx, 0))
	p.cubeTo(pt(rx, k*ry), pt(k*rx, ry), pt(0, ry))
	p.cubeTo(pt(-k*rx, ry), pt(-rx, k*ry), pt(-rx, 0))
	p.cubeTo(pt(-rx, -k*ry), pt(-k*rx, -ry), pt(0, -ry))
	p.cubeTo(pt(k*rx, -ry), pt(rx, -k*ry), pt(rx, 0))
	p.r.ClosePath()
}

// fill rasterizes the path built by trace, whose pixel bounds are px, and
// composites c through it.
func (s *Surface) fill(px Rect, c color.Color, trace func(pen)) {
	if _, _, _, a := c.RGBA(); a == 0 {
		return
	}
	px = px.Inset(-2)
	area := image.Rect(
		int(math.Floor(px.X)), int(math.Floor(px.Y)),
		int(math.Ceil(px.X+px.W)), int(math.Ceil(px.Y+px.H)),
	).Intersect(s.img.Bounds())
	if area.Empty() {
		return
	}
	s.r.Reset(area.Dx(), area.Dy())
	trace(pen{r: s.r, origin: Point{float64(area.Min.X), float64(area.Min.Y)}})
	s.r.Draw(s.img, area, image.NewUniform(c), image.Point{})
}

func (s *Surface) toPixels(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = s.t.Apply(p)
	}
	return out
}

// FillPolygon fills a closed polygon given in canvas coordinates.
func (s *Surface) FillPolygon(pts []Point, c color.Color) {
	px := s.toPixels(pts)
	s.fill(BoundsOf(px...), c, func(p pen) { p.polygon(px) })
}

// FillEllipse fills the ellipse inscribed in r.
func (s *Surface) FillEllipse(r Rect, c color.Color) {
	center := s.t.Apply(r.Center())
	rx, ry := r.W/2*s.t.Scale, r.H/2*s.t.Scale
	s.fill(RectAround(center, 2*rx, 2*ry), c, func(p pen) { p.ellipse(center, rx, ry, false) })
}

// StrokeEllipse draws the outline of the ellipse inscribed in r.
func (s *Surface) StrokeEllipse(r Rect, width float64, c color.Color) {
	center := s.t.Apply(r.Center())
	hw := width * s.t.Scale / 2
	rx, ry := r.W/2*s.t.Scale, r.H/2*s.t.Scale
	s.fill(RectAround(center, 2*(rx+hw), 2*(ry+hw)), c, func(p pen) {
		p.ellipse(center, rx+hw, ry+hw, false)
		if rx > hw && ry > hw {
			p.ellipse(center, rx-hw, ry-hw, true)
		}
	})
}

// StrokePolyline draws connected segments of the given canvas width.
func (s *Surface) StrokePolyline(pts []Point, width float64, c color.Color, closed bool) {
	if len(pts) < 2 {
		return
	}
	px := s.toPixels(pts)
	if closed {
		px = append(px, px[0])
	}
	hw := math.Max(width*s.t.Scale, 1) / 2
	s.fill(BoundsOf(px...).Inset(-hw), c, func(p pen) {
		for i := 1; i < len(px); i++ {
			p.polygon(segmentQuad(px[i-1], px[i], hw))
		}
	})
}

// StrokeDashed draws a dashed polyline. Dash and gap are canvas lengths.
func (s *Surface) StrokeDashed(pts []Point, width, dash, gap float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	px := s.toPixels(pts)
	hw := math.Max(width*s.t.Scale, 1) / 2
	dash, gap = dash*s.t.Scale, gap*s.t.Scale
	s.fill(BoundsOf(px...).Inset(-hw), c, func(p pen) {
		on, left := true, dash
		for i := 1; i < len(px); i++ {
			a, b := px[i-1], px[i]
			seg := b.Sub(a)
			length := seg.Len()
			if length == 0 {
				continue
			}
			dir := seg.Scale(1 / length)
			for pos := 0.0; pos < length; {
				step := math.Min(left, length-pos)
				if on {
					p.polygon(segmentQuad(a.Add(dir.Scale(pos)), a.Add(dir.Scale(pos+step)), hw))
				}
				pos += step
				left -= step
				if left <= 0 {
					on = !on
					left = gap
					if on {
						left = dash
					}
				}
			}
		}
	})
}

// segmentQuad is the rectangle covering a-b with half-width hw and square
// caps. Every quad has the same winding so overlaps add up.
func segmentQuad(a, b Point, hw float64) []Point {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return []Point{{a.X - hw, a.Y - hw}, {a.X + hw, a.Y - hw}, {a.X + hw, a.Y + hw}, {a.X - hw, a.Y + hw}}
	}
	u := d.Scale(1 / l)
	n := Point{-u.Y * hw, u.X * hw}
	a, b = a.Sub(u.Scale(hw)), b.Add(u.Scale(hw))
	return []Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
}

// TextStyle describes a label.
type TextStyle struct {
	Size     float64 // canvas units
	Weight   graph.FontWeight
	Color    color.Color
	MaxWidth float64 // canvas units, 0 for no wrapping
}

// DrawText renders s centered on c, wrapping at MaxWidth.
func (s *Surface) DrawText(c Point, text string, st TextStyle) error {
	if text == "" {
		return nil
	}
	face, err := s.faces.face(st.Weight, st.Size*s.t.Scale)
	if err != nil {
		return err
	}
	lines := wrapText(face, text, st.MaxWidth*s.t.Scale)
	m := face.Metrics()
	lineHeight := fixedToFloat(m.Height)
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)

	center := s.t.Apply(c)
	blockHeight := lineHeight*float64(len(lines)-1) + ascent + descent
	baseline := center.Y - blockHeight/2 + ascent

	d := &font.Drawer{Dst: s.img, Src: image.NewUniform(st.Color), Face: face}
	for i, line := range lines {
		width := fixedToFloat(d.MeasureString(line))
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6((center.X - width/2) * 64),
			Y: fixed.Int26_6((baseline + float64(i)*lineHeight) * 64),
		}
		d.DrawString(line)
	}
	return nil
}

// TextWidth measures a single line in canvas units.
func (s *Surface) TextWidth(text string, st TextStyle) float64 {
	face, err := s.faces.face(st.Weight, st.Size*s.t.Scale)
	if err != nil {
		return 0
	}
	return fixedToFloat(font.MeasureString(face, text)) / s.t.Scale
}
