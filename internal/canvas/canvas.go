// Package canvas frames the diagram in a viewport and rasterizes it.
package canvas

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/shapes"
)

// ErrSurfaceNotReady is returned when the canvas has no drawable area.
var ErrSurfaceNotReady = errors.New("canvas surface not ready")

// Scene is everything the canvas paints.
type Scene struct {
	Nodes      []graph.Node
	Edges      []graph.Edge
	SelectedID string
	Title      string
}

// SceneSource supplies the scene at paint time.
type SceneSource interface {
	Scene() Scene
}

// StaticScene is a SceneSource that always returns the same scene.
type StaticScene Scene

func (s StaticScene) Scene() Scene { return Scene(s) }

// Controller is the viewport and raster interface of the editor canvas.
type Controller interface {
	FitView() Viewport
	ApplyLayout() Viewport
	Rasterize(ctx context.Context) (*image.RGBA, error)
}

// Viewport maps canvas coordinates to pixels: px = canvas*Zoom + (X, Y).
type Viewport struct {
	X    float64
	Y    float64
	Zoom float64
}

// IdentityViewport shows the canvas at 1:1 from the origin.
var IdentityViewport = Viewport{Zoom: 1}

const (
	MinZoom = 0.5
	MaxZoom = 2.0

	titleBand     = 36
	titleFontSize = 18
)

// Options configures a Canvas.
type Options struct {
	Width      int
	Height     int
	Padding    float64
	Background string
}

// DefaultOptions returns the canvas defaults.
func DefaultOptions() Options {
	return Options{
		Width:      1024,
		Height:     768,
		Padding:    40,
		Background: "#0F172A",
	}
}

// Canvas paints a scene through a viewport.
type Canvas struct {
	src  SceneSource
	opts Options
	view Viewport
}

var _ Controller = (*Canvas)(nil)

// New binds a canvas to its scene source.
func New(src SceneSource, opts Options) *Canvas {
	return &Canvas{src: src, opts: opts, view: IdentityViewport}
}

// Viewport returns the current viewport.
func (c *Canvas) Viewport() Viewport { return c.view }

// SetViewport replaces the viewport, clamping the zoom.
func (c *Canvas) SetViewport(v Viewport) {
	v.Zoom = clampZoom(v.Zoom)
	c.view = v
}

// Resize changes the pixel size of the surface.
func (c *Canvas) Resize(width, height int) {
	c.opts.Width, c.opts.Height = width, height
}

// Size returns the pixel size of the surface.
func (c *Canvas) Size() (int, int) { return c.opts.Width, c.opts.Height }

// Ready reports whether the surface has a drawable area.
func (c *Canvas) Ready() bool { return c.opts.Width > 0 && c.opts.Height > 0 }

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// SceneBounds is the union of the painted extents of all nodes.
func SceneBounds(nodes []graph.Node) (shapes.Rect, bool) {
	var out shapes.Rect
	found := false
	for _, n := range nodes {
		r, err := shapes.For(n.Type)
		if err != nil {
			continue
		}
		b := r.Bounds(n)
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// FitView frames every node inside the padded surface and returns the new
// viewport. An empty scene resets to the identity viewport.
func (c *Canvas) FitView() Viewport {
	scene := c.src.Scene()
	b, ok := SceneBounds(scene.Nodes)
	if !ok || !c.Ready() {
		c.view = IdentityViewport
		return c.view
	}

	top := 0.0
	if scene.Title != "" {
		top = titleBand
	}
	availW := float64(c.opts.Width) - 2*c.opts.Padding
	availH := float64(c.opts.Height) - 2*c.opts.Padding - top

	zoom := MaxZoom
	if b.W > 0 {
		zoom = math.Min(zoom, availW/b.W)
	}
	if b.H > 0 {
		zoom = math.Min(zoom, availH/b.H)
	}
	zoom = clampZoom(zoom)

	center := b.Center()
	c.view = Viewport{
		X:    float64(c.opts.Width)/2 - center.X*zoom,
		Y:    top + (float64(c.opts.Height)-top)/2 - center.Y*zoom,
		Zoom: zoom,
	}
	return c.view
}

// ApplyLayout only re-frames the scene; node positions are left alone.
func (c *Canvas) ApplyLayout() Viewport {
	return c.FitView()
}

// Freeze returns a canvas over a copy of the current scene with the same
// viewport, for painting off the owning goroutine.
func (c *Canvas) Freeze() *Canvas {
	scene := c.src.Scene()
	snap := graph.Snapshot{Nodes: scene.Nodes, Edges: scene.Edges}.Clone()
	scene.Nodes, scene.Edges = snap.Nodes, snap.Edges
	return &Canvas{src: StaticScene(scene), opts: c.opts, view: c.view}
}

// Background is the opaque fill behind the diagram.
func (c *Canvas) Background() color.RGBA {
	def := shapes.MustColor(DefaultOptions().Background)
	bg := shapes.ColorOr(c.opts.Background, def)
	if bg.A != 0xff {
		return def
	}
	return bg
}

// Rasterize paints the background, the edges, the nodes in zIndex order
// and the title.
func (c *Canvas) Rasterize(ctx context.Context) (*image.RGBA, error) {
	if !c.Ready() {
		return nil, ErrSurfaceNotReady
	}
	scene := c.src.Scene()
	img := image.NewRGBA(image.Rect(0, 0, c.opts.Width, c.opts.Height))
	s := shapes.NewSurface(img, shapes.Transform{Scale: c.view.Zoom, OffsetX: c.view.X, OffsetY: c.view.Y})
	defer s.Close()

	bg := c.Background()
	s.Clear(bg)

	byID := make(map[string]graph.Node, len(scene.Nodes))
	for _, n := range scene.Nodes {
		byID[n.ID] = n
	}

	for _, e := range scene.Edges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, ok1 := byID[e.Source]
		tgt, ok2 := byID[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		route := shapes.Route(src, tgt)
		if err := shapes.DrawEdge(s, e, route, shapes.Style{Selected: e.ID == scene.SelectedID}, bg); err != nil {
			return nil, fmt.Errorf("draw edge %s: %w", e.ID, err)
		}
	}

	for _, n := range byZIndex(scene.Nodes) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := shapes.For(n.Type)
		if err != nil {
			continue
		}
		if err := r.Draw(s, n, shapes.Style{Selected: n.ID == scene.SelectedID}); err != nil {
			return nil, fmt.Errorf("draw node %s: %w", n.ID, err)
		}
	}

	if scene.Title != "" {
		title := shapes.NewSurface(img, shapes.Identity)
		defer title.Close()
		err := title.DrawText(shapes.Point{X: float64(c.opts.Width) / 2, Y: titleBand / 2}, scene.Title, shapes.TextStyle{
			Size:   titleFontSize,
			Weight: graph.FontBold,
			Color:  shapes.MustColor(graph.DefaultTextColor),
		})
		if err != nil {
			return nil, fmt.Errorf("draw title: %w", err)
		}
	}
	return img, nil
}

func byZIndex(nodes []graph.Node) []graph.Node {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b graph.Node) int { return cmp.Compare(a.ZIndex, b.ZIndex) })
	return sorted
}

// PaintOrder returns node ids in the order they are painted. Equal zIndex
// keeps insertion order.
func PaintOrder(nodes []graph.Node) []string {
	sorted := byZIndex(nodes)
	ids := make([]string, len(sorted))
	for i, n := range sorted {
		ids[i] = n.ID
	}
	return ids
}
