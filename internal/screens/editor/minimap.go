package editor

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagramiz/internal/canvas"
	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/shapes"
	"github.com/abhisek/diagramiz/internal/ui/layout"
	"github.com/abhisek/diagramiz/internal/ui/theme"
)

type ink int

const (
	inkBlank ink = iota
	inkEdge
	inkNode
	inkSelected
)

type cell struct {
	r   rune
	ink ink
}

// grid is a character raster of the canvas surface. Surface pixels map to
// cells by scaling the surface size onto cols×rows.
type grid struct {
	cells      [][]cell
	cols, rows int
	sx, sy     float64
	view       canvas.Viewport
}

func newGrid(view canvas.Viewport, surfaceW, surfaceH, cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, view: view}
	if surfaceW > 0 && surfaceH > 0 {
		g.sx = float64(cols) / float64(surfaceW)
		g.sy = float64(rows) / float64(surfaceH)
	}
	g.cells = make([][]cell, rows)
	for y := range g.cells {
		g.cells[y] = make([]cell, cols)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{r: ' '}
		}
	}
	return g
}

func (g *grid) cellOf(p shapes.Point) (int, int) {
	px := p.X*g.view.Zoom + g.view.X
	py := p.Y*g.view.Zoom + g.view.Y
	return int(math.Floor(px * g.sx)), int(math.Floor(py * g.sy))
}

func (g *grid) set(x, y int, r rune, k ink) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	g.cells[y][x] = cell{r: r, ink: k}
}

func (g *grid) text(x, y int, s string, k ink) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, k)
	}
}

func (g *grid) line(x0, y0, x1, y1 int, dashed bool, k ink) {
	h, v := '─', '│'
	if dashed {
		h, v = '╌', '╎'
	}
	switch {
	case y0 == y1:
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			g.join(x, y0, h, k)
		}
	case x0 == x1:
		for y := min(y0, y1); y <= max(y0, y1); y++ {
			g.join(x0, y, v, k)
		}
	default:
		// Bresenham for the rare diagonal.
		dx, dy := abs(x1-x0), -abs(y1-y0)
		stepX, stepY := sign(x1-x0), sign(y1-y0)
		e := dx + dy
		for {
			g.set(x0, y0, '·', k)
			if x0 == x1 && y0 == y1 {
				return
			}
			e2 := 2 * e
			if e2 >= dy {
				e += dy
				x0 += stepX
			}
			if e2 <= dx {
				e += dx
				y0 += stepY
			}
		}
	}
}

// join draws r, turning a crossing of a horizontal and a vertical run
// into a junction.
func (g *grid) join(x, y int, r rune, k ink) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	cur := g.cells[y][x].r
	horiz := func(c rune) bool { return c == '─' || c == '╌' }
	vert := func(c rune) bool { return c == '│' || c == '╎' }
	if (horiz(cur) && vert(r)) || (vert(cur) && horiz(r)) || cur == '┼' {
		r = '┼'
	}
	g.set(x, y, r, k)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func markerRune(dx, dy int) rune {
	switch {
	case dx > 0:
		return '▶'
	case dx < 0:
		return '◀'
	case dy < 0:
		return '▲'
	}
	return '▼'
}

func (g *grid) edge(e graph.Edge, src, tgt graph.Node, k ink) {
	route := shapes.Route(src, tgt)
	if len(route) < 2 {
		return
	}
	pts := make([][2]int, len(route))
	for i, p := range route {
		x, y := g.cellOf(p)
		pts[i] = [2]int{x, y}
	}
	for i := 1; i < len(pts); i++ {
		g.line(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1], e.Animated, k)
	}

	if e.MarkerEnd.Type != graph.MarkerNone {
		last, prev := pts[len(pts)-1], pts[len(pts)-2]
		for i := len(pts) - 2; i >= 0 && prev == last; i-- {
			prev = pts[i]
		}
		g.set(last[0], last[1], markerRune(last[0]-prev[0], last[1]-prev[1]), k)
	}

	if e.Label != "" {
		mid := pts[len(pts)/2]
		if len(pts)%2 == 0 {
			a := pts[len(pts)/2-1]
			mid = [2]int{(a[0] + mid[0]) / 2, (a[1] + mid[1]) / 2}
		}
		label := layout.Truncate(e.Label, 16)
		g.text(mid[0]-len([]rune(label))/2, mid[1], label, k)
	}
}

type corners struct{ tl, tr, bl, br, h, v rune }

var (
	boxCorners     = corners{'┌', '┐', '└', '┘', '─', '│'}
	roundCorners   = corners{'╭', '╮', '╰', '╯', '─', '│'}
	diamondCorners = corners{'╱', '╲', '╲', '╱', '─', '│'}
	heavyCorners   = corners{'┏', '┓', '┗', '┛', '━', '┃'}
)

func (g *grid) node(n graph.Node, selected bool) {
	k := inkNode
	if selected {
		k = inkSelected
	}
	if n.Type == graph.ShapeArrow {
		g.arrow(n, k)
		return
	}

	box := shapes.Box(n)
	x0, y0 := g.cellOf(shapes.Point{X: box.X, Y: box.Y})
	x1, y1 := g.cellOf(shapes.Point{X: box.X + box.W, Y: box.Y + box.H})
	if x1 <= x0 || y1 <= y0 {
		dot := map[graph.ShapeType]rune{graph.ShapeCircle: '●', graph.ShapeDiamond: '◆'}[n.Type]
		if dot == 0 {
			dot = '■'
		}
		g.set(x0, y0, dot, k)
		return
	}

	c := boxCorners
	switch {
	case selected:
		c = heavyCorners
	case n.Type == graph.ShapeCircle:
		c = roundCorners
	case n.Type == graph.ShapeDiamond:
		c = diamondCorners
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			var r rune
			switch {
			case y == y0 && x == x0:
				r = c.tl
			case y == y0 && x == x1:
				r = c.tr
			case y == y1 && x == x0:
				r = c.bl
			case y == y1 && x == x1:
				r = c.br
			case y == y0 || y == y1:
				r = c.h
			case x == x0 || x == x1:
				r = c.v
			default:
				r = ' '
			}
			g.set(x, y, r, k)
		}
	}

	inner := x1 - x0 - 1
	if inner <= 0 || y1-y0 < 2 {
		return
	}
	label := layout.Truncate(n.Data.Label, inner)
	w := len([]rune(label))
	g.text(x0+1+(inner-w)/2, (y0+y1)/2, label, k)
}

// arrow draws an arrow node as a line along its rotation, snapped to the
// nearest quarter turn.
func (g *grid) arrow(n graph.Node, k ink) {
	box := shapes.Box(n)
	c := box.Center()
	rot := 0.0
	head := graph.HeadClosed
	if a := n.Data.Arrow; a != nil {
		rot, head = a.Rotation, a.HeadStyle
	}
	quarter := ((int(math.Round(rot/90)) % 4) + 4) % 4
	half := box.W / 2
	dirs := [4]shapes.Point{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}
	d := dirs[quarter]

	tail := shapes.Point{X: c.X - d.X*half, Y: c.Y - d.Y*half}
	tip := shapes.Point{X: c.X + d.X*half, Y: c.Y + d.Y*half}
	x0, y0 := g.cellOf(tail)
	x1, y1 := g.cellOf(tip)
	if d.X != 0 {
		y1 = y0
	} else {
		x1 = x0
	}
	g.line(x0, y0, x1, y1, false, k)
	if head != graph.HeadNone {
		g.set(x1, y1, markerRune(int(d.X), int(d.Y)), k)
	}
}

func (g *grid) render() string {
	styles := map[ink]lipgloss.Style{
		inkEdge:     theme.CanvasEdge,
		inkNode:     theme.CanvasNode,
		inkSelected: theme.CanvasSelected,
	}
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].ink == row[start].ink {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.r)
			}
			if st, ok := styles[row[start].ink]; ok {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			start = x
		}
	}
	return b.String()
}

// renderMinimap draws scene into a cols×rows character grid through the
// canvas viewport. Edges go first, then nodes in paint order.
func renderMinimap(scene canvas.Scene, view canvas.Viewport, surfaceW, surfaceH, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	g := newGrid(view, surfaceW, surfaceH, cols, rows)

	byID := make(map[string]graph.Node, len(scene.Nodes))
	for _, n := range scene.Nodes {
		byID[n.ID] = n
	}
	for _, e := range scene.Edges {
		src, ok1 := byID[e.Source]
		tgt, ok2 := byID[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		k := inkEdge
		if e.ID == scene.SelectedID {
			k = inkSelected
		}
		g.edge(e, src, tgt, k)
	}
	for _, id := range canvas.PaintOrder(scene.Nodes) {
		g.node(byID[id], id == scene.SelectedID)
	}
	return g.render()
}
