package graph

// ShapeType identifies the node variant.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeDiamond   ShapeType = "diamond"
	ShapeArrow     ShapeType = "arrow"
)

// AllShapes lists every shape in palette order.
var AllShapes = []ShapeType{ShapeRectangle, ShapeCircle, ShapeDiamond, ShapeArrow}

// Valid reports whether s is a known shape.
func (s ShapeType) Valid() bool {
	switch s {
	case ShapeRectangle, ShapeCircle, ShapeDiamond, ShapeArrow:
		return true
	}
	return false
}

// HasPorts reports whether edges may attach to the shape. Arrow nodes are
// free-standing connectors and expose no ports.
func (s ShapeType) HasPorts() bool {
	return s.Valid() && s != ShapeArrow
}

// FontWeight is the label weight.
type FontWeight string

const (
	FontNormal FontWeight = "normal"
	FontBold   FontWeight = "bold"
	FontBolder FontWeight = "bolder"
)

// Valid reports whether w is a known weight.
func (w FontWeight) Valid() bool {
	return w == FontNormal || w == FontBold || w == FontBolder
}

// ArrowheadStyle is the head drawn at the tip of an arrow node.
type ArrowheadStyle string

const (
	HeadClosed ArrowheadStyle = "Closed"
	HeadOpen   ArrowheadStyle = "Open"
	HeadNone   ArrowheadStyle = "None"
)

// Valid reports whether h is a known style.
func (h ArrowheadStyle) Valid() bool {
	return h == HeadClosed || h == HeadOpen || h == HeadNone
}

// MarkerType is the end marker of an edge.
type MarkerType string

const (
	MarkerArrowClosed MarkerType = "ArrowClosed"
	MarkerArrow       MarkerType = "Arrow"
	MarkerNone        MarkerType = "None"
)

// Valid reports whether m is a known marker.
func (m MarkerType) Valid() bool {
	return m == MarkerArrowClosed || m == MarkerArrow || m == MarkerNone
}

// RoutingSmoothStep is the only edge routing style.
const RoutingSmoothStep = "smoothstep"

// Position is the top-left corner of a node in canvas coordinates.
type Position struct {
	X float64
	Y float64
}

// ArrowData holds the fields that only arrow nodes carry.
type ArrowData struct {
	Rotation  float64 // degrees
	HeadStyle ArrowheadStyle
	HeadColor string
}

// NodeData is the style and geometry of a node.
type NodeData struct {
	Label       string
	FillColor   string
	BorderColor string // empty means no border
	TextColor   string
	FontWeight  FontWeight
	Width       float64
	Height      float64
	FontSize    float64
	TextOffsetX float64
	TextOffsetY float64

	// Arrow is non-nil exactly when the node is an arrow.
	Arrow *ArrowData
}

// Node is a shape on the canvas.
type Node struct {
	ID       string
	Position Position
	Type     ShapeType
	Data     NodeData
	ZIndex   int
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	if n.Data.Arrow != nil {
		a := *n.Data.Arrow
		n.Data.Arrow = &a
	}
	return n
}

// Equal reports whether two nodes hold identical values.
func (n Node) Equal(o Node) bool {
	if n.ID != o.ID || n.Position != o.Position || n.Type != o.Type || n.ZIndex != o.ZIndex {
		return false
	}
	a, b := n.Data, o.Data
	if (a.Arrow == nil) != (b.Arrow == nil) {
		return false
	}
	if a.Arrow != nil && *a.Arrow != *b.Arrow {
		return false
	}
	a.Arrow, b.Arrow = nil, nil
	return a == b
}

// Marker is the decoration at the target end of an edge.
type Marker struct {
	Type  MarkerType
	Color string
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID        string
	Source    string
	Target    string
	Animated  bool
	Label     string
	Routing   string
	MarkerEnd Marker
}

// DisplayName names the edge by its endpoints.
func (e Edge) DisplayName() string {
	return "Edge " + e.Source + "-" + e.Target
}

// Kind tells whether an id names a node, an edge, or nothing.
type Kind int

const (
	KindNone Kind = iota
	KindNode
	KindEdge
)

// Snapshot is an immutable deep copy of the store content.
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Edges, s.Edges)
	return out
}

// Empty reports whether the snapshot has no elements.
func (s Snapshot) Empty() bool {
	return len(s.Nodes) == 0 && len(s.Edges) == 0
}
