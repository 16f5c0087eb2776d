package aigraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/llm"
)

// ValidationError rejects a whole model reply. Nothing from a rejected
// reply reaches the graph store.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid diagram: %s: %v", e.Reason, e.Err)
	}
	return "invalid diagram: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(reason string, err error) *ValidationError {
	return &ValidationError{Reason: reason, Err: err}
}

// RawGraph is the reply exactly as the model sent it.
type RawGraph struct {
	Nodes []RawNode `json:"nodes" validate:"dive"`
	Edges []RawEdge `json:"edges" validate:"dive"`
}

// RawNode is one node of a reply. Pointer fields are optional.
type RawNode struct {
	ID       string       `json:"id" validate:"required"`
	Position *RawPosition `json:"position" validate:"required"`
	Type     *string      `json:"type" validate:"omitempty,oneof=rectangle circle diamond arrow"`
	Data     *RawData     `json:"data" validate:"required"`
	ZIndex   *float64     `json:"zIndex" validate:"omitempty,gte=-1000000,lte=1000000"`
}

type RawPosition struct {
	X float64 `json:"x" validate:"gte=50,lte=700"`
	Y float64 `json:"y" validate:"gte=50,lte=700"`
}

type RawData struct {
	Label          string   `json:"label"`
	Color          string   `json:"color"`
	BorderColor    *string  `json:"borderColor"`
	TextColor      *string  `json:"textColor"`
	FontWeight     *string  `json:"fontWeight" validate:"omitempty,oneof=normal bold bolder"`
	NodeWidth      *float64 `json:"nodeWidth"`
	NodeHeight     *float64 `json:"nodeHeight"`
	FontSize       *float64 `json:"fontSize"`
	TextOffsetX    *float64 `json:"textOffsetX"`
	TextOffsetY    *float64 `json:"textOffsetY"`
	Rotation       *float64 `json:"rotation"`
	ArrowheadStyle *string  `json:"arrowheadStyle" validate:"omitempty,oneof=Closed Open None"`
	ArrowheadColor *string  `json:"arrowheadColor"`
}

// RawEdge is one edge of a reply.
type RawEdge struct {
	ID        string     `json:"id" validate:"required"`
	Source    string     `json:"source" validate:"required"`
	Target    string     `json:"target" validate:"required"`
	Animated  *bool      `json:"animated"`
	Label     *string    `json:"label"`
	MarkerEnd *RawMarker `json:"markerEnd"`
}

type RawMarker struct {
	Type  string `json:"type" validate:"oneof=arrowclosed arrow"`
	Color string `json:"color"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses, checks and normalizes a model reply. It fails closed:
// either the whole graph is returned or a *ValidationError is.
func Decode(raw json.RawMessage) (graph.Snapshot, error) {
	g, err := Parse(raw)
	if err != nil {
		return graph.Snapshot{}, err
	}
	return Normalize(g)
}

// Parse checks the reply against DiagramSchema, then checks the top-level
// shape, field constraints and references itself.
func Parse(raw json.RawMessage) (*RawGraph, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, invalid("empty response", nil)
	}
	if err := llm.Validate(DiagramSchema, raw); err != nil {
		return nil, invalid("schema mismatch", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, invalid("response is not a JSON object", err)
	}
	for key := range top {
		if key != "nodes" && key != "edges" {
			return nil, invalid(fmt.Sprintf("unexpected top-level key %q", key), nil)
		}
	}
	for _, key := range []string{"nodes", "edges"} {
		v, ok := top[key]
		if !ok {
			return nil, invalid(fmt.Sprintf("missing %q array", key), nil)
		}
		if v = bytes.TrimSpace(v); len(v) == 0 || v[0] != '[' {
			return nil, invalid(fmt.Sprintf("%q is not an array", key), nil)
		}
	}

	var g RawGraph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, invalid("malformed graph", err)
	}
	if err := validate.Struct(&g); err != nil {
		return nil, invalid("field constraints", err)
	}
	if err := checkReferences(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func checkReferences(g *RawGraph) error {
	ids := make(map[string]bool, len(g.Nodes)+len(g.Edges))
	nodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids[n.ID] {
			return invalid(fmt.Sprintf("duplicate id %q", n.ID), nil)
		}
		ids[n.ID], nodes[n.ID] = true, true
	}
	for _, e := range g.Edges {
		if ids[e.ID] {
			return invalid(fmt.Sprintf("duplicate id %q", e.ID), nil)
		}
		ids[e.ID] = true
		if !nodes[e.Source] || !nodes[e.Target] {
			return invalid(fmt.Sprintf("edge %q references a missing node", e.ID), nil)
		}
		if e.Source == e.Target {
			return invalid(fmt.Sprintf("edge %q connects node %q to itself", e.ID, e.Source), nil)
		}
	}
	return nil
}

// maxZIndex bounds a model supplied layer in either direction.
const maxZIndex = 1e6

// Normalize fills every optional field the reply left out with the
// defaults a manually added shape of the same type gets.
func Normalize(g *RawGraph) (graph.Snapshot, error) {
	snap := graph.Snapshot{
		Nodes: make([]graph.Node, 0, len(g.Nodes)),
		Edges: make([]graph.Edge, 0, len(g.Edges)),
	}
	for _, rn := range g.Nodes {
		snap.Nodes = append(snap.Nodes, normalizeNode(rn))
	}
	for _, re := range g.Edges {
		snap.Edges = append(snap.Edges, normalizeEdge(re))
	}
	if err := graph.Validate(snap); err != nil {
		return graph.Snapshot{}, invalid("graph integrity", err)
	}
	return snap, nil
}

func normalizeNode(rn RawNode) graph.Node {
	shape := graph.ShapeRectangle
	if rn.Type != nil && *rn.Type != "" {
		shape = graph.ShapeType(*rn.Type)
	}

	n := graph.Node{
		ID:     rn.ID,
		Type:   shape,
		Data:   graph.DefaultData(shape),
		ZIndex: graph.DefaultZIndex,
	}
	if rn.Position != nil {
		n.Position = graph.Position{X: rn.Position.X, Y: rn.Position.Y}
	}
	if rn.ZIndex != nil {
		n.ZIndex = int(math.Round(max(-maxZIndex, min(*rn.ZIndex, maxZIndex))))
	}
	if rn.Data == nil {
		return n
	}

	d := rn.Data
	n.Data.Label = d.Label
	if d.Color != "" {
		n.Data.FillColor = d.Color
	}
	if d.BorderColor != nil {
		n.Data.BorderColor = *d.BorderColor
	}
	if d.TextColor != nil && *d.TextColor != "" {
		n.Data.TextColor = *d.TextColor
	}
	if d.FontWeight != nil && *d.FontWeight != "" {
		n.Data.FontWeight = graph.FontWeight(*d.FontWeight)
	}
	setPositive(&n.Data.Width, d.NodeWidth)
	setPositive(&n.Data.Height, d.NodeHeight)
	setPositive(&n.Data.FontSize, d.FontSize)
	if d.TextOffsetX != nil {
		n.Data.TextOffsetX = *d.TextOffsetX
	}
	if d.TextOffsetY != nil {
		n.Data.TextOffsetY = *d.TextOffsetY
	}

	if n.Data.Arrow != nil {
		if d.Rotation != nil {
			n.Data.Arrow.Rotation = *d.Rotation
		}
		if d.ArrowheadStyle != nil && *d.ArrowheadStyle != "" {
			n.Data.Arrow.HeadStyle = graph.ArrowheadStyle(*d.ArrowheadStyle)
		}
		if d.ArrowheadColor != nil && *d.ArrowheadColor != "" {
			n.Data.Arrow.HeadColor = *d.ArrowheadColor
		}
	}
	return n
}

func setPositive(dst *float64, v *float64) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}

var wireMarkers = map[string]graph.MarkerType{
	"arrowclosed": graph.MarkerArrowClosed,
	"arrow":       graph.MarkerArrow,
}

func normalizeEdge(re RawEdge) graph.Edge {
	e := graph.Edge{
		ID:        re.ID,
		Source:    re.Source,
		Target:    re.Target,
		Animated:  true,
		Routing:   graph.RoutingSmoothStep,
		MarkerEnd: graph.DefaultMarker(),
	}
	if re.Animated != nil {
		e.Animated = *re.Animated
	}
	if re.Label != nil {
		e.Label = *re.Label
	}
	if m := re.MarkerEnd; m != nil {
		if t, ok := wireMarkers[m.Type]; ok {
			e.MarkerEnd.Type = t
		}
		if m.Color != "" {
			e.MarkerEnd.Color = m.Color
		}
	}
	return e
}
