package graph

// Canvas palette used for new elements.
const (
	DefaultFillColor   = "#1E293B"
	DefaultTextColor   = "#F8FAFC"
	DefaultBorderColor = "#94A3B8"
	DefaultFontSize    = 14
	DefaultZIndex      = 10
)

// DefaultPosition is where manually added shapes appear.
var DefaultPosition = Position{X: 150, Y: 150}

// ShapeDefaults is the per-type geometry and label of a new node.
type ShapeDefaults struct {
	Width  float64
	Height float64
	Label  string
}

var shapeDefaults = map[ShapeType]ShapeDefaults{
	ShapeRectangle: {Width: 150, Height: 80, Label: "New Rectangle"},
	ShapeCircle:    {Width: 100, Height: 100, Label: "New Circle"},
	ShapeDiamond:   {Width: 120, Height: 120, Label: "New Diamond"},
	ShapeArrow:     {Width: 150, Height: 50},
}

// DefaultsFor returns the defaults of a shape. Unknown shapes get the
// rectangle defaults.
func DefaultsFor(s ShapeType) ShapeDefaults {
	if d, ok := shapeDefaults[s]; ok {
		return d
	}
	return shapeDefaults[ShapeRectangle]
}

// DefaultData returns the full default NodeData of a shape.
func DefaultData(s ShapeType) NodeData {
	d := DefaultsFor(s)
	data := NodeData{
		Label:      d.Label,
		FillColor:  DefaultFillColor,
		TextColor:  DefaultTextColor,
		FontWeight: FontNormal,
		Width:      d.Width,
		Height:     d.Height,
		FontSize:   DefaultFontSize,
	}
	if s == ShapeArrow {
		// Arrow nodes draw their line in the fill color.
		data.FillColor = DefaultBorderColor
		data.Arrow = &ArrowData{
			HeadStyle: HeadClosed,
			HeadColor: DefaultBorderColor,
		}
	}
	return data
}

// DefaultMarker is the end marker of a newly connected edge.
func DefaultMarker() Marker {
	return Marker{Type: MarkerArrowClosed, Color: DefaultBorderColor}
}
