package editor

import (
	"slices"
	"strconv"
	"strings"

	ed "github.com/abhisek/diagramiz/internal/editor"
	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/ui/components"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldNumber
	fieldChoice
	fieldToggle
	fieldInfo
)

// field is one row of the properties panel.
type field struct {
	label   string
	kind    fieldKind
	get     func(*ed.Editor) string
	set     func(*ed.Editor, string) bool
	choices []string
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func number(fn func(*ed.Editor, float64) bool) func(*ed.Editor, string) bool {
	return func(e *ed.Editor, s string) bool {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return false
		}
		return fn(e, v)
	}
}

func onNode(fn func(graph.Node) string) func(*ed.Editor) string {
	return func(e *ed.Editor) string {
		n, _ := e.SelectedNode()
		return fn(n)
	}
}

func onEdge(fn func(graph.Edge) string) func(*ed.Editor) string {
	return func(e *ed.Editor) string {
		edge, _ := e.SelectedEdge()
		return fn(edge)
	}
}

func nodeFields(n graph.Node) []field {
	fs := []field{
		{label: "Label", kind: fieldText,
			get: onNode(func(n graph.Node) string { return n.Data.Label }),
			set: (*ed.Editor).UpdateLabel},
		{label: "Fill", kind: fieldText,
			get: onNode(func(n graph.Node) string { return n.Data.FillColor }),
			set: (*ed.Editor).UpdateFillColor},
		{label: "Text color", kind: fieldText,
			get: onNode(func(n graph.Node) string { return n.Data.TextColor }),
			set: (*ed.Editor).UpdateTextColor},
		{label: "Border", kind: fieldText,
			get: onNode(func(n graph.Node) string { return n.Data.BorderColor }),
			set: (*ed.Editor).UpdateBorderColor},
		{label: "Font weight", kind: fieldChoice,
			get:     onNode(func(n graph.Node) string { return string(n.Data.FontWeight) }),
			set:     func(e *ed.Editor, s string) bool { return e.UpdateFontWeight(graph.FontWeight(s)) },
			choices: []string{string(graph.FontNormal), string(graph.FontBold), string(graph.FontBolder)}},
		{label: "Font size", kind: fieldNumber,
			get: onNode(func(n graph.Node) string { return formatNumber(n.Data.FontSize) }),
			set: number((*ed.Editor).UpdateFontSize)},
		{label: "Width", kind: fieldNumber,
			get: onNode(func(n graph.Node) string { return formatNumber(n.Data.Width) }),
			set: number((*ed.Editor).UpdateWidth)},
		{label: "Height", kind: fieldNumber,
			get: onNode(func(n graph.Node) string { return formatNumber(n.Data.Height) }),
			set: number((*ed.Editor).UpdateHeight)},
		{label: "Text offset X", kind: fieldNumber,
			get: onNode(func(n graph.Node) string { return formatNumber(n.Data.TextOffsetX) }),
			set: number((*ed.Editor).UpdateTextOffsetX)},
		{label: "Text offset Y", kind: fieldNumber,
			get: onNode(func(n graph.Node) string { return formatNumber(n.Data.TextOffsetY) }),
			set: number((*ed.Editor).UpdateTextOffsetY)},
		{label: "X", kind: fieldNumber,
			get: onNode(func(n graph.Node) string { return formatNumber(n.Position.X) }),
			set: number(func(e *ed.Editor, v float64) bool {
				n, _ := e.SelectedNode()
				return e.UpdatePosition(v, n.Position.Y)
			})},
		{label: "Y", kind: fieldNumber,
			get: onNode(func(n graph.Node) string { return formatNumber(n.Position.Y) }),
			set: number(func(e *ed.Editor, v float64) bool {
				n, _ := e.SelectedNode()
				return e.UpdatePosition(n.Position.X, v)
			})},
	}
	if n.Data.Arrow != nil {
		fs = append(fs,
			field{label: "Rotation", kind: fieldNumber,
				get: onNode(func(n graph.Node) string { return formatNumber(n.Data.Arrow.Rotation) }),
				set: number((*ed.Editor).UpdateRotation)},
			field{label: "Arrowhead", kind: fieldChoice,
				get:     onNode(func(n graph.Node) string { return string(n.Data.Arrow.HeadStyle) }),
				set:     func(e *ed.Editor, s string) bool { return e.UpdateArrowheadStyle(graph.ArrowheadStyle(s)) },
				choices: []string{string(graph.HeadClosed), string(graph.HeadOpen), string(graph.HeadNone)}},
			field{label: "Arrowhead color", kind: fieldText,
				get: onNode(func(n graph.Node) string { return n.Data.Arrow.HeadColor }),
				set: (*ed.Editor).UpdateArrowheadColor},
		)
	}
	return append(fs, field{label: "Layer", kind: fieldInfo,
		get: onNode(func(n graph.Node) string { return strconv.Itoa(n.ZIndex) })})
}

func edgeFields() []field {
	return []field{
		{label: "Label", kind: fieldText,
			get: onEdge(func(e graph.Edge) string { return e.Label }),
			set: (*ed.Editor).UpdateEdgeLabel},
		{label: "Marker", kind: fieldChoice,
			get:     onEdge(func(e graph.Edge) string { return string(e.MarkerEnd.Type) }),
			set:     func(e *ed.Editor, s string) bool { return e.UpdateEdgeMarkerType(graph.MarkerType(s)) },
			choices: []string{string(graph.MarkerArrowClosed), string(graph.MarkerArrow), string(graph.MarkerNone)}},
		{label: "Marker color", kind: fieldText,
			get: onEdge(func(e graph.Edge) string { return e.MarkerEnd.Color }),
			set: (*ed.Editor).UpdateEdgeMarkerColor},
		{label: "Animated", kind: fieldToggle,
			get: onEdge(func(e graph.Edge) string { return strconv.FormatBool(e.Animated) }),
			set: func(e *ed.Editor, s string) bool {
				on, err := strconv.ParseBool(s)
				return err == nil && e.UpdateEdgeAnimated(on)
			}},
		{label: "Connects", kind: fieldInfo,
			get: onEdge(func(e graph.Edge) string { return e.Source + " → " + e.Target })},
	}
}

// fieldsFor returns the rows for the current selection, or nil when
// nothing is selected.
func fieldsFor(e *ed.Editor) []field {
	if n, ok := e.SelectedNode(); ok {
		return nodeFields(n)
	}
	if _, ok := e.SelectedEdge(); ok {
		return edgeFields()
	}
	return nil
}

func menuItems(e *ed.Editor, fs []field) []components.MenuItem {
	items := make([]components.MenuItem, len(fs))
	for i, f := range fs {
		v := f.get(e)
		if v == "" {
			v = "—"
		}
		items[i] = components.MenuItem{Label: f.label, Value: v, Disabled: f.kind == fieldInfo}
	}
	return items
}

// advance cycles a choice field or flips a toggle.
func (f field) advance(e *ed.Editor) bool {
	cur := f.get(e)
	switch f.kind {
	case fieldChoice:
		i := slices.Index(f.choices, cur)
		return f.set(e, f.choices[(i+1)%len(f.choices)])
	case fieldToggle:
		on, _ := strconv.ParseBool(cur)
		return f.set(e, strconv.FormatBool(!on))
	}
	return false
}
