package aigraph

import "github.com/abhisek/diagramiz/internal/llm"

// Canvas-safe range for generated positions.
const (
	MinCoord = 50
	MaxCoord = 700
)

func coord() map[string]any {
	return map[string]any{"type": "number", "minimum": MinCoord, "maximum": MaxCoord}
}

// DiagramSchema constrains the model reply to a node and edge graph. Optional
// fields document the defaults Normalize applies when they are left out.
var DiagramSchema = &llm.Schema{
	Name:        "diagram-graph",
	Description: "A diagram as exactly two arrays: nodes and edges",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nodes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Unique id, also used by edges to reference the node",
						},
						"position": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"x": coord(),
								"y": coord(),
							},
							"required": []any{"x", "y"},
						},
						"data": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"label":       map[string]any{"type": "string"},
								"color":       map[string]any{"type": "string", "description": "Fill as a hex code or CSS color name"},
								"borderColor": map[string]any{"type": []any{"string", "null"}},
								"textColor":   map[string]any{"type": "string", "default": "black"},
								"fontWeight": map[string]any{
									"type":    "string",
									"enum":    []any{"normal", "bold", "bolder"},
									"default": "normal",
								},
								"nodeWidth":   map[string]any{"type": "number", "default": 150},
								"nodeHeight":  map[string]any{"type": "number", "default": 80},
								"fontSize":    map[string]any{"type": "number", "default": 14},
								"textOffsetX": map[string]any{"type": "number", "default": 0},
								"textOffsetY": map[string]any{"type": "number", "default": 0},
								"rotation": map[string]any{
									"type":        "number",
									"default":     0,
									"description": "Arrow nodes only, degrees",
								},
								"arrowheadStyle": map[string]any{
									"type":    "string",
									"enum":    []any{"Closed", "Open", "None"},
									"default": "Closed",
								},
								"arrowheadColor": map[string]any{"type": "string", "default": "#333"},
							},
							"required": []any{"label", "color"},
						},
						"type": map[string]any{
							"type":    "string",
							"enum":    []any{"rectangle", "circle", "diamond", "arrow"},
							"default": "rectangle",
						},
						"zIndex": map[string]any{"type": "number", "default": 10},
					},
					"required": []any{"id", "position", "data", "type"},
				},
			},
			"edges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"source":   map[string]any{"type": "string", "description": "id of the source node"},
						"target":   map[string]any{"type": "string", "description": "id of the target node"},
						"animated": map[string]any{"type": "boolean"},
						"label":    map[string]any{"type": []any{"string", "null"}},
						"markerEnd": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":  map[string]any{"type": "string", "enum": []any{"arrowclosed", "arrow"}},
								"color": map[string]any{"type": "string"},
							},
							"required": []any{"type", "color"},
						},
					},
					"required": []any{"id", "source", "target", "animated"},
				},
			},
		},
		"required":             []any{"nodes", "edges"},
		"additionalProperties": false,
	},
}
