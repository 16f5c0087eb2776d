package aigraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/diagramiz/internal/llm"
)

// ErrEmptyPrompt is returned for a blank description.
var ErrEmptyPrompt = errors.New("diagram description is empty")

const systemPrompt = `You generate educational diagrams as JSON.

Reply with a single JSON object holding exactly two arrays, "nodes" and "edges", and nothing else.

Nodes:
- "id": unique string.
- "position": {"x", "y"} numbers between 50 and 700. Spread nodes out so none overlap on a typical canvas.
- "type": one of "rectangle", "circle", "diamond", "arrow".
- "data": "label" and "color" (hex code or CSS color name) are required. Optional: "borderColor", "textColor", "fontWeight" ("normal", "bold" or "bolder"), "nodeWidth", "nodeHeight", "fontSize", "textOffsetX", "textOffsetY".
- Arrow nodes may also set "rotation" (degrees), "arrowheadStyle" ("Closed", "Open" or "None") and "arrowheadColor" (hex).
- "zIndex": number for layering, default 10.

Edges:
- "id": unique string, distinct from every node id.
- "source" and "target": ids of two different nodes from the "nodes" array.
- "animated": true.
- "label": optional text on the edge.
- "markerEnd": {"type": "arrowclosed" or "arrow", "color": "#333"}.

Every edge must reference nodes that exist in the same reply.`

// Input is one generation request from the user.
type Input struct {
	Prompt   string
	Category Category
}

// Validate rejects blank prompts and unknown categories.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if !in.Category.Valid() {
		return fmt.Errorf("unknown diagram category %q", in.Category)
	}
	return nil
}

func buildUserMessage(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s diagram.\n", in.Category)
	fmt.Fprintf(&b, "User description: %s", strings.TrimSpace(in.Prompt))
	return b.String()
}

// BuildRequest assembles the schema-constrained model request for in.
func BuildRequest(in Input, cfg Config) (llm.Request, error) {
	if err := in.Validate(); err != nil {
		return llm.Request{}, err
	}
	return llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{llm.UserMessage(buildUserMessage(in))},
		Schema:      DiagramSchema,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, nil
}
