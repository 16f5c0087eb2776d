// Package llm is the model transport behind AI diagram generation. Every
// provider returns JSON validated against the request schema; retry and
// event logging are layered on as decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per request.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set the content has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model this provider is configured to call.
	ModelID() string
}

// Request describes one model call.
type Request struct {
	// System is the standing directive for the model.
	System string

	// Messages is the conversation. Diagram generation sends a single
	// user message.
	Messages []Message

	// Schema, when set, asks the provider for native structured output
	// and validates the reply. When nil, Content is the raw text.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0, 1]; zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Schema is the JSON Schema a response must satisfy.
type Schema struct {
	// Name identifies the schema to the provider and keys the compiled
	// schema cache. Kebab-case, e.g. "diagram-graph".
	Name string

	// Description is sent to the model alongside the schema.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any

	// Strict enables provider-side strict schema enforcement where
	// supported. Strict mode requires every property to be listed as
	// required, so schemas with optional fields leave it off.
	Strict bool
}

// Response holds the model output.
type Response struct {
	// Content is the validated JSON, or the raw text when no schema was
	// requested.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a short alias to a provider model id. Unknown names
// pass through so full model ids work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
