// Package aigraph turns a natural-language description into a validated
// diagram through a schema-constrained model call.
package aigraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/llm"
	"github.com/abhisek/diagramiz/internal/metrics"
)

// NetworkError reports a model call that did not complete.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("diagram generation request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Config tunes the model request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the request settings used when none are configured.
func DefaultConfig() Config {
	return Config{MaxTokens: 4096, Temperature: 0.2}
}

// Result is a generated diagram ready to replace the store content.
type Result struct {
	Graph   graph.Snapshot
	Model   string
	Usage   llm.Usage
	Latency time.Duration
}

// Generator asks a provider for diagrams.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a Generator. A nil logger discards output.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// Generate requests a diagram for in. Failures are a *ValidationError when
// the reply was unusable, a *NetworkError when the call itself failed, or
// an input error from Input.Validate.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	req, err := BuildRequest(in, g.config)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeDiagramGen)
	start := time.Now()

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		if llm.IsInvalidResponse(err) {
			err = invalid("schema mismatch", err)
			g.observe(metrics.OutcomeInvalid, start)
		} else {
			err = &NetworkError{Err: err}
			g.observe(metrics.OutcomeFailure, start)
		}
		g.logger.Warn("diagram generation failed",
			"category", in.Category, "model", g.provider.ModelID(), "error", err)
		return nil, err
	}

	snap, err := Decode(resp.Content)
	if err != nil {
		g.observe(metrics.OutcomeInvalid, start)
		g.logger.Warn("diagram reply rejected",
			"category", in.Category, "model", resp.Model, "error", err)
		return nil, err
	}

	latency := g.observe(metrics.OutcomeSuccess, start)
	g.logger.Info("diagram generated",
		"category", in.Category,
		"model", resp.Model,
		"nodes", len(snap.Nodes),
		"edges", len(snap.Edges),
		"latency", latency)

	return &Result{
		Graph:   snap,
		Model:   resp.Model,
		Usage:   resp.Usage,
		Latency: latency,
	}, nil
}

func (g *Generator) observe(outcome string, start time.Time) time.Duration {
	d := time.Since(start)
	metrics.Generations.WithLabelValues(outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(outcome).Observe(d.Seconds())
	return d
}

// UserMessage turns a generation failure into the alert shown to the user.
func UserMessage(err error) string {
	var verr *ValidationError
	var nerr *NetworkError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyPrompt):
		return "Please describe the diagram you want to generate."
	case errors.As(err, &verr):
		return "Invalid diagram structure received from AI. Please try a different prompt."
	case errors.As(err, &nerr):
		return fmt.Sprintf("Failed to generate diagram: %v. Please try again.", nerr.Err)
	}
	return fmt.Sprintf("Failed to generate diagram: %v", err)
}
