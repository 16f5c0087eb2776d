package store

import (
	"context"
	"fmt"
)

// CategoryStats summarises the generations of one diagram category.
type CategoryStats struct {
	Category     string
	Generations  int
	Successes    int
	AvgNodes     float64 // over successes only
	AvgEdges     float64
	AvgLatencyMs int64
}

// SuccessRate returns the share of successful generations in [0, 1].
func (c CategoryStats) SuccessRate() float64 {
	if c.Generations == 0 {
		return 0
	}
	return float64(c.Successes) / float64(c.Generations)
}

// GenerationRequest returns the model request behind gen: the newest LLM
// event with the given purpose logged after the previous generation event
// and before gen. It returns ErrNotFound when the generation never reached
// the model, e.g. an empty prompt or a run with event logging off.
func (r *eventRepo) GenerationRequest(ctx context.Context, gen GenerationEvent, purpose string) (*LLMRequestEvent, error) {
	prev, err := r.QueryGenerations(ctx, QueryOpts{Before: gen.Sequence, Limit: 1})
	if err != nil {
		return nil, err
	}
	var after int64
	if len(prev) == 1 {
		after = prev[0].Sequence
	}

	reqs, err := r.QueryLLMEvents(ctx, QueryOpts{
		After:   after,
		Before:  gen.Sequence,
		Purpose: purpose,
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, ErrNotFound
	}
	return &reqs[0], nil
}

func (r *eventRepo) GenerationStatsByCategory(ctx context.Context) ([]CategoryStats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*),
		SUM(CASE WHEN outcome = 'success' THEN 1 ELSE 0 END),
		COALESCE(AVG(CASE WHEN outcome = 'success' THEN node_count END), 0.0),
		COALESCE(AVG(CASE WHEN outcome = 'success' THEN edge_count END), 0.0),
		CAST(AVG(latency_ms) AS INTEGER)
		FROM generation_events GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query generation stats: %w", err)
	}
	defer rows.Close()

	var out []CategoryStats
	for rows.Next() {
		var c CategoryStats
		if err := rows.Scan(&c.Category, &c.Generations, &c.Successes, &c.AvgNodes, &c.AvgEdges, &c.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan generation stats: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
