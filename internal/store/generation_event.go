package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GenerationEventData records one AI diagram generation and how it ended.
type GenerationEventData struct {
	SessionID    string
	GenerationID int64
	Category     string
	Prompt       string
	Outcome      string // success, invalid, failure or stale
	NodeCount    int
	EdgeCount    int
	LatencyMs    int64
	ErrorMessage string
	// Graph is the applied diagram as JSON; empty unless the outcome is success.
	Graph string
}

// GenerationEvent is a stored generation event.
type GenerationEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

const generationColumns = `id, sequence, timestamp, session_id, generation_id, category, prompt,
	outcome, node_count, edge_count, latency_ms, error_message, graph`

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO generation_events
		(sequence, timestamp, session_id, generation_id, category, prompt, outcome,
		 node_count, edge_count, latency_ms, error_message, graph)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC(), data.SessionID, data.GenerationID, data.Category,
		data.Prompt, data.Outcome, data.NodeCount, data.EdgeCount, data.LatencyMs,
		data.ErrorMessage, data.Graph,
	)
	if err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error) {
	opts.Purpose = ""
	clause, args := opts.where()
	rows, err := r.db.QueryContext(ctx, "SELECT "+generationColumns+" FROM generation_events"+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var out []GenerationEvent
	for rows.Next() {
		e, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) LatestGeneration(ctx context.Context) (*GenerationEvent, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+generationColumns+" FROM generation_events ORDER BY sequence DESC LIMIT 1")
	e, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *eventRepo) PruneGenerations(ctx context.Context, keep int) error {
	if keep < 0 {
		return fmt.Errorf("prune generations: keep must be >= 0, got %d", keep)
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM generation_events WHERE sequence NOT IN
		(SELECT sequence FROM generation_events ORDER BY sequence DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("prune generations: %w", err)
	}
	return nil
}

func scanGeneration(s scanner) (*GenerationEvent, error) {
	var e GenerationEvent
	err := s.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.GenerationID,
		&e.Category, &e.Prompt, &e.Outcome, &e.NodeCount, &e.EdgeCount, &e.LatencyMs,
		&e.ErrorMessage, &e.Graph)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan generation event: %w", err)
	}
	return &e, nil
}
