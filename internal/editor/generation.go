package editor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/abhisek/diagramiz/internal/aigraph"
	"github.com/abhisek/diagramiz/internal/metrics"
	"github.com/abhisek/diagramiz/internal/store"
)

// Ticket identifies one generation request.
type Ticket struct {
	ID        int64
	Epoch     int64
	SessionID string
	Input     aigraph.Input
	Started   time.Time

	gen Generator
}

// Outcome is the result of running a Ticket.
type Outcome struct {
	Ticket Ticket
	Result *aigraph.Result
	Err    error
}

// BeginGeneration validates the request, clears the diagram and marks the
// session as generating. The returned ticket is run with RunGeneration and
// its outcome handed back to ApplyGeneration.
func (e *Editor) BeginGeneration(in aigraph.Input) (Ticket, error) {
	s := e.session
	if s.Generating {
		return Ticket{}, ErrBusy
	}
	if in.Category == "" {
		in.Category = s.Category
	}
	if err := in.Validate(); err != nil {
		s.Error = aigraph.UserMessage(err)
		return Ticket{}, err
	}
	if e.deps.Generator == nil {
		err := errors.New("AI generation is not configured")
		s.Error = err.Error()
		return Ticket{}, err
	}

	e.Clear()
	s.Prompt = in.Prompt
	s.Category = in.Category
	s.Generating = true
	s.generation++

	e.logger.Debug("generation started", "id", s.generation, "category", in.Category)
	return Ticket{
		ID:        s.generation,
		Epoch:     s.epoch,
		SessionID: s.ID,
		Input:     in,
		Started:   time.Now(),
		gen:       e.deps.Generator,
	}, nil
}

// RunGeneration calls the generator. It reads nothing but the ticket and
// is safe to run on any goroutine.
func RunGeneration(ctx context.Context, t Ticket) Outcome {
	res, err := t.gen.Generate(ctx, t.Input)
	if err == nil && res == nil {
		err = &aigraph.ValidationError{Reason: "empty result"}
	}
	return Outcome{Ticket: t, Result: res, Err: err}
}

// ApplyGeneration installs a finished generation. Outcomes from an older
// request or from before a Reset return ErrStale and change nothing. A
// failed outcome leaves the diagram empty and sets Session.Error.
func (e *Editor) ApplyGeneration(o Outcome) error {
	s := e.session
	if o.Ticket.Epoch != s.epoch || o.Ticket.ID != s.generation {
		metrics.Generations.WithLabelValues(metrics.OutcomeStale).Inc()
		e.logger.Info("stale generation dropped", "id", o.Ticket.ID, "current", s.generation)
		e.record(o, metrics.OutcomeStale, nil)
		return ErrStale
	}
	s.Generating = false

	if o.Err != nil {
		s.Error = aigraph.UserMessage(o.Err)
		e.record(o, failureOutcome(o.Err), o.Err)
		return o.Err
	}

	g := o.Result.Graph
	if err := e.store.Replace(g.Nodes, g.Edges); err != nil {
		s.Error = aigraph.UserMessage(&aigraph.ValidationError{Reason: "graph integrity", Err: err})
		e.record(o, metrics.OutcomeInvalid, err)
		return err
	}
	s.Error = ""
	e.canvas.FitView()
	e.record(o, metrics.OutcomeSuccess, nil)
	return nil
}

// Generate runs a whole generation on the calling goroutine.
func (e *Editor) Generate(ctx context.Context, in aigraph.Input) error {
	t, err := e.BeginGeneration(in)
	if err != nil {
		return err
	}
	return e.ApplyGeneration(RunGeneration(ctx, t))
}

func failureOutcome(err error) string {
	var verr *aigraph.ValidationError
	if errors.As(err, &verr) {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeFailure
}

func (e *Editor) record(o Outcome, outcome string, err error) {
	if e.deps.Recorder == nil {
		return
	}
	data := store.GenerationEventData{
		SessionID:    o.Ticket.SessionID,
		GenerationID: o.Ticket.ID,
		Category:     string(o.Ticket.Input.Category),
		Prompt:       o.Ticket.Input.Prompt,
		Outcome:      outcome,
		LatencyMs:    time.Since(o.Ticket.Started).Milliseconds(),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	if outcome == metrics.OutcomeSuccess && o.Result != nil {
		data.NodeCount = len(o.Result.Graph.Nodes)
		data.EdgeCount = len(o.Result.Graph.Edges)
		if b, mErr := json.Marshal(o.Result.Graph); mErr == nil {
			data.Graph = string(b)
		}
	}
	if rErr := e.deps.Recorder.AppendGeneration(context.Background(), data); rErr != nil {
		e.logger.Warn("failed to record generation", "id", o.Ticket.ID, "error", rErr)
	}
}
