// Package editor is the diagram editor controller. It owns the graph
// store, its undo history, the canvas and the session state, and exposes
// every user gesture as a method. All methods must be called from one
// goroutine; the only work meant for other goroutines is RunGeneration and
// ExportJob.Run, which touch nothing but their own inputs.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/abhisek/diagramiz/internal/aigraph"
	"github.com/abhisek/diagramiz/internal/canvas"
	"github.com/abhisek/diagramiz/internal/export"
	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/history"
	"github.com/abhisek/diagramiz/internal/store"
)

var (
	// ErrBusy rejects a second request while the same async operation is pending.
	ErrBusy = errors.New("operation already in progress")

	// ErrStale marks an async result that belongs to an older request or
	// to a session that has since been reset.
	ErrStale = errors.New("stale result discarded")
)

// Generator produces diagrams from prompts.
type Generator interface {
	Generate(ctx context.Context, in aigraph.Input) (*aigraph.Result, error)
}

// Exporter writes a rasterized diagram to a file.
type Exporter interface {
	Export(ctx context.Context, r export.Rasterizer, title string) (string, error)
}

// GenerationRecorder receives one audit event per AI generation.
type GenerationRecorder interface {
	AppendGeneration(ctx context.Context, data store.GenerationEventData) error
}

// Deps wires an Editor. Only Canvas is required to paint; Generator and
// Exporter may be nil when the caller never triggers those flows.
type Deps struct {
	Canvas       canvas.Options
	HistoryLimit int
	Generator    Generator
	Exporter     Exporter
	Recorder     GenerationRecorder
	Logger       *slog.Logger

	// Title overrides DefaultTitle.
	Title string

	// IDGenerator overrides the element id generator.
	IDGenerator func() string
}

// Editor is one mounted diagram editor.
type Editor struct {
	deps    Deps
	store   *graph.Store
	history *history.Manager
	canvas  *canvas.Canvas
	session *Session
	logger  *slog.Logger
}

var _ canvas.SceneSource = (*Editor)(nil)

// New mounts an editor with an empty diagram.
func New(deps Deps) *Editor {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	e := &Editor{deps: deps, logger: deps.Logger}
	e.canvas = canvas.New(e, deps.Canvas)
	e.mount(NewSession())
	return e
}

func (e *Editor) mount(s *Session) {
	var opts []graph.Option
	if e.deps.IDGenerator != nil {
		opts = append(opts, graph.WithIDGenerator(e.deps.IDGenerator))
	}
	var hopts []history.Option
	if e.deps.HistoryLimit > 0 {
		hopts = append(hopts, history.WithLimit(e.deps.HistoryLimit))
	}
	if e.deps.Title != "" {
		s.Title = e.deps.Title
	}

	e.store = graph.NewStore(opts...)
	e.history = history.New(e.store, hopts...)
	e.session = s
	e.canvas.SetViewport(canvas.IdentityViewport)
}

// Reset unmounts the current diagram and starts a fresh session. Async
// results started before the reset are discarded when they arrive.
func (e *Editor) Reset() {
	next := NewSession()
	next.epoch = e.session.epoch + 1
	e.mount(next)
	e.logger.Debug("editor reset", "session", next.ID, "epoch", next.epoch)
}

// Session returns the live session state.
func (e *Editor) Session() *Session { return e.session }

// Store returns the graph store for reads.
func (e *Editor) Store() *graph.Store { return e.store }

// History returns the undo log.
func (e *Editor) History() *history.Manager { return e.history }

// Canvas returns the canvas controller.
func (e *Editor) Canvas() *canvas.Canvas { return e.canvas }

// Scene is what the canvas paints.
func (e *Editor) Scene() canvas.Scene {
	snap := e.store.Snapshot()
	return canvas.Scene{
		Nodes:      snap.Nodes,
		Edges:      snap.Edges,
		SelectedID: e.session.SelectedID,
		Title:      e.session.Title,
	}
}

// SetTitle renames the diagram.
func (e *Editor) SetTitle(title string) {
	e.session.Title = title
}

// SetCategory picks the diagram kind for the next generation.
func (e *Editor) SetCategory(c aigraph.Category) {
	if c.Valid() {
		e.session.Category = c
	}
}

// AddShape adds a default shape and selects it.
func (e *Editor) AddShape(shape graph.ShapeType) (graph.Node, error) {
	n, err := e.store.AddNode(shape)
	if err != nil {
		return graph.Node{}, err
	}
	e.session.SelectedID = n.ID
	e.logger.Debug("shape added", "id", n.ID, "type", shape)
	return n, nil
}

// AddConnectedPair adds two joined rectangles.
func (e *Editor) AddConnectedPair() (graph.Node, graph.Node, graph.Edge) {
	a, b, edge := e.store.AddConnectedPair()
	e.logger.Debug("connected pair added", "source", a.ID, "target", b.ID)
	return a, b, edge
}

// Connect joins two nodes with a default edge.
func (e *Editor) Connect(source, target string) (graph.Edge, error) {
	edge, err := e.store.Connect(source, target)
	if err != nil {
		return graph.Edge{}, err
	}
	e.logger.Debug("nodes connected", "edge", edge.ID, "source", source, "target", target)
	return edge, nil
}

// Delete removes a node with its edges, or a single edge.
func (e *Editor) Delete(id string) bool {
	if !e.store.Delete(id) {
		return false
	}
	e.syncSelection()
	return true
}

// Clear empties the diagram and dismisses selection and errors.
func (e *Editor) Clear() {
	e.store.Clear()
	e.session.SelectedID = ""
	e.session.Confirm = nil
	e.session.Error = ""
}

// Undo steps back in history.
func (e *Editor) Undo() bool {
	ok := e.history.Undo()
	e.syncSelection()
	return ok
}

// Redo steps forward in history.
func (e *Editor) Redo() bool {
	ok := e.history.Redo()
	e.syncSelection()
	return ok
}

// Load replaces the diagram with snap as one undoable step, for example a
// graph replayed from the event log.
func (e *Editor) Load(snap graph.Snapshot) error {
	if err := e.store.Replace(snap.Nodes, snap.Edges); err != nil {
		return err
	}
	e.syncSelection()
	e.canvas.FitView()
	return nil
}

// FitView frames the whole diagram.
func (e *Editor) FitView() canvas.Viewport { return e.canvas.FitView() }

// ApplyLayout re-frames the diagram. Node positions are not changed.
func (e *Editor) ApplyLayout() canvas.Viewport { return e.canvas.ApplyLayout() }

// Zoom scales the viewport by factor, keeping the surface center fixed.
// The result is clamped to [canvas.MinZoom, canvas.MaxZoom].
func (e *Editor) Zoom(factor float64) canvas.Viewport {
	v := e.canvas.Viewport()
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return v
	}
	w, h := e.canvas.Size()
	cx, cy := float64(w)/2, float64(h)/2
	next := canvas.Viewport{Zoom: v.Zoom * factor}
	e.canvas.SetViewport(next)
	next.Zoom = e.canvas.Viewport().Zoom

	ratio := next.Zoom / v.Zoom
	next.X = cx - (cx-v.X)*ratio
	next.Y = cy - (cy-v.Y)*ratio
	e.canvas.SetViewport(next)
	return next
}

// Pan moves the viewport by dx, dy surface pixels.
func (e *Editor) Pan(dx, dy float64) canvas.Viewport {
	v := e.canvas.Viewport()
	v.X += dx
	v.Y += dy
	e.canvas.SetViewport(v)
	return v
}

// syncSelection drops a selection whose element no longer exists.
func (e *Editor) syncSelection() {
	if id := e.session.SelectedID; id != "" && !e.store.Contains(id) {
		e.session.SelectedID = ""
	}
	if c := e.session.Confirm; c != nil && !e.store.Contains(c.TargetID) {
		e.session.Confirm = nil
	}
}
