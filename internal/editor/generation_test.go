package editor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagramiz/internal/aigraph"
	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/llm"
	"github.com/abhisek/diagramiz/internal/metrics"
	"github.com/abhisek/diagramiz/internal/store"
)

const approvalFlow = `{
  "nodes": [
    {"id": "submit", "position": {"x": 100, "y": 100}, "type": "rectangle",
     "data": {"label": "Submit request", "color": "#a7f3d0"}},
    {"id": "review", "position": {"x": 300, "y": 200}, "type": "diamond",
     "data": {"label": "Manager review", "color": "#fde68a"}},
    {"id": "done", "position": {"x": 500, "y": 300}, "type": "circle",
     "data": {"label": "Approved", "color": "lightgreen"}}
  ],
  "edges": [
    {"id": "e1", "source": "submit", "target": "review", "animated": true,
     "markerEnd": {"type": "arrowclosed", "color": "#333"}},
    {"id": "e2", "source": "review", "target": "done", "animated": true, "label": "yes",
     "markerEnd": {"type": "arrowclosed", "color": "#333"}}
  ]
}`

type recorder struct {
	events []store.GenerationEventData
	err    error
}

func (r *recorder) AppendGeneration(_ context.Context, data store.GenerationEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func reply(content string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(content)}
}

func newGeneratingEditor(t *testing.T, rec *recorder, responses ...llm.MockResponse) (*Editor, *llm.MockProvider) {
	t.Helper()
	p := llm.NewMockProvider(responses...)
	deps := Deps{Generator: aigraph.New(p, aigraph.DefaultConfig(), nil)}
	if rec != nil {
		deps.Recorder = rec
	}
	return newEditor(t, deps), p
}

func nodeIDs(s *graph.Store) []string {
	var ids []string
	for _, n := range s.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestGenerateReplacesDiagram(t *testing.T) {
	rec := &recorder{}
	e, p := newGeneratingEditor(t, rec, reply(approvalFlow))
	manual := mustAdd(t, e, graph.ShapeRectangle)

	err := e.Generate(context.Background(), aigraph.Input{
		Prompt:   "three-step approval flow",
		Category: aigraph.CategoryFlowChart,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"submit", "review", "done"}, nodeIDs(e.Store()))
	_, edges := e.Store().Len()
	assert.Equal(t, 2, edges)
	_, ok := e.Store().Node(manual.ID)
	assert.False(t, ok, "manual nodes are cleared")

	s := e.Session()
	assert.False(t, s.Generating)
	assert.Empty(t, s.Error)
	assert.Equal(t, "three-step approval flow", s.Prompt)
	assert.Equal(t, int64(1), s.Generation())

	req, ok := p.LastRequest()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, "Generate a Flow Chart diagram.")

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, metrics.OutcomeSuccess, ev.Outcome)
	assert.Equal(t, s.ID, ev.SessionID)
	assert.Equal(t, "Flow Chart", ev.Category)
	assert.Equal(t, 3, ev.NodeCount)
	assert.Equal(t, 2, ev.EdgeCount)
	assert.Contains(t, ev.Graph, "Manager review")
}

func TestGenerateUsesSessionCategory(t *testing.T) {
	e, p := newGeneratingEditor(t, nil, reply(approvalFlow))
	e.SetCategory(aigraph.CategoryMindMap)

	require.NoError(t, e.Generate(context.Background(), aigraph.Input{Prompt: "photosynthesis"}))
	req, _ := p.LastRequest()
	assert.Contains(t, req.Messages[0].Content, "Generate a Mind Map diagram.")
}

func TestGenerateIsUndoable(t *testing.T) {
	e, _ := newGeneratingEditor(t, nil, reply(approvalFlow))
	manual := mustAdd(t, e, graph.ShapeCircle)
	require.NoError(t, e.Generate(context.Background(), aigraph.Input{Prompt: "approval"}))

	require.True(t, e.Undo())
	nodes, _ := e.Store().Len()
	assert.Zero(t, nodes, "first undo restores the cleared canvas")

	require.True(t, e.Undo())
	_, ok := e.Store().Node(manual.ID)
	assert.True(t, ok)
}

func TestGenerateRejectsInvalidReplyAtomically(t *testing.T) {
	rec := &recorder{}
	e, _ := newGeneratingEditor(t, rec, reply(`{"nodes": []}`))
	mustAdd(t, e, graph.ShapeRectangle)

	err := e.Generate(context.Background(), aigraph.Input{Prompt: "anything"})
	var verr *aigraph.ValidationError
	require.ErrorAs(t, err, &verr)

	nodes, edges := e.Store().Len()
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
	assert.Equal(t, "Invalid diagram structure received from AI. Please try a different prompt.", e.Session().Error)
	assert.False(t, e.Session().Generating)

	require.Len(t, rec.events, 1)
	assert.Equal(t, metrics.OutcomeInvalid, rec.events[0].Outcome)
	assert.NotEmpty(t, rec.events[0].ErrorMessage)
	assert.Empty(t, rec.events[0].Graph)
}

func TestGenerateProviderFailure(t *testing.T) {
	rec := &recorder{}
	e, _ := newGeneratingEditor(t, rec, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}})

	err := e.Generate(context.Background(), aigraph.Input{Prompt: "water cycle"})
	var nerr *aigraph.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Contains(t, e.Session().Error, "Failed to generate diagram")
	assert.Contains(t, e.Session().Error, "connection refused")
	require.Len(t, rec.events, 1)
	assert.Equal(t, metrics.OutcomeFailure, rec.events[0].Outcome)
}

func TestGenerateFailureIsNotResubmitted(t *testing.T) {
	p := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}},
		reply(approvalFlow),
	)
	provider := llm.Decorate(p, llm.DefaultConfig(), nil, nil)
	e := newEditor(t, Deps{Generator: aigraph.New(provider, aigraph.DefaultConfig(), nil)})
	mustAdd(t, e, graph.ShapeRectangle)

	err := e.Generate(context.Background(), aigraph.Input{Prompt: "water cycle", Category: aigraph.CategoryFlowChart})
	var nerr *aigraph.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Contains(t, e.Session().Error, "Failed to generate diagram")
	assert.Equal(t, 1, p.CallCount())

	nodes, edges := e.Store().Len()
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
}

func TestEmptyPromptKeepsDiagram(t *testing.T) {
	e, p := newGeneratingEditor(t, nil)
	n := mustAdd(t, e, graph.ShapeRectangle)

	err := e.Generate(context.Background(), aigraph.Input{Prompt: "   "})
	assert.ErrorIs(t, err, aigraph.ErrEmptyPrompt)
	assert.Equal(t, "Please describe the diagram you want to generate.", e.Session().Error)
	assert.Zero(t, p.CallCount())
	_, ok := e.Store().Node(n.ID)
	assert.True(t, ok)
}

func TestGenerateWithoutGenerator(t *testing.T) {
	e := newEditor(t, Deps{})
	err := e.Generate(context.Background(), aigraph.Input{Prompt: "x"})
	require.Error(t, err)
	assert.NotEmpty(t, e.Session().Error)
	assert.False(t, e.Session().Generating)
}

func TestBeginGenerationWhileBusy(t *testing.T) {
	e, _ := newGeneratingEditor(t, nil, reply(approvalFlow))
	tk, err := e.BeginGeneration(aigraph.Input{Prompt: "first"})
	require.NoError(t, err)
	assert.True(t, e.Session().Busy())

	_, err = e.BeginGeneration(aigraph.Input{Prompt: "second"})
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, e.ApplyGeneration(RunGeneration(context.Background(), tk)))
	assert.False(t, e.Session().Busy())
}

func TestStaleOutcomeIsDropped(t *testing.T) {
	rec := &recorder{}
	e, _ := newGeneratingEditor(t, rec, reply(approvalFlow))
	tk, err := e.BeginGeneration(aigraph.Input{Prompt: "approval"})
	require.NoError(t, err)
	o := RunGeneration(context.Background(), tk)

	old := o
	old.Ticket.ID--
	assert.ErrorIs(t, e.ApplyGeneration(old), ErrStale)
	assert.True(t, e.Session().Generating, "stale outcome leaves the request pending")
	nodes, _ := e.Store().Len()
	assert.Zero(t, nodes)

	require.NoError(t, e.ApplyGeneration(o))
	require.Len(t, rec.events, 2)
	assert.Equal(t, metrics.OutcomeStale, rec.events[0].Outcome)
	assert.Equal(t, metrics.OutcomeSuccess, rec.events[1].Outcome)
}

func TestOutcomeAfterResetIsDropped(t *testing.T) {
	e, _ := newGeneratingEditor(t, nil, reply(approvalFlow))
	tk, err := e.BeginGeneration(aigraph.Input{Prompt: "approval"})
	require.NoError(t, err)

	e.Reset()
	assert.ErrorIs(t, e.ApplyGeneration(RunGeneration(context.Background(), tk)), ErrStale)
	nodes, _ := e.Store().Len()
	assert.Zero(t, nodes)
	assert.False(t, e.Session().Generating)
}

func TestRecorderFailureDoesNotFailGeneration(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	e, _ := newGeneratingEditor(t, rec, reply(approvalFlow))
	require.NoError(t, e.Generate(context.Background(), aigraph.Input{Prompt: "approval"}))
	assert.Len(t, rec.events, 1)
}
