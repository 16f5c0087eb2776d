package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/diagramiz/internal/aigraph"
	"github.com/abhisek/diagramiz/internal/canvas"
	ed "github.com/abhisek/diagramiz/internal/editor"
	"github.com/abhisek/diagramiz/internal/export"
	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/llm"
	"github.com/abhisek/diagramiz/internal/router"
)

const twoStepFlow = `{
  "nodes": [
    {"id": "a", "position": {"x": 100, "y": 100}, "type": "rectangle", "data": {"label": "Evaporation", "color": "#bae6fd"}},
    {"id": "b", "position": {"x": 100, "y": 300}, "type": "circle", "data": {"label": "Condensation", "color": "#e0f2fe"}},
    {"id": "c", "position": {"x": 300, "y": 300}, "type": "diamond", "data": {"label": "Rain?", "color": "#fde68a"}}
  ],
  "edges": [
    {"id": "e1", "source": "a", "target": "b", "animated": true},
    {"id": "e2", "source": "b", "target": "c", "animated": true}
  ]
}`

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testScreen(t *testing.T, responses ...llm.MockResponse) *EditorScreen {
	t.Helper()
	n := 0
	e := ed.New(ed.Deps{
		Canvas:    canvas.Options{Width: 640, Height: 480, Padding: 20, Background: "#0F172A"},
		Generator: aigraph.New(llm.NewMockProvider(responses...), aigraph.DefaultConfig(), nil),
		Exporter:  export.NewService(export.Options{Dir: t.TempDir()}, nil),
		Title:     "Water Cycle",
		IDGenerator: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	return New(context.Background(), e)
}

func send(s *EditorScreen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

// collect runs cmd and returns every message it produces, skipping
// spinner ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if _, ok := msg.(spinnerTickMsg); ok {
		return nil
	}
	return []tea.Msg{msg}
}

func TestEditorScreen_Title(t *testing.T) {
	s := testScreen(t)
	if s.Title() != "Water Cycle" {
		t.Errorf("expected title 'Water Cycle', got %q", s.Title())
	}
}

func TestEditorScreen_AddShapes(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), keyPress('c'), keyPress('d'), keyPress('a'))

	nodes, _ := s.ed.Store().Len()
	if nodes != 4 {
		t.Fatalf("expected 4 nodes, got %d", nodes)
	}
	if got := s.ed.Session().SelectedID; got != "id-4" {
		t.Errorf("expected last added shape selected, got %q", got)
	}
	if !strings.Contains(s.Status(), "4 nodes") {
		t.Errorf("expected status to count nodes, got %q", s.Status())
	}
}

func TestEditorScreen_TabCyclesSelection(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), keyPress('c'), specialKey(tea.KeyEscape))
	if s.ed.Session().SelectedID != "" {
		t.Fatal("expected esc to clear the selection")
	}

	send(s, specialKey(tea.KeyTab))
	if got := s.ed.Session().SelectedID; got != "id-1" {
		t.Errorf("expected id-1 after tab, got %q", got)
	}
	send(s, specialKey(tea.KeyTab))
	if got := s.ed.Session().SelectedID; got != "id-2" {
		t.Errorf("expected id-2 after second tab, got %q", got)
	}
}

func TestEditorScreen_DeleteAsksFirst(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('d'), keyPress('x'))

	if s.mode != modeConfirm {
		t.Fatalf("expected confirm mode, got %d", s.mode)
	}
	view := s.View(120, 40)
	if !strings.Contains(view, `Are you sure you want to delete "New Diamond"?`) {
		t.Errorf("expected confirm message in view:\n%s", view)
	}

	send(s, keyPress('n'))
	if nodes, _ := s.ed.Store().Len(); nodes != 1 {
		t.Fatalf("expected cancel to keep the node, got %d nodes", nodes)
	}

	send(s, keyPress('x'), keyPress('y'))
	if nodes, _ := s.ed.Store().Len(); nodes != 0 {
		t.Errorf("expected node deleted, got %d nodes", nodes)
	}
	if s.mode != modeCanvas {
		t.Errorf("expected canvas mode after confirm, got %d", s.mode)
	}
}

func TestEditorScreen_ConfirmButton(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), keyPress('x'))

	msgs := collect(send(s, specialKey(tea.KeyEnter)))
	if len(msgs) != 1 {
		t.Fatalf("expected one message from the Delete button, got %d", len(msgs))
	}
	send(s, msgs[0])
	if nodes, _ := s.ed.Store().Len(); nodes != 0 {
		t.Errorf("expected node deleted, got %d nodes", nodes)
	}
}

func TestEditorScreen_UndoRedo(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), keyPress('c'))

	send(s, ctrlKey('z'))
	if nodes, _ := s.ed.Store().Len(); nodes != 1 {
		t.Fatalf("expected 1 node after undo, got %d", nodes)
	}
	send(s, ctrlKey('y'))
	if nodes, _ := s.ed.Store().Len(); nodes != 2 {
		t.Errorf("expected 2 nodes after redo, got %d", nodes)
	}
}

func TestEditorScreen_ConnectGesture(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), keyPress('c'))

	// id-2 is selected; start there and finish on id-1.
	send(s, keyPress('o'))
	if s.connectFrom != "id-2" {
		t.Fatalf("expected connect source id-2, got %q", s.connectFrom)
	}
	send(s, specialKey(tea.KeyTab), keyPress('o'))

	if _, edges := s.ed.Store().Len(); edges != 1 {
		t.Fatalf("expected 1 edge, got %d", edges)
	}
	if s.connectFrom != "" {
		t.Error("expected connect gesture to finish")
	}

	send(s, keyPress('o'), keyPress('o'))
	if s.ed.Session().Error != "A node cannot be connected to itself." {
		t.Errorf("unexpected error %q", s.ed.Session().Error)
	}
}

func TestEditorScreen_ArrowKeysMoveOrPan(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), specialKey(tea.KeyRight), specialKey(tea.KeyDown))

	n, _ := s.ed.SelectedNode()
	want := graph.Position{X: graph.DefaultPosition.X + moveStep, Y: graph.DefaultPosition.Y + moveStep}
	if n.Position != want {
		t.Errorf("expected node at %+v, got %+v", want, n.Position)
	}

	send(s, specialKey(tea.KeyEscape), specialKey(tea.KeyLeft))
	if got := s.ed.Canvas().Viewport(); got.X != panStep {
		t.Errorf("expected pan to X=%d, got %+v", panStep, got)
	}
}

func TestEditorScreen_Generate(t *testing.T) {
	s := testScreen(t, llm.MockResponse{Content: json.RawMessage(twoStepFlow)})
	send(s, keyPress('r'), keyPress('g'))
	if s.mode != modePrompt {
		t.Fatalf("expected prompt mode, got %d", s.mode)
	}

	s.prompt.SetValue("water cycle for grade 5")
	cmd := send(s, specialKey(tea.KeyEnter))
	if !s.ed.Session().Generating {
		t.Fatal("expected generation to be pending")
	}
	if !strings.Contains(s.View(120, 40), "Generating diagram") {
		t.Error("expected spinner text while generating")
	}

	var done bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(generationDoneMsg); ok {
			send(s, msg)
			done = true
		}
	}
	if !done {
		t.Fatal("expected a generationDoneMsg")
	}

	nodes, edges := s.ed.Store().Len()
	if nodes != 3 || edges != 2 {
		t.Errorf("expected 3 nodes and 2 edges, got %d and %d", nodes, edges)
	}
	if s.ed.Session().Generating {
		t.Error("expected generation to finish")
	}
	if s.ed.Session().Prompt != "water cycle for grade 5" {
		t.Errorf("unexpected prompt %q", s.ed.Session().Prompt)
	}
}

func TestEditorScreen_EmptyPrompt(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('g'), specialKey(tea.KeyEnter))

	if s.ed.Session().Error != "Please describe the diagram you want to generate." {
		t.Errorf("unexpected error %q", s.ed.Session().Error)
	}
	if s.mode != modePrompt {
		t.Errorf("expected to stay in prompt mode, got %d", s.mode)
	}
}

func TestEditorScreen_PromptTabCyclesCategory(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('g'), specialKey(tea.KeyTab))

	if got := s.ed.Session().Category; got != aigraph.DefaultCategory.Next() {
		t.Errorf("expected %q, got %q", aigraph.DefaultCategory.Next(), got)
	}
}

func TestEditorScreen_Export(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'))

	var done bool
	for _, msg := range collect(send(s, keyPress('e'))) {
		if _, ok := msg.(exportDoneMsg); ok {
			send(s, msg)
			done = true
		}
	}
	if !done {
		t.Fatal("expected an exportDoneMsg")
	}

	notice := s.ed.Session().Notice
	if !strings.HasPrefix(notice, "Saved ") || filepath.Base(notice) != "Water Cycle.png" {
		t.Errorf("unexpected notice %q", notice)
	}
}

func TestEditorScreen_EditTitle(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('t'))
	if s.mode != modeTitle {
		t.Fatalf("expected title mode, got %d", s.mode)
	}
	s.title.SetValue("Rock Cycle")
	send(s, specialKey(tea.KeyEnter))

	if s.Title() != "Rock Cycle" {
		t.Errorf("expected title 'Rock Cycle', got %q", s.Title())
	}
}

func TestEditorScreen_EditLabel(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), specialKey(tea.KeyEnter))
	if s.mode != modeProperties {
		t.Fatalf("expected properties mode, got %d", s.mode)
	}

	send(s, specialKey(tea.KeyEnter))
	if s.mode != modeEditField {
		t.Fatalf("expected edit mode, got %d", s.mode)
	}
	if s.input.Value() != "New Rectangle" {
		t.Errorf("expected input prefilled with label, got %q", s.input.Value())
	}

	s.input.SetValue("Evaporation")
	send(s, specialKey(tea.KeyEnter))

	n, _ := s.ed.SelectedNode()
	if n.Data.Label != "Evaporation" {
		t.Errorf("expected label 'Evaporation', got %q", n.Data.Label)
	}
	if s.mode != modeProperties {
		t.Errorf("expected back in properties mode, got %d", s.mode)
	}
	if !strings.Contains(s.View(120, 40), "Evaporation") {
		t.Error("expected new label in view")
	}
}

func TestEditorScreen_RejectsBadNumber(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), specialKey(tea.KeyEnter))

	// Label, Fill, Text color, Border, Font weight, Font size, Width.
	for range 6 {
		send(s, specialKey(tea.KeyDown))
	}
	send(s, specialKey(tea.KeyEnter))
	if s.fields[s.editing].label != "Width" {
		t.Fatalf("expected to edit Width, got %q", s.fields[s.editing].label)
	}

	s.input.SetValue("-5")
	send(s, specialKey(tea.KeyEnter))
	if s.mode != modeEditField {
		t.Error("expected to stay in edit mode on a rejected value")
	}
	n, _ := s.ed.SelectedNode()
	if n.Data.Width != 150 {
		t.Errorf("expected width unchanged, got %v", n.Data.Width)
	}
}

func TestEditorScreen_CycleFontWeight(t *testing.T) {
	s := testScreen(t)
	send(s, keyPress('r'), specialKey(tea.KeyEnter))
	for range 4 {
		send(s, specialKey(tea.KeyDown))
	}
	send(s, specialKey(tea.KeyEnter))

	n, _ := s.ed.SelectedNode()
	if n.Data.FontWeight != graph.FontBold {
		t.Errorf("expected bold, got %q", n.Data.FontWeight)
	}
	if s.mode != modeProperties {
		t.Errorf("expected properties mode, got %d", s.mode)
	}
}

func TestEditorScreen_HelpPushesScreen(t *testing.T) {
	s := testScreen(t)
	msgs := collect(send(s, keyPress('?')))
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if _, ok := msgs[0].(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", msgs[0])
	}
}

func TestEditorScreen_StaleGenerationIgnored(t *testing.T) {
	s := testScreen(t, llm.MockResponse{Content: json.RawMessage(twoStepFlow)})
	send(s, keyPress('g'))
	s.prompt.SetValue("water cycle")
	cmd := send(s, specialKey(tea.KeyEnter))

	s.ed.Reset()
	for _, msg := range collect(cmd) {
		send(s, msg)
	}
	if nodes, _ := s.ed.Store().Len(); nodes != 0 {
		t.Errorf("expected stale result dropped, got %d nodes", nodes)
	}
}

func TestEditorScreen_EmptyCanvasHint(t *testing.T) {
	s := testScreen(t)
	if !strings.Contains(s.View(120, 40), "Empty canvas") {
		t.Error("expected empty canvas hint")
	}
}
