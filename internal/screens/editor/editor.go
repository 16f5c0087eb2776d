// Package editor is the terminal front end of the diagram editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/diagramiz/internal/aigraph"
	ed "github.com/abhisek/diagramiz/internal/editor"
	"github.com/abhisek/diagramiz/internal/graph"
	"github.com/abhisek/diagramiz/internal/router"
	"github.com/abhisek/diagramiz/internal/screen"
	"github.com/abhisek/diagramiz/internal/screens/help"
	"github.com/abhisek/diagramiz/internal/ui/components"
	"github.com/abhisek/diagramiz/internal/ui/layout"
)

type mode int

const (
	modeCanvas mode = iota
	modePrompt
	modeTitle
	modeProperties
	modeEditField
	modeConfirm
)

const (
	// moveStep is how far an arrow key moves a node, in canvas units.
	moveStep = 10
	// panStep is how far an arrow key pans the empty canvas, in pixels.
	panStep = 40
	zoomStep = 1.25

	spinnerInterval = 120 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// EditorScreen implements screen.Screen for the diagram editor.
type EditorScreen struct {
	ed  *ed.Editor
	ctx context.Context

	mode    mode
	prompt  components.TextInput
	title   components.TextInput
	input   components.TextInput
	fields  []field
	menu    components.Menu
	editing int
	confirm components.ButtonRow

	connectFrom string
	frame       int
	ticking     bool
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)
var _ screen.StatusProvider = (*EditorScreen)(nil)

// New creates an EditorScreen over e. ctx bounds the AI and export work
// the screen starts.
func New(ctx context.Context, e *ed.Editor) *EditorScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	return &EditorScreen{
		ed:     e,
		ctx:    ctx,
		prompt: components.NewTextInput("Describe the diagram, e.g. water cycle for grade 5", false, 500),
	}
}

func (s *EditorScreen) Init() tea.Cmd {
	return nil
}

func (s *EditorScreen) Title() string {
	return s.ed.Session().Title
}

// Status shows the requested category and the diagram size.
func (s *EditorScreen) Status() string {
	nodes, edges := s.ed.Store().Len()
	return fmt.Sprintf("%s · %d nodes · %d edges", s.ed.Session().Category, nodes, edges)
}

func (s *EditorScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modePrompt:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate"},
			{Key: "Tab", Description: "Category"},
			{Key: "Esc", Description: "Back"},
		}
	case modeTitle, modeEditField:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeProperties:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "Enter", Description: "Edit"},
			{Key: "Esc", Description: "Back"},
		}
	case modeConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "r c d a", Description: "Shapes"},
		{Key: "g", Description: "AI"},
		{Key: "e", Description: "Export"},
		{Key: "^Z ^Y", Description: "Undo/Redo"},
		{Key: "?", Description: "Keys"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generationDoneMsg:
		return s.handleGenerationDone(msg)

	case exportDoneMsg:
		return s.handleExportDone(msg)

	case confirmMsg:
		return s.handleConfirm(msg.OK)

	case spinnerTickMsg:
		if !s.ed.Session().Busy() {
			s.ticking = false
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	// Forward everything else (cursor blink) to the focused input.
	var cmd tea.Cmd
	switch s.mode {
	case modePrompt:
		s.prompt, cmd = s.prompt.Update(msg)
	case modeTitle:
		s.title, cmd = s.title.Update(msg)
	case modeEditField:
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *EditorScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modePrompt:
		return s.handlePromptKey(msg)
	case modeTitle:
		return s.handleTitleKey(msg)
	case modeProperties:
		return s.handlePropertiesKey(msg)
	case modeEditField:
		return s.handleEditFieldKey(msg)
	case modeConfirm:
		return s.handleConfirmKey(msg)
	}
	return s.handleCanvasKey(msg)
}

func (s *EditorScreen) handleCanvasKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	sess := s.ed.Session()
	switch msg.String() {
	case "r":
		s.addShape(graph.ShapeRectangle)
	case "c":
		s.addShape(graph.ShapeCircle)
	case "d":
		s.addShape(graph.ShapeDiamond)
	case "a":
		s.addShape(graph.ShapeArrow)
	case "n":
		s.ed.AddConnectedPair()
	case "o":
		s.connect()
	case "tab":
		s.ed.CycleSelection(1)
	case "shift+tab":
		s.ed.CycleSelection(-1)
	case "esc":
		switch {
		case s.connectFrom != "":
			s.connectFrom = ""
			sess.Notice = ""
		case sess.Error != "" || sess.Notice != "":
			sess.Error, sess.Notice = "", ""
		default:
			s.ed.ClickEmpty()
		}
	case "x", "delete", "backspace":
		if id := sess.SelectedID; id != "" && s.ed.ContextClick(id) != nil {
			s.openConfirm()
		}
	case "X":
		s.ed.Clear()
		s.connectFrom = ""
	case "ctrl+z":
		s.ed.Undo()
	case "ctrl+y", "ctrl+shift+z":
		s.ed.Redo()
	case "f":
		s.ed.FitView()
	case "l":
		s.ed.ApplyLayout()
	case "+", "=":
		s.ed.Zoom(zoomStep)
	case "-":
		s.ed.Zoom(1 / zoomStep)
	case "up":
		s.nudge(0, -1)
	case "down":
		s.nudge(0, 1)
	case "left":
		s.nudge(-1, 0)
	case "right":
		s.nudge(1, 0)
	case "[":
		s.ed.ChangeLayer(ed.LayerBack)
	case "]":
		s.ed.ChangeLayer(ed.LayerFront)
	case "p":
		sess.ShowProperties = !sess.ShowProperties
	case "enter":
		if sess.SelectedID != "" {
			sess.ShowProperties = true
			s.mode = modeProperties
			s.refreshFields()
		}
	case "g", "/":
		sess.ShowPrompt = true
		s.mode = modePrompt
		return s, s.prompt.Init()
	case "t":
		s.title = components.NewTextInput("Diagram title", false, 120)
		s.title.SetValue(sess.Title)
		s.mode = modeTitle
		return s, s.title.Init()
	case "e":
		return s, s.startExport()
	case "?":
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: help.New()} }
	}
	return s, nil
}

func (s *EditorScreen) addShape(shape graph.ShapeType) {
	if _, err := s.ed.AddShape(shape); err != nil {
		s.ed.Session().Error = err.Error()
	}
}

// nudge moves the selected node, or pans the view when nothing is selected.
func (s *EditorScreen) nudge(dx, dy float64) {
	if s.ed.MoveSelected(dx*moveStep, dy*moveStep) {
		return
	}
	if _, ok := s.ed.SelectedNode(); !ok {
		s.ed.Pan(-dx*panStep, -dy*panStep)
	}
}

// connect is a two-step gesture: the first press remembers the selected
// node as the source, the second joins it to the node selected then.
func (s *EditorScreen) connect() {
	sess := s.ed.Session()
	n, ok := s.ed.SelectedNode()
	if !ok {
		sess.Error = "Select a node to connect."
		return
	}
	if s.connectFrom == "" {
		s.connectFrom = n.ID
		sess.Error = ""
		sess.Notice = fmt.Sprintf("Connecting from %q: select the target and press o.", s.ed.DisplayName(n.ID))
		return
	}

	from := s.connectFrom
	s.connectFrom = ""
	sess.Notice = ""
	if _, err := s.ed.Connect(from, n.ID); err != nil {
		sess.Error = connectMessage(err)
	}
}

func connectMessage(err error) string {
	switch {
	case errors.Is(err, graph.ErrSelfLoop):
		return "A node cannot be connected to itself."
	case errors.Is(err, graph.ErrNoPorts):
		return "Arrow shapes have no connection points."
	case errors.Is(err, graph.ErrDuplicateEdge):
		return "Those nodes are already connected."
	case errors.Is(err, graph.ErrNodeNotFound):
		return "The source node no longer exists."
	}
	return err.Error()
}

func (s *EditorScreen) openConfirm() {
	s.confirm = components.NewButtonRow(
		components.NewButton("Delete", true, func() tea.Cmd {
			return func() tea.Msg { return confirmMsg{OK: true} }
		}),
		components.NewButton("Cancel", false, func() tea.Cmd {
			return func() tea.Msg { return confirmMsg{OK: false} }
		}),
	)
	s.mode = modeConfirm
}

func (s *EditorScreen) handleConfirmKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return s.handleConfirm(true)
	case "n", "N", "esc":
		return s.handleConfirm(false)
	}
	var cmd tea.Cmd
	s.confirm, cmd = s.confirm.Update(msg)
	return s, cmd
}

func (s *EditorScreen) handleConfirm(ok bool) (screen.Screen, tea.Cmd) {
	if s.mode != modeConfirm {
		return s, nil
	}
	s.mode = modeCanvas
	if ok {
		s.ed.ConfirmDelete()
	} else {
		s.ed.CancelPrompt()
	}
	return s, nil
}

func (s *EditorScreen) handlePromptKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeCanvas
		return s, nil
	case "tab":
		s.ed.SetCategory(s.ed.Session().Category.Next())
		return s, nil
	case "enter":
		return s.startGeneration()
	}
	var cmd tea.Cmd
	s.prompt, cmd = s.prompt.Update(msg)
	return s, cmd
}

func (s *EditorScreen) startGeneration() (screen.Screen, tea.Cmd) {
	t, err := s.ed.BeginGeneration(aigraph.Input{Prompt: s.prompt.Value()})
	if err != nil {
		return s, nil
	}
	s.mode = modeCanvas
	s.connectFrom = ""
	ctx := s.ctx
	run := func() tea.Msg {
		return generationDoneMsg{Outcome: ed.RunGeneration(ctx, t)}
	}
	return s, tea.Batch(run, s.startSpinner())
}

func (s *EditorScreen) handleGenerationDone(msg generationDoneMsg) (screen.Screen, tea.Cmd) {
	// Failures are already on the session; stale outcomes are dropped.
	_ = s.ed.ApplyGeneration(msg.Outcome)
	return s, nil
}

func (s *EditorScreen) startExport() tea.Cmd {
	job, err := s.ed.BeginExport("png")
	if err != nil {
		return nil
	}
	ctx := s.ctx
	run := func() tea.Msg {
		return exportDoneMsg{Result: job.Run(ctx)}
	}
	return tea.Batch(run, s.startSpinner())
}

func (s *EditorScreen) handleExportDone(msg exportDoneMsg) (screen.Screen, tea.Cmd) {
	_ = s.ed.FinishExport(msg.Result)
	return s, nil
}

func (s *EditorScreen) handleTitleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeCanvas
		return s, nil
	case "enter":
		s.ed.SetTitle(s.title.Value())
		s.mode = modeCanvas
		return s, nil
	}
	var cmd tea.Cmd
	s.title, cmd = s.title.Update(msg)
	return s, cmd
}

func (s *EditorScreen) refreshFields() {
	s.fields = fieldsFor(s.ed)
	if len(s.fields) == 0 {
		if s.mode == modeProperties || s.mode == modeEditField {
			s.mode = modeCanvas
		}
		return
	}
	items := menuItems(s.ed, s.fields)
	if len(s.menu.Items) != len(items) || s.menu.Items[0].Label != items[0].Label {
		s.menu = components.NewMenu(items)
		return
	}
	s.menu.SetItems(items)
}

func (s *EditorScreen) handlePropertiesKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeCanvas
		return s, nil
	case "ctrl+z":
		s.ed.Undo()
		s.refreshFields()
		return s, nil
	case "ctrl+y", "ctrl+shift+z":
		s.ed.Redo()
		s.refreshFields()
		return s, nil
	case "enter", "space":
		return s.activateField()
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *EditorScreen) activateField() (screen.Screen, tea.Cmd) {
	i := s.menu.Selected
	if i < 0 || i >= len(s.fields) {
		return s, nil
	}
	f := s.fields[i]
	switch f.kind {
	case fieldChoice, fieldToggle:
		f.advance(s.ed)
		s.refreshFields()
		return s, nil
	case fieldText, fieldNumber:
		s.editing = i
		s.input = components.NewTextInput(f.label, f.kind == fieldNumber, 200)
		s.input.SetValue(f.get(s.ed))
		s.mode = modeEditField
		return s, s.input.Init()
	}
	return s, nil
}

func (s *EditorScreen) handleEditFieldKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeProperties
		return s, nil
	case "enter":
		f := s.fields[s.editing]
		if f.get(s.ed) == s.input.Value() || f.set(s.ed, s.input.Value()) {
			s.mode = modeProperties
			s.refreshFields()
			return s, nil
		}
		s.input.Submit(false)
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *EditorScreen) startSpinner() tea.Cmd {
	if s.ticking {
		return nil
	}
	s.ticking = true
	return spinnerTick()
}
