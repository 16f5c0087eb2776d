package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/diagramiz/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

type pingMsg struct{}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	editor := &stubScreen{title: "editor"}
	r := New(editor)

	help := &stubScreen{title: "help"}
	r.Push(help)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "help" {
		t.Errorf("expected active 'help', got %q", r.Active().Title())
	}
	if !help.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopReturnsToEditor(t *testing.T) {
	r := New(&stubScreen{title: "editor"})
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "help"}})
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "editor" {
		t.Errorf("expected active 'editor', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "editor"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	r := New(&stubScreen{title: "splash"})

	editor := &stubScreen{title: "editor"}
	r.Update(ReplaceScreenMsg{Screen: editor})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "editor" {
		t.Errorf("expected active 'editor', got %q", r.Active().Title())
	}
	if !editor.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestUpdateReachesActiveScreenOnly(t *testing.T) {
	editor := &stubScreen{title: "editor"}
	r := New(editor)
	help := &stubScreen{title: "help"}
	r.Push(help)

	r.Update(pingMsg{})
	if len(help.got) != 1 {
		t.Errorf("expected active screen to get 1 message, got %d", len(help.got))
	}
	if len(editor.got) != 0 {
		t.Errorf("expected covered screen to get nothing, got %d", len(editor.got))
	}
	if r.View(80, 24) != "help" {
		t.Errorf("expected help view, got %q", r.View(80, 24))
	}
}
