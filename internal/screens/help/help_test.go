package help

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/diagramiz/internal/router"
)

func TestViewListsEveryBinding(t *testing.T) {
	for _, width := range []int{80, 120} {
		view := New().View(width, 40)
		for _, g := range Groups {
			for _, b := range g.Bindings {
				if !strings.Contains(view, b.Description) {
					t.Errorf("width %d: missing %q", width, b.Description)
				}
			}
		}
	}
}

func TestQuestionMarkPops(t *testing.T) {
	_, cmd := New().Update(tea.KeyPressMsg{Code: '?', Text: "?"})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	if _, cmd := New().Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd != nil {
		t.Error("expected no command")
	}
}
