// Package help lists the editor key bindings.
package help

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagramiz/internal/router"
	"github.com/abhisek/diagramiz/internal/screen"
	"github.com/abhisek/diagramiz/internal/ui/layout"
	"github.com/abhisek/diagramiz/internal/ui/theme"
)

// Group is a titled set of key bindings.
type Group struct {
	Title    string
	Bindings []layout.KeyHint
}

// Groups is every binding of the editor screen.
var Groups = []Group{
	{Title: "Shapes", Bindings: []layout.KeyHint{
		{Key: "r", Description: "Add rectangle"},
		{Key: "c", Description: "Add circle"},
		{Key: "d", Description: "Add diamond"},
		{Key: "a", Description: "Add arrow"},
		{Key: "n", Description: "Add connected pair"},
		{Key: "o", Description: "Connect from selection, then to target"},
	}},
	{Title: "Selection", Bindings: []layout.KeyHint{
		{Key: "Tab / Shift+Tab", Description: "Next / previous element"},
		{Key: "Esc", Description: "Clear selection"},
		{Key: "←↑↓→", Description: "Move selected node"},
		{Key: "x", Description: "Delete selected (asks first)"},
		{Key: "[ / ]", Description: "Send to back / bring to front"},
		{Key: "Enter", Description: "Edit properties"},
	}},
	{Title: "Canvas", Bindings: []layout.KeyHint{
		{Key: "Ctrl+Z / Ctrl+Y", Description: "Undo / redo"},
		{Key: "f", Description: "Fit view"},
		{Key: "l", Description: "Apply layout"},
		{Key: "+ / -", Description: "Zoom"},
		{Key: "X", Description: "Clear diagram"},
		{Key: "p", Description: "Toggle properties panel"},
	}},
	{Title: "AI and export", Bindings: []layout.KeyHint{
		{Key: "g", Description: "Describe a diagram to generate"},
		{Key: "Tab", Description: "Change category while typing"},
		{Key: "t", Description: "Rename diagram"},
		{Key: "e", Description: "Export PNG"},
	}},
}

// HelpScreen shows Groups.
type HelpScreen struct{}

var _ screen.Screen = (*HelpScreen)(nil)
var _ screen.KeyHintProvider = (*HelpScreen)(nil)

// New creates a HelpScreen.
func New() *HelpScreen { return &HelpScreen{} }

func (h *HelpScreen) Init() tea.Cmd { return nil }

func (h *HelpScreen) Title() string { return "Keys" }

func (h *HelpScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc / ?", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HelpScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "?", "q":
			return h, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return h, nil
}

func (h *HelpScreen) View(width, height int) string {
	keyWidth := 0
	for _, g := range Groups {
		for _, b := range g.Bindings {
			keyWidth = max(keyWidth, lipgloss.Width(b.Key))
		}
	}
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(keyWidth + 2)

	var cols []string
	for _, g := range Groups {
		var b strings.Builder
		b.WriteString(theme.PanelTitle.Render(g.Title))
		b.WriteString("\n")
		for _, kb := range g.Bindings {
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(kb.Description))
			b.WriteString("\n")
		}
		cols = append(cols, b.String())
	}

	var content string
	if layout.IsCompactWidth(width) {
		content = strings.Join(cols, "\n")
	} else {
		left := lipgloss.JoinVertical(lipgloss.Left, cols[0], cols[1])
		right := lipgloss.JoinVertical(lipgloss.Left, cols[2], cols[3])
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
