package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagramiz/internal/router"
	"github.com/abhisek/diagramiz/internal/screen"
	"github.com/abhisek/diagramiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// flowArt is drawn one row per tick during the first phases.
var flowArt = []string{
	"╭─────────╮     ◇     ╭─────────╮",
	"│  Start  │──▶ ◇ ? ◇ ──▶│  Done   │",
	"╰─────────╯     ◇     ╰─────────╯",
}

type tickMsg time.Time

// WelcomeScreen shows a short splash and then hands over to the editor.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen made
// by next on any key press.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rows := len(flowArt)
	if w.elapsed < phase1End {
		rows = min(rows, int(w.elapsed/(phase1End/time.Duration(len(flowArt))))+1)
	}
	art := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(flowArt[:rows], "\n"))
	sections = append(sections, art)

	if w.elapsed >= phase1End {
		sections = append(sections, "", RenderBanner(width), "")
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Describe a diagram and refine it shape by shape.")
		sections = append(sections, tagline)
	}

	if w.elapsed >= phase2End {
		style := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
		if w.tickCount%10 >= 5 {
			style = style.Foreground(theme.Border)
		}
		sections = append(sections, "", style.Render("press any key to start"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
