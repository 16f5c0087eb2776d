package editor

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagramiz/internal/ui/components"
	"github.com/abhisek/diagramiz/internal/ui/layout"
	"github.com/abhisek/diagramiz/internal/ui/theme"
)

const (
	propertiesWidth        = 36
	propertiesWidthCompact = 28
)

func (s *EditorScreen) View(width, height int) string {
	sess := s.ed.Session()

	var bottom []string
	if sess.ShowPrompt || s.mode == modePrompt {
		bottom = append(bottom, s.viewPrompt(width))
	}
	if s.mode == modeTitle {
		bottom = append(bottom, s.viewTitleInput(width))
	}
	bottom = append(bottom, s.viewStatus(width))
	footer := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	mainHeight := max(3, height-lipgloss.Height(footer))

	if s.mode == modeConfirm && sess.Confirm != nil {
		dialog := s.viewConfirm()
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.Place(width, mainHeight, lipgloss.Center, lipgloss.Center, dialog),
			footer,
		)
	}

	fields := fieldsFor(s.ed)
	canvasWidth := width
	var side string
	if sess.ShowProperties && len(fields) > 0 {
		pw := propertiesWidth
		if layout.IsCompactWidth(width) {
			pw = propertiesWidthCompact
		}
		side = s.viewProperties(fields, pw, mainHeight)
		canvasWidth = width - lipgloss.Width(side)
	}

	main := s.viewCanvas(canvasWidth, mainHeight)
	if side != "" {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, side)
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, footer)
}

func (s *EditorScreen) viewCanvas(width, height int) string {
	style := theme.Panel
	if s.mode == modeCanvas {
		style = theme.PanelFocused
	}
	// Border plus horizontal padding.
	cols := max(1, width-4)
	rows := max(1, height-2)

	scene := s.ed.Scene()
	var body string
	if len(scene.Nodes) == 0 {
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Empty canvas. Press r, c, d or a to add a shape, or g to describe one."))
	} else {
		sw, sh := s.ed.Canvas().Size()
		body = renderMinimap(scene, s.ed.Canvas().Viewport(), sw, sh, cols, rows)
	}
	return style.Width(width).Height(height).Render(body)
}

func (s *EditorScreen) viewProperties(fields []field, width, height int) string {
	style := theme.Panel
	if s.mode == modeProperties || s.mode == modeEditField {
		style = theme.PanelFocused
	}
	inner := width - 4

	var b strings.Builder
	id := s.ed.Session().SelectedID
	b.WriteString(theme.PanelTitle.Render(layout.Truncate(s.ed.DisplayName(id), inner)))
	b.WriteString("\n\n")

	m := s.menu
	m.SetItems(truncateItems(menuItems(s.ed, fields), inner))
	b.WriteString(m.View(s.mode == modeProperties))

	if s.mode == modeEditField && s.editing < len(fields) {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fields[s.editing].label))
		b.WriteString("\n")
		b.WriteString(s.input.View())
	}
	return style.Width(width).Height(height).Render(b.String())
}

// truncateItems keeps long values, such as labels, inside the panel.
func truncateItems(items []components.MenuItem, width int) []components.MenuItem {
	labelWidth := 0
	for _, it := range items {
		labelWidth = max(labelWidth, lipgloss.Width(it.Label))
	}
	room := width - labelWidth - 4
	for i := range items {
		items[i].Value = layout.Truncate(items[i].Value, max(1, room))
	}
	return items
}

func (s *EditorScreen) viewPrompt(width int) string {
	sess := s.ed.Session()
	category := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(sess.Category.String())

	var body string
	if s.mode == modePrompt {
		body = category + "  " + s.prompt.View()
	} else {
		hint := "press g to describe a diagram"
		if sess.Prompt != "" {
			hint = layout.Truncate(sess.Prompt, max(10, width-30))
		}
		body = category + "  " + theme.Hint.Render(hint)
	}

	style := theme.Panel
	if s.mode == modePrompt {
		style = theme.PanelFocused
	}
	return style.Width(width).Render(body)
}

func (s *EditorScreen) viewTitleInput(width int) string {
	return theme.PanelFocused.Width(width).Render(theme.PanelTitle.Render("Title") + "  " + s.title.View())
}

func (s *EditorScreen) viewStatus(width int) string {
	sess := s.ed.Session()
	var line string
	switch {
	case sess.Generating:
		line = theme.Busy.Render(spinnerFrames[s.frame%len(spinnerFrames)] + " Generating diagram…")
	case sess.Exporting:
		line = theme.Busy.Render(spinnerFrames[s.frame%len(spinnerFrames)] + " Exporting PNG…")
	case sess.Error != "":
		line = theme.Alert.Render(sess.Error)
	case sess.Notice != "":
		line = theme.Notice.Render(sess.Notice)
	case sess.SelectedID != "":
		line = theme.Hint.Render("Selected: " + s.ed.DisplayName(sess.SelectedID))
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 2).MaxHeight(1).Render(line)
}

func (s *EditorScreen) viewConfirm() string {
	c := s.ed.Session().Confirm
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Alert.Render(c.Title),
		"",
		theme.Body.Render(c.Message),
		"",
		s.confirm.View(),
	)
	return theme.Dialog.Render(body)
}
