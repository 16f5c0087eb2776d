package editor

import (
	"time"

	ed "github.com/abhisek/diagramiz/internal/editor"
)

// generationDoneMsg carries a finished AI generation back to the update loop.
type generationDoneMsg struct {
	Outcome ed.Outcome
}

// exportDoneMsg carries a finished PNG export back to the update loop.
type exportDoneMsg struct {
	Result ed.ExportResult
}

// confirmMsg is sent by the delete dialog buttons.
type confirmMsg struct {
	OK bool
}

// spinnerTickMsg animates the busy indicator.
type spinnerTickMsg time.Time
