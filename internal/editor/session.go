package editor

import (
	"github.com/google/uuid"

	"github.com/abhisek/diagramiz/internal/aigraph"
)

// DefaultTitle is the title of a new diagram.
const DefaultTitle = "AI Generated Diagram"

// ConfirmPrompt asks the user before a destructive action.
type ConfirmPrompt struct {
	// Title is the dialog heading, e.g. "Delete Node".
	Title string

	// Message names the element, e.g. `Are you sure you want to delete "Start"?`.
	Message string

	// TargetID is the element the action applies to.
	TargetID string
}

// Session is the UI state of one mounted editor. It is owned by the
// editor goroutine and never read by background work.
type Session struct {
	// ID identifies the session in the event log.
	ID string

	// SelectedID is the selected node or edge, empty when nothing is.
	SelectedID string

	// ShowProperties controls the properties panel.
	ShowProperties bool

	// ShowPrompt controls the AI prompt panel.
	ShowPrompt bool

	// Title is painted above the diagram and names exported files.
	Title string

	// Category is the diagram kind requested from the model.
	Category aigraph.Category

	// Prompt is the last description submitted for generation.
	Prompt string

	// Generating is true while an AI request is in flight.
	Generating bool

	// Exporting is true while a PNG is being written.
	Exporting bool

	// Error is the last user-facing failure, cleared by the next attempt.
	Error string

	// Notice is the last informational message, such as the export path.
	Notice string

	// Confirm is the pending confirmation dialog, if any.
	Confirm *ConfirmPrompt

	generation int64
	epoch      int64
}

// NewSession returns a fresh session with the default title and category.
func NewSession() *Session {
	return &Session{
		ID:             uuid.NewString(),
		ShowProperties: true,
		ShowPrompt:     true,
		Title:          DefaultTitle,
		Category:       aigraph.DefaultCategory,
	}
}

// Generation is the id of the most recent generation request.
func (s *Session) Generation() int64 { return s.generation }

// Epoch changes every time the editor is reset.
func (s *Session) Epoch() int64 { return s.epoch }

// Busy reports whether an async operation is pending.
func (s *Session) Busy() bool { return s.Generating || s.Exporting }
