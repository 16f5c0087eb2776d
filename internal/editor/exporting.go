package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/diagramiz/internal/canvas"
	"github.com/abhisek/diagramiz/internal/export"
)

// ExportJob writes one frozen copy of the canvas.
type ExportJob struct {
	canvas   *canvas.Canvas
	exporter Exporter
	title    string
	epoch    int64
}

// ExportResult is the outcome of an ExportJob.
type ExportResult struct {
	Path  string
	Err   error
	epoch int64
}

// BeginExport freezes the current scene for export in the given format.
// Only PNG is supported; any other format sets Session.Error.
func (e *Editor) BeginExport(format string) (*ExportJob, error) {
	s := e.session
	if s.Exporting {
		return nil, ErrBusy
	}
	if _, err := export.ParseFormat(format); err != nil {
		s.Error = err.Error()
		return nil, err
	}
	if e.deps.Exporter == nil {
		err := errors.New("export is not configured")
		s.Error = err.Error()
		return nil, err
	}

	s.Exporting = true
	s.Error, s.Notice = "", ""
	return &ExportJob{
		canvas:   e.canvas.Freeze(),
		exporter: e.deps.Exporter,
		title:    s.Title,
		epoch:    s.epoch,
	}, nil
}

// Run rasterizes and writes the file. It is safe to run on any goroutine.
func (j *ExportJob) Run(ctx context.Context) ExportResult {
	path, err := j.exporter.Export(ctx, j.canvas, j.title)
	return ExportResult{Path: path, Err: err, epoch: j.epoch}
}

// FinishExport records the result in the session.
func (e *Editor) FinishExport(r ExportResult) error {
	s := e.session
	if r.epoch != s.epoch {
		return ErrStale
	}
	s.Exporting = false
	if r.Err != nil {
		s.Error = fmt.Sprintf("Failed to export diagram: %v", r.Err)
		e.logger.Warn("export failed", "error", r.Err)
		return r.Err
	}
	s.Notice = "Saved " + r.Path
	return nil
}

// Export runs a whole export on the calling goroutine and returns the path
// of the written file.
func (e *Editor) Export(ctx context.Context, format string) (string, error) {
	job, err := e.BeginExport(format)
	if err != nil {
		return "", err
	}
	r := job.Run(ctx)
	if err := e.FinishExport(r); err != nil {
		return "", err
	}
	return r.Path, nil
}
