// Package export writes rasterized diagrams to PNG files.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/image/draw"

	"github.com/abhisek/diagramiz/internal/metrics"
)

// Format is a raster output format.
type Format string

// FormatPNG is the only supported format.
const FormatPNG Format = "png"

// ErrUnsupportedFormat is returned for any format other than PNG.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "png" in any case, with or without a leading dot.
// JPG and every other format are rejected.
func ParseFormat(s string) (Format, error) {
	f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch f {
	case "png", "":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return "", fmt.Errorf("%w: JPG download is not supported, use PNG", ErrUnsupportedFormat)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ExportError wraps a failure in one export stage.
type ExportError struct {
	Op  string // "rasterize", "encode" or "write"
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Rasterizer produces the image to export.
type Rasterizer interface {
	Rasterize(ctx context.Context) (*image.RGBA, error)
}

// Options configures a Service.
type Options struct {
	// Dir is where exported files are written. Empty means the working
	// directory.
	Dir string
	// MaxWidth downscales wider images. Zero keeps the raster size.
	MaxWidth int
}

// Service encodes rasters and writes them to disk.
type Service struct {
	opts   Options
	logger *slog.Logger
}

// NewService creates an export service.
func NewService(opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{opts: opts, logger: logger}
}

// Encode rasterizes r and writes the PNG to w.
func (s *Service) Encode(ctx context.Context, r Rasterizer, w io.Writer) error {
	img, err := r.Rasterize(ctx)
	if err != nil {
		return &ExportError{Op: "rasterize", Err: err}
	}
	if err := png.Encode(w, s.fit(img)); err != nil {
		return &ExportError{Op: "encode", Err: err}
	}
	return nil
}

// Export writes "<title>.png" into the output directory and returns the
// path of the new file.
func (s *Service) Export(ctx context.Context, r Rasterizer, title string) (string, error) {
	path, err := s.export(ctx, r, title)
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.logger.Warn("export failed", "title", title, "error", err)
		return "", err
	}
	metrics.Exports.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("exported diagram", "path", path)
	return path, nil
}

func (s *Service) export(ctx context.Context, r Rasterizer, title string) (string, error) {
	var buf bytes.Buffer
	if err := s.Encode(ctx, r, &buf); err != nil {
		return "", err
	}

	dir := s.opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ExportError{Op: "write", Err: err}
	}
	path := filepath.Join(dir, FileName(title))

	tmp, err := os.CreateTemp(dir, ".export-*.png")
	if err != nil {
		return "", &ExportError{Op: "write", Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return "", &ExportError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &ExportError{Op: "write", Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", &ExportError{Op: "write", Err: err}
	}
	return path, nil
}

func (s *Service) fit(img *image.RGBA) image.Image {
	b := img.Bounds()
	if s.opts.MaxWidth <= 0 || b.Dx() <= s.opts.MaxWidth {
		return img
	}
	h := b.Dy() * s.opts.MaxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.opts.MaxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// FileName turns a title into "<title>.png". Path separators and control
// characters are replaced; an empty title becomes "diagram".
func FileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "diagram"
	}
	return name + "." + string(FormatPNG)
}
