package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagramiz/internal/canvas"
	"github.com/abhisek/diagramiz/internal/graph"
)

type fakeRaster struct {
	img *image.RGBA
	err error
}

func (f fakeRaster) Rasterize(context.Context) (*image.RGBA, error) { return f.img, f.err }

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"png", "PNG", ".png", ""} {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, FormatPNG, f)
	}
	for _, in := range []string{"jpg", "JPEG", "svg", "gif"} {
		_, err := ParseFormat(in)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, in)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"AI Generated Diagram", "AI Generated Diagram.png"},
		{"", "diagram.png"},
		{"   ", "diagram.png"},
		{"a/b\\c", "a_b_c.png"},
		{"..", "diagram.png"},
		{"Photosynthesis: flow", "Photosynthesis_ flow.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.title), tt.title)
	}
}

func TestExport_WritesPNG(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(Options{Dir: dir}, nil)
	bg := color.RGBA{15, 23, 42, 255}

	path, err := svc.Export(context.Background(), fakeRaster{img: solid(8, 6, bg)}, "My Diagram")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My Diagram.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	r, g, b, a := img.At(3, 3).RGBA()
	assert.Equal(t, [4]uint32{15 * 0x101, 23 * 0x101, 42 * 0x101, 0xffff}, [4]uint32{r, g, b, a})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestExport_RasterizeError(t *testing.T) {
	svc := NewService(Options{Dir: t.TempDir()}, nil)
	_, err := svc.Export(context.Background(), fakeRaster{err: canvas.ErrSurfaceNotReady}, "x")

	var ee *ExportError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "rasterize", ee.Op)
	assert.ErrorIs(t, err, canvas.ErrSurfaceNotReady)
}

func TestEncode_Downscales(t *testing.T) {
	svc := NewService(Options{MaxWidth: 50}, nil)
	var buf bytes.Buffer
	require.NoError(t, svc.Encode(context.Background(), fakeRaster{img: solid(200, 100, color.RGBA{255, 255, 255, 255})}, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 25), img.Bounds())
}

func TestExport_FromCanvas(t *testing.T) {
	scene := canvas.Scene{Nodes: []graph.Node{{
		ID:   "a",
		Type: graph.ShapeCircle,
		Data: graph.DefaultData(graph.ShapeCircle),
	}}}
	c := canvas.New(canvas.StaticScene(scene), canvas.Options{Width: 120, Height: 90})
	c.FitView()

	svc := NewService(Options{Dir: t.TempDir()}, nil)
	path, err := svc.Export(context.Background(), c, "")
	require.NoError(t, err)
	assert.Equal(t, "diagram.png", filepath.Base(path))
}
