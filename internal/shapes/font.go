package shapes

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/abhisek/diagramiz/internal/graph"
)

var parsedFonts = sync.OnceValues(func() (map[bool]*opentype.Font, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return map[bool]*opentype.Font{false: regular, true: bold}, nil
})

type faceKey struct {
	bold bool
	size float64
}

// faceCache builds font faces on demand. Faces are not safe for concurrent
// use, so each Surface owns its cache.
type faceCache struct {
	faces map[faceKey]font.Face
}

func (c *faceCache) face(weight graph.FontWeight, px float64) (font.Face, error) {
	key := faceKey{bold: weight == graph.FontBold || weight == graph.FontBolder, size: math.Round(px*2) / 2}
	if key.size < 1 {
		key.size = 1
	}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	fonts, err := parsedFonts()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(fonts[key.bold], &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	if c.faces == nil {
		c.faces = make(map[faceKey]font.Face)
	}
	c.faces[key] = f
	return f, nil
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		f.Close()
	}
	c.faces = nil
}

// wrapText breaks s into lines no wider than max pixels. Words longer
// than max stay on a line of their own.
func wrapText(face font.Face, s string, max float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if max > 0 && fixedToFloat(font.MeasureString(face, candidate)) > max {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
