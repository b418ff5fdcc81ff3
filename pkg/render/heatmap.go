package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/fct/pkg/core/histogram"
)

// HeatmapPNG shades each histogram cell by its count on a log scale and
// returns the PNG encoding. X-bins run left to right, y-bins bottom to top.
func HeatmapPNG(h *histogram.Histogram, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	dc := gg.NewContext(o.size, o.size)
	dc.SetColor(colorBackground)
	dc.Clear()

	if h.M > 0 {
		cell := float64(o.size) / float64(h.M)
		peak := math.Log1p(float64(h.Max()))
		for i, row := range h.Counts {
			for j, c := range row {
				if c == 0 {
					continue
				}
				dc.SetColor(shade(math.Log1p(float64(c)) / peak))
				dc.DrawRectangle(float64(i)*cell, float64(o.size)-float64(j+1)*cell, cell, cell)
				dc.Fill()
			}
		}
	}
	drawTitle(dc, o.title)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// shade blends from the first palette colour to the ink colour as t goes
// from 0 to 1.
func shade(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	lo, hi := mapColors[0], colorInk
	mix := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{mix(lo.R, hi.R), mix(lo.G, hi.G), mix(lo.B, hi.B), 0xff}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
