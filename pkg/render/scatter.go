package render

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/fct/pkg/core/ifs"
)

// ScatterPNG draws steps as dots and returns the PNG encoding.
func ScatterPNG(steps []ifs.Step, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	f := newFrame(steps, o.size)

	dc := gg.NewContext(o.size, o.size)
	dc.SetColor(colorBackground)
	dc.Clear()

	for _, s := range steps {
		x, y := f.project(s.Point)
		dc.SetColor(pointColor(s.Map, o.monochrome))
		dc.DrawCircle(x, y, o.radius)
		dc.Fill()
	}
	drawTitle(dc, o.title)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ScatterSVG draws steps as circles and returns the SVG document.
func ScatterSVG(steps []ifs.Step, opts ...Option) []byte {
	var buf bytes.Buffer
	WriteScatterSVG(&buf, steps, opts...)
	return buf.Bytes()
}

// WriteScatterSVG streams the SVG document to w.
func WriteScatterSVG(w io.Writer, steps []ifs.Step, opts ...Option) {
	o := newOptions(opts)
	f := newFrame(steps, o.size)

	canvas := svg.New(w)
	canvas.Start(o.size, o.size)
	canvas.Rect(0, 0, o.size, o.size, "fill:"+hex(colorBackground))

	r := max(1, int(o.radius+0.5))
	canvas.Gstyle("stroke:none")
	for _, s := range steps {
		x, y := f.project(s.Point)
		canvas.Circle(int(x+0.5), int(y+0.5), r, "fill:"+hex(pointColor(s.Map, o.monochrome)))
	}
	canvas.Gend()

	if o.title != "" {
		canvas.Text(10, 20, o.title, "font-family:monospace;font-size:14px;fill:"+hex(colorInk))
	}
	canvas.End()
}

func drawTitle(dc *gg.Context, title string) {
	if title == "" {
		return
	}
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorInk)
	dc.DrawStringAnchored(title, 10, 10, 0, 1)
}
