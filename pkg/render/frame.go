package render

import (
	"image/color"
	"math"

	"github.com/matzehuels/fct/pkg/core/ifs"
)

const (
	defaultSize   = 800
	defaultRadius = 1.2
	marginRatio   = 0.05
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	size       int
	radius     float64
	title      string
	monochrome bool
}

func newOptions(opts []Option) options {
	o := options{size: defaultSize, radius: defaultRadius}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSize sets the width and height of the square output in pixels.
func WithSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.size = px
		}
	}
}

// WithPointRadius sets the dot radius of scatter plots in pixels.
func WithPointRadius(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.radius = r
		}
	}
}

// WithTitle draws a caption in the top-left corner.
func WithTitle(s string) Option {
	return func(o *options) { o.title = s }
}

// WithMonochrome draws every point in the ink colour.
func WithMonochrome() Option {
	return func(o *options) { o.monochrome = true }
}

var (
	colorBackground = color.RGBA{0xfa, 0xfa, 0xf7, 0xff}
	colorInk        = color.RGBA{0x22, 0x22, 0x22, 0xff}

	// mapColors is indexed by 1-based map index modulo its length.
	mapColors = []color.RGBA{
		{0x2a, 0x9d, 0x8f, 0xff},
		{0xe7, 0x6f, 0x51, 0xff},
		{0x26, 0x46, 0x53, 0xff},
		{0xe9, 0xc4, 0x6a, 0xff},
		{0x8a, 0xb1, 0x7d, 0xff},
		{0x6d, 0x59, 0x7a, 0xff},
	}
)

func pointColor(mapIndex int, mono bool) color.RGBA {
	if mono || mapIndex <= 0 {
		return colorInk
	}
	return mapColors[(mapIndex-1)%len(mapColors)]
}

// frame projects plane coordinates into a square pixel canvas.
type frame struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	size       float64
}

// newFrame fits the bounding box of steps into size×size pixels with a
// margin, centring the shorter axis.
func newFrame(steps []ifs.Step, size int) frame {
	f := frame{size: float64(size), scale: 1}
	if len(steps) == 0 {
		return f
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range steps {
		minX, maxX = math.Min(minX, s.X), math.Max(maxX, s.X)
		minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	margin := f.size * marginRatio
	f.minX, f.minY = minX, minY
	f.scale = (f.size - 2*margin) / span
	f.offX = margin + (span-(maxX-minX))*f.scale/2
	f.offY = margin + (span-(maxY-minY))*f.scale/2
	return f
}

// project returns pixel coordinates with y growing downwards.
func (f frame) project(p ifs.Point) (float64, float64) {
	x := f.offX + (p.X-f.minX)*f.scale
	y := f.size - (f.offY + (p.Y-f.minY)*f.scale)
	return x, y
}

// StepsFromPoints wraps bare points as steps with an unknown map index.
func StepsFromPoints(points []ifs.Point) []ifs.Step {
	out := make([]ifs.Step, len(points))
	for i, p := range points {
		out[i] = ifs.Step{Point: p}
	}
	return out
}
