// Package pipeline runs the generate → discretise → render pipeline.
//
// The CLI and the HTTP server both drive fractals through this package so
// defaults, validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Generate: iterate an IFS model from a start point (see [ifs.Generator])
//  2. Discretise: bin the points into an m×m histogram (optional)
//  3. Render: encode the points and/or histogram in the requested formats
//
// Each stage can be run on its own or through [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Kind:    "tree",
//	    Count:   4000,
//	    Seed:    7,
//	    M:       40,
//	    Formats: []string{pipeline.FormatPNG, pipeline.FormatHeatmap},
//	})
//	png := res.Artifacts[pipeline.FormatPNG]
//
// Generated points are cached only when Seed is non-zero; an unseeded run
// is random by definition.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fct/pkg/cache"
	"github.com/matzehuels/fct/pkg/core/histogram"
	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
)

const (
	// DefaultKind is the fractal drawn when none is named.
	DefaultKind = ifs.KindTree

	// DefaultCount is the number of points generated when none is given.
	DefaultCount = 4000

	// DefaultSize is the default square image size in pixels.
	DefaultSize = 800

	// MaxSize caps rendered image sizes.
	MaxSize = 4096
)

// Output formats.
const (
	FormatPNG     = "png"     // scatter plot, PNG
	FormatSVG     = "svg"     // scatter plot, SVG
	FormatHeatmap = "heatmap" // histogram heatmap, PNG
	FormatASCII   = "ascii"   // histogram as X/space text
	FormatPoints  = "txt"     // x,y point list
	FormatGrid    = "grid"    // histogram counts, comma-separated rows
)

// ValidFormats lists every supported format in display order.
var ValidFormats = []string{FormatPNG, FormatSVG, FormatHeatmap, FormatASCII, FormatPoints, FormatGrid}

// needsHistogram reports whether a format renders the histogram rather than the points.
func needsHistogram(format string) bool {
	switch format {
	case FormatHeatmap, FormatASCII, FormatGrid:
		return true
	}
	return false
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatPNG, FormatHeatmap:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Options configures a pipeline run. It doubles as the JSON request body
// of the HTTP API.
type Options struct {
	// Generate options
	Kind    string  `json:"kind"`
	Count   int     `json:"count,omitempty"`
	StartX  float64 `json:"start_x,omitempty"`
	StartY  float64 `json:"start_y,omitempty"`
	Seed    uint64  `json:"seed,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	// Discretise options; zero skips the stage unless a format needs it.
	M int `json:"m,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Size       int      `json:"size,omitempty"`
	Title      string   `json:"title,omitempty"`
	Monochrome bool     `json:"monochrome,omitempty"`

	// Runtime options (not serialized)
	Bounds ifs.Bounds  `json:"-"`
	Source ifs.Source  `json:"-"`
	Logger *log.Logger `json:"-"`
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Model     *ifs.Model
	Steps     []ifs.Step
	Histogram *histogram.Histogram

	// PointsHash is the content hash of the generated points.
	PointsHash string

	// Artifacts maps format to encoded bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Points         int
	Occupied       int
	GenerateTime   time.Duration
	DiscretiseTime time.Duration
	RenderTime     time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	GenerateHit   bool
	DiscretiseHit bool
	RenderHit     bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetGenerateDefaults fills the kind, count, bounds and logger.
func (o *Options) SetGenerateDefaults() {
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Bounds == (ifs.Bounds{}) {
		o.Bounds = ifs.DefaultBounds
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForGenerate applies generate defaults and checks the kind and
// the point-count bounds.
func (o *Options) ValidateForGenerate() error {
	o.SetGenerateDefaults()
	if err := errors.ValidateKind(o.Kind); err != nil {
		return err
	}
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	return o.Bounds.Check(o.Count)
}

// ValidateForDiscretise checks m against the point count.
func (o *Options) ValidateForDiscretise(num int) error {
	return histogram.CheckM(num, o.M)
}

// SetRenderDefaults fills formats and size.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and checks formats and size.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateIntRange("size", o.Size, 16, MaxSize); err != nil {
		return err
	}
	if o.NeedsHistogram() && o.M == 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "formats %v need a histogram: set m", o.Formats)
	}
	return nil
}

// Validate checks the whole run. The m check happens once the point count
// is known.
func (o *Options) Validate() error {
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if o.M != 0 {
		if err := o.ValidateForDiscretise(o.Count); err != nil {
			return err
		}
	}
	return o.ValidateForRender()
}

// NeedsHistogram reports whether any requested format renders the histogram.
func (o *Options) NeedsHistogram() bool {
	return slices.ContainsFunc(o.Formats, needsHistogram)
}

// Cacheable reports whether generated points can be reused: only seeded
// runs with no injected source are deterministic.
func (o *Options) Cacheable() bool {
	return o.Seed != 0 && o.Source == nil && !o.Refresh
}

// NewSource returns the run's random source: the injected one, a seeded
// PCG, or nil for the generator's random default.
func (o *Options) NewSource() ifs.Source {
	if o.Source != nil {
		return o.Source
	}
	if o.Seed != 0 {
		return ifs.NewSource(o.Seed)
	}
	return nil
}

// PointsKeyOpts returns cache key options for generation.
func (o *Options) PointsKeyOpts() cache.PointsKeyOpts {
	return cache.PointsKeyOpts{
		Count:  o.Count,
		StartX: o.StartX,
		StartY: o.StartY,
		Seed:   o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format: format,
		Size:   o.Size,
		Title:  o.Title,
	}
	if o.Monochrome {
		opts.Format += "+mono"
	}
	return opts
}

func (o *Options) String() string {
	return fmt.Sprintf("%s n=%d seed=%d m=%d formats=%v", o.Kind, o.Count, o.Seed, o.M, o.Formats)
}
