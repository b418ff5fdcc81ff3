package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fct/pkg/core/histogram"
	"github.com/matzehuels/fct/pkg/core/ifs"
	fctio "github.com/matzehuels/fct/pkg/io"
	"github.com/matzehuels/fct/pkg/render"
)

// Render encodes steps and h in every requested format. Formats are
// rendered concurrently; h may be nil when no format needs it.
func Render(ctx context.Context, steps []ifs.Step, h *histogram.Histogram, opts Options) (map[string][]byte, error) {
	if h != nil && opts.M == 0 {
		opts.M = h.M
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	outs := make([][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(format, steps, h, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			outs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for i, format := range opts.Formats {
		artifacts[format] = outs[i]
	}
	return artifacts, nil
}

func renderFormat(format string, steps []ifs.Step, h *histogram.Histogram, opts Options) ([]byte, error) {
	if needsHistogram(format) && h == nil {
		return nil, fmt.Errorf("no histogram to render")
	}

	ropts := []render.Option{render.WithSize(opts.Size), render.WithTitle(opts.Title)}
	if opts.Monochrome {
		ropts = append(ropts, render.WithMonochrome())
	}

	switch format {
	case FormatPNG:
		return render.ScatterPNG(steps, ropts...)
	case FormatSVG:
		return render.ScatterSVG(steps, ropts...), nil
	case FormatHeatmap:
		return render.HeatmapPNG(h, ropts...)
	case FormatASCII:
		return []byte(render.ASCII(h)), nil
	case FormatPoints:
		var buf bytes.Buffer
		if err := fctio.WritePoints(&buf, ifs.Points(steps)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatGrid:
		var buf bytes.Buffer
		if err := fctio.WriteGrid(&buf, h); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ValidateFormat(format)
	}
}
