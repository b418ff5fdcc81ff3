package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	fctio "github.com/matzehuels/fct/pkg/io"
	"github.com/matzehuels/fct/pkg/pipeline"
	"github.com/matzehuels/fct/pkg/render"
)

type visualiseOpts struct {
	formats    string
	output     string
	size       int
	title      string
	m          int
	monochrome bool
	noCache    bool
}

func (c *CLI) visualiseCommand() *cobra.Command {
	var opts visualiseOpts

	cmd := &cobra.Command{
		Use:     "visualise <points.txt>",
		Aliases: []string{"visualize"},
		Short:   "Draw a point file as an image",
		Long: `Draw a point file produced by 'generate' as a scatter plot.

The image is written next to the input with the extension replaced,
e.g. FractalTree_4000.txt becomes FractalTree_4000.png. With -m the
points are binned first, which enables the heatmap and ascii formats.`,
		Example: `  fct visualise FractalTree_4000.txt
  fct visualise FractalTree_4000.txt -f png,svg --size 1200 --title "Fractal tree"
  fct visualise SierpinskiTriangle_2500.txt -m 40 -f heatmap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualise(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), svg, heatmap, ascii (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVar(&opts.size, "size", 0, fmt.Sprintf("image width and height in pixels (default %d)", pipeline.DefaultSize))
	cmd.Flags().StringVar(&opts.title, "title", "", "caption drawn in the corner")
	cmd.Flags().IntVarP(&opts.m, "bins", "m", 0, "bin the points into an m×m histogram first")
	cmd.Flags().BoolVar(&opts.monochrome, "mono", false, "draw all points in one colour")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runVisualise(ctx context.Context, input string, v *visualiseOpts) error {
	logger := loggerFromContext(ctx)

	points, err := fctio.LoadPoints(input)
	if err != nil {
		return fmt.Errorf("load points %s: %w", input, err)
	}
	logger.Debug("loaded points", "path", input, "count", len(points))

	cfg, err := c.config()
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Formats:    parseFormats(v.formats, pipeline.FormatPNG),
		Size:       v.size,
		Title:      v.title,
		M:          v.m,
		Monochrome: v.monochrome || cfg.Render.Monochrome,
		Logger:     c.Logger,
	}
	if opts.Size == 0 {
		opts.Size = cfg.Render.Size
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, v.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res := &pipeline.Result{Steps: render.StepsFromPoints(points)}
	if opts.M != 0 {
		if res.Histogram, err = runner.Discretise(ctx, points, opts.M); err != nil {
			return fmt.Errorf("discretise: %w", err)
		}
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Drawing %d points...", len(points)))
	spinner.Start()

	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		spinner.StopWithError("Visualisation failed")
		return fmt.Errorf("visualise: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, basePath(v.output, input), v.output, opts.M)
	if err != nil {
		return err
	}

	printSuccess("Visualised %s", input)
	stats := runStats{points: len(points), cached: hit}
	if res.Histogram != nil {
		stats.m, stats.occupied = res.Histogram.M, res.Histogram.Occupied()
	}
	printStats(stats)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

