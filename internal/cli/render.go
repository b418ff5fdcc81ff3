package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	fctio "github.com/matzehuels/fct/pkg/io"
	"github.com/matzehuels/fct/pkg/pipeline"
)

type renderOpts struct {
	generateOpts
	formats    string
	size       int
	title      string
	m          int
	monochrome bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [kind]",
		Short: "Generate, bin and draw a fractal in one step",
		Long: `Run the whole pipeline: generate the points, optionally bin them into an
m×m histogram, and write every requested format.

Seeded runs are cached per stage, so repeating a render with the same
seed and a new format only draws the new image.

Formats:
  png, svg   scatter plot of the points
  heatmap    histogram heatmap (PNG, needs -m)
  ascii      X/space art of the histogram (needs -m)
  txt        the point list
  grid       the histogram counts (needs -m)`,
		Example: `  fct render tree
  fct render triangle --seed 7 -m 40 -f png,heatmap,ascii
  fct render tree -f svg -o out/tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := c.resolveKind(args)
			if err != nil || kind == "" {
				return err
			}
			return c.runRender(cmd.Context(), kind, &opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated (default png)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default <Name>_<count>)")
	cmd.Flags().IntVar(&opts.size, "size", 0, fmt.Sprintf("image width and height in pixels (default %d)", pipeline.DefaultSize))
	cmd.Flags().StringVar(&opts.title, "title", "", "caption drawn in the corner")
	cmd.Flags().IntVarP(&opts.m, "bins", "m", 0, "bins per axis for the histogram")
	cmd.Flags().BoolVar(&opts.monochrome, "mono", false, "draw all points in one colour")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, kind string, r *renderOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	opts := r.pipelineOptions(kind, cfg)
	opts.Formats = parseFormats(r.formats, pipeline.FormatPNG)
	opts.M = r.m
	opts.Title = r.title
	opts.Monochrome = opts.Monochrome || r.monochrome
	if r.size != 0 {
		opts.Size = r.size
	}
	opts.Logger = c.Logger
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, r.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", kind))
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := basePath(r.output, fctio.PointsFileName(res.Model.Name, len(res.Steps)))
	paths, err := writeArtifacts(res.Artifacts, base, r.output, opts.M)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", res.Model.Name)
	printStats(runStats{
		points:   res.Stats.Points,
		m:        opts.M,
		occupied: res.Stats.Occupied,
		cached:   res.CacheInfo.GenerateHit && res.CacheInfo.RenderHit,
	})
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
