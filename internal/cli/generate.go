package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fct/pkg/config"
	"github.com/matzehuels/fct/pkg/core/ifs"
	fctio "github.com/matzehuels/fct/pkg/io"
	"github.com/matzehuels/fct/pkg/pipeline"
)

// generateOpts holds the flags shared by generate and render.
type generateOpts struct {
	count   int
	startX  float64
	startY  float64
	seed    uint64
	output  string
	noCache bool
}

func (o *generateOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.count, "count", "n", 0, fmt.Sprintf("number of points (default %d, or points.count from config)", pipeline.DefaultCount))
	cmd.Flags().Float64Var(&o.startX, "start-x", 0, "x coordinate of the starting point")
	cmd.Flags().Float64Var(&o.startY, "start-y", 0, "y coordinate of the starting point")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "random seed; seeded runs are reproducible and cached (0 = random)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
}

// pipelineOptions merges flags over config defaults.
func (o *generateOpts) pipelineOptions(kind string, cfg *config.Config) pipeline.Options {
	opts := pipeline.Options{
		Kind:       kind,
		Count:      o.count,
		StartX:     o.startX,
		StartY:     o.startY,
		Seed:       o.seed,
		Bounds:     cfg.Bounds(),
		Size:       cfg.Render.Size,
		Monochrome: cfg.Render.Monochrome,
	}
	if opts.Count == 0 {
		opts.Count = cfg.Points.Count
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Points.Seed
	}
	return opts
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [kind]",
		Short: "Generate a fractal point cloud",
		Long: `Generate a point cloud for a fractal by iterating its function system.

The points are written one "x,y" pair per line to <Name>_<count>.txt,
e.g. FractalTree_4000.txt. Without a kind, an interactive picker is shown
when running in a terminal; otherwise the tree is used.

Run 'fct list' to see the available kinds.`,
		Example: `  fct generate tree
  fct generate triangle -n 2500 --seed 42
  fct generate fern -o fern.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := c.resolveKind(args)
			if err != nil || kind == "" {
				return err
			}
			return c.runGenerate(cmd.Context(), kind, &opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <Name>_<count>.txt, - for stdout)")

	return cmd
}

// resolveKind returns the kind argument, the picker's choice, or the default.
// An empty kind with a nil error means the user left the picker.
func (c *CLI) resolveKind(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !interactive() {
		return pipeline.DefaultKind, nil
	}
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return "", err
	}
	kind, err := pickKind(reg.Models())
	if err == nil && kind == "" {
		printWarning("No fractal selected")
	}
	return kind, err
}

func (c *CLI) runGenerate(ctx context.Context, kind string, g *generateOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, g.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := g.pipelineOptions(kind, cfg)
	opts.Logger = c.Logger

	model, err := runner.Registry.Lookup(kind)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Generating %s...", model.Name))
	spinner.Start()

	steps, hit, err := runner.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()

	path := g.output
	if path == "" {
		path = fctio.PointsFileName(model.Name, len(steps))
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := fctio.WritePoints(out, ifs.Points(steps)); err != nil {
		out.Close()
		return fmt.Errorf("write points: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	if path == "-" {
		return nil
	}

	printSuccess("Generated %s", model.Name)
	printStats(runStats{points: len(steps), cached: hit})
	printFile(path)
	printNextStep("Visualise", "fct visualise "+path)
	return nil
}
