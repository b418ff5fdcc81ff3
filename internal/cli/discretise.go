package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fct/pkg/core/histogram"
	fctio "github.com/matzehuels/fct/pkg/io"
)

func (c *CLI) discretiseCommand() *cobra.Command {
	var (
		m       int
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:     "discretise <points.txt>",
		Aliases: []string{"discretize"},
		Short:   "Bin a point file into an m×m histogram",
		Long: `Bin the points of a file into an m×m grid of counts.

m must satisfy num/100 <= m < sqrt(num), where num is the number of points
in the file. The grid is written one row per line with comma-separated
counts to <input>_m<m>.txt, ready for 'fct encode'.`,
		Example: `  fct discretise FractalTree_4000.txt -m 50
  fct discretise SierpinskiTriangle_2500.txt -m 30 -o grid.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiscretise(cmd.Context(), args[0], m, output, noCache)
		},
	}

	cmd.Flags().IntVarP(&m, "bins", "m", 0, "bins per axis (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_m<m>.txt, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("bins")

	return cmd
}

func (c *CLI) runDiscretise(ctx context.Context, input string, m int, output string, noCache bool) error {
	points, err := fctio.LoadPoints(input)
	if err != nil {
		return fmt.Errorf("load points %s: %w", input, err)
	}
	if err := histogram.CheckM(len(points), m); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	h, hit, err := runner.DiscretiseWithCacheInfo(ctx, points, m)
	if err != nil {
		return fmt.Errorf("discretise: %w", err)
	}
	prog.done(fmt.Sprintf("Discretised %d points", len(points)))

	if output == "" {
		output = fctio.GridFileName(input, m)
	}
	out, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := fctio.WriteGrid(out, h); err != nil {
		out.Close()
		return fmt.Errorf("write grid: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printSuccess("Discretised %s", input)
	printStats(runStats{points: len(points), m: h.M, occupied: h.Occupied(), cached: hit})
	printFile(output)
	printNextStep("Encode", "fct encode "+output)
	return nil
}
