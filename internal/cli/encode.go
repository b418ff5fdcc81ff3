package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fct/pkg/errors"
	fctio "github.com/matzehuels/fct/pkg/io"
	"github.com/matzehuels/fct/pkg/render"
)

func (c *CLI) encodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode <grid.txt>",
		Short: "Turn a count grid into ASCII art",
		Long: `Replace every 0 cell of a comma-separated grid with a space and every
other cell with X, writing <input>_encoded.txt.`,
		Example: `  fct encode FractalTree_4000_m50.txt
  fct encode sample.txt -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			in, err := os.Open(input)
			if err != nil {
				return errors.Wrap(errors.ErrCodeResourceUnavailable, err, "open %s", input)
			}
			defer in.Close()

			if output == "" {
				output = fctio.EncodedFileName(input)
			}
			out, err := openOutput(output)
			if err != nil {
				return err
			}
			if err := render.EncodeASCII(in, out); err != nil {
				out.Close()
				return fmt.Errorf("encode %s: %w", input, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
			if output != "-" {
				printSuccess("Encoded %s", input)
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_encoded.txt, - for stdout)")

	return cmd
}
