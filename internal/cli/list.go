package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the available fractal kinds",
		Long:    `List the built-in fractals and any custom [[fractals]] recipes from the config file.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}

			var rows [][]string
			for _, m := range reg.Models() {
				rows = append(rows, fractalRow(m))
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(pickerBorderStyle).
				Headers("Kind", "Name", "Maps", "Probabilities").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return pickerHeaderStyle
					}
					if col == 0 {
						return StyleNumber
					}
					return StyleValue
				})

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
