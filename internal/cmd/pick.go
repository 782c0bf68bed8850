package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-colorname/internal/i18n"
	"github.com/wethinkt/go-colorname/internal/tui"
)

func (a *app) pickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick [#rrggbb]",
		Short: "Pick a color interactively and see its name",
		Long: `Open an interactive color picker that names the current color as you
adjust it and shows the similar colors around that name.

Modes (tab to switch):
  Sliders  adjust red, green and blue
  Hex      type a hex value
  Palette  browse the palette in order

Enter prints the chosen color and its name; esc or q cancels.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY(os.Stdin) || !isTTY(os.Stdout) {
				return errors.New(i18n.T("cli.pick.noTTY", "the interactive picker requires a terminal"))
			}
			start := "#808080"
			if len(args) == 1 {
				c, err := parseColorArgs(args)
				if err != nil {
					return err
				}
				start = c.Hex()
			}

			p, err := a.matcher.Palette(cmd.Context())
			if err != nil {
				return err
			}
			result, err := tui.RunPicker(p, start, a.cfg.NeighborCount)
			if err != nil {
				return err
			}
			if result.Cancelled {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", result.Name, result.Hex)
			return nil
		},
	}
}
