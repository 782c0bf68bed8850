package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-colorname/internal/i18n"
	"github.com/wethinkt/go-colorname/internal/palette"
	"github.com/wethinkt/go-colorname/internal/server"
)

// parseColorArgs joins args so "0.1, 0.2, 0.3" works unquoted.
func parseColorArgs(args []string) (palette.RGBA, error) {
	return palette.ParseColor(strings.Join(args, ""))
}

func (a *app) nameCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "name <color>",
		Short: "Print the nearest palette name for a color",
		Long: `Print the name of the palette color closest to <color>.

<color> is a hex value (#rrggbb or rrggbb) or red, green and blue
components in [0,1] separated by commas, with optional alpha. Alpha
never affects the match.

Examples:
  colorname name '#40e0d1'
  colorname name 0.25,0.88,0.82
  colorname name 0.25, 0.88, 0.82, 0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, err := parseColorArgs(args)
			if err != nil {
				return err
			}
			match, err := a.matcher.Nearest(cmd.Context(), sample)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), server.NearestResponse{
					Name:     match.Name,
					Hex:      match.Color.Hex(),
					Distance: match.Distance,
				})
			}
			newDisplay(cmd.OutOrStdout()).Match(sample, match)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (a *app) colorCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "color <name>",
		Short: "Print the stored color for a palette name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			c, ok, err := a.matcher.ColorForName(cmd.Context(), name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf(i18n.T("cli.color.unknown", "unknown color name %q"), name)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), server.ColorResponse{Name: name, Hex: c.Hex(), RGBA: c})
			}
			newDisplay(cmd.OutOrStdout()).Color(name, c)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (a *app) neighborsCmd() *cobra.Command {
	var (
		asJSON bool
		count  int
	)
	cmd := &cobra.Command{
		Use:   "neighbors <name>",
		Short: "List the names around a color in palette order",
		Long: `List the palette names centered on <name>.

The window spans count/2 entries on each side of <name>, clipped to the
palette, so -n 4 prints up to five names and -n 1 prints just <name>.
Without -n the neighbor_count config value is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !cmd.Flags().Changed("count") {
				count = a.cfg.NeighborCount
			}
			names, err := a.matcher.Neighbors(cmd.Context(), name, count)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf(i18n.T("cli.neighbors.unknown", "no color named %q in the palette"), name)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), server.NeighborsResponse{Name: name, Count: count, Neighbors: names})
			}
			p, err := a.matcher.Palette(cmd.Context())
			if err != nil {
				return err
			}
			newDisplay(cmd.OutOrStdout()).Neighbors(name, names, p)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "window size (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of palette rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.matcher.Count(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isTTY(out) {
				fmt.Fprintln(out, i18n.Tn("cli.count", "{{.Count}} color", "{{.Count}} colors", n))
				return nil
			}
			fmt.Fprintln(out, n)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every palette color in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.matcher.Palette(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				entries := p.Entries()
				colors := make([]server.ColorInfo, len(entries))
				for i, e := range entries {
					colors[i] = server.ColorInfo{Name: e.Name, Hex: e.Color.Hex()}
				}
				return printJSON(cmd.OutOrStdout(), colors)
			}
			newDisplay(cmd.OutOrStdout()).List(p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
