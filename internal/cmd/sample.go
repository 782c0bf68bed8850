package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-colorname/internal/i18n"
	"github.com/wethinkt/go-colorname/internal/palette"
	"github.com/wethinkt/go-colorname/internal/sample"
	"github.com/wethinkt/go-colorname/internal/server"
)

// sampleResult is the JSON shape of colorname sample.
type sampleResult struct {
	Sample    string                 `json:"sample"`
	RGBA      palette.RGBA           `json:"rgba"`
	Nearest   server.NearestResponse `json:"nearest"`
	Neighbors []string               `json:"neighbors"`
}

func (a *app) sampleCmd() *cobra.Command {
	var (
		region sample.Region
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "sample <image>",
		Short: "Name the average color of an image region",
		Long: `Average a square region of an image and name the result.

The region is --size pixels wide, centered on (--x, --y), and clipped to
the image. Transparent pixels are weighted by their alpha. Supported
formats: PNG, JPEG, GIF, BMP, TIFF and WebP.

Examples:
  colorname sample photo.png --x 120 --y 80
  colorname sample photo.jpg --x 120 --y 80 --size 15 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			avg, err := sample.File(args[0], region)
			if err != nil {
				return err
			}
			match, err := a.matcher.Nearest(cmd.Context(), avg)
			if err != nil {
				return err
			}
			names, err := a.matcher.Neighbors(cmd.Context(), match.Name, max(a.cfg.NeighborCount, 1))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, sampleResult{
					Sample:    avg.Hex(),
					RGBA:      avg,
					Nearest:   server.NearestResponse{Name: match.Name, Hex: match.Color.Hex(), Distance: match.Distance},
					Neighbors: names,
				})
			}

			d := newDisplay(out)
			if isTTY(out) {
				fmt.Fprintln(out, i18n.T("cli.sample.title", "Region average"))
			}
			d.Match(avg, match)
			if isTTY(out) {
				p, err := a.matcher.Palette(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, i18n.T("cli.neighbors.title", "Similar colors"))
				d.Neighbors(match.Name, names, p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&region.X, "x", 0, "region center x")
	cmd.Flags().IntVar(&region.Y, "y", 0, "region center y")
	cmd.Flags().IntVar(&region.Size, "size", 1, "region side length in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
