package main

import (
	"fmt"

	"github.com/1F47E/psf-grid/pkg/mapplot"
	"github.com/spf13/cobra"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		coastlines string
		outDir     string
		title      string
	)

	cmd := &cobra.Command{
		Use:   "plot <file>",
		Short: "Draw a point file on a Mollweide world map",
		Long: `Read a point file and render it as a PNG: positive points red, negative
points blue, over a graticule and optional shapefile coastlines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := mapplot.DefaultOptions()
			opts.Coastlines = coastlines
			opts.Title = title

			out, err := mapplot.PlotFile(args[0], outDir, opts, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "map saved to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&coastlines, "coastlines", "", "Shapefile with coastlines to draw under the points")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the image")
	cmd.Flags().StringVar(&title, "title", "", "Figure title")
	return cmd
}
