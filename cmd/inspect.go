package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/1F47E/psf-grid/pkg/pointfile"
	"github.com/1F47E/psf-grid/pkg/rtree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadIndex reads a point file and indexes every depth layer.
func (a *app) loadIndex(filename string) (*rtree.GeoIndex, error) {
	points, err := pointfile.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	index := rtree.NewGeoIndex()
	if err := index.IndexPoints(points); err != nil {
		return nil, err
	}
	a.logger.Debug("indexed points",
		zap.Int64("points", index.Count()),
		zap.Int("layers", len(index.Depths())),
		zap.Duration("elapsed", time.Since(start)))
	return index, nil
}

func newSpacingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spacing <file>",
		Short: "Report nearest-neighbour spacing per depth",
		Long: `Index a point file and print, for every depth layer, the minimum, maximum,
mean and standard deviation of the distance from each point to its closest neighbour.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := a.loadIndex(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%10s%8s%10s%10s%10s%10s\n", "depth(km)", "points", "min", "max", "mean", "std")
			for _, s := range index.Spacing() {
				fmt.Fprintf(out, "%10.1f%8d%10.1f%10.1f%10.1f%10.1f\n", s.Depth, s.Points, s.Min, s.Max, s.Mean, s.StdDev)
			}
			return nil
		},
	}
}

func newNeighborsCmd(a *app) *cobra.Command {
	var (
		lat, lon float64
		depth    float64
		count    int
		radius   float64
	)

	cmd := &cobra.Command{
		Use:   "neighbors <file>",
		Short: "List the points closest to a location",
		Long: `Index a point file and list the points of one depth layer closest to a
location, or every point within --radius km of it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := a.loadIndex(args[0])
			if err != nil {
				return err
			}

			depths := index.Depths()
			if len(depths) == 0 {
				return fmt.Errorf("no points in %s", args[0])
			}
			if !cmd.Flags().Changed("depth") {
				depth = depths[0]
			}

			if !slices.Contains(depths, depth) {
				return fmt.Errorf("no points at depth %v km", depth)
			}

			center := models.Location{Lat: lat, Lon: lon}
			var results []rtree.Neighbor
			if radius > 0 {
				results, err = index.QueryRadius(center, depth, radius)
				if err != nil {
					return err
				}
			} else {
				results = index.NearestNeighbors(center, depth, count)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%12s%12s%12s%6s%14s\n", "latitude", "longitude", "depth(km)", "sign", "distance(km)")
			for _, nb := range results {
				fmt.Fprintf(out, "%12.2f%12.2f%12.2f%6d%14.1f\n", nb.Latitude, nb.Longitude, nb.Depth, nb.Sign, nb.DistanceKm)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the query location")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude of the query location")
	cmd.Flags().Float64VarP(&depth, "depth", "d", 0, "Depth layer in km (default: shallowest in the file)")
	cmd.Flags().IntVarP(&count, "neighbors", "n", 6, "Number of nearest neighbours")
	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "Search radius in km, overrides --neighbors")
	return cmd
}
