package main

import (
	"fmt"

	"github.com/1F47E/psf-grid/pkg/grid"
	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/1F47E/psf-grid/pkg/pointfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// gridFlags are the generator parameters shared by generate and globe.
// A flag only overrides the config when it is set on the command line.
type gridFlags struct {
	distance float64
	sigmaH   float64
	sigmaV   float64
	output   string
}

func (f *gridFlags) register(cmd *cobra.Command) {
	def := grid.DefaultConfig()
	cmd.Flags().Float64Var(&f.distance, "distance", def.Distance, "Target point spacing in km")
	cmd.Flags().Float64Var(&f.sigmaH, "sigma-h", def.SigmaH, "Horizontal width of each perturbation in km")
	cmd.Flags().Float64Var(&f.sigmaV, "sigma-v", def.SigmaV, "Vertical width of each perturbation in km")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output point file")
}

func (f *gridFlags) apply(cmd *cobra.Command, cfg *grid.Config) {
	flags := cmd.Flags()
	if flags.Changed("distance") {
		cfg.Distance = f.distance
	}
	if flags.Changed("sigma-h") {
		cfg.SigmaH = f.sigmaH
	}
	if flags.Changed("sigma-v") {
		cfg.SigmaV = f.sigmaV
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		flags gridFlags
		depth float64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the grid for a single depth",
		Long: `Lay out latitude rings on the shell at the given depth, fill each ring with an
even number of points at the target spacing and write the point file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags.apply(cmd, &cfg)
			if cmd.Flags().Changed("depth") {
				cfg.Depth = depth
			}
			if err := cfg.ValidateShell(); err != nil {
				return err
			}

			layout, err := grid.NewGenerator(a.logger).PointsAtDepth(cfg.Depth, cfg.Distance, cfg.SigmaH, cfg.SigmaV)
			if err != nil {
				return err
			}

			output := cfg.Output
			if output == "" {
				output = grid.SingleOutputName(cfg.Depth, cfg.Distance)
			}
			return a.writePoints(cmd, output, layout.Points)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64VarP(&depth, "depth", "d", grid.DefaultConfig().Depth, "Depth of the shell in km")
	return cmd
}

func newGlobeCmd(a *app) *cobra.Command {
	var (
		flags          gridFlags
		referenceDepth float64
		depths         []float64
	)

	cmd := &cobra.Command{
		Use:   "globe",
		Short: "Replicate one shell layout over several depths",
		Long: `Generate the layout at the reference depth and copy it to every target depth,
flipping all signs on every other layer so neighbouring layers are opposite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags.apply(cmd, &cfg)
			if cmd.Flags().Changed("reference-depth") {
				cfg.ReferenceDepth = referenceDepth
			}
			if cmd.Flags().Changed("depths") {
				cfg.Depths = depths
			}

			points, err := grid.NewGenerator(a.logger).Globe(cfg)
			if err != nil {
				return err
			}

			output := cfg.Output
			if output == "" {
				output = grid.GlobeOutputName
			}
			return a.writePoints(cmd, output, points)
		},
	}

	def := grid.DefaultConfig()
	flags.register(cmd)
	cmd.Flags().Float64Var(&referenceDepth, "reference-depth", def.ReferenceDepth, "Depth whose layout is replicated, km")
	cmd.Flags().Float64SliceVar(&depths, "depths", def.Depths, "Target depths in km")
	return cmd
}

func (a *app) writePoints(cmd *cobra.Command, output string, points []models.Point) error {
	if err := pointfile.WriteFile(output, points); err != nil {
		return err
	}
	a.logger.Info("wrote point file", zap.String("file", output), zap.Int("points", len(points)))
	fmt.Fprintf(cmd.OutOrStdout(), "%d points written to %s\n", len(points), output)
	return nil
}
