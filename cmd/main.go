package main

import (
	"fmt"
	"os"

	"github.com/1F47E/psf-grid/pkg/grid"
	"github.com/1F47E/psf-grid/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand.
type app struct {
	configFile string
	verbose    bool

	cfg    grid.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: grid.DefaultConfig(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "psfgrid",
		Short: "Point spread function test grids on spherical shells",
		Long: `Generate regularly spaced test locations on spherical shells inside the Earth,
replicate them over depth with alternating signs, and plot or inspect the result.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newGlobeCmd(a),
		newPlotCmd(a),
		newSpacingCmd(a),
		newNeighborsCmd(a),
		newExportCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	logCfg, err := logger.Load()
	if err != nil {
		return fmt.Errorf("failed to read logger config: %w", err)
	}
	if a.verbose {
		logCfg.Level = "debug"
	}
	if a.logger, err = logger.NewWithConfig(logCfg); err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if a.configFile != "" {
		cfg, err := grid.LoadConfig(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger.Debug("loaded config", zap.String("file", a.configFile))
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
